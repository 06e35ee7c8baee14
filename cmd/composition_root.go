package cmd

import (
	"context"
	"fmt"
	"log/slog"

	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/notify"
	"orderflow/internal/adapters/out/passwords"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/notificationrepo"
	"orderflow/internal/adapters/out/postgres/userrepo"
	"orderflow/internal/adapters/out/pricing"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	hasher   passwords.BcryptHasher
	fees     ports.FeeTable
	inbox    ports.NotificationRepository
	notifier *notify.Dispatcher
	assigner services.DeliveryAssigner
}

// NewCompositionRoot wires the adapters. channels replaces the default notification
// channels (inbox, log and, with a token, Telegram) when given.
func NewCompositionRoot(
	configs Config,
	gormDB *gorm.DB,
	logger *slog.Logger,
	channels ...notify.Channel,
) (*CompositionRoot, error) {
	fees, err := pricing.Load(configs.ProvinceFeesFile)
	if err != nil {
		return nil, err
	}

	inbox := notificationrepo.NewGormNotificationRepository(gormDB)

	if len(channels) == 0 {
		channels, err = defaultChannels(configs, inbox, logger)
		if err != nil {
			return nil, err
		}
	}

	return &CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		hasher:     passwords.NewBcryptHasher(configs.BcryptCost),
		fees:       fees,
		inbox:      inbox,
		notifier:   notify.NewDispatcher(logger, configs.NotifyTimeout, channels...),
		assigner:   services.NewDeliveryAssigner(),
	}, nil
}

func defaultChannels(configs Config, inbox ports.NotificationRepository, logger *slog.Logger) ([]notify.Channel, error) {
	channels := []notify.Channel{notify.NewInboxChannel(inbox), notify.NewLogChannel(logger)}

	if configs.TelegramToken == "" {
		return channels, nil
	}

	bot, err := notify.NewTelegramBot(configs.TelegramToken)
	if err != nil {
		return nil, err
	}
	chats := map[user.Role]int64{
		user.Admin: configs.TelegramAdminChatID,
		user.Agent: configs.TelegramAgentChatID,
	}
	return append(channels, notify.NewTelegramChannel(bot, chats)), nil
}

// Notifier exposes the dispatcher so shutdown can wait for in-flight deliveries.
func (c *CompositionRoot) Notifier() *notify.Dispatcher {
	return c.notifier
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) userUoWFactory() commands.UserUoWFactory {
	return FuncUserUoWFactory(func() commands.UserUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateRegisterUserCommandHandler() commands.RegisterUserCommandHandler {
	return commands.NewRegisterUserCommandHandler(c.userUoWFactory(), c.hasher)
}

func (c *CompositionRoot) CreateDeleteUserCommandHandler() commands.DeleteUserCommandHandler {
	return commands.NewDeleteUserCommandHandler(c.uoWFactory())
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uoWFactory(), c.fees, c.notifier)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateAssignAgentCommandHandler() commands.AssignAgentCommandHandler {
	return commands.NewAssignAgentCommandHandler(c.uoWFactory(), c.assigner, c.notifier)
}

func (c *CompositionRoot) CreateRespondToAssignmentCommandHandler() commands.RespondToAssignmentCommandHandler {
	return commands.NewRespondToAssignmentCommandHandler(c.orderUoWFactory(), c.assigner, c.notifier)
}

func (c *CompositionRoot) CreateRemoveAgentOrdersCommandHandler() commands.RemoveAgentOrdersCommandHandler {
	return commands.NewRemoveAgentOrdersCommandHandler(c.orderUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateDetachUserOrdersCommandHandler() commands.DetachUserOrdersCommandHandler {
	return commands.NewDetachUserOrdersCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreatePurgeNotificationsCommandHandler() commands.PurgeNotificationsCommandHandler {
	return commands.NewPurgeNotificationsCommandHandler(c.inbox)
}

func (c *CompositionRoot) CreateLoginQueryHandler() queries.LoginQueryHandler {
	return queries.NewLoginQueryHandler(userrepo.NewGormUserRepository(c.gormDB), c.hasher)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStatsQueryHandler() queries.GetStatsQueryHandler {
	return queries.NewGetStatsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListUsersQueryHandler() queries.ListUsersQueryHandler {
	return queries.NewListUsersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUserQueryHandler() queries.GetUserQueryHandler {
	return queries.NewGetUserQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListNotificationsQueryHandler() queries.ListNotificationsQueryHandler {
	return queries.NewListNotificationsQueryHandler(c.inbox)
}

// CreateHTTPServer builds the echo instance serving the API.
func (c *CompositionRoot) CreateHTTPServer(ctx context.Context) (*echo.Echo, error) {
	tokens, err := httpin.NewTokenIssuer(c.configs.JWTSecret, c.configs.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	server := httpin.NewServer(tokens, c.fees, httpin.Handlers{
		RegisterUser:      c.CreateRegisterUserCommandHandler(),
		DeleteUser:        c.CreateDeleteUserCommandHandler(),
		CreateOrder:       c.CreateCreateOrderCommandHandler(),
		DeleteOrder:       c.CreateDeleteOrderCommandHandler(),
		ChangeOrderStatus: c.CreateChangeOrderStatusCommandHandler(),
		AssignAgent:       c.CreateAssignAgentCommandHandler(),
		Respond:           c.CreateRespondToAssignmentCommandHandler(),
		RemoveAgentOrders: c.CreateRemoveAgentOrdersCommandHandler(),
		DetachUserOrders:  c.CreateDetachUserOrdersCommandHandler(),

		Login:             c.CreateLoginQueryHandler(),
		GetOrder:          c.CreateGetOrderQueryHandler(),
		ListOrders:        c.CreateListOrdersQueryHandler(),
		GetStats:          c.CreateGetStatsQueryHandler(),
		ListUsers:         c.CreateListUsersQueryHandler(),
		GetUser:           c.CreateGetUserQueryHandler(),
		ListNotifications: c.CreateListNotificationsQueryHandler(),
	})

	return httpin.NewEcho(ctx, server, c.logger, c.configs.RequestTimeout)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreatePurgeNotificationsCommandHandler(),
		c.configs.NotificationRetention,
		c.configs.NotificationPurgeSchedule,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUserUoWFactory func() commands.UserUoW

func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
