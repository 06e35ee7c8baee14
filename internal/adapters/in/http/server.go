package http

import (
	"cmp"
	"net/http"
	"slices"
	"strings"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// Server holds the use case handlers behind the HTTP API.
type Server struct {
	tokens *TokenIssuer
	fees   ports.FeeTable

	// Command handlers
	registerUserHandler      commands.RegisterUserCommandHandler
	deleteUserHandler        commands.DeleteUserCommandHandler
	createOrderHandler       commands.CreateOrderCommandHandler
	deleteOrderHandler       commands.DeleteOrderCommandHandler
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler
	assignAgentHandler       commands.AssignAgentCommandHandler
	respondHandler           commands.RespondToAssignmentCommandHandler
	removeAgentOrdersHandler commands.RemoveAgentOrdersCommandHandler
	detachUserOrdersHandler  commands.DetachUserOrdersCommandHandler

	// Query handlers
	loginHandler             queries.LoginQueryHandler
	getOrderHandler          queries.GetOrderQueryHandler
	listOrdersHandler        queries.ListOrdersQueryHandler
	getStatsHandler          queries.GetStatsQueryHandler
	listUsersHandler         queries.ListUsersQueryHandler
	getUserHandler           queries.GetUserQueryHandler
	listNotificationsHandler queries.ListNotificationsQueryHandler
}

// Handlers groups the constructor arguments of NewServer.
type Handlers struct {
	RegisterUser      commands.RegisterUserCommandHandler
	DeleteUser        commands.DeleteUserCommandHandler
	CreateOrder       commands.CreateOrderCommandHandler
	DeleteOrder       commands.DeleteOrderCommandHandler
	ChangeOrderStatus commands.ChangeOrderStatusCommandHandler
	AssignAgent       commands.AssignAgentCommandHandler
	Respond           commands.RespondToAssignmentCommandHandler
	RemoveAgentOrders commands.RemoveAgentOrdersCommandHandler
	DetachUserOrders  commands.DetachUserOrdersCommandHandler

	Login             queries.LoginQueryHandler
	GetOrder          queries.GetOrderQueryHandler
	ListOrders        queries.ListOrdersQueryHandler
	GetStats          queries.GetStatsQueryHandler
	ListUsers         queries.ListUsersQueryHandler
	GetUser           queries.GetUserQueryHandler
	ListNotifications queries.ListNotificationsQueryHandler
}

func NewServer(tokens *TokenIssuer, fees ports.FeeTable, h Handlers) *Server {
	return &Server{
		tokens: tokens,
		fees:   fees,

		registerUserHandler:      h.RegisterUser,
		deleteUserHandler:        h.DeleteUser,
		createOrderHandler:       h.CreateOrder,
		deleteOrderHandler:       h.DeleteOrder,
		changeOrderStatusHandler: h.ChangeOrderStatus,
		assignAgentHandler:       h.AssignAgent,
		respondHandler:           h.Respond,
		removeAgentOrdersHandler: h.RemoveAgentOrders,
		detachUserOrdersHandler:  h.DetachUserOrders,

		loginHandler:             h.Login,
		getOrderHandler:          h.GetOrder,
		listOrdersHandler:        h.ListOrders,
		getStatsHandler:          h.GetStats,
		listUsersHandler:         h.ListUsers,
		getUserHandler:           h.GetUser,
		listNotificationsHandler: h.ListNotifications,
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	v1 := e.Group("/api/v1")

	v1.POST("/login", s.Login)
	v1.GET("/verify-token", s.VerifyToken)
	v1.GET("/provinces", s.GetProvinces)
	v1.POST("/users", s.RegisterUser, s.tokens.OptionalMiddleware())

	auth := v1.Group("", s.tokens.Middleware())

	auth.GET("/profile", s.GetProfile)
	auth.GET("/users", s.ListUsers)
	auth.GET("/users/:userId", s.GetUser)
	auth.DELETE("/users/:userId", s.DeleteUser)
	auth.POST("/users/:userId/detach", s.DetachUserOrders)
	auth.GET("/agents", s.ListAgents)
	auth.DELETE("/agents/:agentId/orders", s.RemoveAgentOrders)

	auth.POST("/orders", s.CreateOrder)
	auth.GET("/orders", s.ListOrders)
	auth.GET("/orders/:orderId", s.GetOrder)
	auth.DELETE("/orders/:orderId", s.DeleteOrder)
	auth.PUT("/orders/:orderId/status", s.ChangeOrderStatus)
	auth.PUT("/orders/:orderId/agent", s.AssignAgent)
	auth.POST("/orders/:orderId/response", s.RespondToAssignment)

	auth.GET("/stats", s.GetStats)
	auth.GET("/notifications", s.ListNotifications)
}

// Login handles POST /api/v1/login.
func (s *Server) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	query, err := queries.NewLoginQuery(req.Phone, req.Password)
	if err != nil {
		return err
	}

	u, err := s.loginHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	token, expiresAt, err := s.tokens.Issue(u)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt, User: toUserResponse(u)})
}

// VerifyToken handles GET /api/v1/verify-token. It never fails: an absent or
// invalid token yields valid=false.
func (s *Server) VerifyToken(c echo.Context) error {
	raw := c.Request().Header.Get(echo.HeaderAuthorization)
	raw, _ = strings.CutPrefix(raw, "Bearer ")

	actor, err := s.tokens.Parse(raw)
	if err != nil {
		return c.JSON(http.StatusOK, TokenCheckResponse{Valid: false})
	}
	return c.JSON(http.StatusOK, TokenCheckResponse{
		Valid:  true,
		UserID: actor.UserID().String(),
		Role:   actor.Role().String(),
	})
}

// GetProvinces handles GET /api/v1/provinces.
func (s *Server) GetProvinces(c echo.Context) error {
	provinces := s.fees.Provinces()

	response := make([]ProvinceResponse, 0, len(provinces))
	for name, fee := range provinces {
		response = append(response, ProvinceResponse{Name: name, Fee: fee.Int64()})
	}
	slices.SortFunc(response, func(a, b ProvinceResponse) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return c.JSON(http.StatusOK, response)
}
