package commands_test

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Find(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) BulkUpdate(
	ctx context.Context,
	filter ports.OrderFilter,
	patch ports.OrderPatch,
	now time.Time,
) (int64, error) {
	args := m.Called(ctx, filter, patch, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) DeleteWhere(ctx context.Context, filter ports.OrderFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Add(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone kernel.Phone) (*user.User, error) {
	args := m.Called(ctx, phone)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, role user.Role) ([]*user.User, error) {
	args := m.Called(ctx, role)
	users, _ := args.Get(0).([]*user.User)
	return users, args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockUoW satisfies every unit of work flavour the handlers ask for.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) UserRepository() ports.UserRepository {
	args := m.Called()
	return args.Get(0).(ports.UserRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockUserUoWFactory struct{ mock.Mock }

func (m *MockUserUoWFactory) Create() commands.UserUoW {
	args := m.Called()
	return args.Get(0).(commands.UserUoW)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyUser(ctx context.Context, userID kernel.UUID, message, title string) {
	m.Called(ctx, userID, message, title)
}

func (m *MockNotifier) NotifyRole(ctx context.Context, role user.Role, message, title string) {
	m.Called(ctx, role, message, title)
}

type MockFeeTable struct{ mock.Mock }

func (m *MockFeeTable) DeliveryFee(province string) kernel.Money {
	args := m.Called(province)
	return args.Get(0).(kernel.Money)
}

func (m *MockFeeTable) Provinces() map[string]kernel.Money {
	args := m.Called()
	return args.Get(0).(map[string]kernel.Money)
}

type MockPasswordHasher struct{ mock.Mock }

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

// expectUnit wires a unit of work that begins, hands out the given repositories,
// and always gets the deferred rollback.
func expectUnit(uow *MockUoW, orders *MockOrderRepository, users *MockUserRepository) {
	uow.On("Begin", mock.Anything).Return(nil).Once()
	if orders != nil {
		uow.On("OrderRepository").Return(orders)
	}
	if users != nil {
		uow.On("UserRepository").Return(users)
	}
	uow.On("Rollback", mock.Anything).Return(nil).Once()
}

func newActor(t *testing.T, role user.Role) access.Actor {
	t.Helper()
	a, err := access.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func newUser(t *testing.T, role user.Role) *user.User {
	t.Helper()
	u, err := user.NewUser(kernel.NewUUID(), "Sara", "07801234567", "Basra", "hash", role, time.Now())
	require.NoError(t, err)
	return u
}

// restoredOrder builds an order as a repository would return it.
func restoredOrder(t *testing.T, owner *kernel.UUID, status order.Status, agent *kernel.UUID, ds order.DeliveryStatus) *order.Order {
	t.Helper()
	o, err := order.Restore(order.Snapshot{
		ID:             kernel.NewUUID(),
		OwnerID:        owner,
		CustomerName:   "Ali",
		PhoneNumber:    "07701234567",
		Province:       "بغداد",
		Street:         "Karrada 62",
		Price:          10000,
		DeliveryPrice:  4000,
		TotalPrice:     14000,
		Status:         status,
		AgentID:        agent,
		DeliveryStatus: ds,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
		Version:        3,
	})
	require.NoError(t, err)
	return o
}

func ptr(id kernel.UUID) *kernel.UUID {
	return &id
}
