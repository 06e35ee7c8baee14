package orderrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/pgtest"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// OrderRepositoryIntegrationTestSuite runs the order repository against a real PostgreSQL.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTripsEveryField() {
	ctx := suite.T().Context()
	owner := kernel.NewUUID()
	o := suite.newOrder(owner)

	suite.Require().NoError(suite.repository.Add(ctx, o))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(o.ID(), got.ID())
	suite.True(got.IsOwnedBy(owner))
	suite.Equal("Ali", got.CustomerName())
	suite.Equal("بغداد", got.Address().Province())
	suite.Equal("Karrada 62", got.Address().Street())
	suite.Equal(kernel.Money(14000), got.TotalPrice())
	suite.Equal(order.Pending, got.Status())
	suite.Equal(order.DeliveryNone, got.DeliveryStatus())
	suite.Nil(got.Agent())
	suite.Equal(0, got.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateID_ReturnsConflict() {
	ctx := suite.T().Context()
	o := suite.newOrder(kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, o))

	err := suite.repository.Add(ctx, o)

	suite.Require().ErrorIs(err, errs.ErrConflict)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_Missing_ReturnsNotFound() {
	_, err := suite.repository.Get(suite.T().Context(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_BumpsVersionAndPersistsState() {
	ctx := suite.T().Context()
	agent := kernel.NewUUID()
	o := suite.newOrder(kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, o))

	suite.Require().NoError(o.AssignAgent(agent, time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, o))
	suite.Equal(1, o.PersistedVersion())

	_, err := o.ChangeStatus(order.InDelivery, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, o))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.InDelivery, got.Status())
	suite.Equal(order.AwaitingAgentResponse, got.DeliveryStatus())
	suite.True(got.IsAssignedTo(agent))
	suite.Equal(2, got.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleCopy_ReturnsConflict() {
	ctx := suite.T().Context()
	o := suite.newOrder(kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, o))

	first, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	_, err = first.ChangeStatus(order.InDelivery, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.AssignAgent(kernel.NewUUID(), time.Now()))
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrConflict)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ConcurrentTransitions_OnlyOneWins() {
	ctx := suite.T().Context()
	o := suite.newOrder(kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, o))

	const writers = 5
	copies := make([]*order.Order, writers)
	for i := range writers {
		c, err := suite.repository.Get(ctx, o.ID())
		suite.Require().NoError(err)
		_, err = c.ChangeStatus(order.InDelivery, time.Now())
		suite.Require().NoError(err)
		copies[i] = c
	}

	var wg sync.WaitGroup
	results := make(chan error, writers)
	for _, c := range copies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- suite.repository.Update(ctx, c)
		}()
	}
	wg.Wait()
	close(results)

	var won, lost int
	for err := range results {
		if err == nil {
			won++
			continue
		}
		suite.Require().ErrorIs(err, errs.ErrConflict)
		lost++
	}
	suite.Equal(1, won)
	suite.Equal(writers-1, lost)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_DeletedOrder_ReturnsNotFound() {
	ctx := suite.T().Context()
	o := suite.newOrder(kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, o))
	suite.Require().NoError(suite.repository.Delete(ctx, o.ID()))

	_, err := o.ChangeStatus(order.InDelivery, time.Now())
	suite.Require().NoError(err)

	suite.Require().ErrorIs(suite.repository.Update(ctx, o), errs.ErrObjectNotFound)
	suite.Require().ErrorIs(suite.repository.Delete(ctx, o.ID()), errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestDeleteWhere_MatchesEveryFilterField() {
	ctx := suite.T().Context()
	owner := kernel.NewUUID()
	agent := kernel.NewUUID()

	pending := suite.newOrder(owner)
	suite.Require().NoError(suite.repository.Add(ctx, pending))

	unassignedInDelivery := suite.newOrder(owner)
	_, err := unassignedInDelivery.ChangeStatus(order.InDelivery, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, unassignedInDelivery))

	assigned := suite.newOrder(owner)
	suite.Require().NoError(assigned.AssignAgent(agent, time.Now()))
	suite.Require().NoError(suite.repository.Add(ctx, assigned))

	foreign := suite.newOrder(kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, foreign))

	no := false
	deleted, err := suite.repository.DeleteWhere(ctx, ports.OrderFilter{
		OwnerID:  &owner,
		Assigned: &no,
		Statuses: []order.Status{order.Pending},
	})
	suite.Require().NoError(err)
	suite.Equal(int64(1), deleted)

	_, err = suite.repository.Get(ctx, pending.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	for _, kept := range []*order.Order{unassignedInDelivery, assigned, foreign} {
		_, err = suite.repository.Get(ctx, kept.ID())
		suite.Require().NoError(err)
	}

	deleted, err = suite.repository.DeleteWhere(ctx, ports.OrderFilter{AgentID: &agent})
	suite.Require().NoError(err)
	suite.Equal(int64(1), deleted)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFind_ReturnsAgentOrdersNewestFirst() {
	ctx := suite.T().Context()
	agent := kernel.NewUUID()

	older := suite.newOrder(kernel.NewUUID())
	suite.Require().NoError(older.AssignAgent(agent, time.Now()))
	suite.Require().NoError(suite.repository.Add(ctx, older))

	newer, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), "Huda", "07701234568",
		older.Address(), 5000, 4000, older.CreatedAt().Add(time.Minute))
	suite.Require().NoError(err)
	suite.Require().NoError(newer.AssignAgent(agent, time.Now()))
	suite.Require().NoError(suite.repository.Add(ctx, newer))

	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder(kernel.NewUUID())))

	found, err := suite.repository.Find(ctx, ports.OrderFilter{AgentID: &agent})

	suite.Require().NoError(err)
	suite.Require().Len(found, 2)
	suite.True(found[0].ID().IsEqual(newer.ID()))
	suite.True(found[1].ID().IsEqual(older.ID()))

	none, err := suite.repository.Find(ctx, ports.OrderFilter{AgentID: &agent, Statuses: []order.Status{order.Delivered}})
	suite.Require().NoError(err)
	suite.Empty(none)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestBulkUpdate_ClearsAgentAndBumpsVersion() {
	ctx := suite.T().Context()
	agent := kernel.NewUUID()

	stale := make([]*order.Order, 0, 2)
	for range 2 {
		o := suite.newOrder(kernel.NewUUID())
		suite.Require().NoError(o.AssignAgent(agent, time.Now()))
		suite.Require().NoError(suite.repository.Add(ctx, o))
		stale = append(stale, o)
	}
	untouched := suite.newOrder(kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, untouched))

	n, err := suite.repository.BulkUpdate(ctx,
		ports.OrderFilter{AgentID: &agent}, ports.OrderPatch{ClearAgent: true}, time.Now())

	suite.Require().NoError(err)
	suite.Equal(int64(2), n)
	for _, o := range stale {
		got, getErr := suite.repository.Get(ctx, o.ID())
		suite.Require().NoError(getErr)
		suite.Nil(got.Agent())
		suite.Equal(order.DeliveryNone, got.DeliveryStatus())
		suite.Equal(order.Pending, got.Status())
		suite.Equal(o.Version()+1, got.Version())

		// the in-memory copy predates the bulk write
		_, _ = o.ChangeStatus(order.InDelivery, time.Now())
		suite.Require().ErrorIs(suite.repository.Update(ctx, o), errs.ErrConflict)
	}

	got, err := suite.repository.Get(ctx, untouched.ID())
	suite.Require().NoError(err)
	suite.Equal(0, got.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestBulkUpdate_ClearOwnerAndDeleteWhere() {
	ctx := suite.T().Context()
	owner := kernel.NewUUID()

	assigned := suite.newOrder(owner)
	suite.Require().NoError(assigned.AssignAgent(kernel.NewUUID(), time.Now()))
	suite.Require().NoError(suite.repository.Add(ctx, assigned))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder(owner)))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder(owner)))

	no, yes := false, true
	deleted, err := suite.repository.DeleteWhere(ctx, ports.OrderFilter{OwnerID: &owner, Assigned: &no})
	suite.Require().NoError(err)
	suite.Equal(int64(2), deleted)

	detached, err := suite.repository.BulkUpdate(ctx,
		ports.OrderFilter{OwnerID: &owner, Assigned: &yes}, ports.OrderPatch{ClearOwner: true}, time.Now())
	suite.Require().NoError(err)
	suite.Equal(int64(1), detached)

	got, err := suite.repository.Get(ctx, assigned.ID())
	suite.Require().NoError(err)
	suite.Nil(got.Owner())
	suite.NotNil(got.Agent())

	n, err := suite.repository.BulkUpdate(ctx, ports.OrderFilter{OwnerID: &owner}, ports.OrderPatch{}, time.Now())
	suite.Require().NoError(err)
	suite.Zero(n)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_CorruptedRow_FailsToLoad() {
	ctx := suite.T().Context()
	o := suite.newOrder(kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, o))
	suite.Require().NoError(suite.db.Exec(
		"UPDATE orders SET delivery_id = ?, delivery_status = 'none' WHERE id = ?",
		kernel.NewUUID().Google(), o.ID().Google()).Error)

	_, err := suite.repository.Get(ctx, o.ID())

	suite.Require().ErrorIs(err, order.ErrInvalidDeliveryStatus)
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(owner kernel.UUID) *order.Order {
	addr, err := kernel.NewAddress("بغداد", "Karrada 62")
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), owner, "Ali", "07701234567", addr, 10000, 4000,
		time.Now().UTC().Truncate(time.Microsecond))
	suite.Require().NoError(err)
	return o
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
