package commands_test

import (
	"errors"
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewChangeOrderStatusCommand(t *testing.T) {
	actor := newActor(t, user.Admin)

	t.Run("should parse the requested status", func(t *testing.T) {
		id := kernel.NewUUID()

		cmd, err := commands.NewChangeOrderStatusCommand(id, "IN_DELIVERY", actor)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, id, cmd.OrderID())
		assert.Equal(t, order.InDelivery, cmd.Status())
	})

	t.Run("should fail with invalid status", func(t *testing.T) {
		_, err := commands.NewChangeOrderStatusCommand(kernel.NewUUID(), "completed", actor)

		require.ErrorIs(t, err, order.ErrInvalidStatus)
	})

	t.Run("should fail without actor", func(t *testing.T) {
		_, err := commands.NewChangeOrderStatusCommand(kernel.NewUUID(), "pending", access.Actor{})

		require.ErrorIs(t, err, access.ErrActorIsNotConstructed)
	})

	t.Run("zero command is not constructed", func(t *testing.T) {
		require.ErrorIs(t, commands.ChangeOrderStatusCommand{}.Validate(), commands.ErrChangeOrderStatusCommandIsNotConstructed)
	})
}

func TestChangeOrderStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	owner := newActor(t, user.Customer)
	o := restoredOrder(t, ptr(owner.UserID()), order.Pending, nil, order.DeliveryNone)
	cmd, err := commands.NewChangeOrderStatusCommand(o.ID(), "in_delivery", owner)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		repo.On("Update", ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	notifier.On("NotifyUser", ctx, owner.UserID(), mock.MatchedBy(func(msg string) bool {
		return assert.Contains(t, msg, "pending") && assert.Contains(t, msg, "in_delivery")
	}), "Order status updated").Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory, notifier)
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Pending, result.PriorStatus)
	assert.Equal(t, order.InDelivery, result.Order.Status())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_Failures(t *testing.T) {
	admin := newActor(t, user.Admin)
	owner := newActor(t, user.Customer)

	testCases := []struct {
		name    string
		actor   access.Actor
		status  order.Status
		target  string
		wantErr error
	}{
		{name: "pending cannot skip to delivered", actor: admin, status: order.Pending, target: "delivered", wantErr: errs.ErrIllegalTransition},
		{name: "terminal order never changes", actor: admin, status: order.Delivered, target: "returned", wantErr: errs.ErrIllegalTransition},
		{name: "another customer is forbidden", actor: newActor(t, user.Customer), status: order.Pending, target: "in_delivery", wantErr: errs.ErrForbidden},
		{name: "owner cannot set a partial state", actor: owner, status: order.InDelivery, target: "partially_delivered", wantErr: errs.ErrForbidden},
		{name: "agent is forbidden", actor: newActor(t, user.Agent), status: order.InDelivery, target: "delivered", wantErr: errs.ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := t.Context()
			o := restoredOrder(t, ptr(owner.UserID()), tc.status, nil, order.DeliveryNone)
			cmd, err := commands.NewChangeOrderStatusCommand(o.ID(), tc.target, tc.actor)
			require.NoError(t, err)

			repo := new(MockOrderRepository)
			repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
			uow := new(MockUoW)
			expectUnit(uow, repo, nil)
			factory := new(MockOrderUoWFactory)
			factory.On("Create").Return(uow).Once()
			notifier := new(MockNotifier)

			_, err = commands.NewChangeOrderStatusCommandHandler(factory, notifier).Handle(ctx, cmd)

			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.status, o.Status())
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			uow.AssertNotCalled(t, "Commit", mock.Anything)
			notifier.AssertNotCalled(t, "NotifyUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestChangeOrderStatusCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewChangeOrderStatusCommand(id, "in_delivery", newActor(t, user.Admin))

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id)).Once()
	uow := new(MockUoW)
	expectUnit(uow, repo, nil)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	_, err := commands.NewChangeOrderStatusCommandHandler(factory, new(MockNotifier)).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	factory.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_RetriesConflicts(t *testing.T) {
	ctx := t.Context()
	admin := newActor(t, user.Admin)
	orderID := kernel.NewUUID()
	cmd, _ := commands.NewChangeOrderStatusCommand(orderID, "in_delivery", admin)

	factory := new(MockOrderUoWFactory)
	repo := new(MockOrderRepository)

	// the first two attempts lose the race, the third wins
	for attempt := 1; attempt <= 3; attempt++ {
		loaded := restoredOrder(t, nil, order.Pending, nil, order.DeliveryNone)
		uow := new(MockUoW)
		expectUnit(uow, repo, nil)
		factory.On("Create").Return(uow).Once()
		repo.On("Get", ctx, orderID).Return(loaded, nil).Once()

		if attempt < 3 {
			repo.On("Update", ctx, loaded).Return(errs.NewConflictError("order", orderID)).Once()
			continue
		}
		repo.On("Update", ctx, loaded).Return(nil).Once()
		uow.On("Commit", ctx).Return(nil).Once()
	}

	result, err := commands.NewChangeOrderStatusCommandHandler(factory, new(MockNotifier)).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.InDelivery, result.Order.Status())
	factory.AssertNumberOfCalls(t, "Create", 3)
	repo.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_GivesUpAfterThreeConflicts(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, _ := commands.NewChangeOrderStatusCommand(orderID, "in_delivery", newActor(t, user.Admin))

	factory := new(MockOrderUoWFactory)
	repo := new(MockOrderRepository)
	for range 3 {
		loaded := restoredOrder(t, nil, order.Pending, nil, order.DeliveryNone)
		uow := new(MockUoW)
		expectUnit(uow, repo, nil)
		factory.On("Create").Return(uow).Once()
		repo.On("Get", ctx, orderID).Return(loaded, nil).Once()
		repo.On("Update", ctx, loaded).Return(errs.NewConflictError("order", orderID)).Once()
	}
	notifier := new(MockNotifier)

	_, err := commands.NewChangeOrderStatusCommandHandler(factory, notifier).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	factory.AssertNumberOfCalls(t, "Create", 3)
	notifier.AssertNotCalled(t, "NotifyUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_StoreErrorsAreNotRetried(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewChangeOrderStatusCommand(kernel.NewUUID(), "in_delivery", newActor(t, user.Admin))

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(errs.NewStoreUnavailableError("begin", errors.New("connection refused"))).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	_, err := commands.NewChangeOrderStatusCommandHandler(factory, new(MockNotifier)).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrStoreUnavailable)
	factory.AssertNumberOfCalls(t, "Create", 1)
}

func TestChangeOrderStatusCommandHandler_Handle_OrphanedOrderIsNotNotified(t *testing.T) {
	ctx := t.Context()
	o := restoredOrder(t, nil, order.InDelivery, nil, order.DeliveryNone)
	cmd, _ := commands.NewChangeOrderStatusCommand(o.ID(), "returned", newActor(t, user.Admin))

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	repo.On("Update", ctx, o).Return(nil).Once()
	uow := new(MockUoW)
	expectUnit(uow, repo, nil)
	uow.On("Commit", ctx).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	notifier := new(MockNotifier)

	result, err := commands.NewChangeOrderStatusCommandHandler(factory, notifier).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.InDelivery, result.PriorStatus)
	notifier.AssertNotCalled(t, "NotifyUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
