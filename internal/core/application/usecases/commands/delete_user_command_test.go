package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeleteUserCommandHandler_Handle(t *testing.T) {
	t.Run("an agent is detached on both sides before deletion", func(t *testing.T) {
		ctx := t.Context()
		agent := newUser(t, user.Agent)
		id := agent.ID()
		cmd, err := commands.NewDeleteUserCommand(id, newActor(t, user.Admin))
		require.NoError(t, err)

		no, yes := false, true
		users := new(MockUserRepository)
		orders := new(MockOrderRepository)
		mock.InOrder(
			users.On("Get", ctx, id).Return(agent, nil).Once(),
			orders.On("DeleteWhere", ctx, ports.OrderFilter{OwnerID: &id, Assigned: &no, Statuses: []order.Status{order.Pending}}).Return(int64(1), nil).Once(),
			orders.On("BulkUpdate", ctx, ports.OrderFilter{OwnerID: &id}, ports.OrderPatch{ClearOwner: true}, mock.Anything).
				Return(int64(0), nil).Once(),
			orders.On("DeleteWhere", ctx, ports.OrderFilter{AgentID: &id, Owned: &no}).Return(int64(2), nil).Once(),
			orders.On("BulkUpdate", ctx, ports.OrderFilter{AgentID: &id, Owned: &yes}, ports.OrderPatch{ClearAgent: true}, mock.Anything).
				Return(int64(4), nil).Once(),
			users.On("Delete", ctx, id).Return(nil).Once(),
		)
		uow := new(MockUoW)
		expectUnit(uow, orders, users)
		uow.On("Commit", ctx).Return(nil).Once()
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		result, err := commands.NewDeleteUserCommandHandler(factory).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, commands.DetachResult{Deleted: 3, Detached: 4}, result)
		users.AssertExpectations(t)
		orders.AssertExpectations(t)
	})

	t.Run("a customer deletes their own account", func(t *testing.T) {
		ctx := t.Context()
		customer := newUser(t, user.Customer)
		id := customer.ID()
		cmd, _ := commands.NewDeleteUserCommand(id, access.ActorOf(customer))

		users := new(MockUserRepository)
		users.On("Get", ctx, id).Return(customer, nil).Once()
		users.On("Delete", ctx, id).Return(nil).Once()
		orders := new(MockOrderRepository)
		orders.On("DeleteWhere", ctx, mock.Anything).Return(int64(5), nil).Once()
		orders.On("BulkUpdate", ctx, mock.Anything, ports.OrderPatch{ClearOwner: true}, mock.Anything).Return(int64(2), nil).Once()
		uow := new(MockUoW)
		expectUnit(uow, orders, users)
		uow.On("Commit", ctx).Return(nil).Once()
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		result, err := commands.NewDeleteUserCommandHandler(factory).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, commands.DetachResult{Deleted: 5, Detached: 2}, result)
		orders.AssertNumberOfCalls(t, "DeleteWhere", 1)
	})

	t.Run("someone else is forbidden", func(t *testing.T) {
		cmd, _ := commands.NewDeleteUserCommand(newUser(t, user.Customer).ID(), newActor(t, user.Agent))
		factory := new(MockUoWFactory)

		_, err := commands.NewDeleteUserCommandHandler(factory).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
	})
}
