package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, n ports.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) ListFor(
	ctx context.Context,
	userID kernel.UUID,
	role user.Role,
	limit int,
) ([]ports.Notification, error) {
	args := m.Called(ctx, userID, role, limit)
	if v := args.Get(0); v != nil {
		return v.([]ports.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func TestNewPurgeNotificationsCommand(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cmd, err := commands.NewPurgeNotificationsCommand(now, 30*24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC), cmd.Cutoff())

	_, err = commands.NewPurgeNotificationsCommand(now, 0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = commands.NewPurgeNotificationsCommand(time.Time{}, time.Hour)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	var zero commands.PurgeNotificationsCommand
	require.ErrorIs(t, zero.Validate(), commands.ErrPurgeNotificationsCommandIsNotConstructed)
}

func TestPurgeNotificationsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	now := time.Now().UTC()

	t.Run("should delete notifications before the cutoff", func(t *testing.T) {
		cmd, err := commands.NewPurgeNotificationsCommand(now, time.Hour)
		require.NoError(t, err)

		inbox := new(MockNotificationRepository)
		inbox.On("DeleteOlderThan", ctx, now.Add(-time.Hour)).Return(int64(7), nil).Once()

		removed, err := commands.NewPurgeNotificationsCommandHandler(inbox).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, int64(7), removed)
		inbox.AssertExpectations(t)
	})

	t.Run("should pass store failures through", func(t *testing.T) {
		cmd, err := commands.NewPurgeNotificationsCommand(now, time.Hour)
		require.NoError(t, err)

		storeErr := errs.NewStoreUnavailableError("delete notifications", errors.New("connection reset"))
		inbox := new(MockNotificationRepository)
		inbox.On("DeleteOlderThan", ctx, mock.Anything).Return(int64(0), storeErr).Once()

		_, err = commands.NewPurgeNotificationsCommandHandler(inbox).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrStoreUnavailable)
	})

	t.Run("should reject an unconstructed command", func(t *testing.T) {
		inbox := new(MockNotificationRepository)

		_, err := commands.NewPurgeNotificationsCommandHandler(inbox).Handle(ctx, commands.PurgeNotificationsCommand{})

		require.ErrorIs(t, err, commands.ErrPurgeNotificationsCommandIsNotConstructed)
		inbox.AssertNotCalled(t, "DeleteOlderThan", mock.Anything, mock.Anything)
	})
}
