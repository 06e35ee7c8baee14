package pgerr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"orderflow/internal/adapters/out/postgres/pgerr"
	"orderflow/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}

	assert.True(t, pgerr.IsUniqueViolation(dup))
	assert.True(t, pgerr.IsUniqueViolation(fmt.Errorf("insert: %w", dup)))
	assert.False(t, pgerr.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, pgerr.IsUniqueViolation(errors.New("boom")))
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, pgerr.IsUnavailable(context.DeadlineExceeded))
	assert.True(t, pgerr.IsUnavailable(fmt.Errorf("query: %w", context.Canceled)))
	assert.False(t, pgerr.IsUnavailable(&pgconn.PgError{Code: "42P01"}))
}

func TestWrap(t *testing.T) {
	require.NoError(t, pgerr.Wrap("get order", nil))

	notFound := errs.NewObjectNotFoundError("order", "1")
	assert.Same(t, notFound, pgerr.Wrap("get order", notFound))

	err := pgerr.Wrap("get order", context.DeadlineExceeded)
	require.ErrorIs(t, err, errs.ErrStoreUnavailable)

	var storeErr *errs.StoreUnavailableError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "get order", storeErr.Operation)
	assert.Equal(t, context.DeadlineExceeded, storeErr.Cause)
}

func TestWrap_PermanentFailures(t *testing.T) {
	testCases := []struct {
		name string
		code string
	}{
		{name: "undefined table", code: "42P01"},
		{name: "foreign key violation", code: "23503"},
		{name: "value too long", code: "22001"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cause := &pgconn.PgError{Code: tc.code}

			err := pgerr.Wrap("update order", cause)

			require.Error(t, err)
			assert.NotErrorIs(t, err, errs.ErrStoreUnavailable)
			assert.ErrorIs(t, err, cause)
			assert.ErrorContains(t, err, "update order")
		})
	}
}
