package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dely-backend/internal/order/app/core"
	"dely-backend/internal/order/domain/models"
)

func TestAllocateNumberRetriesTakenNumbers(t *testing.T) {
	attempts := 0
	order, err := allocateNumber(context.Background(), core.MaxAllocAttempts, func(_ context.Context, number string) (models.Order, bool, error) {
		attempts++
		require.Len(t, number, core.OrderNumberDigits)
		if attempts < 4 {
			return models.Order{}, true, nil
		}
		return models.Order{ID: 1, Number: number}, false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, int64(1), order.ID)
}

func TestAllocateNumberExhaustsBudget(t *testing.T) {
	attempts := 0
	_, err := allocateNumber(context.Background(), core.MaxAllocAttempts, func(context.Context, string) (models.Order, bool, error) {
		attempts++
		return models.Order{}, true, nil
	})
	assert.ErrorIs(t, err, core.ErrNumberSpaceExhausted)
	assert.Equal(t, core.MaxAllocAttempts, attempts)
}

func TestAllocateNumberPropagatesErrors(t *testing.T) {
	boom := errors.New("connection lost")
	attempts := 0
	_, err := allocateNumber(context.Background(), core.MaxAllocAttempts, func(context.Context, string) (models.Order, bool, error) {
		attempts++
		if attempts == 2 {
			return models.Order{}, false, boom
		}
		return models.Order{}, true, nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, attempts)
}
