package inventory

import (
	"testing"

	"github.com/doaddy/backend/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockMovement(t *testing.T) {
	orgID := uuid.New()
	itemID := uuid.New()

	t.Run("in movement increases stock after", func(t *testing.T) {
		m, err := NewStockMovement(orgID, itemID, MovementTypeIn,
			decimal.NewFromInt(10), decimal.NewFromInt(5), ReferenceTypePurchase, nil, "")
		require.NoError(t, err)
		assert.True(t, m.StockAfter.Equal(decimal.NewFromInt(15)))
		assert.Len(t, m.GetDomainEvents(), 1)
	})

	t.Run("out movement decreases stock after", func(t *testing.T) {
		m, err := NewStockMovement(orgID, itemID, MovementTypeOut,
			decimal.NewFromInt(3), decimal.NewFromInt(10), ReferenceTypeSale, nil, "")
		require.NoError(t, err)
		assert.True(t, m.StockAfter.Equal(decimal.NewFromInt(7)))
	})

	t.Run("signed adjustment", func(t *testing.T) {
		m, err := NewStockMovement(orgID, itemID, MovementTypeAdjustment,
			decimal.NewFromInt(-2), decimal.NewFromInt(10), ReferenceTypeManual, nil, "stocktake")
		require.NoError(t, err)
		assert.True(t, m.StockAfter.Equal(decimal.NewFromInt(8)))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewStockMovement(orgID, itemID, MovementTypeIn,
			decimal.Zero, decimal.Zero, ReferenceTypeManual, nil, "")
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_QUANTITY")
	})

	t.Run("rejects negative quantity on out", func(t *testing.T) {
		_, err := NewStockMovement(orgID, itemID, MovementTypeOut,
			decimal.NewFromInt(-1), decimal.NewFromInt(10), ReferenceTypeSale, nil, "")
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_QUANTITY")
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := NewStockMovement(orgID, itemID, MovementType("TRANSFER"),
			decimal.NewFromInt(1), decimal.Zero, ReferenceTypeManual, nil, "")
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_MOVEMENT_TYPE")
	})
}

func TestReplayStock(t *testing.T) {
	orgID := uuid.New()
	itemID := uuid.New()

	mk := func(mt MovementType, qty, before int64) *StockMovement {
		m, err := NewStockMovement(orgID, itemID, mt,
			decimal.NewFromInt(qty), decimal.NewFromInt(before), ReferenceTypeManual, nil, "")
		require.NoError(t, err)
		return m
	}

	movements := []*StockMovement{
		mk(MovementTypeIn, 20, 0),
		mk(MovementTypeOut, 5, 20),
		mk(MovementTypeAdjustment, -3, 15),
		mk(MovementTypeIn, 8, 12),
	}

	balance := ReplayStock(decimal.Zero, movements)
	assert.True(t, balance.Equal(decimal.NewFromInt(20)))
	assert.True(t, balance.Equal(movements[len(movements)-1].StockAfter))
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, code, derr.Code)
}
