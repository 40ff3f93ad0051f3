package sales

import (
	"testing"
	"time"

	"github.com/doaddy/backend/internal/domain/billing"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSaleLines(t *testing.T) billing.DocumentLines {
	t.Helper()
	l1, err := billing.NewDocumentLine(uuid.New(), "MM-25", "Mealie Meal 25kg",
		decimal.NewFromInt(2), decimal.NewFromInt(60), decimal.NewFromInt(100))
	require.NoError(t, err)
	l2, err := billing.NewDocumentLine(uuid.New(), "SUG-1", "Sugar 1kg",
		decimal.NewFromInt(1), decimal.NewFromInt(30), decimal.NewFromInt(50))
	require.NoError(t, err)
	return billing.DocumentLines{l1, l2}
}

func TestNewSale(t *testing.T) {
	orgID := uuid.New()
	accountID := uuid.New()
	vat := decimal.NewFromFloat(0.16)

	t.Run("computes totals with vat", func(t *testing.T) {
		sale, err := NewSale(orgID, nil, accountID, "POS-2026-00001", PaymentMethodCash,
			time.Now(), testSaleLines(t), billing.DiscountTypeNone, decimal.Zero, vat, "")
		require.NoError(t, err)
		assert.Equal(t, SaleStatusCompleted, sale.Status)
		assert.True(t, sale.Subtotal.Equal(decimal.NewFromInt(250)))
		assert.True(t, sale.TaxAmount.Equal(decimal.NewFromInt(40)))
		assert.True(t, sale.Total.Equal(decimal.NewFromInt(290)))
		assert.Len(t, sale.GetDomainEvents(), 1)
	})

	t.Run("rejects missing account", func(t *testing.T) {
		_, err := NewSale(orgID, nil, uuid.Nil, "POS-2026-00002", PaymentMethodCash,
			time.Now(), testSaleLines(t), billing.DiscountTypeNone, decimal.Zero, vat, "")
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_ACCOUNT")
	})

	t.Run("rejects invalid payment method", func(t *testing.T) {
		_, err := NewSale(orgID, nil, accountID, "POS-2026-00003", PaymentMethod("BARTER"),
			time.Now(), testSaleLines(t), billing.DiscountTypeNone, decimal.Zero, vat, "")
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_PAYMENT_METHOD")
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		_, err := NewSale(orgID, nil, accountID, "POS-2026-00004", PaymentMethodCash,
			time.Now(), billing.DocumentLines{}, billing.DiscountTypeNone, decimal.Zero, vat, "")
		require.Error(t, err)
		assertDomainCode(t, err, "EMPTY_DOCUMENT")
	})
}

func TestSale_Void(t *testing.T) {
	orgID := uuid.New()
	sale, err := NewSale(orgID, nil, uuid.New(), "POS-2026-00005", PaymentMethodCash,
		time.Now(), testSaleLines(t), billing.DiscountTypeNone, decimal.Zero, decimal.NewFromFloat(0.16), "")
	require.NoError(t, err)

	require.NoError(t, sale.Void())
	assert.Equal(t, SaleStatusVoided, sale.Status)

	err = sale.Void()
	require.Error(t, err)
	assertDomainCode(t, err, "INVALID_STATE")
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, code, derr.Code)
}
