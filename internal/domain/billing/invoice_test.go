package billing

import (
	"testing"
	"time"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLines(t *testing.T) DocumentLines {
	t.Helper()
	l1, err := NewDocumentLine(uuid.New(), "MM-25", "Mealie Meal 25kg",
		decimal.NewFromInt(2), decimal.NewFromInt(60), decimal.NewFromInt(100))
	require.NoError(t, err)
	l2, err := NewDocumentLine(uuid.New(), "SUG-1", "Sugar 1kg",
		decimal.NewFromInt(1), decimal.NewFromInt(30), decimal.NewFromInt(50))
	require.NoError(t, err)
	return DocumentLines{l1, l2}
}

func TestComputeTotals(t *testing.T) {
	lines := testLines(t)
	vat := decimal.NewFromFloat(0.16)

	t.Run("vat on full subtotal", func(t *testing.T) {
		totals, err := ComputeTotals(lines, DiscountTypeNone, decimal.Zero, vat)
		require.NoError(t, err)
		assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(250)))
		assert.True(t, totals.TaxAmount.Equal(decimal.NewFromInt(40)))
		assert.True(t, totals.Total.Equal(decimal.NewFromInt(290)))
	})

	t.Run("flat discount before tax", func(t *testing.T) {
		totals, err := ComputeTotals(lines, DiscountTypeFlat, decimal.NewFromInt(50), vat)
		require.NoError(t, err)
		assert.True(t, totals.DiscountAmount.Equal(decimal.NewFromInt(50)))
		assert.True(t, totals.TaxAmount.Equal(decimal.NewFromInt(32)))
		assert.True(t, totals.Total.Equal(decimal.NewFromInt(232)))
	})

	t.Run("percent discount before tax", func(t *testing.T) {
		totals, err := ComputeTotals(lines, DiscountTypePercent, decimal.NewFromInt(10), vat)
		require.NoError(t, err)
		assert.True(t, totals.DiscountAmount.Equal(decimal.NewFromInt(25)))
		assert.True(t, totals.TaxAmount.Equal(decimal.NewFromInt(36)))
		assert.True(t, totals.Total.Equal(decimal.NewFromInt(261)))
	})

	t.Run("discount capped at subtotal", func(t *testing.T) {
		totals, err := ComputeTotals(lines, DiscountTypeFlat, decimal.NewFromInt(9999), vat)
		require.NoError(t, err)
		assert.True(t, totals.DiscountAmount.Equal(decimal.NewFromInt(250)))
		assert.True(t, totals.TaxAmount.IsZero())
		assert.True(t, totals.Total.IsZero())
	})

	t.Run("rejects percent over 100", func(t *testing.T) {
		_, err := ComputeTotals(lines, DiscountTypePercent, decimal.NewFromInt(150), vat)
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_DISCOUNT")
	})

	t.Run("rejects negative discount", func(t *testing.T) {
		_, err := ComputeTotals(lines, DiscountTypeFlat, decimal.NewFromInt(-5), vat)
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_DISCOUNT")
	})
}

func TestNewDocumentLine(t *testing.T) {
	itemID := uuid.New()

	t.Run("computes line total and keeps cost snapshot", func(t *testing.T) {
		line, err := NewDocumentLine(itemID, "MM-25", "Mealie Meal",
			decimal.NewFromFloat(2.5), decimal.NewFromInt(60), decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.True(t, line.LineTotal.Equal(decimal.NewFromInt(250)))
		assert.True(t, line.UnitCost.Equal(decimal.NewFromInt(60)))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewDocumentLine(itemID, "MM-25", "Mealie Meal", decimal.Zero, decimal.Zero, decimal.NewFromInt(100))
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_QUANTITY")
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewDocumentLine(itemID, "MM-25", "Mealie Meal", decimal.NewFromInt(1), decimal.Zero, decimal.NewFromInt(-1))
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_PRICE")
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		_, err := NewDocumentLine(itemID, "MM-25", "Mealie Meal", decimal.NewFromInt(1), decimal.NewFromInt(-5), decimal.NewFromInt(100))
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_COST")
	})
}

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	now := time.Now()
	invoice, err := NewInvoice(uuid.New(), uuid.New(), "INV-2026-00001",
		now, now.AddDate(0, 0, 30), testLines(t),
		DiscountTypeNone, decimal.Zero, DefaultVATRate, "")
	require.NoError(t, err)
	return invoice
}

func TestInvoice_Lifecycle(t *testing.T) {
	t.Run("starts as draft with computed totals", func(t *testing.T) {
		invoice := newTestInvoice(t)
		assert.Equal(t, InvoiceStatusDraft, invoice.Status)
		assert.True(t, invoice.Total.Equal(decimal.NewFromInt(290)))
		assert.True(t, invoice.Outstanding().Equal(decimal.NewFromInt(290)))
	})

	t.Run("draft cannot accept payments", func(t *testing.T) {
		invoice := newTestInvoice(t)
		err := invoice.ApplyPayment(valueobject.NewMoneyZMWFromFloat(100))
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_STATE")
	})

	t.Run("send then pay in full", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.Send())
		assert.Equal(t, InvoiceStatusSent, invoice.Status)

		require.NoError(t, invoice.ApplyPayment(valueobject.NewMoneyZMWFromFloat(290)))
		assert.Equal(t, InvoiceStatusPaid, invoice.Status)
		assert.True(t, invoice.Outstanding().IsZero())
	})

	t.Run("partial payment", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.Send())
		require.NoError(t, invoice.ApplyPayment(valueobject.NewMoneyZMWFromFloat(100)))
		assert.Equal(t, InvoiceStatusPartial, invoice.Status)
		assert.True(t, invoice.Outstanding().Equal(decimal.NewFromInt(190)))
	})

	t.Run("over-allocation rejected", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.Send())
		require.NoError(t, invoice.ApplyPayment(valueobject.NewMoneyZMWFromFloat(200)))

		err := invoice.ApplyPayment(valueobject.NewMoneyZMWFromFloat(100))
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrOverAllocation)
		assert.True(t, invoice.AmountPaid.Equal(decimal.NewFromInt(200)))
	})

	t.Run("paid invoice rejects further payments", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.Send())
		require.NoError(t, invoice.ApplyPayment(valueobject.NewMoneyZMWFromFloat(290)))

		err := invoice.ApplyPayment(valueobject.NewMoneyZMWFromFloat(1))
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_STATE")
	})

	t.Run("cancel draft", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.Cancel())
		assert.Equal(t, InvoiceStatusCancelled, invoice.Status)
	})

	t.Run("cannot cancel with payments applied", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.Send())
		require.NoError(t, invoice.ApplyPayment(valueobject.NewMoneyZMWFromFloat(50)))

		err := invoice.Cancel()
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_STATE")
	})
}

func TestInvoice_UpdateDraft(t *testing.T) {
	now := time.Now()

	t.Run("replaces lines and recomputes totals", func(t *testing.T) {
		invoice := newTestInvoice(t)
		version := invoice.Version

		line, err := NewDocumentLine(uuid.New(), "ROOF-IBR", "IBR Roofing Sheet",
			decimal.NewFromInt(5), decimal.NewFromInt(60), decimal.NewFromInt(100))
		require.NoError(t, err)

		err = invoice.UpdateDraft(now, now.AddDate(0, 0, 45), DocumentLines{line},
			DiscountTypeNone, decimal.Zero, "revised")
		require.NoError(t, err)

		assert.Len(t, invoice.Lines, 1)
		assert.True(t, invoice.Subtotal.Equal(decimal.NewFromInt(500)), "subtotal %s", invoice.Subtotal)
		assert.True(t, invoice.TaxAmount.Equal(decimal.NewFromInt(80)), "tax %s", invoice.TaxAmount)
		assert.True(t, invoice.Total.Equal(decimal.NewFromInt(580)), "total %s", invoice.Total)
		assert.Equal(t, "revised", invoice.Notes)
		assert.Equal(t, version+1, invoice.Version)
	})

	t.Run("rejects non-draft invoice", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.Send())
		before := invoice.Total

		err := invoice.UpdateDraft(now, now.AddDate(0, 0, 45), invoice.Lines,
			DiscountTypeNone, decimal.Zero, "")
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_STATE")
		assert.True(t, invoice.Total.Equal(before))
	})

	t.Run("rejects due date before issue date", func(t *testing.T) {
		invoice := newTestInvoice(t)

		err := invoice.UpdateDraft(now, now.AddDate(0, 0, -1), invoice.Lines,
			DiscountTypeNone, decimal.Zero, "")
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_DUE_DATE")
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		invoice := newTestInvoice(t)

		err := invoice.UpdateDraft(now, now.AddDate(0, 0, 30), DocumentLines{},
			DiscountTypeNone, decimal.Zero, "")
		require.Error(t, err)
		assertDomainCode(t, err, "EMPTY_DOCUMENT")
	})
}

func TestInvoice_DeriveStatus(t *testing.T) {
	now := time.Now()

	t.Run("sent past due reads overdue", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.Send())
		assert.Equal(t, InvoiceStatusOverdue, invoice.DeriveStatus(invoice.DueDate.AddDate(0, 0, 1)))
	})

	t.Run("partial past due reads overdue", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.Send())
		require.NoError(t, invoice.ApplyPayment(valueobject.NewMoneyZMWFromFloat(100)))
		assert.Equal(t, InvoiceStatusOverdue, invoice.DeriveStatus(invoice.DueDate.AddDate(0, 0, 1)))
	})

	t.Run("draft and cancelled never derive", func(t *testing.T) {
		invoice := newTestInvoice(t)
		assert.Equal(t, InvoiceStatusDraft, invoice.DeriveStatus(invoice.DueDate.AddDate(0, 1, 0)))

		require.NoError(t, invoice.Cancel())
		assert.Equal(t, InvoiceStatusCancelled, invoice.DeriveStatus(invoice.DueDate.AddDate(0, 1, 0)))
	})

	t.Run("idempotent", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.Send())
		first := invoice.DeriveStatus(now)
		assert.Equal(t, first, invoice.DeriveStatus(now))
	})

	t.Run("refresh increments version only on change", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.Send())
		v := invoice.Version

		changed := invoice.RefreshStatus(now)
		assert.False(t, changed)
		assert.Equal(t, v, invoice.Version)

		changed = invoice.RefreshStatus(invoice.DueDate.AddDate(0, 0, 1))
		assert.True(t, changed)
		assert.Equal(t, InvoiceStatusOverdue, invoice.Status)
		assert.Equal(t, v+1, invoice.Version)
	})
}

func TestInvoice_ReversePayment(t *testing.T) {
	invoice := newTestInvoice(t)
	require.NoError(t, invoice.Send())
	require.NoError(t, invoice.ApplyPayment(valueobject.NewMoneyZMWFromFloat(290)))
	require.Equal(t, InvoiceStatusPaid, invoice.Status)

	require.NoError(t, invoice.ReversePayment(valueobject.NewMoneyZMWFromFloat(90)))
	assert.True(t, invoice.AmountPaid.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, InvoiceStatusPartial, invoice.Status)

	err := invoice.ReversePayment(valueobject.NewMoneyZMWFromFloat(500))
	require.Error(t, err)
	assertDomainCode(t, err, "INVALID_AMOUNT")
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, code, derr.Code)
}
