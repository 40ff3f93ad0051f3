package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultVATRate is the standard VAT rate applied to billing documents
var DefaultVATRate = decimal.NewFromFloat(0.16)

// DiscountType determines how a document-level discount is interpreted
type DiscountType string

const (
	DiscountTypeNone    DiscountType = "NONE"
	DiscountTypeFlat    DiscountType = "FLAT"
	DiscountTypePercent DiscountType = "PERCENT"
)

// IsValid checks if the discount type is valid
func (t DiscountType) IsValid() bool {
	switch t {
	case DiscountTypeNone, DiscountTypeFlat, DiscountTypePercent:
		return true
	}
	return false
}

// DocumentLine is a priced line on an invoice or quote. Item details,
// including the unit cost at the time of sale, are snapshotted at
// creation so later catalog edits never change the document or its
// margin.
type DocumentLine struct {
	ItemID      uuid.UUID       `json:"item_id"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// NewDocumentLine creates a priced document line
func NewDocumentLine(itemID uuid.UUID, sku, description string, quantity, unitCost, unitPrice decimal.Decimal) (DocumentLine, error) {
	if description == "" {
		return DocumentLine{}, shared.NewDomainError("INVALID_LINE", "Line description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return DocumentLine{}, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	if unitCost.IsNegative() {
		return DocumentLine{}, shared.NewDomainError("INVALID_COST", "Line unit cost cannot be negative")
	}
	if unitPrice.IsNegative() {
		return DocumentLine{}, shared.NewDomainError("INVALID_PRICE", "Line unit price cannot be negative")
	}

	return DocumentLine{
		ItemID:      itemID,
		SKU:         sku,
		Description: description,
		Quantity:    quantity,
		UnitCost:    unitCost,
		UnitPrice:   unitPrice,
		LineTotal:   quantity.Mul(unitPrice),
	}, nil
}

// DocumentLines is a slice of DocumentLine that implements GORM Scanner/Valuer for JSONB storage
type DocumentLines []DocumentLine

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l DocumentLines) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *DocumentLines) Scan(value interface{}) error {
	if value == nil {
		*l = DocumentLines{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan DocumentLines: unsupported type")
	}

	return json.Unmarshal(bytes, l)
}

// DocumentTotals holds the computed monetary summary of a document
type DocumentTotals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// ComputeTotals derives a document's totals from its lines. The
// discount is applied to the subtotal before tax, and capped at the
// subtotal so the taxable base never goes negative. Tax is rounded to
// two decimal places.
func ComputeTotals(lines DocumentLines, discountType DiscountType, discountValue, taxRate decimal.Decimal) (DocumentTotals, error) {
	if !discountType.IsValid() {
		return DocumentTotals{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount type must be NONE, FLAT or PERCENT")
	}
	if discountValue.IsNegative() {
		return DocumentTotals{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount value cannot be negative")
	}
	if taxRate.IsNegative() {
		return DocumentTotals{}, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal)
	}

	discount := decimal.Zero
	switch discountType {
	case DiscountTypeFlat:
		discount = discountValue
	case DiscountTypePercent:
		if discountValue.GreaterThan(decimal.NewFromInt(100)) {
			return DocumentTotals{}, shared.NewDomainError("INVALID_DISCOUNT", "Percentage discount cannot exceed 100")
		}
		discount = subtotal.Mul(discountValue).Div(decimal.NewFromInt(100))
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	discount = discount.Round(2)

	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(taxRate).Round(2)

	return DocumentTotals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		Total:          taxable.Add(tax),
	}, nil
}
