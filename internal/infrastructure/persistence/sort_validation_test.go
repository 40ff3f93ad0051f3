package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ASC", "ASC"},
		{"asc", "ASC"},
		{" Asc ", "ASC"},
		{"DESC", "DESC"},
		{"desc", "DESC"},
		{"", "DESC"},
		{"sideways", "DESC"},
		{"ASC; DROP TABLE customers;", "DESC"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ValidateSortOrder(tt.input), "input %q", tt.input)
	}
}

func TestValidateSortField(t *testing.T) {
	t.Run("allowed field passes through", func(t *testing.T) {
		assert.Equal(t, "name", ValidateSortField("name", CustomerSortFields, "created_at"))
		assert.Equal(t, "selling_price", ValidateSortField("selling_price", ItemSortFields, "created_at"))
	})

	t.Run("empty falls back to default", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("", CustomerSortFields, "created_at"))
		assert.Equal(t, "created_at", ValidateSortField("   ", CustomerSortFields, "created_at"))
	})

	t.Run("unknown field falls back to default", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("password", CustomerSortFields, "created_at"))
		assert.Equal(t, "created_at", ValidateSortField("name; DROP TABLE customers", CustomerSortFields, "created_at"))
	})

	t.Run("field from another whitelist is rejected", func(t *testing.T) {
		// sku is an item field, not a customer field
		assert.Equal(t, "created_at", ValidateSortField("sku", CustomerSortFields, "created_at"))
	})
}
