package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
	"phone":      true,
	"active":     true,
}

// ItemSortFields contains allowed sort fields for catalog items
var ItemSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"sku":           true,
	"type":          true,
	"selling_price": true,
	"cost_price":    true,
	"current_stock": true,
	"active":        true,
}

// StockMovementSortFields contains allowed sort fields for stock movements
var StockMovementSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"item_id":    true,
	"type":       true,
	"quantity":   true,
}

// MoneyAccountSortFields contains allowed sort fields for money accounts
var MoneyAccountSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"type":       true,
	"balance":    true,
	"active":     true,
}

// MoneyMovementSortFields contains allowed sort fields for money movements
var MoneyMovementSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"account_id": true,
	"direction":  true,
	"amount":     true,
	"ref_type":   true,
	"reconciled": true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"number":      true,
	"customer_id": true,
	"status":      true,
	"issue_date":  true,
	"due_date":    true,
	"total":       true,
	"amount_paid": true,
}

// QuoteSortFields contains allowed sort fields for quotes
var QuoteSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"number":      true,
	"customer_id": true,
	"status":      true,
	"issue_date":  true,
	"valid_until": true,
	"total":       true,
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"number":      true,
	"customer_id": true,
	"status":      true,
	"sale_date":   true,
	"total":       true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"number":       true,
	"customer_id":  true,
	"status":       true,
	"payment_date": true,
	"amount":       true,
	"allocated":    true,
}

// EmployeeSortFields contains allowed sort fields for employees
var EmployeeSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"position":     true,
	"basic_salary": true,
	"hire_date":    true,
	"active":       true,
}

// PayrollRunSortFields contains allowed sort fields for payroll runs
var PayrollRunSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"year":       true,
	"month":      true,
	"status":     true,
	"total_net":  true,
}

// ActivityLogSortFields contains allowed sort fields for activity logs
var ActivityLogSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"action":         true,
	"aggregate_type": true,
}
