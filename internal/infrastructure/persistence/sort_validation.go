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

// CommonSortFields contains fields common to every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"order_number":      true,
	"status":            true,
	"payment_status":    true,
	"sale_price":        true,
	"commission_amount": true,
}

// AgentSortFields contains allowed sort fields for agents
var AgentSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"referral_code":     true,
	"status":            true,
	"city":              true,
	"total_sales":       true,
	"total_earnings":    true,
	"available_balance": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"slug":       true,
	"full_name":  true,
	"profession": true,
	"status":     true,
}

// CardDesignSortFields contains allowed sort fields for card designs
var CardDesignSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"base_msp":    true,
	"status":      true,
	"total_sales": true,
}

// PayoutSortFields contains allowed sort fields for payouts
var PayoutSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"amount":       true,
	"status":       true,
	"processed_at": true,
}

// ExpenseSortFields contains allowed sort fields for expenses
var ExpenseSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"category":    true,
	"amount":      true,
	"incurred_on": true,
}

// NotificationSortFields contains allowed sort fields for notifications
var NotificationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"read_at":    true,
	"type":       true,
}
