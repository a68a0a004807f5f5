package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	for input, want := range map[string]string{
		"":                        "DESC",
		"asc":                     "ASC",
		"  ASC ":                  "ASC",
		"desc":                    "DESC",
		"sideways":                "DESC",
		"ASC; DROP TABLE orders;": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(input), "input %q", input)
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"empty falls back", "", "created_at"},
		{"money column", "sale_price", "sale_price"},
		{"trimmed", "  order_number ", "order_number"},
		{"case sensitive", "STATUS", "created_at"},
		{"unknown column", "password_hash", "created_at"},
		{"injection", "status; DROP TABLE orders;--", "created_at"},
		{"subquery", "id, (SELECT password_hash FROM profiles)", "created_at"},
		{"quote", "status'--", "created_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortField(tt.field, OrderSortFields, "created_at"))
		})
	}

	assert.Empty(t, ValidateSortField("bogus", AgentSortFields, ""))
}

func TestSortFieldWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"orders":        OrderSortFields,
		"agents":        AgentSortFields,
		"customers":     CustomerSortFields,
		"card_designs":  CardDesignSortFields,
		"payouts":       PayoutSortFields,
		"expenses":      ExpenseSortFields,
		"notifications": NotificationSortFields,
	}
	for table, fields := range whitelists {
		assert.True(t, fields["id"], "%s must sort by id", table)
		assert.True(t, fields["created_at"], "%s must sort by created_at", table)
	}

	assert.True(t, AgentSortFields["available_balance"])
	assert.True(t, CardDesignSortFields["base_msp"])
	assert.False(t, CustomerSortFields["email"])
}
