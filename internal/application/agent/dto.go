package agent

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/order"
)

// ApplyRequest is the body of POST /agents/apply
type ApplyRequest struct {
	FullName     string `json:"full_name" binding:"required,min=1,max=200"`
	Email        string `json:"email" binding:"required,email,max=254"`
	Phone        string `json:"phone" binding:"required,max=32"`
	City         string `json:"city" binding:"max=100"`
	Password     string `json:"password" binding:"required,min=8,max=72"`
	ReferralCode string `json:"referral_code" binding:"omitempty,max=20"`
}

// CreateAgentRequest is the body of POST /admin/agents. Agents created by an
// admin start active. Without a password the response carries a claim link.
type CreateAgentRequest struct {
	FullName     string     `json:"full_name" binding:"required,min=1,max=200"`
	Email        string     `json:"email" binding:"required,email,max=254"`
	Phone        string     `json:"phone" binding:"required,max=32"`
	City         string     `json:"city" binding:"max=100"`
	Password     string     `json:"password" binding:"omitempty,min=8,max=72"`
	ReferralCode string     `json:"referral_code" binding:"omitempty,min=4,max=20,alphanum"`
	ParentCode   string     `json:"parent_referral_code" binding:"omitempty,max=20"`
	ParentID     *uuid.UUID `json:"parent_agent_id"`
}

// PayoutDetailsInput carries where payouts go
type PayoutDetailsInput struct {
	UPIID             string `json:"upi_id" binding:"max=100"`
	BankAccountName   string `json:"bank_account_name" binding:"max=200"`
	BankAccountNumber string `json:"bank_account_number" binding:"max=34"`
	BankIFSC          string `json:"bank_ifsc" binding:"max=11"`
}

// UpdateAgentRequest is the body of PATCH /admin/agents/:id. Nil fields are left alone.
type UpdateAgentRequest struct {
	Status        *agent.AgentStatus  `json:"status" binding:"omitempty,oneof=pending active suspended"`
	ParentAgentID *uuid.UUID          `json:"parent_agent_id"`
	ClearParent   bool                `json:"clear_parent"`
	City          *string             `json:"city" binding:"omitempty,max=100"`
	PayoutDetails *PayoutDetailsInput `json:"payout_details"`
}

// AgentResponse is the API view of an agent
type AgentResponse struct {
	ID                uuid.UUID         `json:"id"`
	ProfileID         uuid.UUID         `json:"profile_id"`
	FullName          string            `json:"full_name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	ReferralCode      string            `json:"referral_code"`
	ReferralLink      string            `json:"referral_link"`
	ParentAgentID     *uuid.UUID        `json:"parent_agent_id,omitempty"`
	Status            agent.AgentStatus `json:"status"`
	City              string            `json:"city"`
	UPIID             string            `json:"upi_id,omitempty"`
	BankAccountName   string            `json:"bank_account_name,omitempty"`
	BankAccountNumber string            `json:"bank_account_number,omitempty"`
	BankIFSC          string            `json:"bank_ifsc,omitempty"`
	TotalSales        decimal.Decimal   `json:"total_sales"`
	TotalEarnings     decimal.Decimal   `json:"total_earnings"`
	AvailableBalance  decimal.Decimal   `json:"available_balance"`
	ApprovedAt        *time.Time        `json:"approved_at,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// CreateAgentResponse adds the claim link for agents created without a password
type CreateAgentResponse struct {
	AgentResponse
	ClaimURL string `json:"claim_url,omitempty"`
}

// AgentListFilter narrows GET /admin/agents
type AgentListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=pending active suspended"`
	City     string `form:"city"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MSPItem sets or clears one agent MSP override. A nil MSP removes it.
type MSPItem struct {
	CardDesignID uuid.UUID        `json:"card_design_id" binding:"required"`
	MSP          *decimal.Decimal `json:"msp"`
}

// SetMSPRequest is the body of PUT /admin/agents/:id/msp
type SetMSPRequest struct {
	Items []MSPItem `json:"items" binding:"required,min=1,max=200,dive"`
}

// MSPResponse is one design row of an agent's price sheet
type MSPResponse struct {
	CardDesignID   uuid.UUID        `json:"card_design_id"`
	CardDesignName string           `json:"card_design_name"`
	BaseMSP        decimal.Decimal  `json:"base_msp"`
	OverrideMSP    *decimal.Decimal `json:"override_msp,omitempty"`
	EffectiveMSP   decimal.Decimal  `json:"effective_msp"`
}

// DashboardResponse is the agent portal landing view
type DashboardResponse struct {
	Agent             AgentResponse             `json:"agent"`
	OrdersByStatus    map[order.OrderStatus]int `json:"orders_by_status"`
	TotalOrders       int                       `json:"total_orders"`
	PendingCommission decimal.Decimal           `json:"pending_commission"`
	PendingPayouts    decimal.Decimal           `json:"pending_payouts"`
	SubAgentCount     int                       `json:"sub_agent_count"`
	RecentOrders      []order.OrderSummary      `json:"recent_orders"`
}

// NetworkMember is one direct sub-agent
type NetworkMember struct {
	AgentID         uuid.UUID         `json:"agent_id"`
	FullName        string            `json:"full_name"`
	ReferralCode    string            `json:"referral_code"`
	Status          agent.AgentStatus `json:"status"`
	City            string            `json:"city"`
	TotalSales      decimal.Decimal   `json:"total_sales"`
	OrderCount      int               `json:"order_count"`
	OverrideEarned  decimal.Decimal   `json:"override_earned"`
	OverridePending decimal.Decimal   `json:"override_pending"`
	JoinedAt        time.Time         `json:"joined_at"`
}

// NetworkResponse lists the sub-agents and the override totals
type NetworkResponse struct {
	Members         []NetworkMember `json:"members"`
	OverrideEarned  decimal.Decimal `json:"override_earned"`
	OverridePending decimal.Decimal `json:"override_pending"`
	// OverrideCredited tells whether earned overrides reach the balance
	OverrideCredited bool `json:"override_credited"`
}

// RecordPayoutRequest is the body of POST /admin/payouts
type RecordPayoutRequest struct {
	AgentID       uuid.UUID           `json:"agent_id" binding:"required"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod agent.PaymentMethod `json:"payment_method" binding:"required,oneof=upi bank_transfer cash"`
	Status        agent.PayoutStatus  `json:"status" binding:"omitempty,oneof=pending completed"`
	Reference     string              `json:"reference" binding:"max=100"`
	Notes         string              `json:"notes" binding:"max=1000"`
}

// RequestPayoutRequest is the body of POST /agent/payouts
type RequestPayoutRequest struct {
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod agent.PaymentMethod `json:"payment_method" binding:"required,oneof=upi bank_transfer cash"`
	Notes         string              `json:"notes" binding:"max=1000"`
}

// ProcessPayoutRequest is the body of PATCH /admin/payouts/:id
type ProcessPayoutRequest struct {
	Action    string `json:"action" binding:"required,oneof=complete fail"`
	Reference string `json:"reference" binding:"max=100"`
	Reason    string `json:"reason" binding:"max=1000"`
}

// PayoutResponse is the API view of a payout
type PayoutResponse struct {
	ID            uuid.UUID           `json:"id"`
	AgentID       uuid.UUID           `json:"agent_id"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod agent.PaymentMethod `json:"payment_method"`
	Status        agent.PayoutStatus  `json:"status"`
	Reference     string              `json:"reference,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	FailureReason string              `json:"failure_reason,omitempty"`
	ProcessedAt   *time.Time          `json:"processed_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// PayoutListFilter narrows payout listings
type PayoutListFilter struct {
	AgentID  string `form:"agent_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=pending completed failed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToPayoutResponse converts a domain payout
func ToPayoutResponse(p *agent.Payout) PayoutResponse {
	return PayoutResponse{
		ID:            p.ID,
		AgentID:       p.AgentID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		Status:        p.Status,
		Reference:     p.Reference,
		Notes:         p.Notes,
		FailureReason: p.FailureReason,
		ProcessedAt:   p.ProcessedAt,
		CreatedAt:     p.CreatedAt,
	}
}
