package agent

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceAudit compares the stored running balance with the value derived
// from order and payout history.
type BalanceAudit struct {
	AgentID            uuid.UUID       `json:"agent_id"`
	ReferralCode       string          `json:"referral_code"`
	StoredBalance      decimal.Decimal `json:"stored_balance"`
	CreditedCommission decimal.Decimal `json:"credited_commission"`
	CreditedOverride   decimal.Decimal `json:"credited_override"`
	CompletedPayouts   decimal.Decimal `json:"completed_payouts"`
	DerivedBalance     decimal.Decimal `json:"derived_balance"`
	Drift              decimal.Decimal `json:"drift"`
}

// NewBalanceAudit computes derived balance and drift (stored - derived)
func NewBalanceAudit(a *Agent, commission, override, payouts decimal.Decimal) BalanceAudit {
	derived := commission.Add(override).Sub(payouts)
	return BalanceAudit{
		AgentID:            a.ID,
		ReferralCode:       a.ReferralCode,
		StoredBalance:      a.AvailableBalance,
		CreditedCommission: commission,
		CreditedOverride:   override,
		CompletedPayouts:   payouts,
		DerivedBalance:     derived,
		Drift:              a.AvailableBalance.Sub(derived),
	}
}

// Consistent returns true when stored and derived balances agree
func (b BalanceAudit) Consistent() bool {
	return b.Drift.IsZero()
}
