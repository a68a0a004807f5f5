package order

import (
	"github.com/shopspring/decimal"
)

// CommissionPolicy holds the arithmetic rules used to pay agents.
type CommissionPolicy struct {
	// BaseAmount is paid on every sale at or above MSP.
	BaseAmount decimal.Decimal
	// BonusRate is the share of (sale price - MSP) added on top of the base.
	BonusRate decimal.Decimal
	// OverrideRate is the share of a sub-agent's sale owed to the recruiting agent.
	OverrideRate decimal.Decimal
}

// DefaultCommissionPolicy returns base 100, 50% bonus, 2% override.
func DefaultCommissionPolicy() CommissionPolicy {
	return CommissionPolicy{
		BaseAmount:   decimal.NewFromInt(100),
		BonusRate:    decimal.NewFromFloat(0.5),
		OverrideRate: decimal.NewFromFloat(0.02),
	}
}

// Commission is the breakdown of an agent's earning on one order.
type Commission struct {
	Base       decimal.Decimal
	Bonus      decimal.Decimal
	Total      decimal.Decimal
	IsBelowMSP bool
}

// Calculate computes the agent commission for a sale.
// At or above MSP the agent earns base + floor(bonusRate * (sale - msp)).
// Below MSP the commission is zero until an admin approves the order.
func (p CommissionPolicy) Calculate(msp, salePrice decimal.Decimal) Commission {
	if salePrice.LessThan(msp) {
		return Commission{
			Base:       decimal.Zero,
			Bonus:      decimal.Zero,
			Total:      decimal.Zero,
			IsBelowMSP: true,
		}
	}

	bonus := salePrice.Sub(msp).Mul(p.BonusRate).Floor()
	return Commission{
		Base:  p.BaseAmount,
		Bonus: bonus,
		Total: p.BaseAmount.Add(bonus),
	}
}

// Override computes the recruiting agent's share of a sub-agent sale.
func (p CommissionPolicy) Override(salePrice decimal.Decimal) decimal.Decimal {
	if !salePrice.IsPositive() {
		return decimal.Zero
	}
	return salePrice.Mul(p.OverrideRate).Floor()
}

// BelowMSPApprovalAmount is what an approved below-MSP order pays when the
// admin does not name an amount: the base commission without bonus.
func (p CommissionPolicy) BelowMSPApprovalAmount() decimal.Decimal {
	return p.BaseAmount
}
