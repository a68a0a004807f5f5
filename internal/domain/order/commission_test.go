package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCommissionPolicy_Calculate(t *testing.T) {
	p := DefaultCommissionPolicy()
	msp := decimal.NewFromInt(600)

	t.Run("at MSP pays base only", func(t *testing.T) {
		c := p.Calculate(msp, decimal.NewFromInt(600))
		assert.False(t, c.IsBelowMSP)
		assert.True(t, c.Bonus.IsZero())
		assert.True(t, c.Total.Equal(p.BaseAmount))
	})

	t.Run("above MSP adds half the margin", func(t *testing.T) {
		c := p.Calculate(msp, decimal.NewFromInt(800))
		assert.False(t, c.IsBelowMSP)
		assert.True(t, c.Bonus.Equal(decimal.NewFromInt(100)))
		assert.True(t, c.Total.Equal(p.BaseAmount.Add(decimal.NewFromInt(100))))
	})

	t.Run("bonus is floored", func(t *testing.T) {
		c := p.Calculate(msp, decimal.NewFromInt(601))
		assert.True(t, c.Bonus.IsZero())
		c = p.Calculate(msp, decimal.RequireFromString("603.50"))
		assert.True(t, c.Bonus.Equal(decimal.NewFromInt(1)))
	})

	t.Run("below MSP pays nothing and flags the order", func(t *testing.T) {
		c := p.Calculate(msp, decimal.NewFromInt(500))
		assert.True(t, c.IsBelowMSP)
		assert.True(t, c.Total.IsZero())
		assert.True(t, c.Base.IsZero())
	})
}

func TestCommissionPolicy_Override(t *testing.T) {
	p := DefaultCommissionPolicy()
	assert.True(t, p.Override(decimal.NewFromInt(1000)).Equal(decimal.NewFromInt(20)))
	assert.True(t, p.Override(decimal.NewFromInt(999)).Equal(decimal.NewFromInt(19)))
	assert.True(t, p.Override(decimal.Zero).IsZero())
}
