package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

func TestEqualWithinEpsilon(t *testing.T) {
	tests := []struct {
		name string
		a    decimal.Decimal
		b    decimal.Decimal
		want bool
	}{
		{name: "exactly equal", a: decimal.NewFromInt(100), b: decimal.NewFromInt(100), want: true},
		{name: "difference at epsilon", a: decimal.NewFromFloat(100.01), b: decimal.NewFromInt(100), want: true},
		{name: "difference under epsilon", a: decimal.NewFromFloat(100.005), b: decimal.NewFromInt(100), want: true},
		{name: "difference over epsilon", a: decimal.NewFromFloat(100.02), b: decimal.NewFromInt(100), want: false},
		{name: "symmetric", a: decimal.NewFromInt(100), b: decimal.NewFromFloat(100.005), want: true},
		{name: "both zero", a: decimal.Zero, b: decimal.Zero, want: true},
		{name: "negative amounts", a: decimal.NewFromFloat(-50.005), b: decimal.NewFromInt(-50), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EqualWithinEpsilon(tt.a, tt.b))
		})
	}
}

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name     string
		debit    decimal.Decimal
		credit   decimal.Decimal
		category domain.AccountCategory
		want     decimal.Decimal
	}{
		{name: "asset debit increases", debit: decimal.NewFromInt(100), credit: decimal.Zero, category: domain.Asset, want: decimal.NewFromInt(100)},
		{name: "asset credit decreases", debit: decimal.Zero, credit: decimal.NewFromInt(40), category: domain.Asset, want: decimal.NewFromInt(-40)},
		{name: "expense debit increases", debit: decimal.NewFromInt(75), credit: decimal.Zero, category: domain.Expense, want: decimal.NewFromInt(75)},
		{name: "liability credit increases", debit: decimal.Zero, credit: decimal.NewFromInt(200), category: domain.Liability, want: decimal.NewFromInt(200)},
		{name: "equity credit increases", debit: decimal.Zero, credit: decimal.NewFromInt(500), category: domain.Equity, want: decimal.NewFromInt(500)},
		{name: "revenue credit increases", debit: decimal.Zero, credit: decimal.NewFromInt(300), category: domain.Revenue, want: decimal.NewFromInt(300)},
		{name: "revenue debit decreases", debit: decimal.NewFromInt(50), credit: decimal.Zero, category: domain.Revenue, want: decimal.NewFromInt(-50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SignedAmount(tt.debit, tt.credit, tt.category)
			assert.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestSignedAmountUnknownCategory(t *testing.T) {
	_, err := SignedAmount(decimal.NewFromInt(10), decimal.Zero, domain.AccountCategory("GOODWILL"))
	assert.Error(t, err)
}

func TestApplyNormalSign(t *testing.T) {
	// Raw net of -750 on a credit-normal account reads as a positive balance.
	got, err := ApplyNormalSign(decimal.NewFromInt(-750), domain.Revenue)
	assert.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(750)))

	// The same raw net on a debit-normal account keeps its sign.
	got, err = ApplyNormalSign(decimal.NewFromInt(-750), domain.Asset)
	assert.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(-750)))
}
