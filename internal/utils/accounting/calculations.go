package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// Epsilon is the tolerance used to treat two amounts as equal. Amounts are
// cent-denominated decimals, so one cent-equivalent covers rounding noise
// from upstream systems.
var Epsilon = decimal.NewFromFloat(0.01)

// EqualWithinEpsilon reports whether a and b differ by at most Epsilon.
func EqualWithinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// SignedAmount converts a line's debit/credit pair into a signed balance
// contribution for the given category: positive always reads as "in the
// account's normal direction".
func SignedAmount(debit, credit decimal.Decimal, category domain.AccountCategory) (decimal.Decimal, error) {
	net := debit.Sub(credit)
	side, ok := category.NormalBalance()
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown account category %q", category)
	}
	if side == domain.CreditSide {
		return net.Neg(), nil
	}
	return net, nil
}

// ApplyNormalSign flips a raw debit-minus-credit sum so that credit-normal
// categories read positive in their expected direction.
func ApplyNormalSign(net decimal.Decimal, category domain.AccountCategory) (decimal.Decimal, error) {
	return SignedAmount(net, decimal.Zero, category)
}
