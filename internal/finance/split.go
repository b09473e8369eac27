package finance

import "github.com/shopspring/decimal"

// EqualSplit divides total into n shares rounded to cents. The division
// remainder is spread one cent at a time over the earliest shares, so the
// shares always sum exactly to the rounded total. Returns nil when n <= 0.
func EqualSplit(total decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}

	total = total.Round(2)
	count := decimal.NewFromInt(int64(n))
	base := total.Div(count).RoundDown(2)

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = base
	}

	// Leftover cents after the floor division, e.g. 100.00 / 3 leaves 0.01.
	remainder := total.Sub(base.Mul(count))
	cent := decimal.New(1, -2)
	if total.IsNegative() {
		cent = cent.Neg()
	}
	for i := 0; remainder.Abs().GreaterThanOrEqual(cent.Abs()); i++ {
		shares[i%n] = shares[i%n].Add(cent)
		remainder = remainder.Sub(cent)
	}

	return shares
}
