package finance

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func item(price, qty, disc, tax string) LineItem {
	return LineItem{
		Description:     "test item",
		UnitPrice:       dec(price),
		Quantity:        dec(qty),
		DiscountPercent: dec(disc),
		TaxPercent:      dec(tax),
	}
}

func assertEq(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	got := ComputeTotals(nil)

	assertEq(t, "Subtotal", got.Subtotal, decimal.Zero)
	assertEq(t, "TotalDiscount", got.TotalDiscount, decimal.Zero)
	assertEq(t, "TotalTax", got.TotalTax, decimal.Zero)
	assertEq(t, "GrandTotal", got.GrandTotal, decimal.Zero)
}

func TestComputeTotalsSingleItem(t *testing.T) {
	// 100 x 2 = 200, 10% discount = 20, taxable 180, 5% tax = 9
	got := ComputeTotals([]LineItem{item("100", "2", "10", "5")})

	assertEq(t, "Subtotal", got.Subtotal, dec("200"))
	assertEq(t, "TotalDiscount", got.TotalDiscount, dec("20"))
	assertEq(t, "TotalTax", got.TotalTax, dec("9"))
	assertEq(t, "GrandTotal", got.GrandTotal, dec("189"))
}

func TestComputeTotalsPlainSum(t *testing.T) {
	// Without discount or tax the totals reduce to sum(unitPrice * quantity).
	got := ComputeTotals([]LineItem{
		item("12.50", "4", "0", "0"),
		item("7.25", "3", "0", "0"),
	})

	assertEq(t, "Subtotal", got.Subtotal, dec("71.75"))
	assertEq(t, "TotalDiscount", got.TotalDiscount, decimal.Zero)
	assertEq(t, "TotalTax", got.TotalTax, decimal.Zero)
	assertEq(t, "GrandTotal", got.GrandTotal, dec("71.75"))
}

func TestComputeTotalsMissingQuantityDefaultsToOne(t *testing.T) {
	got := ComputeTotals([]LineItem{{Description: "flat fee", UnitPrice: dec("50")}})

	assertEq(t, "Subtotal", got.Subtotal, dec("50"))
	assertEq(t, "GrandTotal", got.GrandTotal, dec("50"))
}

func TestComputeTotalsInvariant(t *testing.T) {
	cases := [][]LineItem{
		nil,
		{item("100", "2", "10", "5")},
		{item("0.10", "3", "33.33", "7.77"), item("19.99", "7", "2.5", "18")},
		{item("1234.56", "1", "99.99", "100"), item("0.01", "1000", "0", "0.5")},
		{item("55.55", "0", "12", "8")}, // zero quantity counts as 1
	}

	for i, items := range cases {
		got := ComputeTotals(items)
		want := got.Subtotal.Sub(got.TotalDiscount).Add(got.TotalTax)
		if !got.GrandTotal.Equal(want) {
			t.Errorf("case %d: grandTotal %s != subtotal - discount + tax = %s", i, got.GrandTotal, want)
		}
	}
}

func TestComputeTotalsOrderIndependent(t *testing.T) {
	a := item("19.99", "3", "12.5", "18")
	b := item("0.07", "101", "0", "5")
	c := item("250", "1", "33.33", "0")

	first := ComputeTotals([]LineItem{a, b, c})
	second := ComputeTotals([]LineItem{c, a, b})
	third := ComputeTotals([]LineItem{b, c, a})

	for _, other := range []Totals{second, third} {
		assertEq(t, "Subtotal", other.Subtotal, first.Subtotal)
		assertEq(t, "TotalDiscount", other.TotalDiscount, first.TotalDiscount)
		assertEq(t, "TotalTax", other.TotalTax, first.TotalTax)
		assertEq(t, "GrandTotal", other.GrandTotal, first.GrandTotal)
	}
}

func TestComputeTotalsOutOfRangePercentsPassThrough(t *testing.T) {
	// Historic behavior: percentages outside [0,100] are accepted as given.
	got := ComputeTotals([]LineItem{item("100", "1", "150", "-10")})

	assertEq(t, "Subtotal", got.Subtotal, dec("100"))
	assertEq(t, "TotalDiscount", got.TotalDiscount, dec("150"))
	assertEq(t, "TotalTax", got.TotalTax, dec("5")) // (100-150) * -10%
	assertEq(t, "GrandTotal", got.GrandTotal, dec("-45"))
}

func TestNormalizeCoalescesFieldNames(t *testing.T) {
	cases := []struct {
		name  string
		in    ItemInput
		price string
		qty   string
	}{
		{"unitPrice wins over price and amount", ItemInput{UnitPrice: 10.0, Price: 20.0, Amount: 30.0}, "10", "1"},
		{"price wins over amount", ItemInput{Price: 20.0, Amount: 30.0}, "20", "1"},
		{"amount as last resort", ItemInput{Amount: 30.0}, "30", "1"},
		{"qty wins over quantity", ItemInput{UnitPrice: 5.0, Qty: 2.0, Quantity: 9.0}, "5", "2"},
		{"quantity alone", ItemInput{UnitPrice: 5.0, Quantity: 9.0}, "5", "9"},
		{"numeric strings accepted", ItemInput{UnitPrice: "12.75", Qty: "3"}, "12.75", "3"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			assertEq(t, "UnitPrice", got.UnitPrice, dec(tc.price))
			assertEq(t, "Quantity", got.Quantity, dec(tc.qty))
		})
	}
}

func TestNormalizeTolerantDefaults(t *testing.T) {
	// Absent, null and non-numeric values collapse to defaults instead of
	// failing: quantity -> 1, everything else -> 0.
	in := ItemInput{
		Description: "garbage in",
		Qty:         "not-a-number",
		UnitPrice:   map[string]any{"nested": true},
		TaxPercent:  nil,
	}

	got := in.Normalize()
	assertEq(t, "Quantity", got.Quantity, dec("1"))
	assertEq(t, "UnitPrice", got.UnitPrice, decimal.Zero)
	assertEq(t, "DiscountPercent", got.DiscountPercent, decimal.Zero)
	assertEq(t, "TaxPercent", got.TaxPercent, decimal.Zero)

	totals := ComputeTotals([]LineItem{got})
	assertEq(t, "GrandTotal", totals.GrandTotal, decimal.Zero)
}

func TestComputeTotalsRoundsOnce(t *testing.T) {
	// Three lines with a 0.3335 discount each: rounding per line would give
	// 0.99, accumulating at full precision gives 1.00.
	items := []LineItem{
		item("33.35", "1", "1", "0"),
		item("33.35", "1", "1", "0"),
		item("33.35", "1", "1", "0"),
	}

	got := ComputeTotals(items)
	assertEq(t, "Subtotal", got.Subtotal, dec("100.05"))
	assertEq(t, "TotalDiscount", got.TotalDiscount, dec("1.00"))
	assertEq(t, "GrandTotal", got.GrandTotal, dec("99.05"))
}
