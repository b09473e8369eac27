// Package finance holds the pure money computations shared by the invoice,
// report and PDF paths. Nothing in here touches the database or the request
// context; callers normalize input first and persist the results themselves.
package finance

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// LineItem is one billable row on an invoice after input normalization.
type LineItem struct {
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

// Totals are the four derived aggregates of an invoice, rounded to 2 decimal
// places. GrandTotal is always Subtotal - TotalDiscount + TotalTax computed
// from the rounded aggregates, so the identity holds exactly.
type Totals struct {
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	TotalTax      decimal.Decimal
	GrandTotal    decimal.Decimal
}

// ComputeTotals accumulates per-line amounts at full precision and rounds the
// aggregates once at the end. It never fails: a zero or missing quantity
// counts as 1, and out-of-range discount/tax percentages are taken as given.
// Summation is commutative, so item order does not affect the result.
func ComputeTotals(items []LineItem) Totals {
	subtotal := decimal.Zero
	totalDiscount := decimal.Zero
	totalTax := decimal.Zero

	for _, it := range items {
		qty := it.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}

		lineAmount := it.UnitPrice.Mul(qty)
		discountAmount := lineAmount.Mul(it.DiscountPercent).Div(oneHundred)
		taxableAmount := lineAmount.Sub(discountAmount)
		taxAmount := taxableAmount.Mul(it.TaxPercent).Div(oneHundred)

		subtotal = subtotal.Add(lineAmount)
		totalDiscount = totalDiscount.Add(discountAmount)
		totalTax = totalTax.Add(taxAmount)
	}

	sub := subtotal.Round(2)
	disc := totalDiscount.Round(2)
	tax := totalTax.Round(2)

	return Totals{
		Subtotal:      sub,
		TotalDiscount: disc,
		TotalTax:      tax,
		GrandTotal:    sub.Sub(disc).Add(tax),
	}
}

// ItemInput is the tolerant wire form of a line item. Historic clients used
// unitPrice/price/amount and qty/quantity interchangeably; absent, null or
// non-numeric values fall back to the documented defaults instead of being
// rejected.
type ItemInput struct {
	Description     string `json:"description"`
	Qty             any    `json:"qty"`
	Quantity        any    `json:"quantity"`
	UnitPrice       any    `json:"unitPrice"`
	Price           any    `json:"price"`
	Amount          any    `json:"amount"`
	DiscountPercent any    `json:"discountPercent"`
	TaxPercent      any    `json:"taxPercent"`
}

// Normalize coalesces the synonymous fields in priority order (explicit
// unitPrice-style first, generic amount last) and applies defaults:
// quantity -> 1, everything else -> 0.
func (in ItemInput) Normalize() LineItem {
	return LineItem{
		Description:     in.Description,
		Quantity:        coalesceNumber(decimal.NewFromInt(1), in.Qty, in.Quantity),
		UnitPrice:       coalesceNumber(decimal.Zero, in.UnitPrice, in.Price, in.Amount),
		DiscountPercent: coalesceNumber(decimal.Zero, in.DiscountPercent),
		TaxPercent:      coalesceNumber(decimal.Zero, in.TaxPercent),
	}
}

// NormalizeItems maps a raw item payload onto engine input.
func NormalizeItems(inputs []ItemInput) []LineItem {
	items := make([]LineItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, in.Normalize())
	}
	return items
}

func coalesceNumber(fallback decimal.Decimal, candidates ...any) decimal.Decimal {
	for _, c := range candidates {
		if d, ok := Number(c); ok {
			return d
		}
	}
	return fallback
}

// Number converts a tolerant JSON value into a decimal, accepting the value
// shapes encoding/json (and callers passing already-typed values) can produce
// for a numeric field.
func Number(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, false
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case decimal.Decimal:
		return n, true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case string:
		if _, err := strconv.ParseFloat(n, 64); err != nil {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}
