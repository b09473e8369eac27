package service

import (
	"testing"

	"fintrack/internal/model"

	"github.com/shopspring/decimal"
)

func TestRefreshTotalsDetectsDrift(t *testing.T) {
	inv := model.Invoice{
		InvoiceNumber: "INV-20260101-00001",
		Items: []model.InvoiceItem{
			{Description: "Design", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100),
				DiscountPercent: decimal.NewFromInt(10), TaxPercent: decimal.NewFromInt(5)},
		},
		// Stored aggregates tampered with, as if written by an older buggy path
		Subtotal:      decimal.NewFromInt(200),
		TotalDiscount: decimal.NewFromInt(20),
		TotalTax:      decimal.NewFromInt(9),
		GrandTotal:    decimal.NewFromInt(999),
	}

	refreshed, stale := refreshTotals(inv)
	if !stale {
		t.Fatal("expected stale flag for drifted grand total")
	}
	if refreshed.GrandTotal.StringFixed(2) != "189.00" {
		t.Errorf("grandTotal = %s, want 189.00", refreshed.GrandTotal.StringFixed(2))
	}
}

func TestRefreshTotalsCleanInvoice(t *testing.T) {
	inv := model.Invoice{
		Items: []model.InvoiceItem{
			{Description: "Hosting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)},
		},
		Subtotal:   decimal.NewFromInt(50),
		GrandTotal: decimal.NewFromInt(50),
	}

	refreshed, stale := refreshTotals(inv)
	if stale {
		t.Fatal("clean invoice flagged as stale")
	}
	if !refreshed.GrandTotal.Equal(decimal.NewFromInt(50)) {
		t.Errorf("grandTotal = %s, want 50", refreshed.GrandTotal)
	}
}

func TestRefreshTotalsEmptyItems(t *testing.T) {
	refreshed, stale := refreshTotals(model.Invoice{})
	if stale {
		t.Fatal("empty invoice flagged as stale")
	}
	if !refreshed.GrandTotal.IsZero() {
		t.Errorf("grandTotal = %s, want 0", refreshed.GrandTotal)
	}
}
