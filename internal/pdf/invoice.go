// Package pdf renders invoices into downloadable PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"fintrack/internal/model"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// RenderInvoice produces an A4 portrait PDF for a single invoice: header,
// itemized line table with per-line discount and tax, and the four aggregate
// amounts at the bottom.
func RenderInvoice(inv model.Invoice) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Arial", "B", 18)
	doc.Cell(0, 12, "INVOICE")
	doc.Ln(14)

	doc.SetFont("Arial", "", 11)
	doc.Cell(0, 6, "Invoice Number: "+inv.InvoiceNumber)
	doc.Ln(6)
	if inv.Title != "" {
		doc.Cell(0, 6, "Title: "+inv.Title)
		doc.Ln(6)
	}
	doc.Cell(0, 6, "Issue Date: "+inv.IssueDate.Format(dateLayout))
	doc.Ln(6)
	if inv.DueDate != nil {
		doc.Cell(0, 6, "Due Date: "+inv.DueDate.Format(dateLayout))
		doc.Ln(6)
	}
	doc.Cell(0, 6, "Status: "+inv.Status)
	doc.Ln(10)

	// Line item table
	doc.SetFont("Arial", "B", 10)
	doc.SetFillColor(230, 230, 230)
	doc.CellFormat(70, 8, "Description", "1", 0, "L", true, 0, "")
	doc.CellFormat(20, 8, "Qty", "1", 0, "R", true, 0, "")
	doc.CellFormat(30, 8, "Unit Price", "1", 0, "R", true, 0, "")
	doc.CellFormat(25, 8, "Discount %", "1", 0, "R", true, 0, "")
	doc.CellFormat(20, 8, "Tax %", "1", 0, "R", true, 0, "")
	doc.CellFormat(25, 8, "Amount", "1", 1, "R", true, 0, "")

	doc.SetFont("Arial", "", 10)
	for _, item := range inv.Items {
		qty := item.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		amount := item.UnitPrice.Mul(qty)
		doc.CellFormat(70, 8, item.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(20, 8, qty.String(), "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 8, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		doc.CellFormat(25, 8, item.DiscountPercent.StringFixed(2), "1", 0, "R", false, 0, "")
		doc.CellFormat(20, 8, item.TaxPercent.StringFixed(2), "1", 0, "R", false, 0, "")
		doc.CellFormat(25, 8, amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	doc.Ln(6)

	// Aggregates
	writeTotal := func(label, value string, bold bool) {
		if bold {
			doc.SetFont("Arial", "B", 11)
		} else {
			doc.SetFont("Arial", "", 11)
		}
		doc.CellFormat(145, 7, label, "", 0, "R", false, 0, "")
		doc.CellFormat(45, 7, value, "", 1, "R", false, 0, "")
	}
	writeTotal("Subtotal:", inv.Subtotal.StringFixed(2), false)
	writeTotal("Total Discount:", inv.TotalDiscount.StringFixed(2), false)
	writeTotal("Total Tax:", inv.TotalTax.StringFixed(2), false)
	writeTotal("Grand Total:", inv.GrandTotal.StringFixed(2), true)

	if inv.Notes != "" {
		doc.Ln(8)
		doc.SetFont("Arial", "I", 10)
		doc.MultiCell(0, 5, "Notes: "+inv.Notes, "", "L", false)
	}

	doc.Ln(10)
	doc.SetFont("Arial", "", 8)
	doc.Cell(0, 5, "Generated "+time.Now().Format(time.RFC3339))

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
