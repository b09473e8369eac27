package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"fintrack/internal/finance"
	"fintrack/internal/model"
	"fintrack/internal/pdf"
	"fintrack/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type ReportFilter struct {
	UserID string
	Status string
	From   string // YYYY-MM-DD
	To     string // YYYY-MM-DD
}

// ReportInvoiceRow is an invoice enriched by a fresh pass through the totals
// engine. TotalsStale is raised when the recomputed aggregates disagree with
// what storage held; drift is surfaced, not silently papered over.
type ReportInvoiceRow struct {
	InvoiceResponse
	TotalsStale bool `json:"totalsStale,omitempty"`
}

type SummaryRow struct {
	InvoiceNumber string `json:"invoiceNumber"`
	Title         string `json:"title"`
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
}

type RevenueDataPoint struct {
	Period       string `json:"period"`
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
	Net          string `json:"net"`
}

type RevenueFilter struct {
	GroupBy   string // week, month, quarter, year
	StartDate string // RFC3339
	EndDate   string // RFC3339
}

// --- Interface ---

type ReportService interface {
	InvoiceReport(ctx context.Context, filter ReportFilter) ([]ReportInvoiceRow, error)
	SummaryCSV(ctx context.Context, filter ReportFilter) ([]byte, error)
	InvoicePDF(ctx context.Context, invoiceID string) ([]byte, string, error)
	RevenueStatistics(ctx context.Context, filter RevenueFilter) ([]RevenueDataPoint, error)
}

type reportService struct {
	db          *gorm.DB
	invoiceRepo repository.InvoiceRepository
	reportRepo  repository.ReportRepository
}

func NewReportService(db *gorm.DB, invoiceRepo repository.InvoiceRepository, reportRepo repository.ReportRepository) ReportService {
	return &reportService{db: db, invoiceRepo: invoiceRepo, reportRepo: reportRepo}
}

// --- Implementation ---

// InvoiceReport lists invoices in range, each one re-run through the totals
// engine so displayed numbers are fresh even if the stored aggregates are
// stale. The engine output is the single source of truth; a mismatch is
// logged and flagged on the row.
func (s *reportService) InvoiceReport(ctx context.Context, filter ReportFilter) ([]ReportInvoiceRow, error) {
	invoices, err := s.fetch(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]ReportInvoiceRow, 0, len(invoices))
	for _, inv := range invoices {
		enriched, stale := refreshTotals(inv)
		rows = append(rows, ReportInvoiceRow{
			InvoiceResponse: toInvoiceResponse(enriched),
			TotalsStale:     stale,
		})
	}
	return rows, nil
}

// SummaryCSV renders the report rows as CSV and logs the export.
func (s *reportService) SummaryCSV(ctx context.Context, filter ReportFilter) ([]byte, error) {
	invoices, err := s.fetch(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"invoiceNumber", "title", "date", "amount", "status"}); err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		enriched, _ := refreshTotals(inv)
		record := []string{
			enriched.InvoiceNumber,
			enriched.Title,
			enriched.IssueDate.Format("2006-01-02"),
			enriched.GrandTotal.StringFixed(2),
			enriched.Status,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	if filter.UserID != "" {
		if userID, parseErr := uuid.Parse(filter.UserID); parseErr == nil {
			meta, _ := json.Marshal(map[string]any{
				"from": filter.From, "to": filter.To, "count": len(invoices),
			})
			logErr := s.reportRepo.LogExport(ctx, &model.ReportLog{
				UserID: userID,
				Type:   "csv_summary",
				Meta:   string(meta),
			})
			if logErr != nil {
				log.Printf("failed to log csv export: %v", logErr)
			}
		}
	}

	return buf.Bytes(), nil
}

// InvoicePDF renders an itemized invoice. The PDF shows the same engine
// output the JSON endpoints expose. Returns document bytes and a filename.
func (s *reportService) InvoicePDF(ctx context.Context, invoiceID string) ([]byte, string, error) {
	id, err := uuid.Parse(invoiceID)
	if err != nil {
		return nil, "", badInput("invalid invoice id: %v", err)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	enriched, _ := refreshTotals(*invoice)
	doc, err := pdf.RenderInvoice(enriched)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render pdf: %w", err)
	}
	return doc, enriched.InvoiceNumber + ".pdf", nil
}

// RevenueStatistics groups the income ledger and group expenses by period.
func (s *reportService) RevenueStatistics(ctx context.Context, filter RevenueFilter) ([]RevenueDataPoint, error) {
	groupBy := filter.GroupBy
	switch groupBy {
	case "week", "month", "quarter", "year":
		// valid
	default:
		groupBy = "month"
	}

	query := `
		SELECT period,
		       COALESCE(SUM(income), 0)  AS total_income,
		       COALESCE(SUM(expense), 0) AS total_expense
		FROM (
			SELECT TO_CHAR(DATE_TRUNC($1, date), 'YYYY-MM-DD') AS period, amount AS income, 0 AS expense
			FROM incomes
			WHERE date >= $2::timestamptz AND date <= $3::timestamptz
			UNION ALL
			SELECT TO_CHAR(DATE_TRUNC($1, date), 'YYYY-MM-DD') AS period, 0 AS income, amount AS expense
			FROM group_expenses
			WHERE date >= $2::timestamptz AND date <= $3::timestamptz
		) entries
		GROUP BY period
		ORDER BY period
	`

	type rawResult struct {
		Period       string  `gorm:"column:period"`
		TotalIncome  float64 `gorm:"column:total_income"`
		TotalExpense float64 `gorm:"column:total_expense"`
	}

	var rows []rawResult
	if err := s.db.WithContext(ctx).Raw(query, groupBy, filter.StartDate, filter.EndDate).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query revenue statistics: %w", err)
	}

	result := make([]RevenueDataPoint, 0, len(rows))
	for _, r := range rows {
		result = append(result, RevenueDataPoint{
			Period:       r.Period,
			TotalIncome:  fmt.Sprintf("%.2f", r.TotalIncome),
			TotalExpense: fmt.Sprintf("%.2f", r.TotalExpense),
			Net:          fmt.Sprintf("%.2f", r.TotalIncome-r.TotalExpense),
		})
	}
	return result, nil
}

// --- Helpers ---

func (s *reportService) fetch(ctx context.Context, filter ReportFilter) ([]model.Invoice, error) {
	repoFilter := repository.InvoiceListFilter{
		Status: filter.Status,
		From:   filter.From,
		To:     filter.To,
	}
	if filter.UserID != "" {
		userID, err := uuid.Parse(filter.UserID)
		if err != nil {
			return nil, badInput("invalid user_id: %v", err)
		}
		repoFilter.UserID = userID
	}

	invoices, _, err := s.invoiceRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	return invoices, nil
}

// refreshTotals re-derives the four aggregates from the stored items and
// reports whether storage had drifted from the engine output.
func refreshTotals(inv model.Invoice) (model.Invoice, bool) {
	lineItems := make([]finance.LineItem, 0, len(inv.Items))
	for _, it := range inv.Items {
		lineItems = append(lineItems, finance.LineItem{
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			TaxPercent:      it.TaxPercent,
		})
	}
	totals := finance.ComputeTotals(lineItems)

	stale := !inv.Subtotal.Equal(totals.Subtotal) ||
		!inv.TotalDiscount.Equal(totals.TotalDiscount) ||
		!inv.TotalTax.Equal(totals.TotalTax) ||
		!inv.GrandTotal.Equal(totals.GrandTotal)
	if stale {
		log.Printf("invoice %s: stored totals drifted from recomputed values (stored grandTotal=%s, recomputed=%s)",
			inv.InvoiceNumber, inv.GrandTotal, totals.GrandTotal)
	}

	applyTotals(&inv, totals)
	return inv, stale
}

// DefaultRevenueRange fills an open-ended filter with the current month.
func DefaultRevenueRange(now time.Time) (string, string) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start.Format(time.RFC3339), now.Format(time.RFC3339)
}
