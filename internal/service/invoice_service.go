package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/finance"
	"fintrack/internal/model"
	"fintrack/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateInvoiceRequest struct {
	UserID  string              `json:"user_id"`
	Title   string              `json:"title"`
	Items   []finance.ItemInput `json:"items"`
	DueDate string              `json:"dueDate"`
	Notes   string              `json:"notes"`
}

// UpdateInvoiceRequest is a partial payload. Totals are intentionally absent:
// they are derived server-side whenever Items is present, so client-supplied
// totals can never reach storage.
type UpdateInvoiceRequest struct {
	Title   *string              `json:"title"`
	Notes   *string              `json:"notes"`
	DueDate *string              `json:"dueDate"`
	Items   *[]finance.ItemInput `json:"items"`
}

type MarkPaidRequest struct {
	Date          string `json:"date"`
	PaymentMethod string `json:"payment_method"`
	Source        string `json:"source"`
	Notes         string `json:"notes"`
}

type InvoiceItemResponse struct {
	Description     string `json:"description"`
	Qty             string `json:"qty"`
	UnitPrice       string `json:"unitPrice"`
	DiscountPercent string `json:"discountPercent"`
	TaxPercent      string `json:"taxPercent"`
}

type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceNumber string                `json:"invoiceNumber"`
	UserID        string                `json:"user_id"`
	Title         string                `json:"title"`
	Items         []InvoiceItemResponse `json:"items"`
	Subtotal      string                `json:"subtotal"`
	TotalDiscount string                `json:"totalDiscount"`
	TotalTax      string                `json:"totalTax"`
	GrandTotal    string                `json:"grandTotal"`
	Status        string                `json:"status"`
	IssueDate     string                `json:"issueDate"`
	DueDate       *string               `json:"dueDate"`
	Notes         string                `json:"notes"`
	CreatedAt     string                `json:"created_at"`
	UpdatedAt     string                `json:"updated_at"`
}

type IncomeResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	SourceInvoice *string `json:"sourceInvoice"`
	Date          string  `json:"date"`
	Amount        string  `json:"amount"`
	Source        string  `json:"source"`
	PaymentMethod string  `json:"payment_method"`
	Notes         string  `json:"notes"`
}

type MarkPaidResponse struct {
	Invoice InvoiceResponse `json:"invoice"`
	Income  IncomeResponse  `json:"income"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, callerID string, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter repository.InvoiceListFilter) ([]InvoiceResponse, int64, error)
	UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest) (InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, id string, req MarkPaidRequest) (MarkPaidResponse, error)
	ListIncomes(ctx context.Context, userID string, page, limit int) ([]IncomeResponse, int64, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	incomeRepo  repository.IncomeRepository
	txManager   repository.TransactionManager
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	incomeRepo repository.IncomeRepository,
	txManager repository.TransactionManager,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		incomeRepo:  incomeRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, callerID string, req CreateInvoiceRequest) (InvoiceResponse, error) {
	ownerID := req.UserID
	if ownerID == "" {
		ownerID = callerID
	}
	userID, err := uuid.Parse(ownerID)
	if err != nil {
		return InvoiceResponse{}, badInput("invalid user_id: %v", err)
	}

	items, lineItems, err := normalizeInvoiceItems(req.Items)
	if err != nil {
		return InvoiceResponse{}, err
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := parseDate(req.DueDate)
		if err != nil {
			return InvoiceResponse{}, badInput("invalid dueDate: %v", err)
		}
		dueDate = &parsed
	}

	totals := finance.ComputeTotals(lineItems)

	invoice := model.Invoice{
		UserID:    userID,
		Title:     req.Title,
		Status:    model.StatusUnpaid,
		IssueDate: time.Now(),
		DueDate:   dueDate,
		Notes:     req.Notes,
	}
	applyTotals(&invoice, totals)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, numErr := s.generateInvoiceNumber(txCtx)
		if numErr != nil {
			return fmt.Errorf("failed to generate invoice number: %w", numErr)
		}
		invoice.InvoiceNumber = number
		invoice.Items = items
		for i := range invoice.Items {
			invoice.Items[i].Position = i
		}
		return s.invoiceRepo.Create(txCtx, &invoice)
	})
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	return toInvoiceResponse(invoice), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoice, err := s.findInvoice(ctx, id)
	if err != nil {
		return InvoiceResponse{}, err
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter repository.InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

// UpdateInvoice applies a partial payload. When Items is present the four
// derived amounts are recomputed and persisted together with the new item
// set; recomputation is always the last step before the write, so the
// invariant grandTotal == subtotal - totalDiscount + totalTax never hits
// disk stale. Paid invoices reject every change.
func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, badInput("invalid invoice id: %v", err)
	}

	var updated model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByIDForUpdate(txCtx, invoiceID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return findErr
		}

		if invoice.Status == model.StatusPaid {
			return ErrInvoiceLocked
		}

		if req.Title != nil {
			invoice.Title = *req.Title
		}
		if req.Notes != nil {
			invoice.Notes = *req.Notes
		}
		if req.DueDate != nil {
			if *req.DueDate == "" {
				invoice.DueDate = nil
			} else {
				parsed, parseErr := parseDate(*req.DueDate)
				if parseErr != nil {
					return badInput("invalid dueDate: %v", parseErr)
				}
				invoice.DueDate = &parsed
			}
		}

		if req.Items != nil {
			items, lineItems, normErr := normalizeInvoiceItems(*req.Items)
			if normErr != nil {
				return normErr
			}
			applyTotals(invoice, finance.ComputeTotals(lineItems))
			if err := s.invoiceRepo.ReplaceItems(txCtx, invoice, items); err != nil {
				return err
			}
		} else {
			if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
				return err
			}
		}

		updated = *invoice
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	return toInvoiceResponse(updated), nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	invoice, err := s.findInvoice(ctx, id)
	if err != nil {
		return err
	}
	if invoice.Status == model.StatusPaid {
		return ErrInvoiceLocked
	}
	return s.invoiceRepo.Delete(ctx, invoice.ID)
}

// MarkPaid performs the one-way Unpaid -> Paid transition and writes the
// income ledger entry in the same transaction. The income amount is the
// invoice's stored grand total, i.e. the totals engine's output. It is not
// recalculated here with different rules.
func (s *invoiceService) MarkPaid(ctx context.Context, id string, req MarkPaidRequest) (MarkPaidResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return MarkPaidResponse{}, badInput("invalid invoice id: %v", err)
	}

	var (
		paid   model.Invoice
		income model.Income
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByIDForUpdate(txCtx, invoiceID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return findErr
		}

		if invoice.Status == model.StatusPaid {
			return ErrAlreadyPaid
		}

		invoice.Status = model.StatusPaid
		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}

		paymentDate := time.Now()
		if req.Date != "" {
			parsed, parseErr := parseDate(req.Date)
			if parseErr != nil {
				return badInput("invalid date: %v", parseErr)
			}
			paymentDate = parsed
		}

		source := req.Source
		if source == "" {
			source = "Invoice Payment"
		}
		notes := req.Notes
		if notes == "" {
			notes = "Payment for " + invoice.InvoiceNumber
		}

		income = model.Income{
			UserID:        invoice.UserID,
			SourceInvoice: &invoice.ID,
			Date:          paymentDate,
			Amount:        invoice.GrandTotal,
			Source:        source,
			PaymentMethod: req.PaymentMethod,
			Notes:         notes,
		}
		if err := s.incomeRepo.Create(txCtx, &income); err != nil {
			return fmt.Errorf("failed to create income record: %w", err)
		}

		paid = *invoice
		return nil
	})
	if err != nil {
		return MarkPaidResponse{}, err
	}

	return MarkPaidResponse{
		Invoice: toInvoiceResponse(paid),
		Income:  toIncomeResponse(income),
	}, nil
}

// ListIncomes pages through the caller's income ledger, newest first.
func (s *invoiceService) ListIncomes(ctx context.Context, userID string, page, limit int) ([]IncomeResponse, int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, badInput("invalid user id: %v", err)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	incomes, total, err := s.incomeRepo.List(ctx, uid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch incomes: %w", err)
	}

	result := make([]IncomeResponse, 0, len(incomes))
	for _, income := range incomes {
		result = append(result, toIncomeResponse(income))
	}
	return result, total, nil
}

func (s *invoiceService) findInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, badInput("invalid invoice id: %v", err)
	}
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) generateInvoiceNumber(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "INV-" + today + "-"

	count, err := s.invoiceRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// --- Helpers ---

// normalizeInvoiceItems funnels raw payloads through the shared engine
// normalization and validates the one required field. Numeric garbage is
// tolerated (defaults apply); a missing description is not.
func normalizeInvoiceItems(inputs []finance.ItemInput) ([]model.InvoiceItem, []finance.LineItem, error) {
	lineItems := finance.NormalizeItems(inputs)

	items := make([]model.InvoiceItem, 0, len(lineItems))
	for i, li := range lineItems {
		if strings.TrimSpace(li.Description) == "" {
			return nil, nil, badInput("item %d: description is required", i+1)
		}
		items = append(items, model.InvoiceItem{
			Position:        i,
			Description:     li.Description,
			Quantity:        li.Quantity,
			UnitPrice:       li.UnitPrice,
			DiscountPercent: li.DiscountPercent,
			TaxPercent:      li.TaxPercent,
		})
	}
	return items, lineItems, nil
}

func applyTotals(invoice *model.Invoice, totals finance.Totals) {
	invoice.Subtotal = totals.Subtotal
	invoice.TotalDiscount = totals.TotalDiscount
	invoice.TotalTax = totals.TotalTax
	invoice.GrandTotal = totals.GrandTotal
}

// parseDate accepts both plain dates and RFC3339 timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// --- Mapping ---

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, InvoiceItemResponse{
			Description:     it.Description,
			Qty:             it.Quantity.String(),
			UnitPrice:       it.UnitPrice.StringFixed(2),
			DiscountPercent: it.DiscountPercent.String(),
			TaxPercent:      it.TaxPercent.String(),
		})
	}

	resp := InvoiceResponse{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		UserID:        inv.UserID.String(),
		Title:         inv.Title,
		Items:         items,
		Subtotal:      inv.Subtotal.StringFixed(2),
		TotalDiscount: inv.TotalDiscount.StringFixed(2),
		TotalTax:      inv.TotalTax.StringFixed(2),
		GrandTotal:    inv.GrandTotal.StringFixed(2),
		Status:        inv.Status,
		IssueDate:     inv.IssueDate.Format(time.RFC3339),
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     inv.UpdatedAt.Format(time.RFC3339),
	}
	if inv.DueDate != nil {
		s := inv.DueDate.Format(time.RFC3339)
		resp.DueDate = &s
	}
	return resp
}

func toIncomeResponse(income model.Income) IncomeResponse {
	resp := IncomeResponse{
		ID:            income.ID.String(),
		UserID:        income.UserID.String(),
		Date:          income.Date.Format(time.RFC3339),
		Amount:        income.Amount.StringFixed(2),
		Source:        income.Source,
		PaymentMethod: income.PaymentMethod,
		Notes:         income.Notes,
	}
	if income.SourceInvoice != nil {
		s := income.SourceInvoice.String()
		resp.SourceInvoice = &s
	}
	return resp
}
