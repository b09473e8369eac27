package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"fintrack/internal/finance"
	"fintrack/internal/model"
	"fintrack/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- In-memory fakes ---

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
	count    int64
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	f.count++
	stored := *invoice
	f.invoices[invoice.ID] = &stored
	return nil
}

func (f *fakeInvoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *inv
	return &copied, nil
}

func (f *fakeInvoiceRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeInvoiceRepo) List(ctx context.Context, filter repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	var result []model.Invoice
	for _, inv := range f.invoices {
		if filter.UserID != uuid.Nil && inv.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		result = append(result, *inv)
	}
	return result, int64(len(result)), nil
}

func (f *fakeInvoiceRepo) Update(ctx context.Context, invoice *model.Invoice) error {
	if _, ok := f.invoices[invoice.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *invoice
	f.invoices[invoice.ID] = &stored
	return nil
}

func (f *fakeInvoiceRepo) ReplaceItems(ctx context.Context, invoice *model.Invoice, items []model.InvoiceItem) error {
	for i := range items {
		items[i].InvoiceID = invoice.ID
		items[i].Position = i
	}
	invoice.Items = items
	return f.Update(ctx, invoice)
}

func (f *fakeInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.invoices, id)
	return nil
}

func (f *fakeInvoiceRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	return f.count, nil
}

type fakeIncomeRepo struct {
	incomes []model.Income
}

func (f *fakeIncomeRepo) Create(ctx context.Context, income *model.Income) error {
	if income.ID == uuid.Nil {
		income.ID = uuid.New()
	}
	f.incomes = append(f.incomes, *income)
	return nil
}

func (f *fakeIncomeRepo) FindBySourceInvoice(ctx context.Context, invoiceID uuid.UUID) (*model.Income, error) {
	for i := range f.incomes {
		if f.incomes[i].SourceInvoice != nil && *f.incomes[i].SourceInvoice == invoiceID {
			return &f.incomes[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeIncomeRepo) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Income, int64, error) {
	return f.incomes, int64(len(f.incomes)), nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func newTestInvoiceService() (InvoiceService, *fakeInvoiceRepo, *fakeIncomeRepo) {
	invoiceRepo := newFakeInvoiceRepo()
	incomeRepo := &fakeIncomeRepo{}
	return NewInvoiceService(invoiceRepo, incomeRepo, fakeTxManager{}), invoiceRepo, incomeRepo
}

// --- Tests ---

func TestCreateInvoiceDerivesTotals(t *testing.T) {
	svc, _, _ := newTestInvoiceService()
	userID := uuid.New().String()

	inv, err := svc.CreateInvoice(context.Background(), userID, CreateInvoiceRequest{
		Title: "Consulting",
		Items: []finance.ItemInput{
			{Description: "Design", Qty: 2, UnitPrice: 100, DiscountPercent: 10, TaxPercent: 5},
		},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	if inv.Subtotal != "200.00" {
		t.Errorf("subtotal = %s, want 200.00", inv.Subtotal)
	}
	if inv.TotalDiscount != "20.00" {
		t.Errorf("totalDiscount = %s, want 20.00", inv.TotalDiscount)
	}
	if inv.TotalTax != "9.00" {
		t.Errorf("totalTax = %s, want 9.00", inv.TotalTax)
	}
	if inv.GrandTotal != "189.00" {
		t.Errorf("grandTotal = %s, want 189.00", inv.GrandTotal)
	}
	if inv.Status != model.StatusUnpaid {
		t.Errorf("status = %s, want %s", inv.Status, model.StatusUnpaid)
	}
	if inv.InvoiceNumber == "" {
		t.Error("invoice number is empty")
	}
}

func TestCreateInvoiceRequiresDescription(t *testing.T) {
	svc, _, _ := newTestInvoiceService()

	_, err := svc.CreateInvoice(context.Background(), uuid.New().String(), CreateInvoiceRequest{
		Items: []finance.ItemInput{{UnitPrice: 100}},
	})
	if err == nil {
		t.Fatal("expected error for missing description")
	}
}

func TestMarkPaidCreatesIncomeFromGrandTotal(t *testing.T) {
	svc, _, incomeRepo := newTestInvoiceService()

	inv, err := svc.CreateInvoice(context.Background(), uuid.New().String(), CreateInvoiceRequest{
		Items: []finance.ItemInput{
			{Description: "Hosting", Qty: 3, UnitPrice: "33.35", DiscountPercent: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	result, err := svc.MarkPaid(context.Background(), inv.ID, MarkPaidRequest{PaymentMethod: "card"})
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	if result.Invoice.Status != model.StatusPaid {
		t.Errorf("status = %s, want %s", result.Invoice.Status, model.StatusPaid)
	}
	if result.Income.Amount != result.Invoice.GrandTotal {
		t.Errorf("income amount %s != invoice grand total %s", result.Income.Amount, result.Invoice.GrandTotal)
	}
	if result.Income.SourceInvoice == nil || *result.Income.SourceInvoice != inv.ID {
		t.Error("income is not linked to the source invoice")
	}
	if result.Income.Notes != "Payment for "+inv.InvoiceNumber {
		t.Errorf("income notes = %q", result.Income.Notes)
	}
	if len(incomeRepo.incomes) != 1 {
		t.Fatalf("income records = %d, want 1", len(incomeRepo.incomes))
	}
}

func TestMarkPaidTwiceFails(t *testing.T) {
	svc, _, incomeRepo := newTestInvoiceService()

	inv, err := svc.CreateInvoice(context.Background(), uuid.New().String(), CreateInvoiceRequest{
		Items: []finance.ItemInput{{Description: "Hosting", UnitPrice: 10}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	if _, err := svc.MarkPaid(context.Background(), inv.ID, MarkPaidRequest{}); err != nil {
		t.Fatalf("first MarkPaid: %v", err)
	}
	_, err = svc.MarkPaid(context.Background(), inv.ID, MarkPaidRequest{})
	if !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("second MarkPaid error = %v, want ErrAlreadyPaid", err)
	}
	if len(incomeRepo.incomes) != 1 {
		t.Fatalf("income records = %d, want exactly 1", len(incomeRepo.incomes))
	}
}

func TestUpdatePaidInvoiceRejected(t *testing.T) {
	svc, _, _ := newTestInvoiceService()

	inv, err := svc.CreateInvoice(context.Background(), uuid.New().String(), CreateInvoiceRequest{
		Items: []finance.ItemInput{{Description: "Hosting", UnitPrice: 10}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if _, err := svc.MarkPaid(context.Background(), inv.ID, MarkPaidRequest{}); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	title := "new title"
	_, err = svc.UpdateInvoice(context.Background(), inv.ID, UpdateInvoiceRequest{Title: &title})
	if !errors.Is(err, ErrInvoiceLocked) {
		t.Fatalf("UpdateInvoice error = %v, want ErrInvoiceLocked", err)
	}

	if err := svc.DeleteInvoice(context.Background(), inv.ID); !errors.Is(err, ErrInvoiceLocked) {
		t.Fatalf("DeleteInvoice error = %v, want ErrInvoiceLocked", err)
	}
}

func TestUpdateInvoiceRecomputesTotals(t *testing.T) {
	svc, _, _ := newTestInvoiceService()

	inv, err := svc.CreateInvoice(context.Background(), uuid.New().String(), CreateInvoiceRequest{
		Items: []finance.ItemInput{{Description: "Hosting", UnitPrice: 10}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	items := []finance.ItemInput{
		{Description: "Support", Qty: 4, UnitPrice: 25, TaxPercent: 10},
	}
	updated, err := svc.UpdateInvoice(context.Background(), inv.ID, UpdateInvoiceRequest{Items: &items})
	if err != nil {
		t.Fatalf("UpdateInvoice: %v", err)
	}

	if updated.Subtotal != "100.00" {
		t.Errorf("subtotal = %s, want 100.00", updated.Subtotal)
	}
	if updated.GrandTotal != "110.00" {
		t.Errorf("grandTotal = %s, want 110.00", updated.GrandTotal)
	}
	if len(updated.Items) != 1 || updated.Items[0].Description != "Support" {
		t.Errorf("items not replaced: %+v", updated.Items)
	}
}

func TestUpdateInvoiceSameItemsIsIdempotent(t *testing.T) {
	svc, invoiceRepo, _ := newTestInvoiceService()

	inv, err := svc.CreateInvoice(context.Background(), uuid.New().String(), CreateInvoiceRequest{
		Items: []finance.ItemInput{{Description: "Hosting", UnitPrice: 10}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	items := []finance.ItemInput{
		{Description: "Support", Qty: 3, UnitPrice: "19.99", DiscountPercent: 5, TaxPercent: 7},
	}
	first, err := svc.UpdateInvoice(context.Background(), inv.ID, UpdateInvoiceRequest{Items: &items})
	if err != nil {
		t.Fatalf("first UpdateInvoice: %v", err)
	}
	second, err := svc.UpdateInvoice(context.Background(), inv.ID, UpdateInvoiceRequest{Items: &items})
	if err != nil {
		t.Fatalf("second UpdateInvoice: %v", err)
	}

	if first.Subtotal != second.Subtotal || first.TotalDiscount != second.TotalDiscount ||
		first.TotalTax != second.TotalTax || first.GrandTotal != second.GrandTotal {
		t.Errorf("totals drifted between identical updates:\nfirst  %s %s %s %s\nsecond %s %s %s %s",
			first.Subtotal, first.TotalDiscount, first.TotalTax, first.GrandTotal,
			second.Subtotal, second.TotalDiscount, second.TotalTax, second.GrandTotal)
	}
	if !reflect.DeepEqual(first.Items, second.Items) {
		t.Errorf("item sets drifted:\nfirst  %+v\nsecond %+v", first.Items, second.Items)
	}

	id, _ := uuid.Parse(inv.ID)
	stored := invoiceRepo.invoices[id]
	if stored.GrandTotal.StringFixed(2) != second.GrandTotal {
		t.Errorf("stored grand total %s != returned %s", stored.GrandTotal.StringFixed(2), second.GrandTotal)
	}
}

func TestCreateInvoiceValidationErrors(t *testing.T) {
	svc, _, _ := newTestInvoiceService()

	_, err := svc.CreateInvoice(context.Background(), "not-a-uuid", CreateInvoiceRequest{
		Items: []finance.ItemInput{{Description: "A", UnitPrice: 1}},
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("bad user id error = %v, want ErrValidation", err)
	}

	_, err = svc.CreateInvoice(context.Background(), uuid.New().String(), CreateInvoiceRequest{
		Items: []finance.ItemInput{{UnitPrice: 100}},
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("missing description error = %v, want ErrValidation", err)
	}

	_, err = svc.CreateInvoice(context.Background(), uuid.New().String(), CreateInvoiceRequest{
		Items:   []finance.ItemInput{{Description: "A", UnitPrice: 1}},
		DueDate: "not-a-date",
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("bad dueDate error = %v, want ErrValidation", err)
	}
}

func TestUpdateInvoiceWithoutItemsKeepsTotals(t *testing.T) {
	svc, _, _ := newTestInvoiceService()

	inv, err := svc.CreateInvoice(context.Background(), uuid.New().String(), CreateInvoiceRequest{
		Items: []finance.ItemInput{{Description: "Hosting", Qty: 2, UnitPrice: 50}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	title := "Renamed"
	updated, err := svc.UpdateInvoice(context.Background(), inv.ID, UpdateInvoiceRequest{Title: &title})
	if err != nil {
		t.Fatalf("UpdateInvoice: %v", err)
	}

	if updated.Title != "Renamed" {
		t.Errorf("title = %s", updated.Title)
	}
	if updated.GrandTotal != inv.GrandTotal {
		t.Errorf("grandTotal changed: %s -> %s", inv.GrandTotal, updated.GrandTotal)
	}
}

func TestGetInvoiceNotFound(t *testing.T) {
	svc, _, _ := newTestInvoiceService()

	_, err := svc.GetInvoice(context.Background(), uuid.New().String())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestInvoiceNumbersAreSequentialPerDay(t *testing.T) {
	svc, _, _ := newTestInvoiceService()
	userID := uuid.New().String()

	first, err := svc.CreateInvoice(context.Background(), userID, CreateInvoiceRequest{
		Items: []finance.ItemInput{{Description: "A", UnitPrice: 1}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	second, err := svc.CreateInvoice(context.Background(), userID, CreateInvoiceRequest{
		Items: []finance.ItemInput{{Description: "B", UnitPrice: 1}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	if first.InvoiceNumber == second.InvoiceNumber {
		t.Fatalf("duplicate invoice number %s", first.InvoiceNumber)
	}
}
