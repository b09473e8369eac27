package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/repository"
	"fintrack/internal/service"

	"github.com/gin-gonic/gin"
)

type stubInvoiceService struct {
	invoice  service.InvoiceResponse
	markPaid service.MarkPaidResponse
	err      error
}

func (s *stubInvoiceService) CreateInvoice(ctx context.Context, callerID string, req service.CreateInvoiceRequest) (service.InvoiceResponse, error) {
	return s.invoice, s.err
}
func (s *stubInvoiceService) GetInvoice(ctx context.Context, id string) (service.InvoiceResponse, error) {
	return s.invoice, s.err
}
func (s *stubInvoiceService) ListInvoices(ctx context.Context, filter repository.InvoiceListFilter) ([]service.InvoiceResponse, int64, error) {
	return []service.InvoiceResponse{s.invoice}, 1, s.err
}
func (s *stubInvoiceService) UpdateInvoice(ctx context.Context, id string, req service.UpdateInvoiceRequest) (service.InvoiceResponse, error) {
	return s.invoice, s.err
}
func (s *stubInvoiceService) DeleteInvoice(ctx context.Context, id string) error {
	return s.err
}
func (s *stubInvoiceService) MarkPaid(ctx context.Context, id string, req service.MarkPaidRequest) (service.MarkPaidResponse, error) {
	return s.markPaid, s.err
}
func (s *stubInvoiceService) ListIncomes(ctx context.Context, userID string, page, limit int) ([]service.IncomeResponse, int64, error) {
	return nil, 0, s.err
}

func setupInvoiceRouter(svc service.InvoiceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("", func(c *gin.Context) {
		c.Set("userID", "11111111-1111-1111-1111-111111111111")
	})
	NewInvoiceHandler(svc).RegisterRoutes(group)
	return router
}

func TestCreateInvoiceEndpoint(t *testing.T) {
	svc := &stubInvoiceService{invoice: service.InvoiceResponse{
		InvoiceNumber: "INV-20260829-00001",
		GrandTotal:    "189.00",
	}}
	router := setupInvoiceRouter(svc)

	body := `{"title":"Consulting","items":[{"description":"Design","qty":2,"unitPrice":100}]}`
	req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status string                  `json:"status"`
		Data   service.InvoiceResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("status field = %s", resp.Status)
	}
	if resp.Data.GrandTotal != "189.00" {
		t.Errorf("grandTotal = %s, want 189.00", resp.Data.GrandTotal)
	}
}

func TestInvoiceEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"already paid", service.ErrAlreadyPaid, http.StatusBadRequest},
		{"locked", service.ErrInvoiceLocked, http.StatusBadRequest},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupInvoiceRouter(&stubInvoiceService{err: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/invoices/abc/mark-paid", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestCreateInvoiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", fmt.Errorf("%w: item 1: description is required", service.ErrValidation), http.StatusBadRequest},
		{"persistence", errors.New("failed to create invoice: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupInvoiceRouter(&stubInvoiceService{err: tt.err})

			body := `{"title":"Consulting","items":[{"description":"Design","unitPrice":100}]}`
			req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body: %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestCreateInvoiceRejectsMalformedJSON(t *testing.T) {
	router := setupInvoiceRouter(&stubInvoiceService{})

	req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
