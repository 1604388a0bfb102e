package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bitbucket.org/mmdatafocus/recon_backend/models"
	"bitbucket.org/mmdatafocus/recon_backend/recon"
	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"bitbucket.org/mmdatafocus/recon_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type stubEntityRepo struct {
	entities map[int]string
}

func (s stubEntityRepo) FindExact(ctx context.Context, name string) (*recon.Entity, error) {
	for id, entityName := range s.entities {
		if strings.EqualFold(entityName, name) {
			return &recon.Entity{ID: id, Name: entityName}, nil
		}
	}
	return nil, nil
}

func (s stubEntityRepo) FindAlias(ctx context.Context, name string) (*recon.Entity, error) {
	return nil, nil
}

func (s stubEntityRepo) SearchCandidates(ctx context.Context, tokens []string, limit int) ([]recon.Candidate, error) {
	return nil, nil
}

func (s stubEntityRepo) SearchAliasCandidates(ctx context.Context, tokens []string, limit int) ([]recon.Candidate, error) {
	return nil, nil
}

type stubImportStore struct {
	products map[string]int
	created  int
}

func (s *stubImportStore) CustomerIdByName(ctx context.Context, name string) (int, error) {
	return 0, utils.ErrorRecordNotFound
}

func (s *stubImportStore) ProductIdByName(ctx context.Context, name string) (int, error) {
	for known, id := range s.products {
		if strings.EqualFold(known, name) {
			return id, nil
		}
	}
	return 0, utils.ErrorRecordNotFound
}

func (s *stubImportStore) CreateInvoice(ctx context.Context, invoice *models.SalesInvoice, items []*models.SalesInvoiceItem) error {
	s.created++
	invoice.ID = s.created
	return nil
}

func (s *stubImportStore) AdjustProductStock(ctx context.Context, productId int, delta decimal.Decimal) error {
	return nil
}

func (s *stubImportStore) LatestOpenOrder(ctx context.Context, customerId int) (*models.SalesOrder, error) {
	return nil, nil
}

func (s *stubImportStore) LinkOrder(ctx context.Context, orderId int, invoiceId int, status models.SalesOrderStatus) error {
	return nil
}

func (s *stubImportStore) DeleteInvoices(ctx context.Context, invoiceIds []int) error {
	return nil
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	reconciler := recon.NewReconciler(
		stubEntityRepo{entities: map[int]string{1: "Acme Traders"}},
		stubEntityRepo{entities: map[int]string{10: "Basmati Rice"}},
	)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	importer := workflow.NewSalesImporter(&stubImportStore{products: map[string]int{"Basmati Rice": 10}}, logger)

	r.POST("/api/reconcile", reconcileHandler(reconciler))
	r.POST("/api/sales/import", importSalesHandler(importer))
	return r
}

func TestReconcileEndpoint(t *testing.T) {
	r := testRouter(t)

	body := `{"customers": ["Acme Traders", "Nobody"], "products": []}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var report recon.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(report.Customers) != 2 {
		t.Fatalf("customers = %d, want 2", len(report.Customers))
	}
	if report.Customers[0].Status != recon.MatchStatusExact || report.Customers[1].Status != recon.MatchStatusNewRequired {
		t.Fatalf("unexpected statuses: %s, %s", report.Customers[0].Status, report.Customers[1].Status)
	}
}

func TestReconcileEndpointEmptyBody(t *testing.T) {
	r := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("empty body must reconcile nothing, got %d: %s", w.Code, w.Body.String())
	}
}

func TestImportEndpointRejectsMissingRows(t *testing.T) {
	r := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sales/import", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestImportEndpointEmptyRows(t *testing.T) {
	r := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sales/import", strings.NewReader(`{"rows": []}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var summary workflow.ImportSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if summary != (workflow.ImportSummary{}) {
		t.Fatalf("summary = %+v, want zeros", summary)
	}
}

func TestImportEndpointValidationFailure(t *testing.T) {
	r := testRouter(t)

	body := `{"rows": [{"invoice_no": "INV-1", "product_name": "Basmati Rice", "qty": 0, "rate": 10}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sales/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestImportEndpointSuccess(t *testing.T) {
	r := testRouter(t)

	body := `{"rows": [{"invoice_no": "INV-1", "customer_name": "Walk-in", "product_name": "Basmati Rice", "qty": 2, "rate": "50"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sales/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var summary workflow.ImportSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if summary.CreatedInvoices != 1 || summary.StandaloneInvoices != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}
