package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Akilucky-rogue/biz-boundless/internal/calc"
	"github.com/Akilucky-rogue/biz-boundless/internal/dto"
	"github.com/Akilucky-rogue/biz-boundless/internal/middleware"
	"github.com/Akilucky-rogue/biz-boundless/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Service stubs ─────────────────────────────────────────────────────────────
// Each stub embeds the interface so only the methods under test need bodies.

type stubInvoiceSvc struct {
	service.InvoiceService
	createErr error
	createdBy *uuid.UUID
	got       dto.CreateInvoiceRequest
	pdfPath   string
}

func (s *stubInvoiceSvc) Create(_ context.Context, createdBy *uuid.UUID, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	s.createdBy = createdBy
	s.got = req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &dto.InvoiceResponse{InvoiceNumber: "INV-1", TotalAmount: decimal.RequireFromString("276")}, nil
}

func (s *stubInvoiceSvc) DocumentPath(_ context.Context, _ uuid.UUID) (string, string, error) {
	if s.pdfPath == "" {
		return "", "", &service.Error{Kind: service.ErrNotFound, Msg: "invoice not found"}
	}
	return s.pdfPath, "INV-7", nil
}

type stubProductSvc struct {
	service.ProductService
	page, limit int
}

func (s *stubProductSvc) LookupPrice(_ context.Context, barcode string) (*dto.PriceLookupResponse, error) {
	if barcode != "890100" {
		return nil, &service.Error{Kind: service.ErrNotFound, Msg: "product not found"}
	}
	return &dto.PriceLookupResponse{Name: "Atta 5kg", Unit: "pcs", SellingPrice: decimal.RequireFromString("245.5")}, nil
}

func (s *stubProductSvc) PriceHistory(_ context.Context, _ uuid.UUID, page, limit int) (*dto.PriceHistoryListResponse, error) {
	s.page, s.limit = page, limit
	return &dto.PriceHistoryListResponse{Data: []dto.PriceHistoryItem{}, Page: page, Limit: limit}, nil
}

type stubReportSvc struct{ service.ReportService }

func (stubReportSvc) SalesReport(_ context.Context, q dto.SalesReportQuery) (*dto.SalesReportResponse, error) {
	return &dto.SalesReportResponse{
		Period: q.Period, From: "2025-03-04", To: "2025-03-10",
		Daily: []dto.DailyRevenueResponse{
			{Date: "2025-03-09", Orders: 2, Revenue: decimal.RequireFromString("150.5")},
			{Date: "2025-03-10", Orders: 0, Revenue: decimal.Zero},
		},
		TopProducts: []dto.TopProductResponse{
			{ProductID: "p1", ProductName: "Oil", Units: decimal.RequireFromString("5"), Revenue: decimal.RequireFromString("500")},
		},
	}, nil
}

func (stubReportSvc) Dashboard(context.Context) (*dto.DashboardResponse, error) {
	return nil, errors.New("pq: connection refused")
}

type stubAuthSvc struct {
	service.AuthService
	deactivated []uuid.UUID
}

func (s *stubAuthSvc) DeactivateUser(_ context.Context, id uuid.UUID) error {
	s.deactivated = append(s.deactivated, id)
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

const testSecret = "test_jwt_secret_32_chars_minimum!"

func signToken(t *testing.T, userID, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID, "username": "tester", "role": role,
		"exp": time.Now().Add(time.Hour).Unix(), "iat": time.Now().Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	return r
}

func do(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// ── Invoices ──────────────────────────────────────────────────────────────────

func invoiceRouter(svc service.InvoiceService) *gin.Engine {
	r := newRouter()
	h := NewInvoicesHandler(svc)
	v1 := r.Group("/v1", middleware.JWTAuth(testSecret))
	v1.POST("/invoices", h.Create)
	v1.GET("/invoices/:id/pdf", h.DownloadPDF)
	return r
}

func TestInvoiceCreate(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, userID.String(), "employee")
	body := map[string]any{
		"items": []map[string]any{
			{"product_id": uuid.NewString(), "quantity": 2, "unit_price": 100, "tax_rate": 18},
		},
		"discount_amount": 10,
	}

	t.Run("created by the caller", func(t *testing.T) {
		svc := &stubInvoiceSvc{}
		w := do(invoiceRouter(svc), http.MethodPost, "/v1/invoices", body, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		require.NotNil(t, svc.createdBy)
		assert.Equal(t, userID, *svc.createdBy)
		assert.True(t, svc.got.DiscountAmount.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, "INV-1", decodeBody(t, w)["invoice_number"])
	})

	t.Run("calculator violations are 422 with fields", func(t *testing.T) {
		svc := &stubInvoiceSvc{createErr: &calc.ValidationError{Violations: []calc.Violation{
			{Index: 0, Field: "quantity", Rule: "must be greater than 0"},
		}}}
		w := do(invoiceRouter(svc), http.MethodPost, "/v1/invoices", body, token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		fields := decodeBody(t, w)["fields"].(map[string]any)
		assert.Equal(t, "must be greater than 0", fields["items[0].quantity"])
	})

	t.Run("insufficient stock is 409", func(t *testing.T) {
		svc := &stubInvoiceSvc{createErr: &service.Error{Kind: service.ErrConflict, Msg: "insufficient stock for Rice"}}
		w := do(invoiceRouter(svc), http.MethodPost, "/v1/invoices", body, token)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "insufficient stock for Rice", decodeBody(t, w)["detail"])
	})

	t.Run("tag validation runs before the service", func(t *testing.T) {
		svc := &stubInvoiceSvc{}
		bad := map[string]any{
			"items":           []map[string]any{{"product_id": "nope", "quantity": 1, "unit_price": 5}},
			"discount_amount": -1,
		}
		w := do(invoiceRouter(svc), http.MethodPost, "/v1/invoices", bad, token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		fields := decodeBody(t, w)["fields"].(map[string]any)
		assert.Equal(t, "uuid", fields["items[0].product_id"])
		assert.Equal(t, "min", fields["discount_amount"])
		assert.Nil(t, svc.createdBy)
	})

	t.Run("amounts finer than cents are rejected", func(t *testing.T) {
		svc := &stubInvoiceSvc{}
		bad := map[string]any{
			"items":           []map[string]any{{"product_id": uuid.NewString(), "quantity": 1, "unit_price": 5}},
			"discount_amount": 10.005,
		}
		w := do(invoiceRouter(svc), http.MethodPost, "/v1/invoices", bad, token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		fields := decodeBody(t, w)["fields"].(map[string]any)
		assert.Equal(t, "places", fields["discount_amount"])
		assert.Nil(t, svc.createdBy)
	})

	t.Run("empty items", func(t *testing.T) {
		w := do(invoiceRouter(&stubInvoiceSvc{}), http.MethodPost, "/v1/invoices", map[string]any{"items": []any{}}, token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/invoices", strings.NewReader("{"))
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		invoiceRouter(&stubInvoiceSvc{}).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDecimalPlacesTag(t *testing.T) {
	type form struct {
		Price decimal.Decimal  `json:"price" validate:"places=2"`
		Qty   *decimal.Decimal `json:"qty"   validate:"omitempty,places=3"`
	}
	qty := decimal.RequireFromString("1.125")
	assert.NoError(t, validate.Struct(form{Price: decimal.RequireFromString("19.90"), Qty: &qty}))
	assert.NoError(t, validate.Struct(form{Price: decimal.NewFromInt(7)}))

	fine := decimal.RequireFromString("0.0005")
	err := validate.Struct(form{Price: decimal.RequireFromString("0.335"), Qty: &fine})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
}

func TestInvoiceDownloadPDF(t *testing.T) {
	token := signToken(t, uuid.NewString(), "employee")
	path := filepath.Join(t.TempDir(), "INV-7.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.3"), 0o644))

	w := do(invoiceRouter(&stubInvoiceSvc{pdfPath: path}), http.MethodGet, "/v1/invoices/"+uuid.NewString()+"/pdf", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "INV-7.pdf")
	assert.Equal(t, "%PDF-1.3", w.Body.String())

	w = do(invoiceRouter(&stubInvoiceSvc{}), http.MethodGet, "/v1/invoices/"+uuid.NewString()+"/pdf", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(invoiceRouter(&stubInvoiceSvc{}), http.MethodGet, "/v1/invoices/not-a-uuid/pdf", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ── Products ──────────────────────────────────────────────────────────────────

func TestLookupPrice(t *testing.T) {
	r := newRouter()
	h := NewProductsHandler(&stubProductSvc{})
	r.GET("/v1/price/:barcode", h.LookupPrice)

	w := do(r, http.MethodGet, "/v1/price/890100", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 245.5, decodeBody(t, w)["selling_price"])

	w = do(r, http.MethodGet, "/v1/price/000", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPriceHistoryPaging(t *testing.T) {
	svc := &stubProductSvc{}
	r := newRouter()
	r.GET("/products/:id/price-history", NewProductsHandler(svc).PriceHistory)

	do(r, http.MethodGet, "/products/"+uuid.NewString()+"/price-history?page=0&limit=500", nil, "")
	assert.Equal(t, 1, svc.page)
	assert.Equal(t, 50, svc.limit)

	do(r, http.MethodGet, "/products/"+uuid.NewString()+"/price-history?page=3&limit=10", nil, "")
	assert.Equal(t, 3, svc.page)
	assert.Equal(t, 10, svc.limit)
}

// ── Reports ───────────────────────────────────────────────────────────────────

func TestSalesReportCSV(t *testing.T) {
	r := newRouter()
	r.GET("/reports/sales", NewReportsHandler(stubReportSvc{}).Sales)

	w := do(r, http.MethodGet, "/reports/sales?period=week&format=csv", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "sales_week_2025-03-10.csv")
	assert.Equal(t,
		"date,orders,revenue\n2025-03-09,2,150.50\n2025-03-10,0,0.00\n\nproduct_id,product_name,units,revenue\np1,Oil,5,500.00\n",
		w.Body.String())

	w = do(r, http.MethodGet, "/reports/sales?period=year", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUnclassifiedErrorIsOpaque500(t *testing.T) {
	r := newRouter()
	r.GET("/dashboard", NewReportsHandler(stubReportSvc{}).Dashboard)

	w := do(r, http.MethodGet, "/dashboard", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}

// ── Users ─────────────────────────────────────────────────────────────────────

func TestDeactivateSelfRejected(t *testing.T) {
	me := uuid.New()
	svc := &stubAuthSvc{}
	r := newRouter()
	r.DELETE("/v1/users/:id", middleware.JWTAuth(testSecret), NewUsersHandler(svc).Deactivate)
	token := signToken(t, me.String(), "admin")

	w := do(r, http.MethodDelete, "/v1/users/"+me.String(), nil, token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, svc.deactivated)

	other := uuid.New()
	w = do(r, http.MethodDelete, "/v1/users/"+other.String(), nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []uuid.UUID{other}, svc.deactivated)
}
