package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reserva/internal/dto"
	apperrors "reserva/internal/errors"
)

type mockCatalogUseCase struct {
	ListCompaniesFunc   func(ctx context.Context) (*dto.CompanyListResponse, error)
	CompanyProductsFunc func(ctx context.Context, companyID int) (*dto.CompanyProductsResponse, error)
	ProductSlotsFunc    func(ctx context.Context, productID int) (*dto.SlotsResponse, error)
	CompanySlotsFunc    func(ctx context.Context, companyID int) (*dto.SlotsResponse, error)
}

func (m *mockCatalogUseCase) ListCompanies(ctx context.Context) (*dto.CompanyListResponse, error) {
	return m.ListCompaniesFunc(ctx)
}

func (m *mockCatalogUseCase) CompanyProducts(ctx context.Context, companyID int) (*dto.CompanyProductsResponse, error) {
	return m.CompanyProductsFunc(ctx, companyID)
}

func (m *mockCatalogUseCase) ProductSlots(ctx context.Context, productID int) (*dto.SlotsResponse, error) {
	return m.ProductSlotsFunc(ctx, productID)
}

func (m *mockCatalogUseCase) CompanySlots(ctx context.Context, companyID int) (*dto.SlotsResponse, error) {
	return m.CompanySlotsFunc(ctx, companyID)
}

func newRouter(uc CatalogUseCase) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", NewCatalogController(uc, zap.NewNop()).Routes)
	return r
}

func TestProductSlots_OK(t *testing.T) {
	uc := &mockCatalogUseCase{
		ProductSlotsFunc: func(ctx context.Context, productID int) (*dto.SlotsResponse, error) {
			assert.Equal(t, 9, productID)
			return &dto.SlotsResponse{Success: true, Slots: []string{"10:00", "10:30"}, HasTimeRestriction: true}, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/9/slots", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body dto.SlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []string{"10:00", "10:30"}, body.Slots)
}

func TestProductSlots_InvalidID(t *testing.T) {
	uc := &mockCatalogUseCase{
		ProductSlotsFunc: func(ctx context.Context, productID int) (*dto.SlotsResponse, error) {
			t.Fatal("use case must not be called")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/abc/slots", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.NotEmpty(t, body.TraceID)
}

func TestCompanyProducts_NotFound(t *testing.T) {
	uc := &mockCatalogUseCase{
		CompanyProductsFunc: func(ctx context.Context, companyID int) (*dto.CompanyProductsResponse, error) {
			return nil, apperrors.NewNotFoundError("company not found")
		},
	}

	rec := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies/5/products", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "company not found", body.Message)
}

func TestListCompanies_UpstreamDown(t *testing.T) {
	uc := &mockCatalogUseCase{
		ListCompaniesFunc: func(ctx context.Context) (*dto.CompanyListResponse, error) {
			return nil, apperrors.NewInternalError(apperrors.MsgUpstreamUnreachable, context.DeadlineExceeded)
		},
	}

	rec := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCompanySlots_OK(t *testing.T) {
	uc := &mockCatalogUseCase{
		CompanySlotsFunc: func(ctx context.Context, companyID int) (*dto.SlotsResponse, error) {
			return &dto.SlotsResponse{Success: true, Slots: []string{}}, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies/3/slots", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"slots":[],"hasTimeRestriction":false}`, rec.Body.String())
}
