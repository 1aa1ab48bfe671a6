package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"reserva/internal/commons"
	"reserva/internal/dto"
)

type CatalogUseCase interface {
	ListCompanies(ctx context.Context) (*dto.CompanyListResponse, error)
	CompanyProducts(ctx context.Context, companyID int) (*dto.CompanyProductsResponse, error)
	ProductSlots(ctx context.Context, productID int) (*dto.SlotsResponse, error)
	CompanySlots(ctx context.Context, companyID int) (*dto.SlotsResponse, error)
}

type CatalogController struct {
	useCase CatalogUseCase
	logger  *zap.Logger
}

func NewCatalogController(useCase CatalogUseCase, logger *zap.Logger) *CatalogController {
	return &CatalogController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *CatalogController) Routes(r chi.Router) {
	r.Get("/companies", c.ListCompanies)
	r.Get("/companies/{companyId}/products", c.CompanyProducts)
	r.Get("/companies/{companyId}/slots", c.CompanySlots)
	r.Get("/products/{productId}/slots", c.ProductSlots)
}

func (c *CatalogController) ListCompanies(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	resp, err := c.useCase.ListCompanies(r.Context())
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, resp)
}

func (c *CatalogController) CompanyProducts(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	companyID, err := commons.PositiveID(chi.URLParam(r, "companyId"), "companyId")
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}

	resp, err := c.useCase.CompanyProducts(r.Context(), companyID)
	if err != nil {
		commons.WriteError(w, logger.With(zap.Int("companyId", companyID)), traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, resp)
}

func (c *CatalogController) CompanySlots(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	companyID, err := commons.PositiveID(chi.URLParam(r, "companyId"), "companyId")
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}

	resp, err := c.useCase.CompanySlots(r.Context(), companyID)
	if err != nil {
		commons.WriteError(w, logger.With(zap.Int("companyId", companyID)), traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, resp)
}

func (c *CatalogController) ProductSlots(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	productID, err := commons.PositiveID(chi.URLParam(r, "productId"), "productId")
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}

	resp, err := c.useCase.ProductSlots(r.Context(), productID)
	if err != nil {
		commons.WriteError(w, logger.With(zap.Int("productId", productID)), traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, resp)
}
