package repository

import (
	"context"

	"reserva/internal/domain"
)

type CatalogAPI interface {
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	CompanyProducts(ctx context.Context, companyID int) (*domain.Company, []domain.Product, error)
	ProductForReservation(ctx context.Context, productID int) (*domain.Product, error)
	ProductSlots(ctx context.Context, productID int) (*domain.SlotAvailability, error)
}

// APIRepository reads the catalog straight from the reservation service.
type APIRepository struct {
	api CatalogAPI
}

func NewAPIRepository(api CatalogAPI) *APIRepository {
	return &APIRepository{api: api}
}

func (r *APIRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	return r.api.ListCompanies(ctx)
}

func (r *APIRepository) CompanyWithProducts(ctx context.Context, companyID int) (*domain.Company, []domain.Product, error) {
	return r.api.CompanyProducts(ctx, companyID)
}

func (r *APIRepository) FindProduct(ctx context.Context, productID int) (*domain.Product, error) {
	return r.api.ProductForReservation(ctx, productID)
}

// ProductSlots defers to the service, which owns the slot list.
func (r *APIRepository) ProductSlots(ctx context.Context, productID int) (*domain.SlotAvailability, error) {
	return r.api.ProductSlots(ctx, productID)
}
