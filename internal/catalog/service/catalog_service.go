package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"reserva/internal/domain"
	apperrors "reserva/internal/errors"
	"reserva/internal/slot"
)

// MsgMalformedHours reports stored hours the slot generator cannot read. The
// cause is flattened to text so the error classifies as internal.
const MsgMalformedHours = "malformed opening hours"

type Repository interface {
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	CompanyWithProducts(ctx context.Context, companyID int) (*domain.Company, []domain.Product, error)
	FindProduct(ctx context.Context, productID int) (*domain.Product, error)
}

// SlotSource is implemented by repositories that can ask the reservation
// service for a product's slots instead of computing them locally.
type SlotSource interface {
	ProductSlots(ctx context.Context, productID int) (*domain.SlotAvailability, error)
}

type CatalogService struct {
	repo   Repository
	logger *zap.Logger
}

func NewCatalogService(repo Repository, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

func (s *CatalogService) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	return s.repo.ListCompanies(ctx)
}

func (s *CatalogService) CompanyProducts(ctx context.Context, companyID int) (*domain.Company, []domain.Product, error) {
	return s.repo.CompanyWithProducts(ctx, companyID)
}

func (s *CatalogService) Product(ctx context.Context, productID int) (*domain.Product, error) {
	return s.repo.FindProduct(ctx, productID)
}

// ProductSlots lists the start times offered for a product. Products without
// their own hours have no restriction and an empty list.
func (s *CatalogService) ProductSlots(ctx context.Context, productID int) (*domain.SlotAvailability, error) {
	if src, ok := s.repo.(SlotSource); ok {
		return src.ProductSlots(ctx, productID)
	}

	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.HasTimeRestriction() {
		return &domain.SlotAvailability{Slots: []string{}}, nil
	}

	slots, err := slot.Generate(product.OpensAt, product.ClosesAt)
	if err != nil {
		s.logger.Warn("product has malformed hours",
			zap.Int("productId", productID),
			zap.String("opens", product.OpensAt),
			zap.String("closes", product.ClosesAt),
		)
		return nil, apperrors.NewInternalError(MsgMalformedHours, fmt.Errorf("product %d: %v", productID, err))
	}
	return &domain.SlotAvailability{Slots: slots, HasTimeRestriction: true}, nil
}

// CompanySlots lists start times from the company's opening hours, which is
// what the per-company booking page offers.
func (s *CatalogService) CompanySlots(ctx context.Context, companyID int) (*domain.SlotAvailability, error) {
	company, _, err := s.repo.CompanyWithProducts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !company.HasOperatingHours() {
		return &domain.SlotAvailability{Slots: []string{}}, nil
	}

	slots, err := slot.Generate(company.OpensAt, company.ClosesAt)
	if err != nil {
		s.logger.Warn("company has malformed hours",
			zap.Int("companyId", companyID),
			zap.String("opens", company.OpensAt),
			zap.String("closes", company.ClosesAt),
		)
		return nil, apperrors.NewInternalError(MsgMalformedHours, fmt.Errorf("company %d: %v", companyID, err))
	}
	return &domain.SlotAvailability{Slots: slots, HasTimeRestriction: true}, nil
}
