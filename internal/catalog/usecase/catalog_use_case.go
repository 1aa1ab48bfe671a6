package usecase

import (
	"context"

	"go.uber.org/zap"

	"reserva/internal/domain"
	"reserva/internal/dto"
)

type CatalogService interface {
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	CompanyProducts(ctx context.Context, companyID int) (*domain.Company, []domain.Product, error)
	ProductSlots(ctx context.Context, productID int) (*domain.SlotAvailability, error)
	CompanySlots(ctx context.Context, companyID int) (*domain.SlotAvailability, error)
}

type CatalogUseCase struct {
	svc    CatalogService
	logger *zap.Logger
}

func NewCatalogUseCase(svc CatalogService, logger *zap.Logger) *CatalogUseCase {
	return &CatalogUseCase{svc: svc, logger: logger}
}

func (uc *CatalogUseCase) ListCompanies(ctx context.Context) (*dto.CompanyListResponse, error) {
	companies, err := uc.svc.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.CompanyListResponse{Companies: make([]dto.CompanyDTO, 0, len(companies))}
	for _, c := range companies {
		resp.Companies = append(resp.Companies, CompanyToDTO(c))
	}
	return resp, nil
}

func (uc *CatalogUseCase) CompanyProducts(ctx context.Context, companyID int) (*dto.CompanyProductsResponse, error) {
	company, products, err := uc.svc.CompanyProducts(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := &dto.CompanyProductsResponse{
		Company:  CompanyToDTO(*company),
		Products: make([]dto.ProductDTO, 0, len(products)),
	}
	for _, p := range products {
		resp.Products = append(resp.Products, ProductToDTO(p))
	}
	uc.logger.Debug("company products listed", zap.Int("companyId", companyID), zap.Int("count", len(products)))
	return resp, nil
}

func (uc *CatalogUseCase) ProductSlots(ctx context.Context, productID int) (*dto.SlotsResponse, error) {
	slots, err := uc.svc.ProductSlots(ctx, productID)
	if err != nil {
		return nil, err
	}
	return slotsToDTO(slots), nil
}

func (uc *CatalogUseCase) CompanySlots(ctx context.Context, companyID int) (*dto.SlotsResponse, error) {
	slots, err := uc.svc.CompanySlots(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return slotsToDTO(slots), nil
}

func slotsToDTO(s *domain.SlotAvailability) *dto.SlotsResponse {
	slots := s.Slots
	if slots == nil {
		slots = []string{}
	}
	return &dto.SlotsResponse{Success: true, Slots: slots, HasTimeRestriction: s.HasTimeRestriction}
}

func CompanyToDTO(c domain.Company) dto.CompanyDTO {
	return dto.CompanyDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Address:     c.Address,
		Phone:       c.Phone,
		Email:       c.Email,
		OpensAt:     c.OpensAt,
		ClosesAt:    c.ClosesAt,
	}
}

func ProductToDTO(p domain.Product) dto.ProductDTO {
	out := dto.ProductDTO{
		ID:                 p.ID,
		CompanyID:          p.CompanyID,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		Stock:              p.Stock,
		AvailableStock:     p.AvailableStock(),
		OpensAt:            p.OpensAt,
		ClosesAt:           p.ClosesAt,
		HasTimeRestriction: p.HasTimeRestriction(),
	}
	if p.Company != nil {
		c := CompanyToDTO(*p.Company)
		out.Company = &c
	}
	return out
}
