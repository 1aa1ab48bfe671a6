package reservaapi

import (
	"context"
	"fmt"
	"net/http"

	"reserva/internal/domain"
	apperrors "reserva/internal/errors"
)

func (c *Client) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	var payload []companyPayload
	if err := c.call(ctx, nil, http.MethodGet, "/api/companies", nil, &payload, "companies could not be loaded"); err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}

	companies := make([]domain.Company, 0, len(payload))
	for _, p := range payload {
		companies = append(companies, p.toDomain())
	}
	return companies, nil
}

// CompanyProducts returns a company together with its product list.
func (c *Client) CompanyProducts(ctx context.Context, companyID int) (*domain.Company, []domain.Product, error) {
	var payload companyProductsPayload
	path := fmt.Sprintf("/api/products/%d", companyID)
	if err := c.call(ctx, nil, http.MethodGet, path, nil, &payload, "products could not be loaded"); err != nil {
		return nil, nil, fmt.Errorf("listing products of company %d: %w", companyID, notFound(err, "company not found"))
	}

	company := payload.Company.toDomain()
	if company.ID == 0 {
		company.ID = companyID
	}
	products := make([]domain.Product, 0, len(payload.Products))
	for _, p := range payload.Products {
		product := p.toDomain()
		if product.CompanyID == 0 {
			product.CompanyID = company.ID
		}
		products = append(products, product)
	}
	return &company, products, nil
}

// ProductForReservation returns one product with its company embedded.
func (c *Client) ProductForReservation(ctx context.Context, productID int) (*domain.Product, error) {
	var payload reserveProductPayload
	path := fmt.Sprintf("/api/products/%d/reserve", productID)
	if err := c.call(ctx, nil, http.MethodGet, path, nil, &payload, "product could not be loaded"); err != nil {
		return nil, fmt.Errorf("loading product %d: %w", productID, notFound(err, "product not found"))
	}
	if payload.Product.ID == 0 {
		return nil, apperrors.NewNotFoundError("product not found")
	}

	product := payload.Product.toDomain()
	return &product, nil
}

// ProductSlots returns the bookable start times of a product. A response with
// success=false counts as a failed load.
func (c *Client) ProductSlots(ctx context.Context, productID int) (*domain.SlotAvailability, error) {
	var payload slotsPayload
	path := fmt.Sprintf("/api/products/%d/slots", productID)
	if err := c.call(ctx, nil, http.MethodGet, path, nil, &payload, "available times could not be loaded"); err != nil {
		return nil, fmt.Errorf("loading slots of product %d: %w", productID, notFound(err, "product not found"))
	}
	if !payload.Success {
		msg := payload.Message
		if msg == "" {
			msg = "available times could not be loaded"
		}
		return nil, apperrors.NewSingleMessage(http.StatusOK, msg)
	}

	slots := payload.Slots
	if slots == nil {
		slots = []string{}
	}
	return &domain.SlotAvailability{Slots: slots, HasTimeRestriction: payload.HasTimeRestriction}, nil
}

// notFound turns a 404 from the service into the local not-found error.
func notFound(err error, message string) error {
	if se, ok := apperrors.IsServerError(err); ok && se.Status == http.StatusNotFound {
		return apperrors.NewNotFoundError(message)
	}
	return err
}
