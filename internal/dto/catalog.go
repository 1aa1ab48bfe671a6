package dto

type CompanyDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	OpensAt     string `json:"opensAt,omitempty"`
	ClosesAt    string `json:"closesAt,omitempty"`
}

type ProductDTO struct {
	ID                 int         `json:"id"`
	CompanyID          int         `json:"companyId"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	Price              float64     `json:"price"`
	Stock              *int        `json:"stock"`
	AvailableStock     int         `json:"availableStock"`
	OpensAt            string      `json:"opensAt,omitempty"`
	ClosesAt           string      `json:"closesAt,omitempty"`
	HasTimeRestriction bool        `json:"hasTimeRestriction"`
	Company            *CompanyDTO `json:"company,omitempty"`
}

type CompanyListResponse struct {
	Companies []CompanyDTO `json:"companies"`
}

type CompanyProductsResponse struct {
	Company  CompanyDTO   `json:"company"`
	Products []ProductDTO `json:"products"`
}

type ProductResponse struct {
	Product ProductDTO `json:"product"`
}

// SlotsResponse keeps the field names browsers already consume.
type SlotsResponse struct {
	Success            bool     `json:"success"`
	Slots              []string `json:"slots"`
	HasTimeRestriction bool     `json:"hasTimeRestriction"`
}
