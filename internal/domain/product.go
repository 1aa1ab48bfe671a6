package domain

type Product struct {
	ID            int
	CompanyID     int
	Name          string
	Description   string
	Price         float64
	Stock         *int
	ReservedStock *int
	OpensAt       string
	ClosesAt      string
	IsActive      bool
	Company       *Company
}

// AvailableStock is stock minus reserved stock, floored at zero. A missing
// reserved count counts as nothing reserved.
func (p Product) AvailableStock() int {
	if p.Stock == nil {
		return 0
	}
	reserved := 0
	if p.ReservedStock != nil {
		reserved = *p.ReservedStock
	}
	available := *p.Stock - reserved
	if available < 0 {
		return 0
	}
	return available
}

// HasTimeRestriction is true when the product is bookable only inside its
// own opening window.
func (p Product) HasTimeRestriction() bool {
	return p.OpensAt != "" && p.ClosesAt != ""
}

func (p Product) Subtotal(quantity int) float64 {
	return p.Price * float64(quantity)
}

type Company struct {
	ID          int
	Name        string
	Description string
	Address     string
	Phone       string
	Email       string
	OpensAt     string
	ClosesAt    string
}

func (c Company) HasOperatingHours() bool {
	return c.OpensAt != "" && c.ClosesAt != ""
}

type User struct {
	ID    int
	Name  string
	Email string
}

// SlotAvailability is what the reservation service reports for a product.
// Without a time restriction Slots is empty and any time of day is accepted.
type SlotAvailability struct {
	Slots              []string
	HasTimeRestriction bool
}
