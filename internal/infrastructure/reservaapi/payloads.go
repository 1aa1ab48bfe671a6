package reservaapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"reserva/internal/domain"
	"reserva/internal/slot"
)

// decimal accepts both JSON numbers and the quoted decimals the service
// emits for DECIMAL columns.
type decimal float64

func (d *decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*d = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parsing decimal %q: %w", s, err)
		}
		*d = decimal(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*d = decimal(f)
	return nil
}

type companyPayload struct {
	ID           int     `json:"id"`
	Nombre       string  `json:"nombre"`
	Descripcion  *string `json:"descripcion"`
	Direccion    *string `json:"direccion"`
	Telefono     *string `json:"telefono"`
	Email        *string `json:"email"`
	HoraApertura *string `json:"hora_apertura"`
	HoraCierre   *string `json:"hora_cierre"`
}

func (p companyPayload) toDomain() domain.Company {
	return domain.Company{
		ID:          p.ID,
		Name:        p.Nombre,
		Description: deref(p.Descripcion),
		Address:     deref(p.Direccion),
		Phone:       deref(p.Telefono),
		Email:       deref(p.Email),
		OpensAt:     timeOfDay(p.HoraApertura),
		ClosesAt:    timeOfDay(p.HoraCierre),
	}
}

type productPayload struct {
	ID          int             `json:"id"`
	EmpresaID   int             `json:"empresa_id"`
	Nombre      string          `json:"nombre"`
	Precio      decimal         `json:"precio"`
	Stock       *int            `json:"stock"`
	Descripcion *string         `json:"descripcion"`
	HoraIni     *string         `json:"hora_ini"`
	HoraFin     *string         `json:"hora_fin"`
	Activo      *bool           `json:"activo"`
	Company     *companyPayload `json:"company"`
}

func (p productPayload) toDomain() domain.Product {
	product := domain.Product{
		ID:          p.ID,
		CompanyID:   p.EmpresaID,
		Name:        p.Nombre,
		Description: deref(p.Descripcion),
		Price:       float64(p.Precio),
		Stock:       p.Stock,
		OpensAt:     timeOfDay(p.HoraIni),
		ClosesAt:    timeOfDay(p.HoraFin),
		IsActive:    p.Activo == nil || *p.Activo,
	}
	if p.Company != nil {
		company := p.Company.toDomain()
		product.Company = &company
		if product.CompanyID == 0 {
			product.CompanyID = company.ID
		}
	}
	return product
}

type companyProductsPayload struct {
	Company  companyPayload   `json:"company"`
	Products []productPayload `json:"products"`
}

type reserveProductPayload struct {
	Product productPayload `json:"product"`
}

type slotsPayload struct {
	Success            bool     `json:"success"`
	Slots              []string `json:"slots"`
	HasTimeRestriction bool     `json:"hasTimeRestriction"`
	Message            string   `json:"message"`
}

type userPayload struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email"`
	Correo   string `json:"correo"`
}

func (p userPayload) toDomain() domain.User {
	name := p.Name
	if name == "" {
		name = strings.TrimSpace(p.Nombre + " " + p.Apellido)
	}
	email := p.Email
	if email == "" {
		email = p.Correo
	}
	return domain.User{ID: p.ID, Name: name, Email: email}
}

type loginPayload struct {
	Correo string `json:"correo"`
	Pass   string `json:"pass"`
}

type registerPayload struct {
	Nombre           string `json:"nombre"`
	Apellido         string `json:"apellido"`
	Correo           string `json:"correo"`
	Pass             string `json:"pass"`
	PassConfirmation string `json:"pass_confirmation"`
}

type authResponse struct {
	Usuario *userPayload `json:"usuario"`
	User    *userPayload `json:"user"`
	Message string       `json:"message"`
}

func (r authResponse) user() *domain.User {
	p := r.Usuario
	if p == nil {
		p = r.User
	}
	if p == nil {
		return nil
	}
	u := p.toDomain()
	return &u
}

type reservationItemPayload struct {
	ProductoID   int     `json:"producto_id"`
	Cantidad     int     `json:"cantidad"`
	FechaReserva string  `json:"fecha_reserva"`
	HoraReserva  *string `json:"hora_reserva"`
}

type createReservationPayload struct {
	EmpresaID int                      `json:"empresa_id"`
	Items     []reservationItemPayload `json:"items"`
}

func newCreateReservationPayload(req domain.ReservationRequest) createReservationPayload {
	item := reservationItemPayload{
		ProductoID:   req.ProductID,
		Cantidad:     req.Quantity,
		FechaReserva: req.Date,
	}
	if req.Time != "" {
		t := req.Time
		item.HoraReserva = &t
	}
	return createReservationPayload{EmpresaID: req.CompanyID, Items: []reservationItemPayload{item}}
}

type createReservationResponse struct {
	Success       bool   `json:"success"`
	ReservationID int    `json:"reservation_id"`
	Message       string `json:"message"`
}

type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type linePayload struct {
	ID             int     `json:"id"`
	ProductoID     int     `json:"producto_id"`
	Cantidad       int     `json:"cantidad"`
	PrecioUnitario decimal `json:"precio_unitario"`
	Subtotal       decimal `json:"subtotal"`
	Producto       *struct {
		Nombre string `json:"nombre"`
	} `json:"producto"`
}

type reservationPayload struct {
	ID        int     `json:"id"`
	EstadoID  int     `json:"estado_id"`
	EmpresaID int     `json:"empresa_id"`
	UsuarioID int     `json:"usuario_id"`
	FechaHora *string `json:"fecha_hora"`
	CreatedAt string  `json:"created_at"`
	Empresa   *struct {
		ID     int    `json:"id"`
		Nombre string `json:"nombre"`
	} `json:"empresa"`
	Lineas []linePayload `json:"lineas"`
}

type reservationEnvelope struct {
	Reservation *reservationPayload `json:"reservation"`
}

type reservationListEnvelope struct {
	Reservations []reservationPayload `json:"reservations"`
}

func (p reservationPayload) toDomain(loc *time.Location) domain.Reservation {
	r := domain.Reservation{
		ID:        p.ID,
		CompanyID: p.EmpresaID,
		UserID:    p.UsuarioID,
		Status:    domain.ReservationStatus(p.EstadoID),
	}
	if p.Empresa != nil {
		r.CompanyName = p.Empresa.Nombre
		if r.CompanyID == 0 {
			r.CompanyID = p.Empresa.ID
		}
	}
	if p.FechaHora != nil {
		if t, ok := parseTimestamp(*p.FechaHora, loc); ok {
			r.ScheduledAt = &t
		}
	}
	if t, ok := parseTimestamp(p.CreatedAt, loc); ok {
		r.CreatedAt = t
	}
	for _, l := range p.Lineas {
		line := domain.ReservationLine{
			ID:        l.ID,
			ProductID: l.ProductoID,
			Quantity:  l.Cantidad,
			UnitPrice: float64(l.PrecioUnitario),
			Subtotal:  float64(l.Subtotal),
		}
		if l.Producto != nil {
			line.ProductName = l.Producto.Nombre
		}
		r.Lines = append(r.Lines, line)
	}
	return r
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// parseTimestamp reads the service's date-times. Values without an offset are
// wall-clock times in loc.
func parseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// timeOfDay normalizes TIME columns to HH:MM. Unparsable values are kept as
// sent so the slot generator can reject them.
func timeOfDay(s *string) string {
	raw := strings.TrimSpace(deref(s))
	normalized, err := slot.Normalize(raw)
	if err != nil {
		return raw
	}
	return normalized
}
