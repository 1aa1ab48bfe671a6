package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reserva/internal/domain"
	apperrors "reserva/internal/errors"
)

// MySQLRepository reads the catalog from a read replica of the reservation
// service database.
type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const companyColumns = `
	e.id, e.nombre, e.descripcion, e.direccion, e.telefono, e.email,
	TIME_FORMAT(e.hora_apertura, '%H:%i'), TIME_FORMAT(e.hora_cierre, '%H:%i')`

const productColumns = `
	p.id, p.empresa_id, p.nombre, p.descripcion, p.precio, p.stock, p.stock_reservado,
	TIME_FORMAT(p.hora_ini, '%H:%i'), TIME_FORMAT(p.hora_fin, '%H:%i'), p.activo`

func (r *MySQLRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM empresas e ORDER BY e.nombre, e.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying companies: %w", err)
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning company row: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating company rows: %w", err)
	}

	return companies, nil
}

func (r *MySQLRepository) FindCompany(ctx context.Context, companyID int) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM empresas e WHERE e.id = ?`

	c, err := scanCompany(r.db.QueryRowContext(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("company not found")
		}
		return nil, fmt.Errorf("querying company %d: %w", companyID, err)
	}
	return &c, nil
}

// CompanyWithProducts returns the company and its active products.
func (r *MySQLRepository) CompanyWithProducts(ctx context.Context, companyID int) (*domain.Company, []domain.Product, error) {
	company, err := r.FindCompany(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}

	query := `SELECT ` + productColumns + `
		FROM productos p
		WHERE p.empresa_id = ?
		  AND p.activo = 1
		ORDER BY p.nombre, p.id`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return company, products, nil
}

// FindProduct returns an active product with its company attached.
func (r *MySQLRepository) FindProduct(ctx context.Context, productID int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `, ` + companyColumns + `
		FROM productos p
		JOIN empresas e ON e.id = p.empresa_id
		WHERE p.id = ?
		  AND p.activo = 1`

	var (
		p        domain.Product
		c        domain.Company
		pDesc    sql.NullString
		stock    sql.NullInt64
		reserved sql.NullInt64
		pOpens   sql.NullString
		pCloses  sql.NullString
		cf       companyFields
	)
	err := r.db.QueryRowContext(ctx, query, productID).Scan(
		&p.ID, &p.CompanyID, &p.Name, &pDesc, &p.Price, &stock, &reserved, &pOpens, &pCloses, &p.IsActive,
		&c.ID, &c.Name, &cf.description, &cf.address, &cf.phone, &cf.email, &cf.opens, &cf.closes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("product not found")
		}
		return nil, fmt.Errorf("querying product %d: %w", productID, err)
	}

	p.Description = pDesc.String
	p.Stock = nullInt(stock)
	p.ReservedStock = nullInt(reserved)
	p.OpensAt = pOpens.String
	p.ClosesAt = pCloses.String
	cf.apply(&c)
	p.Company = &c
	return &p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

type companyFields struct {
	description, address, phone, email, opens, closes sql.NullString
}

func (f companyFields) apply(c *domain.Company) {
	c.Description = f.description.String
	c.Address = f.address.String
	c.Phone = f.phone.String
	c.Email = f.email.String
	c.OpensAt = f.opens.String
	c.ClosesAt = f.closes.String
}

func scanCompany(row rowScanner) (domain.Company, error) {
	var (
		c  domain.Company
		cf companyFields
	)
	if err := row.Scan(&c.ID, &c.Name, &cf.description, &cf.address, &cf.phone, &cf.email, &cf.opens, &cf.closes); err != nil {
		return domain.Company{}, err
	}
	cf.apply(&c)
	return c, nil
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p        domain.Product
		desc     sql.NullString
		stock    sql.NullInt64
		reserved sql.NullInt64
		opens    sql.NullString
		closes   sql.NullString
	)
	if err := row.Scan(&p.ID, &p.CompanyID, &p.Name, &desc, &p.Price, &stock, &reserved, &opens, &closes, &p.IsActive); err != nil {
		return domain.Product{}, err
	}
	p.Description = desc.String
	p.Stock = nullInt(stock)
	p.ReservedStock = nullInt(reserved)
	p.OpensAt = opens.String
	p.ClosesAt = closes.String
	return p, nil
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
