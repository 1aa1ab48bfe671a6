package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"reserva/internal/infrastructure/mysql"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/reserva_test"

// SetupTestDB opens the catalog test database. TEST_DATABASE_DSN overrides
// the default local reserva_test database; the test is skipped when neither
// is reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables applies the catalog migrations.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := mysql.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}

// CleanupTestDB empties the catalog tables and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	for _, table := range []string{"productos", "empresas"} {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// InsertCompany adds a company row and returns its id. Empty hours are
// stored as NULL.
func InsertCompany(t *testing.T, db *sql.DB, name, opens, closes string) int {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO empresas (nombre, descripcion, direccion, telefono, email, hora_apertura, hora_cierre)
		 VALUES (?, 'desc', 'Calle 1', '600000000', 'info@example.com', ?, ?)`,
		name, nullable(opens), nullable(closes),
	)
	if err != nil {
		t.Fatalf("failed to insert company: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read company id: %v", err)
	}
	return int(id)
}

// InsertProduct adds a product row for companyID and returns its id.
func InsertProduct(t *testing.T, db *sql.DB, companyID int, name string, price float64, stock int, opens, closes string) int {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO productos (empresa_id, nombre, descripcion, precio, stock, stock_reservado, hora_ini, hora_fin, activo)
		 VALUES (?, ?, NULL, ?, ?, 0, ?, ?, 1)`,
		companyID, name, price, stock, nullable(opens), nullable(closes),
	)
	if err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read product id: %v", err)
	}
	return int(id)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
