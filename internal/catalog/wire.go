package catalog

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"reserva/internal/catalog/controller"
	"reserva/internal/catalog/repository"
	"reserva/internal/catalog/service"
	"reserva/internal/catalog/usecase"
	"reserva/internal/config"
)

// NewModule reads the catalog from the reservation service, or from the
// replica database when source is mysql.
func NewModule(source string, api repository.CatalogAPI, db *sql.DB, logger *zap.Logger) (*controller.CatalogController, error) {
	var repo service.Repository
	switch source {
	case config.CatalogSourceMySQL:
		if db == nil {
			return nil, fmt.Errorf("catalog source %q needs a database connection", source)
		}
		repo = repository.NewMySQLRepository(db)
	case config.CatalogSourceAPI, "":
		repo = repository.NewAPIRepository(api)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", source)
	}

	svc := service.NewCatalogService(repo, logger)
	uc := usecase.NewCatalogUseCase(svc, logger)
	return controller.NewCatalogController(uc, logger), nil
}
