package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"reserva/internal/catalog"
	"reserva/internal/commons"
	"reserva/internal/config"
	"reserva/internal/infrastructure/logger"
	"reserva/internal/infrastructure/mysql"
	"reserva/internal/infrastructure/reservaapi"
	"reserva/internal/infrastructure/telemetry"
	"reserva/internal/reservation"
	"reserva/internal/reservation/validator"
	"reserva/internal/server"
	"reserva/internal/session"
)

func main() {
	cfg, err := commons.Resolve()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(cfg.Telemetry, zapLogger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			zapLogger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	loc, err := cfg.Booking.Location()
	if err != nil {
		zapLogger.Fatal("loading booking timezone", zap.Error(err))
	}

	client, err := reservaapi.New(cfg.Upstream, loc, zapLogger.Named("reservaapi"))
	if err != nil {
		zapLogger.Fatal("creating reservation service client", zap.Error(err))
	}

	var db *sql.DB
	if cfg.Catalog.Source == config.CatalogSourceMySQL {
		db, err = mysql.NewConnection(ctx, cfg.Database)
		if err != nil {
			zapLogger.Fatal("connecting to database", zap.Error(err))
		}
		defer db.Close()
		zapLogger.Info("catalog replica connected", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))
	}

	catalogCtrl, err := catalog.NewModule(cfg.Catalog.Source, client, db, zapLogger)
	if err != nil {
		zapLogger.Fatal("wiring catalog", zap.Error(err))
	}

	v := validator.New(loc, cfg.Booking.MaxAdvanceDays)
	requireUser := session.RequireUser(client, zapLogger)
	reservationCtrl := reservation.NewModule(client, v, requireUser, zapLogger)
	sessionCtrl := session.NewController(client, zapLogger)

	router := server.NewRouter(server.Routes{
		Catalog:      catalogCtrl,
		Reservations: reservationCtrl,
		Session:      sessionCtrl,
	}, cfg.Telemetry.ServiceName, zapLogger)

	srv := server.New(cfg.Server.Port, cfg.Upstream.Timeout, router, zapLogger)

	zapLogger.Info("gateway configured",
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.String("catalogSource", cfg.Catalog.Source),
		zap.String("timezone", loc.String()),
		zap.Int("maxAdvanceDays", v.MaxAdvanceDays()),
	)

	if err := srv.Run(ctx); err != nil {
		zapLogger.Error("server error", zap.Error(err))
		return
	}
	zapLogger.Info("server stopped gracefully")
}
