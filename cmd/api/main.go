package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/medicalife/patient-api/internal/config"
	"github.com/medicalife/patient-api/internal/handler"
	patienthandler "github.com/medicalife/patient-api/internal/handler/patient"
	"github.com/medicalife/patient-api/internal/handler/prometheus"
	"github.com/medicalife/patient-api/internal/middleware"
	"github.com/medicalife/patient-api/internal/repository"
	"github.com/medicalife/patient-api/internal/repository/gormstore"
	"github.com/medicalife/patient-api/internal/repository/postgres"
	"github.com/medicalife/patient-api/internal/router"
	eventService "github.com/medicalife/patient-api/internal/service/event"
	patientService "github.com/medicalife/patient-api/internal/service/patient"
	"github.com/medicalife/patient-api/pkg/logger"
	"github.com/medicalife/patient-api/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level: logger.ParseLevel(cfg.Log.Level),
		JSON:  cfg.Log.JSON,
	})
	log.Logger = appLogger.Zerolog()

	gin.SetMode(gin.ReleaseMode)

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.Migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := postgres.Migrate(ctx, db)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	patientRepo, err := newPatientRepository(cfg.Database.Gateway, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize patient gateway")
	}

	// Initialize services
	outboxRepo := postgres.NewOutboxRepository(postgres.NewBaseRepository(db))
	eventSvc := eventService.NewService(outboxRepo, appLogger)
	patientSvc := patientService.NewService(patientRepo, validator.New(), eventSvc, appLogger)

	// Initialize handlers
	h := handler.NewHandler(db)
	patientHandler := patienthandler.NewHandler(patientSvc)
	metricsHandler := prometheus.New(cfg.Metrics.Prefix)

	// Setup router
	r := router.NewRouter(patientHandler, h, metricsHandler, router.RouterConfig{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:        cfg.RateLimit.Burst,
		CORSConfig: middleware.CORSConfig{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     cfg.CORS.AllowMethods,
			AllowHeaders:     cfg.CORS.AllowHeaders,
			ExposeHeaders:    middleware.DefaultCORSConfig().ExposeHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		},
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	})
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("gateway", cfg.Database.Gateway).Msg("patient api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited properly")
}

func newPatientRepository(gateway string, db *sqlx.DB) (repository.PatientRepository, error) {
	switch gateway {
	case config.GatewayGorm:
		gdb, err := gormstore.Open(db.DB)
		if err != nil {
			return nil, err
		}
		return gormstore.NewPatientRepository(gdb), nil
	case config.GatewaySqlx:
		return postgres.NewPatientRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown database gateway %q", gateway)
	}
}
