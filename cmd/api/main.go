package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxurydrive/backoffice/api/routes"
	carsvc "github.com/luxurydrive/backoffice/internal/cars"
	customersvc "github.com/luxurydrive/backoffice/internal/customers"
	reservationsvc "github.com/luxurydrive/backoffice/internal/reservations"
	settingsvc "github.com/luxurydrive/backoffice/internal/settings"
	testimonialsvc "github.com/luxurydrive/backoffice/internal/testimonials"
	"github.com/luxurydrive/backoffice/pkg/config"
	"github.com/luxurydrive/backoffice/pkg/db"
	"github.com/luxurydrive/backoffice/pkg/logger"
	"github.com/luxurydrive/backoffice/pkg/metrics"
	"github.com/luxurydrive/backoffice/pkg/migrate"
	"github.com/luxurydrive/backoffice/pkg/storage/cloudinary"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var mediaClient *cloudinary.Client
	if cfg.Cloudinary.Enabled() {
		mediaClient, err = cloudinary.NewClient(context.Background(), cfg.Cloudinary, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap cloudinary", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "cloudinary not configured, car image uploads disabled")
	}

	reservationRepo := reservationsvc.NewRepository(dbClient.DB())
	reservationReadRepo := reservationsvc.NewRepository(dbClient.Read())
	reservationService, err := reservationsvc.NewService(reservationRepo, reservationReadRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create reservation service", err)
		os.Exit(1)
	}

	// A typed-nil *cloudinary.Client must not end up in the interface; leave
	// it nil so the service degrades to read-only image behavior.
	var mediaHost carsvc.MediaHost
	if mediaClient != nil {
		mediaHost = mediaClient
	}
	carService, err := carsvc.NewService(
		carsvc.NewRepository(dbClient.DB()),
		carsvc.NewRepository(dbClient.Read()),
		dbClient,
		mediaHost,
		logg,
		cfg.Upload.MaxUploadBytes(),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create car service", err)
		os.Exit(1)
	}

	customerService, err := customersvc.NewService(
		customersvc.NewRepository(dbClient.DB()),
		customersvc.NewRepository(dbClient.Read()),
		dbClient,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	settingsService, err := settingsvc.NewService(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	testimonialService, err := testimonialsvc.NewService(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create testimonial service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	var mediaPinger cloudinary.Pinger
	if mediaClient != nil {
		mediaPinger = mediaClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			mediaPinger,
			httpMetrics,
			registry,
			carService,
			customerService,
			reservationService,
			settingsService,
			testimonialService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
