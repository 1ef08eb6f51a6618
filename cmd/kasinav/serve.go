package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kasinav/kasi-nav/internal/api"
	"github.com/kasinav/kasi-nav/internal/api/handler"
	"github.com/kasinav/kasi-nav/internal/core/ports"
	"github.com/kasinav/kasi-nav/internal/core/service"
	"github.com/kasinav/kasi-nav/internal/infrastructure/catalog"
	mongostore "github.com/kasinav/kasi-nav/internal/infrastructure/db/mongo"
	redisstore "github.com/kasinav/kasi-nav/internal/infrastructure/db/redis"
	"github.com/kasinav/kasi-nav/internal/infrastructure/genai"
	"github.com/kasinav/kasi-nav/internal/infrastructure/localstore"
	"github.com/kasinav/kasi-nav/internal/infrastructure/tracking"
	"github.com/kasinav/kasi-nav/internal/pkg/config"
	"github.com/kasinav/kasi-nav/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFrom(envLookuper())
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), Service: "kasinav"})
	if cfg.JWTSecretGenerated {
		log.Warn().Msg("JWT_SECRET not set, using a random secret; tokens end when the process stops")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "kasi-nav",
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	authRepo := mongostore.NewAuthRepository(db)
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	var (
		deliveryRepo ports.DeliveryRepository
		roleRepo     ports.RoleRepository
	)
	switch cfg.StorageDriver {
	case config.StorageFile:
		store := localstore.New(cfg.StateFile)
		deliveryRepo, roleRepo = store, store
	default:
		deliveryRepo = mongostore.NewDeliveryRepository(db)
		roleRepo = redisstore.NewRoleRepository(rdb)
	}
	// accounts and revoked tokens stay in MongoDB and Redis for every driver
	log.Info().Str("storage", cfg.StorageDriver).Msg("state storage configured")

	cat := catalog.Default(time.Now())
	if cfg.CatalogFile != "" {
		if cat, err = catalog.LoadFile(cfg.CatalogFile, time.Now()); err != nil {
			return err
		}
	}

	completer, err := genai.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return err
	}
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set, assistant will answer with fallbacks")
	}

	// --- Services ---
	registry := service.NewRegistry(cat.Landmarks, cat.Incidents, logger.Component("registry"))
	authService := service.NewAuthService(authRepo, redisstore.NewTokenDenylist(rdb), cfg.JWTSecret, cfg.TokenTTL)
	assistant := service.NewAssistantService(completer, cfg.Gemini.Timeout, logger.Component("assistant"))
	deliveries := service.NewDeliveryService(deliveryRepo, registry, logger.Component("deliveries"))
	sessions := service.NewSessionService(roleRepo, logger.Component("session"))

	state := service.NewAppState(deliveries, sessions)
	state.Load(ctx)

	fleet := tracking.NewFleet(tracking.DefaultDrivers(), tracking.DefaultZones())
	go tracking.NewSimulator(fleet, cfg.DriverTick, logger.Component("simulator")).Run(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Log:        log,
		Auth:       authService,
		Sessions:   sessions,
		State:      state,
		Deliveries: deliveries,
		Assistant:  assistant,
		Registry:   registry,
		Drivers:    fleet,
		Checkers: []handler.DependencyChecker{
			mongostore.NewChecker(mongoClient),
			redisstore.NewChecker(rdb),
		},
		IncidentMaxAge: cfg.IncidentMaxAge,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
