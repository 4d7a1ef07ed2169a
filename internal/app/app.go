package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/floorcast/floorcast-server/internal/achieve"
	"github.com/floorcast/floorcast-server/internal/auth"
	"github.com/floorcast/floorcast-server/internal/config"
	"github.com/floorcast/floorcast-server/internal/core"
	"github.com/floorcast/floorcast-server/internal/events"
	"github.com/floorcast/floorcast-server/internal/progression"
	"github.com/floorcast/floorcast-server/internal/roleplay"
	"github.com/floorcast/floorcast-server/internal/store"
	"github.com/floorcast/floorcast-server/internal/store/sqlite"
	transporthttp "github.com/floorcast/floorcast-server/internal/transport/http"
)

// App wires together core, engine and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	scenarios, err := loadScenarios(cfg.ScenariosPath, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      24 * time.Hour,
	}
	authService := auth.NewService(jwtConfig)

	registry := core.NewRegistry()
	router := core.NewRouter(registry)
	broadcaster := events.NewBroadcaster(router, logger)
	progress := progression.NewService(st, broadcaster, logger)
	evaluator := achieve.NewRules(broadcaster, logger)

	var generator roleplay.Generator
	if cfg.GeneratorURL != "" {
		generator = roleplay.NewHTTPGenerator(cfg.GeneratorURL, cfg.GeneratorTimeout)
		logger.Info().Str("url", cfg.GeneratorURL).Msg("using remote text generator")
	} else {
		generator = &roleplay.ScriptedGenerator{}
		logger.Warn().Msg("no generator configured, using scripted prospect lines")
	}

	engine := roleplay.NewEngine(st, scenarios, generator, &roleplay.HeuristicDetector{},
		broadcaster, progress, evaluator, logger)

	hub := core.NewHub(registry, router, authService, engine, logger)
	server := transporthttp.NewServer(hub, broadcaster, evaluator, engine, scenarios,
		authService, *cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the dispatch loop and HTTP server and blocks until context
// cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

func loadScenarios(path string, logger *zerolog.Logger) (*roleplay.ScenarioSet, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Warn().Str("path", path).Msg("scenario file missing, using built-in catalog")
		return defaultScenarios(), nil
	}
	scenarios, err := roleplay.LoadScenarios(path)
	if err != nil {
		return nil, fmt.Errorf("load scenarios: %w", err)
	}
	return scenarios, nil
}

func defaultScenarios() *roleplay.ScenarioSet {
	return roleplay.NewScenarioSet(
		roleplay.Scenario{
			ID:                "cold-call-intro",
			Name:              "Cold call introduction",
			Difficulty:        "intro",
			DoorSlamThreshold: 5,
			Persona:           "You are a mildly curious homeowner answering an unexpected sales call.",
		},
		roleplay.Scenario{
			ID:                "skeptical-owner",
			Name:              "Skeptical business owner",
			Difficulty:        "standard",
			DoorSlamThreshold: 3,
			Persona:           "You are a busy business owner who has heard every pitch before and has little patience.",
		},
		roleplay.Scenario{
			ID:                "price-objection",
			Name:              "Price objection marathon",
			Difficulty:        "advanced",
			DoorSlamThreshold: 0,
			Persona:           "You are interested in the product but object to the price at every turn.",
		},
	)
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
