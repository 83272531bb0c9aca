package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/gradebook/internal/api"
	"github.com/phrazzld/gradebook/internal/config"
	"github.com/phrazzld/gradebook/internal/platform/memory"
	"github.com/phrazzld/gradebook/internal/platform/metrics"
	"github.com/phrazzld/gradebook/internal/service"
	"github.com/phrazzld/gradebook/internal/service/auth"
	"github.com/phrazzld/gradebook/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// application holds the wired dependencies of a running server.
type application struct {
	config *config.Config
	logger *slog.Logger

	userStore  store.UserStore
	jwtService auth.JWTService
	registry   service.RegistryService

	metricsRegistry *prometheus.Registry
	router          http.Handler
}

// newApplication builds every component from cfg. Each call gets its own
// store and metrics registry, so nothing is shared between instances.
func newApplication(cfg *config.Config, log *slog.Logger) (*application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	hasher, err := auth.NewHasher(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential hasher: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	userStore := store.Synchronized(memory.NewUserStore())
	registry := service.NewRegistry(userStore, hasher, log,
		service.WithRecorder(metrics.New(reg)))

	router := api.NewRouter(api.RouterDeps{
		Registry:   registry,
		JWTService: jwtService,
		Logger:     log,
		Metrics:    promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	return &application{
		config:          cfg,
		logger:          log,
		userStore:       userStore,
		jwtService:      jwtService,
		registry:        registry,
		metricsRegistry: reg,
		router:          router,
	}, nil
}
