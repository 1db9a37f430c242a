// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/telekom/finch/internal/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 20 * time.Second
)

// Config is the configuration for the api server
type Config struct {
	// ListeningAddress is the address the api server listens on
	ListeningAddress string `yaml:"address" mapstructure:"address"`
}

// Validate validates the api configuration
func (c *Config) Validate() error {
	if c.ListeningAddress == "" {
		return ErrInvalidListeningAddress
	}
	return nil
}

//go:generate go tool moq -out api_moq.go . API
type API interface {
	// Run starts the api server and blocks until the server is shut down
	Run(ctx context.Context) error
	// Shutdown gracefully shuts down the api server
	Shutdown(ctx context.Context) error
	// RegisterRoutes registers the routes on the api server
	RegisterRoutes(ctx context.Context, routes ...Route) error
}

// Route is a route of the api server
type Route struct {
	// Path is the url path of the route
	Path string
	// Method is the http method of the route. The wildcard "*" registers
	// the handler for all methods.
	Method string
	// Handler is the handler function of the route
	Handler http.HandlerFunc
}

var _ API = (*api)(nil)

type api struct {
	config Config
	router chi.Router
	server *http.Server
}

// New creates a new api server
func New(cfg Config) API {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	return &api{
		config: cfg,
		router: r,
		server: &http.Server{
			Addr:              cfg.ListeningAddress,
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Run starts the api server and blocks until the server is shut down
func (a *api) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.InfoContext(ctx, "Serving api", "address", a.config.ListeningAddress)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Failed to serve api", "error", err)
		return fmt.Errorf("failed to serve api: %w", err)
	}
	return nil
}

// RegisterRoutes registers the routes on the api server.
// A health endpoint is always registered.
func (a *api) RegisterRoutes(ctx context.Context, routes ...Route) error {
	a.router.Use(logger.Middleware(ctx))

	for _, route := range routes {
		switch route.Method {
		case "*":
			a.router.HandleFunc(route.Path, route.Handler)
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
			a.router.Method(route.Method, route.Path, route.Handler)
		default:
			return ErrUnsupportedMethod{Method: route.Method}
		}
	}

	// Handles requests that do not match any registered route
	a.router.NotFound(http.NotFound)
	a.router.Get("/healthz", OkHandler(ctx))
	return nil
}

// Shutdown gracefully shuts down the api server
func (a *api) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	log.InfoContext(ctx, "Shutting down api")
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown api: %w", err)
	}
	return nil
}

// OkHandler returns a handler that will serve status ok
func OkHandler(ctx context.Context) http.HandlerFunc {
	log := logger.FromContext(ctx)
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			log.Error("Could not write response", "error", err)
		}
	}
}
