// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package finch

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/telekom/finch/internal/logger"
	"github.com/telekom/finch/pkg/api"
	"gopkg.in/yaml.v3"
)

// startupAPI registers the finch routes and runs the api server
func (f *Finch) startupAPI(ctx context.Context) error {
	routes := []api.Route{
		{
			Path: "/openapi", Method: http.MethodGet,
			Handler: f.handleOpenAPI,
		},
		{
			Path: "/v1/checks/{check}", Method: http.MethodGet,
			Handler: f.handleCheckResult,
		},
		{
			Path: "/metrics", Method: http.MethodGet,
			Handler: promhttp.HandlerFor(
				f.telemetry.GetRegistry(),
				promhttp.HandlerOpts{Registry: f.telemetry.GetRegistry()},
			).ServeHTTP,
		},
	}

	err := f.api.RegisterRoutes(ctx, routes...)
	if err != nil {
		logger.FromContext(ctx).ErrorContext(ctx, "Error while registering routes", "error", err)
		return err
	}
	return f.api.Run(ctx)
}

// handleOpenAPI serves the openapi specification of the
// registered checks. The format is chosen based on the
// Accept header, defaulting to yaml.
func (f *Finch) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	oapi, err := f.controller.GenerateCheckSpecs(ctx)
	if err != nil {
		log.Error("Failed to create openapi", "error", err)
		http.Error(w, "failed to create openapi", http.StatusInternalServerError)
		return
	}

	mime := r.Header.Get("Accept")

	var marshaler func(in any) ([]byte, error)
	switch mime {
	case "application/json":
		marshaler = json.Marshal
		w.Header().Add("Content-Type", "application/json")
	default:
		marshaler = yaml.Marshal
		w.Header().Add("Content-Type", "text/yaml")
	}

	res, err := marshaler(oapi)
	if err != nil {
		log.Error("Failed to marshal openapi", "error", err)
		http.Error(w, "failed to marshal openapi", http.StatusInternalServerError)
		return
	}

	if _, err = w.Write(res); err != nil {
		log.Error("Failed to write openapi response", "error", err)
	}
}

// handleCheckResult serves the latest result of the requested check as json
func (f *Finch) handleCheckResult(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	name := chi.URLParam(r, "check")
	if name == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	res, ok := f.db.Get(name)
	if !ok {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	raw, err := json.Marshal(res)
	if err != nil {
		log.Error("Failed to marshal check result", "check", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	if _, err = w.Write(raw); err != nil {
		log.Error("Failed to write check result response", "check", name, "error", err)
	}
}
