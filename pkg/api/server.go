// Package api exposes composite-record decoding over HTTP: view-buffer
// and item-table decode endpoints, raw stream inspection and a capture
// store for saving interesting buffers for later analysis.
package api

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/parkerhayes/cdwire/pkg/blobspool"
)

// Router builds the chi router for an already-constructed server.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey))

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Post("/decode/view", s.metrics.InstrumentHandler("POST", "/api/v1/decode/view", s.handleDecodeView))
		r.Post("/decode/itemtable", s.metrics.InstrumentHandler("POST", "/api/v1/decode/itemtable", s.handleDecodeItemTable))
		r.Post("/inspect/stream", s.metrics.InstrumentHandler("POST", "/api/v1/inspect/stream", s.handleInspectStream))

		r.Get("/captures/{kind}", s.metrics.InstrumentHandler("GET", "/api/v1/captures/{kind}", s.handleListCaptures))
		r.Get("/captures/{kind}/{id}", s.metrics.InstrumentHandler("GET", "/api/v1/captures/{kind}/{id}", s.handleGetCapture))
		r.Delete("/captures/{kind}/{id}", s.metrics.InstrumentHandler("DELETE", "/api/v1/captures/{kind}/{id}", s.handleDeleteCapture))
	})

	return r
}

// StartServer starts the HTTP server with all routes configured. It
// blocks until the listener fails.
func StartServer(config ServerConfig, logger zerolog.Logger) error {
	var captures *blobspool.Store
	if config.CaptureDir != "" {
		var err error
		captures, err = blobspool.Open(filepath.Join(config.CaptureDir, "captures"))
		if err != nil {
			return fmt.Errorf("opening capture store: %w", err)
		}
		defer captures.Close()
	}

	server := NewServer(config, captures, NewMetrics(), logger)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	logger.Info().Str("addr", addr).Bool("captures", captures != nil).Msg("starting API server")
	return http.ListenAndServe(addr, server.Router())
}
