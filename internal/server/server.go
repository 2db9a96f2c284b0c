// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the research catalog over HTTP. Handlers are
// grouped per concern and registered on a single ServeMux.
package server

import (
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/biodata-hub/internal/auth"
	"github.com/pdiddy/biodata-hub/internal/store"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

// Server wires the HTTP surface together.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New assembles the full route table and returns a ready-to-run Server.
// dataDir is the platform data root; raw files live under dataDir/raw
// and uploads under dataDir/uploads.
func New(cfg types.ServerConfig, dataDir string, st *store.Store, authSvc *auth.Service, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	authMW := NewAuthMiddleware(authSvc)
	NewResearchHandler(st, logger).RegisterRoutes(mux, authMW)
	NewSearchHandler(st, logger).RegisterRoutes(mux)
	NewFilterHandler(st, logger).RegisterRoutes(mux)
	NewDataHandler(filepath.Join(dataDir, "raw"), logger).RegisterRoutes(mux)
	NewAuthHandler(authSvc, logger).RegisterRoutes(mux)
	NewUploadHandler(filepath.Join(dataDir, "uploads"), logger).RegisterRoutes(mux, authMW)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 15 * time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 30 * time.Second
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      RequestLogger(logger)(mux),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		logger: logger,
	}
}

// ListenAndServe runs the server until it fails or is shut down.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Handler exposes the assembled handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
