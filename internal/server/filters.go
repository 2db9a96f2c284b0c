// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/biodata-hub/internal/store"
)

// FilterHandler serves the facet listing endpoints used to populate
// filter dropdowns.
type FilterHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewFilterHandler creates a FilterHandler.
func NewFilterHandler(st *store.Store, logger *zap.Logger) *FilterHandler {
	return &FilterHandler{store: st, logger: logger}
}

// RegisterRoutes registers the filter routes on mux.
func (h *FilterHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/filters/years", h.facet("years", h.store.DistinctYears))
	mux.HandleFunc("GET /api/filters/authors", h.facet("authors", h.store.DistinctAuthors))
	mux.HandleFunc("GET /api/filters/keywords", h.facet("keywords", h.store.DistinctTags))
	mux.HandleFunc("GET /api/filters/domains", h.facet("domains", h.store.DistinctCategories))
}

// facet wraps a distinct-value query into a handler returning
// {"<key>": [...]}.
func (h *FilterHandler) facet(key string, query func(context.Context) ([]string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := query(r.Context())
		if err != nil {
			h.logger.Error("Facet query failed", zap.String("facet", key), zap.Error(err))
			ErrorResponse(w, errorStatus(err), err.Error())
			return
		}
		if values == nil {
			values = []string{}
		}
		WriteJSON(w, http.StatusOK, map[string][]string{key: values})
	}
}
