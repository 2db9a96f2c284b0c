// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/biodata-hub/internal/store"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

// SearchHandler serves the keyword search endpoint.
type SearchHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(st *store.Store, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{store: st, logger: logger}
}

// RegisterRoutes registers the search route on mux.
func (h *SearchHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/search", h.Search)
}

// searchResult is one hit in the search response.
type searchResult struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Abstract string   `json:"abstract"`
	Authors  string   `json:"authors"`
	Year     string   `json:"year"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// Search handles GET /api/search?q=... . A blank query returns an empty
// result set without touching the store.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	records, err := h.store.Search(r.Context(), query)
	if err != nil {
		h.logger.Error("Search failed", zap.String("query", query), zap.Error(err))
		ErrorResponse(w, errorStatus(err), err.Error())
		return
	}

	results := make([]searchResult, len(records))
	for i, rec := range records {
		category := rec.CategoryName
		if category == "" {
			category = types.DefaultCategory
		}
		year := ""
		if rec.Year != 0 {
			year = strconv.Itoa(rec.Year)
		}
		results[i] = searchResult{
			ID:       rec.Slug,
			Title:    rec.Title,
			Abstract: rec.Abstract,
			Authors:  strings.Join(rec.Authors, ", "),
			Year:     year,
			Category: category,
			Tags:     rec.Tags,
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"q":       query,
		"count":   len(results),
		"results": results,
	})
}
