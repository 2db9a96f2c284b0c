// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/biodata-hub/internal/store"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

// defaultThumbnail is the placeholder image the listing surface returns
// for records without figures.
const defaultThumbnail = "https://images.unsplash.com/photo-1532153975070-2e9ab71f1b14?crop=entropy&cs=tinysrgb&fit=max&fm=jpg&q=80&w=600"

// ResearchHandler serves the research record endpoints.
type ResearchHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewResearchHandler creates a ResearchHandler.
func NewResearchHandler(st *store.Store, logger *zap.Logger) *ResearchHandler {
	return &ResearchHandler{store: st, logger: logger}
}

// RegisterRoutes registers the research routes on mux. Creation requires
// an authenticated identity.
func (h *ResearchHandler) RegisterRoutes(mux *http.ServeMux, authMW *AuthMiddleware) {
	mux.HandleFunc("GET /api/research", h.List)
	mux.HandleFunc("POST /api/research", authMW.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/research/{slug}", h.Get)
	mux.HandleFunc("GET /api/research/{slug}/abstract", h.GetAbstract)
	mux.HandleFunc("GET /api/research/{slug}/content", h.GetContent)
	mux.HandleFunc("GET /api/research/{slug}/figures", h.GetFigures)
	mux.HandleFunc("GET /api/research/{slug}/datasets", h.GetDatasets)
}

// listItem is the summary shape the listing endpoint returns.
type listItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SourceName  string   `json:"source_name"`
	SourceURL   string   `json:"source_url"`
	Authors     string   `json:"authors"`
	Journal     string   `json:"journal"`
	Year        string   `json:"year"`
	DOI         string   `json:"doi"`
	LastUpdated string   `json:"last_updated"`
	RawDataFile string   `json:"raw_data_file"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Thumbnail   string   `json:"thumbnail"`
}

// List handles GET /api/research: all records, most recent first.
func (h *ResearchHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, "listing research", err)
		return
	}

	items := make([]listItem, len(records))
	for i, rec := range records {
		items[i] = toListItem(rec)
	}
	if err := WriteJSON(w, http.StatusOK, items); err != nil {
		h.logger.Error("Failed to write research list", zap.Error(err))
	}
}

func toListItem(rec *types.ResearchRecord) listItem {
	description := rec.Description
	if description == "" {
		description = rec.Abstract
	}
	lastUpdated := rec.LastUpdated
	if lastUpdated == "" {
		lastUpdated = rec.UpdatedAt.Format("2006-01-02")
	}
	category := rec.CategoryName
	if category == "" {
		category = types.DefaultCategory
	}
	year := ""
	if rec.Year != 0 {
		year = strconv.Itoa(rec.Year)
	}
	return listItem{
		ID:          rec.Slug,
		Title:       rec.Title,
		Description: description,
		SourceName:  rec.SourceName,
		SourceURL:   rec.SourceURL,
		Authors:     strings.Join(rec.Authors, ", "),
		Journal:     rec.Journal,
		Year:        year,
		DOI:         rec.DOI,
		LastUpdated: lastUpdated,
		RawDataFile: rec.DatasetFile,
		Category:    category,
		Tags:        rec.Tags,
		Thumbnail:   defaultThumbnail,
	}
}

// Get handles GET /api/research/{slug}: the full record.
func (h *ResearchHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.fail(w, "reading research", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, rec); err != nil {
		h.logger.Error("Failed to write research record", zap.Error(err))
	}
}

// GetAbstract handles GET /api/research/{slug}/abstract.
func (h *ResearchHandler) GetAbstract(w http.ResponseWriter, r *http.Request) {
	slugID := r.PathValue("slug")
	rec, err := h.store.GetBySlug(r.Context(), slugID)
	if err != nil {
		h.fail(w, "reading research", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"id":       slugID,
		"abstract": rec.Abstract,
	})
}

// GetContent handles GET /api/research/{slug}/content. Records carry no
// body sections yet, so the list is always empty; the endpoint exists so
// clients can probe it uniformly with the other collaborators.
func (h *ResearchHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	slugID := r.PathValue("slug")
	if _, err := h.store.GetBySlug(r.Context(), slugID); err != nil {
		h.fail(w, "reading research", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"id":      slugID,
		"content": []string{},
	})
}

// GetFigures handles GET /api/research/{slug}/figures.
func (h *ResearchHandler) GetFigures(w http.ResponseWriter, r *http.Request) {
	slugID := r.PathValue("slug")
	rec, err := h.store.GetBySlug(r.Context(), slugID)
	if err != nil {
		h.fail(w, "reading research", err)
		return
	}
	figures := rec.ImageFiles
	if figures == nil {
		figures = []string{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"id":      slugID,
		"figures": figures,
	})
}

// datasetRef points a dataset file at the raw-file download endpoint.
type datasetRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// GetDatasets handles GET /api/research/{slug}/datasets: the record's
// dataset files resolved to download URLs. The record stores only names;
// the file collaborator serves the bytes.
func (h *ResearchHandler) GetDatasets(w http.ResponseWriter, r *http.Request) {
	slugID := r.PathValue("slug")
	rec, err := h.store.GetBySlug(r.Context(), slugID)
	if err != nil {
		h.fail(w, "reading research", err)
		return
	}

	datasets := []datasetRef{}
	if rec.DatasetFile != "" {
		datasets = append(datasets, datasetRef{
			Name: rec.DatasetFile,
			URL:  "/api/files/raw/" + url.PathEscape(rec.DatasetFile),
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"id":       slugID,
		"datasets": datasets,
	})
}

// createRequest accepts the loosely-typed creation payload: authors and
// tags arrive as either a JSON array or a comma-separated string, year as
// a number or numeric string.
type createRequest struct {
	Title       string     `json:"title"`
	Authors     stringList `json:"authors"`
	Abstract    string     `json:"abstract"`
	Tags        stringList `json:"tags"`
	Category    string     `json:"category"`
	Year        flexInt    `json:"year"`
	DOI         string     `json:"doi"`
	Description string     `json:"description"`
	SourceName  string     `json:"source_name"`
	SourceURL   string     `json:"source_url"`
}

// Create handles POST /api/research. Collisions are a hard 409 here,
// unlike the migration path's silent skip.
func (h *ResearchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec, err := h.store.CreateResearch(r.Context(), store.NewResearch{
		Title:       req.Title,
		Authors:     req.Authors,
		Abstract:    req.Abstract,
		Tags:        req.Tags,
		Category:    req.Category,
		Year:        int(req.Year),
		DOI:         req.DOI,
		Description: req.Description,
		SourceName:  req.SourceName,
		SourceURL:   req.SourceURL,
	})
	if err != nil {
		h.fail(w, "creating research", err)
		return
	}

	if identity := IdentityFrom(r.Context()); identity != nil {
		h.logger.Info("Research created",
			zap.String("slug", rec.Slug),
			zap.String("created_by", identity.Username))
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"message":  "Research created",
		"id":       rec.Slug,
		"research": rec,
	})
}

func (h *ResearchHandler) fail(w http.ResponseWriter, op string, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Research handler error", zap.String("op", op), zap.Error(err))
	}
	ErrorResponse(w, status, err.Error())
}

// stringList decodes a JSON array of strings or a single comma-separated
// string into an ordered list.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}

	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*l = out
	return nil
}

// flexInt decodes a JSON number or numeric string. Unparseable values
// decode to zero rather than failing the request.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected number or string: %w", err)
	}
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		*f = flexInt(v)
	} else {
		*f = 0
	}
	return nil
}
