// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DataHandler serves raw dataset files straight off the data directory.
type DataHandler struct {
	rawDir string
	logger *zap.Logger
}

// NewDataHandler creates a DataHandler rooted at rawDir.
func NewDataHandler(rawDir string, logger *zap.Logger) *DataHandler {
	return &DataHandler{rawDir: rawDir, logger: logger}
}

// RegisterRoutes registers the raw data routes on mux.
func (h *DataHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/data/raw", h.ListRaw)
	mux.HandleFunc("GET /api/data/raw/{filename}", h.GetRaw)
	mux.HandleFunc("GET /api/files/raw/{filename}", h.DownloadRaw)
}

// rawFile is one entry in the raw data listing.
type rawFile struct {
	Filename string `json:"filename"`
	Name     string `json:"name"`
}

// ListRaw handles GET /api/data/raw: the JSON files available under the
// raw data directory. A missing directory reads as an empty listing.
func (h *DataHandler) ListRaw(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(h.rawDir)
	if err != nil {
		if os.IsNotExist(err) {
			WriteJSON(w, http.StatusOK, map[string]any{"files": []rawFile{}})
			return
		}
		h.logger.Error("Failed to read raw data directory", zap.Error(err))
		ErrorResponse(w, http.StatusInternalServerError, "failed to list raw data")
		return
	}

	files := []rawFile{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")
		files = append(files, rawFile{
			Filename: entry.Name(),
			Name:     strings.ReplaceAll(stem, "_", " "),
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"files": files})
}

// GetRaw handles GET /api/data/raw/{filename}: the file contents served
// inline as JSON.
func (h *DataHandler) GetRaw(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, false)
}

// DownloadRaw handles GET /api/files/raw/{filename}: the file served as
// an attachment.
func (h *DataHandler) DownloadRaw(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, true)
}

func (h *DataHandler) serve(w http.ResponseWriter, r *http.Request, download bool) {
	// Base strips any traversal components from the request path.
	name := filepath.Base(r.PathValue("filename"))
	if name == "." || name == string(filepath.Separator) || !strings.HasSuffix(name, ".json") {
		ErrorResponse(w, http.StatusBadRequest, "invalid filename")
		return
	}

	full := filepath.Join(h.rawDir, name)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		ErrorResponse(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if download {
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	}
	http.ServeFile(w, r, full)
}
