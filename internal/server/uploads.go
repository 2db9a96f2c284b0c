// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadHandler accepts admin metadata uploads, stages them as JSON files
// for a later migration pass, and manages their lifecycle: merge, status,
// delete, and raw download.
type UploadHandler struct {
	uploadDir string
	logger    *zap.Logger
}

// NewUploadHandler creates an UploadHandler writing into uploadDir.
func NewUploadHandler(uploadDir string, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{uploadDir: uploadDir, logger: logger}
}

// RegisterRoutes registers the upload routes on mux. Mutations are
// admin-only; the stored files themselves download without auth, like the
// raw data files.
func (h *UploadHandler) RegisterRoutes(mux *http.ServeMux, authMW *AuthMiddleware) {
	mux.HandleFunc("POST /api/admin/uploads", authMW.RequireAdmin(h.Upload))
	mux.HandleFunc("PUT /api/admin/uploads/{id}", authMW.RequireAdmin(h.Merge))
	mux.HandleFunc("DELETE /api/admin/uploads/{id}", authMW.RequireAdmin(h.Delete))
	mux.HandleFunc("GET /api/admin/uploads/{id}/status", authMW.RequireAdmin(h.Status))
	mux.HandleFunc("GET /api/files/uploads/{filename}", h.Download)
}

// uploadEnvelope wraps the uploaded payload with attribution.
type uploadEnvelope struct {
	CreatedAt string          `json:"createdAt"`
	CreatedBy string          `json:"createdBy"`
	UpdatedAt string          `json:"updatedAt,omitempty"`
	UpdatedBy string          `json:"updatedBy,omitempty"`
	Metadata  json.RawMessage `json:"metadata"`
}

// Upload handles POST /api/admin/uploads. The body must be valid JSON;
// it is stored verbatim under a generated filename.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var payload json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	envelope := uploadEnvelope{
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		CreatedBy: h.requester(r),
		Metadata:  payload,
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.logger.Error("Failed to create upload directory", zap.Error(err))
		ErrorResponse(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	filename := "upload_" + uuid.NewString() + ".json"
	if err := h.writeEnvelope(filename, envelope); err != nil {
		h.logger.Error("Failed to write upload", zap.String("filename", filename), zap.Error(err))
		ErrorResponse(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	h.logger.Info("Upload stored", zap.String("filename", filename), zap.String("created_by", envelope.CreatedBy))
	WriteJSON(w, http.StatusCreated, map[string]string{
		"message":  "Upload stored",
		"filename": filename,
	})
}

// Merge handles PUT /api/admin/uploads/{id}: the request body's top-level
// keys are merged into the stored envelope's metadata object, overwriting
// existing keys. Non-object payloads on either side cannot merge.
func (h *UploadHandler) Merge(w http.ResponseWriter, r *http.Request) {
	filename, ok := h.resolve(r.PathValue("id"))
	if !ok {
		ErrorResponse(w, http.StatusBadRequest, "invalid upload id")
		return
	}

	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON body: expected an object")
		return
	}

	envelope, err := h.readEnvelope(filename)
	if err != nil {
		ErrorResponse(w, http.StatusNotFound, "upload not found")
		return
	}

	metadata := map[string]json.RawMessage{}
	if len(envelope.Metadata) > 0 {
		if err := json.Unmarshal(envelope.Metadata, &metadata); err != nil {
			ErrorResponse(w, http.StatusConflict, "stored upload metadata is not an object")
			return
		}
	}
	for k, v := range patch {
		metadata[k] = v
	}

	merged, err := json.Marshal(metadata)
	if err != nil {
		ErrorResponse(w, http.StatusInternalServerError, "failed to encode upload")
		return
	}
	envelope.Metadata = merged
	envelope.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	envelope.UpdatedBy = h.requester(r)

	if err := h.writeEnvelope(filename, *envelope); err != nil {
		h.logger.Error("Failed to update upload", zap.String("filename", filename), zap.Error(err))
		ErrorResponse(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	h.logger.Info("Upload updated", zap.String("filename", filename), zap.String("updated_by", envelope.UpdatedBy))
	WriteJSON(w, http.StatusOK, map[string]string{
		"message":  "Upload updated",
		"filename": filename,
	})
}

// Delete handles DELETE /api/admin/uploads/{id}.
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	filename, ok := h.resolve(r.PathValue("id"))
	if !ok {
		ErrorResponse(w, http.StatusBadRequest, "invalid upload id")
		return
	}

	err := os.Remove(filepath.Join(h.uploadDir, filename))
	if os.IsNotExist(err) {
		ErrorResponse(w, http.StatusNotFound, "upload not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to delete upload", zap.String("filename", filename), zap.Error(err))
		ErrorResponse(w, http.StatusInternalServerError, "failed to delete upload")
		return
	}

	h.logger.Info("Upload deleted", zap.String("filename", filename))
	WriteJSON(w, http.StatusOK, map[string]string{
		"message":  "Upload deleted",
		"filename": filename,
	})
}

// Status handles GET /api/admin/uploads/{id}/status: the envelope's
// attribution without the metadata payload.
func (h *UploadHandler) Status(w http.ResponseWriter, r *http.Request) {
	filename, ok := h.resolve(r.PathValue("id"))
	if !ok {
		ErrorResponse(w, http.StatusBadRequest, "invalid upload id")
		return
	}

	envelope, err := h.readEnvelope(filename)
	if err != nil {
		ErrorResponse(w, http.StatusNotFound, "upload not found")
		return
	}

	status := map[string]string{
		"filename":  filename,
		"status":    "stored",
		"createdAt": envelope.CreatedAt,
		"createdBy": envelope.CreatedBy,
	}
	if envelope.UpdatedAt != "" {
		status["updatedAt"] = envelope.UpdatedAt
		status["updatedBy"] = envelope.UpdatedBy
	}
	WriteJSON(w, http.StatusOK, status)
}

// Download handles GET /api/files/uploads/{filename}: the stored envelope
// served as an attachment.
func (h *UploadHandler) Download(w http.ResponseWriter, r *http.Request) {
	filename, ok := h.resolve(r.PathValue("filename"))
	if !ok {
		ErrorResponse(w, http.StatusBadRequest, "invalid filename")
		return
	}

	full := filepath.Join(h.uploadDir, filename)
	if info, err := os.Stat(full); err != nil || info.IsDir() {
		ErrorResponse(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	http.ServeFile(w, r, full)
}

// resolve maps an upload id from the request path onto its stored
// filename. The id is accepted with or without the .json suffix; anything
// outside the upload_*.json namespace is rejected, which also strips
// traversal attempts.
func (h *UploadHandler) resolve(id string) (string, bool) {
	name := filepath.Base(id)
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	if !strings.HasPrefix(name, "upload_") || name == "upload_.json" {
		return "", false
	}
	return name, true
}

func (h *UploadHandler) readEnvelope(filename string) (*uploadEnvelope, error) {
	data, err := os.ReadFile(filepath.Join(h.uploadDir, filename))
	if err != nil {
		return nil, err
	}
	var envelope uploadEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

func (h *UploadHandler) writeEnvelope(filename string, envelope uploadEnvelope) error {
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(h.uploadDir, filename), data, 0o644)
}

func (h *UploadHandler) requester(r *http.Request) string {
	if identity := IdentityFrom(r.Context()); identity != nil {
		return identity.Username
	}
	return "unknown"
}
