// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/biodata-hub/internal/auth"
)

// AuthHandler serves the demo login endpoint.
type AuthHandler struct {
	svc    *auth.Service
	logger *zap.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers the auth routes on mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/admin/login", h.Login)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/admin/login. Any non-empty credentials
// yield a token; only the configured admin pair yields the admin role.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, role, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		ErrorResponse(w, errorStatus(err), err.Error())
		return
	}

	h.logger.Info("Login", zap.String("username", req.Username), zap.String("role", role))
	WriteJSON(w, http.StatusOK, map[string]string{
		"message":  "Login successful",
		"token":    token,
		"role":     role,
		"username": req.Username,
	})
}
