// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package authd

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/embermud/ember/internal/authapi"
	"github.com/embermud/ember/pkg/errutil"
)

// NewRouter builds the HTTP surface of the credential service.
//
// POST /user_exists → 302 when the user exists, 404 when not.
// POST /sign_in     → 200 with {token,id,name}, 403 on a bad password.
// Anything else the service can't handle answers 500.
func NewRouter(service *Service, logger *slog.Logger) http.Handler {
	h := &handler{service: service, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/user_exists", h.userExists)
	r.Post("/sign_in", h.signIn)
	r.Get("/healthz", h.healthz)

	return r
}

type handler struct {
	service *Service
	logger  *slog.Logger
}

func (h *handler) userExists(w http.ResponseWriter, r *http.Request) {
	var req authapi.UserExistsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	exists, err := h.service.UserExists(r.Context(), req.Name)
	if err != nil {
		errutil.LogError(h.logger, "user_exists failed", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if exists {
		w.WriteHeader(http.StatusFound)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req authapi.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp, err := h.service.SignIn(r.Context(), req.Name, req.Password)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		errutil.LogError(h.logger, "sign_in failed", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Debug("failed to write sign_in response", "error", err)
	}
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // health check write error is acceptable
	w.Write([]byte("ok\n"))
}
