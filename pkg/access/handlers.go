// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/tenant-admin/internal/logging"
	"github.com/canonical/tenant-admin/internal/monitoring"
	"github.com/canonical/tenant-admin/internal/tracing"
	"github.com/canonical/tenant-admin/pkg/authentication"
)

type API struct {
	service ServiceInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(
	service ServiceInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	return &API{
		service: service,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// RegisterEndpoints mounts the resolver. The path parameter is named id to
// match the rest of the /api/tenants tree, but it carries the tenant slug.
func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Get("/api/tenants/{id}/role", a.resolveRole)
}

type roleResponse struct {
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
}

type errorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *API) resolveRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "access.API.resolveRole")
	defer span.End()

	userID, ok := authentication.GetUserID(ctx)
	if !ok {
		a.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	slug := chi.URLParam(r, "id")

	resolution, err := a.service.Resolve(ctx, userID, slug)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			a.writeError(w, http.StatusNotFound, "tenant not found")
			return
		}
		a.logger.Errorf("failed to resolve role: %v", err)
		a.writeError(w, http.StatusInternalServerError, "failed to resolve role")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(roleResponse{
		TenantID: resolution.TenantID,
		Role:     resolution.Role.String(),
	}); err != nil {
		a.logger.Errorf("failed to encode role response: %v", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Status: status, Error: message, Message: message}); err != nil {
		a.logger.Errorf("failed to encode error response: %v", err)
	}
}
