// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/canonical/tenant-admin/internal/logging"
	"github.com/canonical/tenant-admin/internal/monitoring"
	"github.com/canonical/tenant-admin/internal/tracing"
	"github.com/canonical/tenant-admin/internal/types"
	"github.com/canonical/tenant-admin/pkg/authentication"
)

var validate = validator.New()

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

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Get("/api/tenants/{id}/leads", a.listLeads)
	mux.Post("/api/tenants/{id}/leads", a.createLead)
	mux.Patch("/api/tenants/{id}/leads/{leadID}", a.updateLeadStatus)
	mux.Delete("/api/tenants/{id}/leads/{leadID}", a.deleteLead)
}

type leadRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone"`
	Source string `json:"source"`
	Status string `json:"status"`
}

type leadStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type leadResponse struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Source    string `json:"source"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type errorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *API) listLeads(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "leads.API.listLeads")
	defer span.End()

	callerID, ok := authentication.GetUserID(ctx)
	if !ok {
		a.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	size, _ := strconv.ParseInt(r.URL.Query().Get("size"), 10, 64)

	leads, err := a.service.ListLeads(ctx, callerID, chi.URLParam(r, "id"), page, size)
	if err != nil {
		a.writeServiceError(w, err, "failed to list leads")
		return
	}

	out := make([]leadResponse, len(leads))
	for i, l := range leads {
		out[i] = toLeadResponse(l)
	}
	a.writeJSON(w, http.StatusOK, out)
}

func (a *API) createLead(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "leads.API.createLead")
	defer span.End()

	callerID, ok := authentication.GetUserID(ctx)
	if !ok {
		a.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req leadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := validate.Struct(req); err != nil {
		a.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	lead := &types.Lead{
		TenantID: chi.URLParam(r, "id"),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Source:   req.Source,
		Status:   req.Status,
	}

	created, err := a.service.CreateLead(ctx, callerID, lead)
	if err != nil {
		a.writeServiceError(w, err, "failed to create lead")
		return
	}

	a.writeJSON(w, http.StatusCreated, toLeadResponse(created))
}

func (a *API) updateLeadStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "leads.API.updateLeadStatus")
	defer span.End()

	callerID, ok := authentication.GetUserID(ctx)
	if !ok {
		a.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req leadStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "status is required")
		return
	}
	if err := validate.Struct(req); err != nil {
		a.writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	err := a.service.UpdateLeadStatus(ctx, callerID, chi.URLParam(r, "id"), chi.URLParam(r, "leadID"), req.Status)
	if err != nil {
		a.writeServiceError(w, err, "failed to update lead status")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) deleteLead(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "leads.API.deleteLead")
	defer span.End()

	callerID, ok := authentication.GetUserID(ctx)
	if !ok {
		a.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	err := a.service.DeleteLead(ctx, callerID, chi.URLParam(r, "id"), chi.URLParam(r, "leadID"))
	if err != nil {
		a.writeServiceError(w, err, "failed to delete lead")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toLeadResponse(l *types.Lead) leadResponse {
	return leadResponse{
		ID:        l.ID,
		TenantID:  l.TenantID,
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Source:    l.Source,
		Status:    l.Status,
		CreatedAt: l.CreatedAt.String(),
	}
}

func (a *API) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrForbidden):
		a.writeError(w, http.StatusForbidden, ErrForbidden.Error())
	case errors.Is(err, ErrLeadNotFound):
		a.writeError(w, http.StatusNotFound, ErrLeadNotFound.Error())
	default:
		a.logger.Errorf("%s: %v", fallback, err)
		a.writeError(w, http.StatusInternalServerError, fallback)
	}
}

func (a *API) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, errorResponse{Status: status, Error: message, Message: message})
}
