// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/canonical/tenant-admin/internal/functions"
	"github.com/canonical/tenant-admin/internal/logging"
	"github.com/canonical/tenant-admin/internal/monitoring"
	"github.com/canonical/tenant-admin/internal/roles"
	"github.com/canonical/tenant-admin/internal/tracing"
	"github.com/canonical/tenant-admin/internal/types"
	"github.com/canonical/tenant-admin/pkg/authentication"
)

var validate = validator.New()

type API struct {
	service ServiceInterface
	// invoker is non-nil when invite traffic is brokered to a deployed
	// function instead of the local workflow.
	invoker functions.ClientInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(
	service ServiceInterface,
	invoker functions.ClientInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	return &API{
		service: service,
		invoker: invoker,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Post("/api/invite", a.invite)

	mux.Get("/api/tenants", a.listMyTenants)
	mux.Post("/api/tenants", a.createTenant)
	// GET is keyed by slug; the parameter is named id so the whole
	// /api/tenants tree shares one param key.
	mux.Get("/api/tenants/{id}", a.getTenant)
	mux.Patch("/api/tenants/{id}", a.updateTenant)
	mux.Delete("/api/tenants/{id}", a.deleteTenant)

	mux.Get("/api/tenants/{id}/members", a.listMembers)
	mux.Post("/api/tenants/{id}/members", a.addMember)
	mux.Patch("/api/tenants/{id}/members/{userID}", a.setMemberRole)
	mux.Delete("/api/tenants/{id}/members/{userID}", a.removeMember)
}

type inviteRequest struct {
	TenantID string `json:"tenant_id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required"`
}

type inviteResponse struct {
	Status string `json:"status"`
	UserID string `json:"user_id"`
}

type memberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

type roleChangeRequest struct {
	Role string `json:"role" validate:"required"`
}

type tenantRequest struct {
	Slug string `json:"slug" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type tenantUpdateRequest struct {
	Name    *string `json:"name"`
	Slug    *string `json:"slug"`
	Enabled *bool   `json:"enabled"`
}

type tenantResponse struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Enabled   bool   `json:"enabled"`
	CreatedAt string `json:"created_at"`
}

type memberResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

// errorResponse duplicates the message under both keys so that clients
// reading either {status, message} or {error} envelopes stay working.
type errorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *API) invite(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.invite")
	defer span.End()

	callerID, ok := authentication.GetUserID(ctx)
	if !ok {
		a.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "tenant_id, email, role are required")
		return
	}
	if err := validate.Struct(req); err != nil {
		a.writeError(w, http.StatusBadRequest, "tenant_id, email, role are required")
		return
	}

	role, err := roles.Parse(req.Role)
	if err != nil || !role.Valid() {
		a.writeError(w, http.StatusBadRequest, "role must be one of viewer, editor, admin")
		return
	}

	if a.service == nil {
		// Fail closed rather than invite with ambient defaults.
		a.logger.Error("invite requested but backend is not configured")
		a.writeError(w, http.StatusInternalServerError, ErrMisconfigured.Error())
		return
	}

	if a.invoker != nil && len(a.invoker.Candidates()) > 0 {
		a.brokerInvite(w, r, callerID, req, role)
		return
	}

	userID, err := a.service.InviteMember(ctx, callerID, req.TenantID, req.Email, role)
	if err != nil {
		a.writeServiceError(w, err, "failed to invite member")
		return
	}

	a.writeJSON(w, http.StatusOK, inviteResponse{Status: "invited", UserID: userID})
}

// brokerInvite relays the invite to the deployed function after this
// service's own admin check. The relayed call authenticates with the
// configured platform credential, never the caller's session. Whatever the
// function answers, except 404, goes back to the caller untouched.
func (a *API) brokerInvite(w http.ResponseWriter, r *http.Request, callerID string, req inviteRequest, role roles.Role) {
	ctx := r.Context()

	callerRole, err := a.service.CallerRole(ctx, req.TenantID, callerID)
	if err != nil {
		a.logger.Errorf("failed to check caller role before brokering: %v", err)
		a.writeError(w, http.StatusInternalServerError, "failed to invite member")
		return
	}
	if !callerRole.Meets(roles.Admin) {
		a.logger.Security().AuthzFailure(callerID, "invite_member")
		a.writeError(w, http.StatusForbidden, ErrForbidden.Error())
		return
	}

	payload, err := json.Marshal(req)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to invite member")
		return
	}

	outcome, err := a.invoker.Invoke(ctx, payload)
	if err != nil {
		var exhausted *functions.ExhaustedError
		if errors.As(err, &exhausted) {
			a.writeJSON(w, http.StatusNotFound, map[string]interface{}{
				"status":    http.StatusNotFound,
				"error":     "invite function not found",
				"message":   "invite function not found",
				"attempted": exhausted.Attempted,
			})
			return
		}
		a.logger.Errorf("invite function call failed: %v", err)
		a.writeError(w, http.StatusInternalServerError, "failed to reach invite function")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(outcome.Status)
	if _, err := w.Write(outcome.Body); err != nil {
		a.logger.Errorf("failed to relay invite function response: %v", err)
	}
}

func (a *API) listMyTenants(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.listMyTenants")
	defer span.End()

	callerID, ok := authentication.GetUserID(ctx)
	if !ok {
		a.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	tenants, err := a.service.ListUserTenants(ctx, callerID)
	if err != nil {
		a.writeServiceError(w, err, "failed to list tenants")
		return
	}

	out := make([]tenantResponse, len(tenants))
	for i, t := range tenants {
		out[i] = toTenantResponse(t)
	}
	a.writeJSON(w, http.StatusOK, out)
}

func (a *API) createTenant(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.createTenant")
	defer span.End()

	callerID, ok := authentication.GetUserID(ctx)
	if !ok {
		a.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req tenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "slug and name are required")
		return
	}
	if err := validate.Struct(req); err != nil {
		a.writeError(w, http.StatusBadRequest, "slug and name are required")
		return
	}

	t, err := a.service.CreateTenant(ctx, callerID, req.Slug, req.Name)
	if err != nil {
		a.writeServiceError(w, err, "failed to create tenant")
		return
	}

	a.writeJSON(w, http.StatusCreated, toTenantResponse(t))
}

func (a *API) getTenant(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.getTenant")
	defer span.End()

	if _, ok := authentication.GetUserID(ctx); !ok {
		a.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	t, err := a.service.GetTenantBySlug(ctx, chi.URLParam(r, "id"))
	if err != nil {
		a.writeServiceError(w, err, "failed to get tenant")
		return
	}

	a.writeJSON(w, http.StatusOK, toTenantResponse(t))
}

func (a *API) updateTenant(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.updateTenant")
	defer span.End()

	callerID, ok := authentication.GetUserID(ctx)
	if !ok {
		a.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req tenantUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := &types.Tenant{ID: chi.URLParam(r, "id")}
	var paths []string
	if req.Name != nil {
		update.Name = *req.Name
		paths = append(paths, "name")
	}
	if req.Slug != nil {
		update.Slug = *req.Slug
		paths = append(paths, "slug")
	}
	if req.Enabled != nil {
		update.Enabled = *req.Enabled
		paths = append(paths, "enabled")
	}
	if len(paths) == 0 {
		a.writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	t, err := a.service.UpdateTenant(ctx, callerID, update, paths)
	if err != nil {
		a.writeServiceError(w, err, "failed to update tenant")
		return
	}

	a.writeJSON(w, http.StatusOK, toTenantResponse(t))
}

func (a *API) deleteTenant(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.deleteTenant")
	defer span.End()

	callerID, ok := authentication.GetUserID(ctx)
	if !ok {
		a.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	if err := a.service.DeleteTenant(ctx, callerID, chi.URLParam(r, "id")); err != nil {
		a.writeServiceError(w, err, "failed to delete tenant")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.listMembers")
	defer span.End()

	callerID, ok := authentication.GetUserID(ctx)
	if !ok {
		a.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	members, err := a.service.ListTenantMembers(ctx, callerID, chi.URLParam(r, "id"))
	if err != nil {
		a.writeServiceError(w, err, "failed to list members")
		return
	}

	out := make([]memberResponse, len(members))
	for i, m := range members {
		out[i] = memberResponse{
			UserID:   m.UserID,
			Email:    m.Email,
			Role:     m.Role,
			JoinedAt: m.JoinedAt.String(),
		}
	}
	a.writeJSON(w, http.StatusOK, out)
}

func (a *API) addMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.addMember")
	defer span.End()

	callerID, ok := authentication.GetUserID(ctx)
	if !ok {
		a.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "email and role are required")
		return
	}
	if err := validate.Struct(req); err != nil {
		a.writeError(w, http.StatusBadRequest, "email and role are required")
		return
	}

	role, err := roles.Parse(req.Role)
	if err != nil || !role.Valid() {
		a.writeError(w, http.StatusBadRequest, "role must be one of viewer, editor, admin")
		return
	}

	userID, err := a.service.AddMemberByEmail(ctx, callerID, chi.URLParam(r, "id"), req.Email, role)
	if err != nil {
		a.writeServiceError(w, err, "failed to add member")
		return
	}

	a.writeJSON(w, http.StatusOK, inviteResponse{Status: "added", UserID: userID})
}

func (a *API) setMemberRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.setMemberRole")
	defer span.End()

	callerID, ok := authentication.GetUserID(ctx)
	if !ok {
		a.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req roleChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "role is required")
		return
	}
	if err := validate.Struct(req); err != nil {
		a.writeError(w, http.StatusBadRequest, "role is required")
		return
	}

	role, err := roles.Parse(req.Role)
	if err != nil || !role.Valid() {
		a.writeError(w, http.StatusBadRequest, "role must be one of viewer, editor, admin")
		return
	}

	if err := a.service.SetMemberRole(ctx, callerID, chi.URLParam(r, "id"), chi.URLParam(r, "userID"), role); err != nil {
		a.writeServiceError(w, err, "failed to set member role")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) removeMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.removeMember")
	defer span.End()

	callerID, ok := authentication.GetUserID(ctx)
	if !ok {
		a.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	if err := a.service.RemoveMember(ctx, callerID, chi.URLParam(r, "id"), chi.URLParam(r, "userID")); err != nil {
		a.writeServiceError(w, err, "failed to remove member")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toTenantResponse(t *types.Tenant) tenantResponse {
	return tenantResponse{
		ID:        t.ID,
		Slug:      t.Slug,
		Name:      t.Name,
		Enabled:   t.Enabled,
		CreatedAt: t.CreatedAt.String(),
	}
}

func (a *API) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrForbidden):
		a.writeError(w, http.StatusForbidden, ErrForbidden.Error())
	case errors.Is(err, ErrUnknownTenant):
		a.writeError(w, http.StatusNotFound, ErrUnknownTenant.Error())
	case errors.Is(err, ErrUserNotFound):
		a.writeError(w, http.StatusNotFound, ErrUserNotFound.Error())
	case errors.Is(err, ErrInvalidRole):
		a.writeError(w, http.StatusBadRequest, ErrInvalidRole.Error())
	case errors.Is(err, ErrMisconfigured):
		a.writeError(w, http.StatusInternalServerError, ErrMisconfigured.Error())
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
