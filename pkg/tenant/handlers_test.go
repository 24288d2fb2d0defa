// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/tenant-admin/internal/functions"
	"github.com/canonical/tenant-admin/internal/roles"
	"github.com/canonical/tenant-admin/internal/types"
	"github.com/canonical/tenant-admin/pkg/authentication"
)

//go:generate mockgen -build_flags=--mod=mod -package tenant -destination ./mock_functions.go -source=../../internal/functions/interfaces.go

type handlerMocks struct {
	service  *MockServiceInterface
	invoker  *MockClientInterface
	tracer   *MockTracingInterface
	logger   *MockLoggerInterface
	security *MockSecurityLoggerInterface
}

func newHandlerMux(ctrl *gomock.Controller, withInvoker bool) (*chi.Mux, handlerMocks) {
	m := handlerMocks{
		service:  NewMockServiceInterface(ctrl),
		tracer:   NewMockTracingInterface(ctrl),
		logger:   NewMockLoggerInterface(ctrl),
		security: NewMockSecurityLoggerInterface(ctrl),
	}
	mockMonitor := NewMockMonitorInterface(ctrl)

	var api *API
	if withInvoker {
		m.invoker = NewMockClientInterface(ctrl)
		api = NewAPI(m.service, m.invoker, m.tracer, mockMonitor, m.logger)
	} else {
		api = NewAPI(m.service, nil, m.tracer, mockMonitor, m.logger)
	}

	mux := chi.NewMux()
	api.RegisterEndpoints(mux)
	return mux, m
}

func authenticatedRequest(method, target, body, userID string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if userID == "" {
		return req
	}
	return req.WithContext(authentication.WithUserID(req.Context(), userID))
}

func expectSpan(m handlerMocks, name string, req *http.Request) {
	m.tracer.EXPECT().Start(gomock.Any(), name).
		Return(req.Context(), trace.SpanFromContext(req.Context()))
}

func TestAPI_Invite_LocalWorkflow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mux, m := newHandlerMux(ctrl, false)

	req := authenticatedRequest(http.MethodPost, "/api/invite",
		`{"tenant_id":"tenant-1","email":"jo@example.com","role":"editor"}`, "admin-1")
	expectSpan(m, "tenant.API.invite", req)
	m.service.EXPECT().InviteMember(gomock.Any(), "admin-1", "tenant-1", "jo@example.com", roles.Editor).
		Return("identity-2", nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp inviteResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "invited" || resp.UserID != "identity-2" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAPI_Invite_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mux, m := newHandlerMux(ctrl, false)

	req := authenticatedRequest(http.MethodPost, "/api/invite",
		`{"tenant_id":"tenant-1","email":"jo@example.com","role":"editor"}`, "")
	expectSpan(m, "tenant.API.invite", req)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestAPI_Invite_BadRequests(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"tenant`},
		{"missing tenant_id", `{"email":"jo@example.com","role":"editor"}`},
		{"missing email", `{"tenant_id":"tenant-1","role":"editor"}`},
		{"missing role", `{"tenant_id":"tenant-1","email":"jo@example.com"}`},
		{"invalid email", `{"tenant_id":"tenant-1","email":"not-an-email","role":"editor"}`},
		{"unknown role", `{"tenant_id":"tenant-1","email":"jo@example.com","role":"owner"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mux, m := newHandlerMux(ctrl, false)

			req := authenticatedRequest(http.MethodPost, "/api/invite", tc.body, "admin-1")
			expectSpan(m, "tenant.API.invite", req)

			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestAPI_Invite_ForbiddenIsMapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mux, m := newHandlerMux(ctrl, false)

	req := authenticatedRequest(http.MethodPost, "/api/invite",
		`{"tenant_id":"tenant-1","email":"jo@example.com","role":"editor"}`, "viewer-1")
	expectSpan(m, "tenant.API.invite", req)
	m.service.EXPECT().InviteMember(gomock.Any(), "viewer-1", "tenant-1", "jo@example.com", roles.Editor).
		Return("", ErrForbidden)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
}

func TestAPI_Invite_MisconfiguredFailsClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTracer := NewMockTracingInterface(ctrl)
	mockMonitor := NewMockMonitorInterface(ctrl)
	mockLogger := NewMockLoggerInterface(ctrl)

	api := NewAPI(nil, nil, mockTracer, mockMonitor, mockLogger)
	mux := chi.NewMux()
	api.RegisterEndpoints(mux)

	req := authenticatedRequest(http.MethodPost, "/api/invite",
		`{"tenant_id":"tenant-1","email":"jo@example.com","role":"editor"}`, "admin-1")
	mockTracer.EXPECT().Start(gomock.Any(), "tenant.API.invite").
		Return(req.Context(), trace.SpanFromContext(req.Context()))
	mockLogger.EXPECT().Error(gomock.Any())

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}

	var body struct {
		Status  int    `json:"status"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Error == "" || body.Error != body.Message {
		t.Errorf("expected the error key to carry the message, got %+v", body)
	}
}

func TestAPI_Invite_BrokerRelaysUpstreamVerbatim(t *testing.T) {
	testCases := []struct {
		name           string
		outcome        *functions.Outcome
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success relayed",
			outcome:        &functions.Outcome{Status: http.StatusOK, Body: []byte(`{"status":"invited"}`)},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"invited"}`,
		},
		{
			name:           "upstream error relayed verbatim",
			outcome:        &functions.Outcome{Status: http.StatusConflict, Body: []byte(`{"error":"already a member"}`)},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"error":"already a member"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mux, m := newHandlerMux(ctrl, true)

			req := authenticatedRequest(http.MethodPost, "/api/invite",
				`{"tenant_id":"tenant-1","email":"jo@example.com","role":"editor"}`, "admin-1")
			expectSpan(m, "tenant.API.invite", req)
			m.invoker.EXPECT().Candidates().Return([]string{"https://a/functions/v1/invite"})
			m.service.EXPECT().CallerRole(gomock.Any(), "tenant-1", "admin-1").Return(roles.Admin, nil)
			m.invoker.EXPECT().Invoke(gomock.Any(), gomock.Any()).Return(tc.outcome, nil)

			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)

			if rr.Code != tc.expectedStatus {
				t.Errorf("expected %d, got %d", tc.expectedStatus, rr.Code)
			}
			if rr.Body.String() != tc.expectedBody {
				t.Errorf("expected body %q, got %q", tc.expectedBody, rr.Body.String())
			}
		})
	}
}

func TestAPI_Invite_BrokerNonAdminForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mux, m := newHandlerMux(ctrl, true)

	req := authenticatedRequest(http.MethodPost, "/api/invite",
		`{"tenant_id":"tenant-1","email":"jo@example.com","role":"editor"}`, "viewer-1")
	expectSpan(m, "tenant.API.invite", req)
	m.invoker.EXPECT().Candidates().Return([]string{"https://a/functions/v1/invite"})
	m.service.EXPECT().CallerRole(gomock.Any(), "tenant-1", "viewer-1").Return(roles.Viewer, nil)
	m.logger.EXPECT().Security().Return(m.security)
	m.security.EXPECT().AuthzFailure("viewer-1", "invite_member")

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
}

func TestAPI_Invite_BrokerExhaustionIs404WithCandidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mux, m := newHandlerMux(ctrl, true)

	attempted := []string{
		"https://a/functions/v1/invite",
		"https://a/functions/v1/invite-",
	}

	req := authenticatedRequest(http.MethodPost, "/api/invite",
		`{"tenant_id":"tenant-1","email":"jo@example.com","role":"editor"}`, "admin-1")
	expectSpan(m, "tenant.API.invite", req)
	m.invoker.EXPECT().Candidates().Return(attempted)
	m.service.EXPECT().CallerRole(gomock.Any(), "tenant-1", "admin-1").Return(roles.Admin, nil)
	m.invoker.EXPECT().Invoke(gomock.Any(), gomock.Any()).
		Return(nil, &functions.ExhaustedError{Attempted: attempted})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	var body struct {
		Error     string   `json:"error"`
		Attempted []string `json:"attempted"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Attempted) != 2 {
		t.Errorf("expected attempted candidates in response, got %+v", body)
	}
	if body.Error == "" {
		t.Errorf("expected the error key to be populated, got %+v", body)
	}
}

func TestAPI_AddMember_UserNotFoundIs404(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mux, m := newHandlerMux(ctrl, false)

	req := authenticatedRequest(http.MethodPost, "/api/tenants/tenant-1/members",
		`{"email":"nobody@example.com","role":"viewer"}`, "admin-1")
	expectSpan(m, "tenant.API.addMember", req)
	m.service.EXPECT().AddMemberByEmail(gomock.Any(), "admin-1", "tenant-1", "nobody@example.com", roles.Viewer).
		Return("", ErrUserNotFound)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "user_not_found") {
		t.Errorf("expected user_not_found in body, got %s", rr.Body.String())
	}
}

func TestAPI_SetMemberRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mux, m := newHandlerMux(ctrl, false)

	req := authenticatedRequest(http.MethodPatch, "/api/tenants/tenant-1/members/identity-2",
		`{"role":"admin"}`, "admin-1")
	expectSpan(m, "tenant.API.setMemberRole", req)
	m.service.EXPECT().SetMemberRole(gomock.Any(), "admin-1", "tenant-1", "identity-2", roles.Admin).Return(nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
}

func TestAPI_RemoveMember(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mux, m := newHandlerMux(ctrl, false)

	req := authenticatedRequest(http.MethodDelete, "/api/tenants/tenant-1/members/identity-2", "", "admin-1")
	expectSpan(m, "tenant.API.removeMember", req)
	m.service.EXPECT().RemoveMember(gomock.Any(), "admin-1", "tenant-1", "identity-2").Return(nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
}

func TestAPI_CreateTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mux, m := newHandlerMux(ctrl, false)

	req := authenticatedRequest(http.MethodPost, "/api/tenants",
		`{"slug":"nova","name":"Nova"}`, "user-1")
	expectSpan(m, "tenant.API.createTenant", req)
	m.service.EXPECT().CreateTenant(gomock.Any(), "user-1", "nova", "Nova").
		Return(&types.Tenant{ID: "tenant-9", Slug: "nova", Name: "Nova", Enabled: true, CreatedAt: time.Now()}, nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}
