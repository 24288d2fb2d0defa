// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/tenant-admin/internal/roles"
	"github.com/canonical/tenant-admin/pkg/authentication"
)

func TestAPI_ResolveRole(t *testing.T) {
	testCases := []struct {
		name           string
		userID         string
		setupMocks     func(*MockServiceInterface, *MockLoggerInterface)
		expectedStatus int
		expectedBody   *roleResponse
	}{
		{
			name:   "resolves role for member",
			userID: "user-1",
			setupMocks: func(mockService *MockServiceInterface, mockLogger *MockLoggerInterface) {
				mockService.EXPECT().Resolve(gomock.Any(), "user-1", "acme").
					Return(Resolution{TenantID: "tenant-1", Role: roles.Admin}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   &roleResponse{TenantID: "tenant-1", Role: "admin"},
		},
		{
			name:   "non-member gets none",
			userID: "user-2",
			setupMocks: func(mockService *MockServiceInterface, mockLogger *MockLoggerInterface) {
				mockService.EXPECT().Resolve(gomock.Any(), "user-2", "acme").
					Return(Resolution{TenantID: "tenant-1", Role: roles.None}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   &roleResponse{TenantID: "tenant-1", Role: "none"},
		},
		{
			name:           "unauthenticated",
			userID:         "",
			setupMocks:     func(mockService *MockServiceInterface, mockLogger *MockLoggerInterface) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "unknown tenant",
			userID: "user-1",
			setupMocks: func(mockService *MockServiceInterface, mockLogger *MockLoggerInterface) {
				mockService.EXPECT().Resolve(gomock.Any(), "user-1", "acme").
					Return(Resolution{}, ErrTenantNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "storage failure",
			userID: "user-1",
			setupMocks: func(mockService *MockServiceInterface, mockLogger *MockLoggerInterface) {
				mockService.EXPECT().Resolve(gomock.Any(), "user-1", "acme").
					Return(Resolution{}, errors.New("connection refused"))
				mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any())
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockServiceInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)

			ctx := context.Background()
			if tc.userID != "" {
				ctx = authentication.WithUserID(ctx, tc.userID)
			}
			mockTracer.EXPECT().Start(gomock.Any(), "access.API.resolveRole").
				Return(ctx, trace.SpanFromContext(ctx))
			tc.setupMocks(mockService, mockLogger)

			mux := chi.NewMux()
			NewAPI(mockService, mockTracer, mockMonitor, mockLogger).RegisterEndpoints(mux)

			req := httptest.NewRequest(http.MethodGet, "/api/tenants/acme/role", nil)
			rr := httptest.NewRecorder()

			mux.ServeHTTP(rr, req)

			if rr.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d", tc.expectedStatus, rr.Code)
			}

			if tc.expectedBody != nil {
				var got roleResponse
				if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if got != *tc.expectedBody {
					t.Errorf("expected body %+v, got %+v", *tc.expectedBody, got)
				}
			}
		})
	}
}
