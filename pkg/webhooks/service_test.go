// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/tenant-admin/internal/roles"
	"github.com/canonical/tenant-admin/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_webhooks.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

func TestService_HandleRegistration(t *testing.T) {
	identityID := "identity-123"
	email := "user@example.com"
	tenant := &types.Tenant{ID: "tenant-123", Slug: "user-abcd1234", Name: "user@example.com's Org", Enabled: true}

	testCases := []struct {
		name        string
		identityID  string
		email       string
		setupMocks  func(*MockStorageInterface, *MockAuthzInterface, *MockLoggerInterface)
		expectedErr bool
	}{
		{
			name:       "success",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface, mockAuthz *MockAuthzInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
				mockStorage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, t *types.Tenant) (*types.Tenant, error) {
						if t.Name != "user@example.com's Org" {
							return nil, errors.New("wrong tenant name")
						}
						if !strings.HasPrefix(t.Slug, "user-") {
							return nil, errors.New("slug should derive from the email local part")
						}
						if !t.Enabled {
							return nil, errors.New("personal tenant should start enabled")
						}
						return tenant, nil
					})
				mockStorage.EXPECT().AddMember(gomock.Any(), tenant.ID, identityID, "admin").Return("member-id", nil)
				mockAuthz.EXPECT().AssignTenantRole(gomock.Any(), tenant.ID, identityID, roles.Admin).Return(nil)
				mockLogger.EXPECT().Infof(gomock.Any(), gomock.Any(), gomock.Any())
			},
			expectedErr: false,
		},
		{
			name:       "error - empty identity id",
			identityID: "",
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface, mockAuthz *MockAuthzInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
			},
			expectedErr: true,
		},
		{
			name:       "error - empty email",
			identityID: identityID,
			email:      "",
			setupMocks: func(mockStorage *MockStorageInterface, mockAuthz *MockAuthzInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
			},
			expectedErr: true,
		},
		{
			name:       "error - failed to create tenant",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface, mockAuthz *MockAuthzInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
				mockStorage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).Return(nil, errors.New("storage error"))
			},
			expectedErr: true,
		},
		{
			name:       "error - failed to add member",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface, mockAuthz *MockAuthzInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
				mockStorage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).Return(tenant, nil)
				mockStorage.EXPECT().AddMember(gomock.Any(), tenant.ID, identityID, "admin").Return("", errors.New("storage error"))
			},
			expectedErr: true,
		},
		{
			name:       "error - failed to assign authz",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface, mockAuthz *MockAuthzInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
				mockStorage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).Return(tenant, nil)
				mockStorage.EXPECT().AddMember(gomock.Any(), tenant.ID, identityID, "admin").Return("member-id", nil)
				mockAuthz.EXPECT().AssignTenantRole(gomock.Any(), tenant.ID, identityID, roles.Admin).Return(errors.New("authz error"))
			},
			expectedErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			mockAuthz := NewMockAuthzInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)

			s := NewService(mockStorage, mockAuthz, mockTracer, mockMonitor, mockLogger)

			mockTracer.EXPECT().Start(gomock.Any(), "webhooks.Service.HandleRegistration").
				Return(context.Background(), trace.SpanFromContext(context.Background()))
			tc.setupMocks(mockStorage, mockAuthz, mockLogger)

			err := s.HandleRegistration(context.Background(), tc.identityID, tc.email)

			if tc.expectedErr {
				if err == nil {
					t.Error("expected error but got none")
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPersonalSlug(t *testing.T) {
	testCases := []struct {
		email  string
		prefix string
	}{
		{"alice@example.com", "alice-"},
		{"Bob.Smith+work@example.com", "bob-smith-work-"},
		{"@example.com", "workspace-"},
		{"no-at-sign", "no-at-sign-"},
	}

	for _, tc := range testCases {
		t.Run(tc.email, func(t *testing.T) {
			slug := personalSlug(tc.email)
			if !strings.HasPrefix(slug, tc.prefix) {
				t.Errorf("expected prefix %q, got %q", tc.prefix, slug)
			}
			if len(slug) != len(tc.prefix)+8 {
				t.Errorf("expected 8 char suffix, got %q", slug)
			}
		})
	}
}

func TestPersonalSlug_Unique(t *testing.T) {
	if personalSlug("alice@example.com") == personalSlug("alice@example.com") {
		t.Error("expected distinct slugs for repeated registration of the same local part")
	}
}
