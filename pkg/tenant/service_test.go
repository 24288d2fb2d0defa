// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/tenant-admin/internal/directory"
	"github.com/canonical/tenant-admin/internal/roles"
	"github.com/canonical/tenant-admin/internal/storage"
	"github.com/canonical/tenant-admin/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package tenant -destination ./mock_interfaces.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package tenant -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package tenant -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package tenant -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

type serviceMocks struct {
	storage   *MockStorageInterface
	authz     *MockAuthzInterface
	directory *MockDirectoryInterface
	logger    *MockLoggerInterface
	security  *MockSecurityLoggerInterface
}

func newServiceUnderTest(t *testing.T) (*Service, serviceMocks, *gomock.Controller) {
	ctrl := gomock.NewController(t)

	m := serviceMocks{
		storage:   NewMockStorageInterface(ctrl),
		authz:     NewMockAuthzInterface(ctrl),
		directory: NewMockDirectoryInterface(ctrl),
		logger:    NewMockLoggerInterface(ctrl),
		security:  NewMockSecurityLoggerInterface(ctrl),
	}

	mockTracer := NewMockTracingInterface(ctrl)
	mockTracer.EXPECT().Start(gomock.Any(), gomock.Any()).
		Return(context.Background(), trace.SpanFromContext(context.Background())).AnyTimes()
	mockMonitor := NewMockMonitorInterface(ctrl)

	s := NewService(m.storage, m.authz, m.directory, "24h", mockTracer, mockMonitor, m.logger)
	return s, m, ctrl
}

func expectAdminCaller(m serviceMocks, tenantID, callerID string) {
	m.storage.EXPECT().GetTenantByID(gomock.Any(), tenantID).Return(&types.Tenant{ID: tenantID}, nil)
	m.storage.EXPECT().GetMembership(gomock.Any(), tenantID, callerID).
		Return(&types.Membership{TenantID: tenantID, IdentityID: callerID, Role: "admin"}, nil)
}

func TestService_InviteMember_NewUser(t *testing.T) {
	s, m, ctrl := newServiceUnderTest(t)
	defer ctrl.Finish()

	expectAdminCaller(m, "tenant-1", "admin-1")
	m.directory.EXPECT().GetIdentityIDByEmail(gomock.Any(), "new@example.com").Return("", nil)
	m.logger.EXPECT().Infof(gomock.Any(), gomock.Any())
	m.directory.EXPECT().CreateIdentity(gomock.Any(), "new@example.com").Return("identity-9", nil)
	m.directory.EXPECT().CreateRecoveryLink(gomock.Any(), "identity-9", "24h").Return("https://link", "code", nil)
	m.storage.EXPECT().UpsertMember(gomock.Any(), "tenant-1", "identity-9", "editor").Return("m-1", nil)
	m.authz.EXPECT().AssignTenantRole(gomock.Any(), "tenant-1", "identity-9", roles.Editor).Return(nil)

	userID, err := s.InviteMember(context.Background(), "admin-1", "tenant-1", "new@example.com", roles.Editor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != "identity-9" {
		t.Errorf("expected identity-9, got %s", userID)
	}
}

func TestService_InviteMember_ExistingUserIsUpserted(t *testing.T) {
	s, m, ctrl := newServiceUnderTest(t)
	defer ctrl.Finish()

	// Existing identity: no creation, no recovery link, membership upserted.
	expectAdminCaller(m, "tenant-1", "admin-1")
	m.directory.EXPECT().GetIdentityIDByEmail(gomock.Any(), "jo@example.com").Return("identity-2", nil)
	m.storage.EXPECT().UpsertMember(gomock.Any(), "tenant-1", "identity-2", "admin").Return("m-2", nil)
	m.authz.EXPECT().AssignTenantRole(gomock.Any(), "tenant-1", "identity-2", roles.Admin).Return(nil)

	userID, err := s.InviteMember(context.Background(), "admin-1", "tenant-1", "jo@example.com", roles.Admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != "identity-2" {
		t.Errorf("expected identity-2, got %s", userID)
	}
}

func TestService_InviteMember_InviteUnavailableFallsBackToPlainCreation(t *testing.T) {
	s, m, ctrl := newServiceUnderTest(t)
	defer ctrl.Finish()

	expectAdminCaller(m, "tenant-1", "admin-1")
	m.directory.EXPECT().GetIdentityIDByEmail(gomock.Any(), "new@example.com").Return("", nil)
	m.logger.EXPECT().Infof(gomock.Any(), gomock.Any())
	m.directory.EXPECT().CreateIdentity(gomock.Any(), "new@example.com").Return("identity-9", nil)
	m.directory.EXPECT().CreateRecoveryLink(gomock.Any(), "identity-9", "24h").
		Return("", "", directory.ErrInviteUnavailable)
	m.logger.EXPECT().Warnf(gomock.Any(), gomock.Any())
	m.storage.EXPECT().UpsertMember(gomock.Any(), "tenant-1", "identity-9", "viewer").Return("m-1", nil)
	m.authz.EXPECT().AssignTenantRole(gomock.Any(), "tenant-1", "identity-9", roles.Viewer).Return(nil)

	if _, err := s.InviteMember(context.Background(), "admin-1", "tenant-1", "new@example.com", roles.Viewer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_InviteMember_NonAdminCallerIsForbidden(t *testing.T) {
	for _, role := range []string{"viewer", "editor"} {
		t.Run(role, func(t *testing.T) {
			s, m, ctrl := newServiceUnderTest(t)
			defer ctrl.Finish()

			m.storage.EXPECT().GetTenantByID(gomock.Any(), "tenant-1").Return(&types.Tenant{ID: "tenant-1"}, nil)
			m.storage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "caller-1").
				Return(&types.Membership{TenantID: "tenant-1", IdentityID: "caller-1", Role: role}, nil)
			m.logger.EXPECT().Security().Return(m.security)
			m.security.EXPECT().AuthzFailure("caller-1", "tenant_member_admin")

			_, err := s.InviteMember(context.Background(), "caller-1", "tenant-1", "x@example.com", roles.Viewer)
			if !errors.Is(err, ErrForbidden) {
				t.Errorf("expected ErrForbidden, got %v", err)
			}
		})
	}
}

func TestService_InviteMember_NonMemberCallerIsForbidden(t *testing.T) {
	s, m, ctrl := newServiceUnderTest(t)
	defer ctrl.Finish()

	m.storage.EXPECT().GetTenantByID(gomock.Any(), "tenant-1").Return(&types.Tenant{ID: "tenant-1"}, nil)
	m.storage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "stranger").Return(nil, storage.ErrNotFound)
	m.logger.EXPECT().Security().Return(m.security)
	m.security.EXPECT().AuthzFailure("stranger", "tenant_member_admin")

	_, err := s.InviteMember(context.Background(), "stranger", "tenant-1", "x@example.com", roles.Viewer)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestService_InviteMember_UnknownTenant(t *testing.T) {
	s, m, ctrl := newServiceUnderTest(t)
	defer ctrl.Finish()

	m.storage.EXPECT().GetTenantByID(gomock.Any(), "ghost").Return(nil, storage.ErrNotFound)

	_, err := s.InviteMember(context.Background(), "admin-1", "ghost", "x@example.com", roles.Viewer)
	if !errors.Is(err, ErrUnknownTenant) {
		t.Errorf("expected ErrUnknownTenant, got %v", err)
	}
}

func TestService_InviteMember_InvalidRole(t *testing.T) {
	s, _, ctrl := newServiceUnderTest(t)
	defer ctrl.Finish()

	_, err := s.InviteMember(context.Background(), "admin-1", "tenant-1", "x@example.com", roles.None)
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestService_AddMemberByEmail_UserNotFound(t *testing.T) {
	s, m, ctrl := newServiceUnderTest(t)
	defer ctrl.Finish()

	expectAdminCaller(m, "tenant-1", "admin-1")
	m.directory.EXPECT().GetIdentityIDByEmail(gomock.Any(), "nobody@example.com").Return("", nil)

	_, err := s.AddMemberByEmail(context.Background(), "admin-1", "tenant-1", "nobody@example.com", roles.Viewer)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestService_AddMemberByEmail_ExistingUser(t *testing.T) {
	s, m, ctrl := newServiceUnderTest(t)
	defer ctrl.Finish()

	expectAdminCaller(m, "tenant-1", "admin-1")
	m.directory.EXPECT().GetIdentityIDByEmail(gomock.Any(), "jo@example.com").Return("identity-2", nil)
	m.storage.EXPECT().UpsertMember(gomock.Any(), "tenant-1", "identity-2", "viewer").Return("m-2", nil)
	m.authz.EXPECT().AssignTenantRole(gomock.Any(), "tenant-1", "identity-2", roles.Viewer).Return(nil)

	userID, err := s.AddMemberByEmail(context.Background(), "admin-1", "tenant-1", "jo@example.com", roles.Viewer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != "identity-2" {
		t.Errorf("expected identity-2, got %s", userID)
	}
}

func TestService_SetMemberRole(t *testing.T) {
	s, m, ctrl := newServiceUnderTest(t)
	defer ctrl.Finish()

	expectAdminCaller(m, "tenant-1", "admin-1")
	m.storage.EXPECT().UpdateMember(gomock.Any(), "tenant-1", "identity-2", "admin").Return(nil)
	m.authz.EXPECT().AssignTenantRole(gomock.Any(), "tenant-1", "identity-2", roles.Admin).Return(nil)

	if err := s.SetMemberRole(context.Background(), "admin-1", "tenant-1", "identity-2", roles.Admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_SetMemberRole_MissingMember(t *testing.T) {
	s, m, ctrl := newServiceUnderTest(t)
	defer ctrl.Finish()

	expectAdminCaller(m, "tenant-1", "admin-1")
	m.storage.EXPECT().UpdateMember(gomock.Any(), "tenant-1", "ghost", "admin").Return(storage.ErrNotFound)

	err := s.SetMemberRole(context.Background(), "admin-1", "tenant-1", "ghost", roles.Admin)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestService_RemoveMember(t *testing.T) {
	s, m, ctrl := newServiceUnderTest(t)
	defer ctrl.Finish()

	expectAdminCaller(m, "tenant-1", "admin-1")
	m.storage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "identity-2").
		Return(&types.Membership{TenantID: "tenant-1", IdentityID: "identity-2", Role: "editor"}, nil)
	m.storage.EXPECT().RemoveMember(gomock.Any(), "tenant-1", "identity-2").Return(nil)
	m.authz.EXPECT().RemoveTenantRole(gomock.Any(), "tenant-1", "identity-2", roles.Editor).Return(nil)

	if err := s.RemoveMember(context.Background(), "admin-1", "tenant-1", "identity-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_CreateTenant_CreatorBecomesAdmin(t *testing.T) {
	s, m, ctrl := newServiceUnderTest(t)
	defer ctrl.Finish()

	created := &types.Tenant{ID: "tenant-9", Slug: "nova", Name: "Nova", Enabled: true}
	m.storage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).Return(created, nil)
	m.storage.EXPECT().AddMember(gomock.Any(), "tenant-9", "user-1", "admin").Return("m-1", nil)
	m.authz.EXPECT().AssignTenantRole(gomock.Any(), "tenant-9", "user-1", roles.Admin).Return(nil)

	got, err := s.CreateTenant(context.Background(), "user-1", "nova", "Nova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "tenant-9" {
		t.Errorf("expected tenant-9, got %s", got.ID)
	}
}

func TestService_DeleteTenant(t *testing.T) {
	s, m, ctrl := newServiceUnderTest(t)
	defer ctrl.Finish()

	expectAdminCaller(m, "tenant-1", "admin-1")
	m.storage.EXPECT().ListMembersByTenantID(gomock.Any(), "tenant-1").Return([]*types.Membership{
		{TenantID: "tenant-1", IdentityID: "admin-1", Role: "admin"},
		{TenantID: "tenant-1", IdentityID: "identity-2", Role: "viewer"},
	}, nil)
	m.storage.EXPECT().DeleteTenant(gomock.Any(), "tenant-1").Return(nil)
	m.authz.EXPECT().DeleteTenant(gomock.Any(), "tenant-1", []string{"admin-1", "identity-2"}).Return(nil)

	if err := s.DeleteTenant(context.Background(), "admin-1", "tenant-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_GetTenantBySlug_NotFound(t *testing.T) {
	s, m, ctrl := newServiceUnderTest(t)
	defer ctrl.Finish()

	m.storage.EXPECT().GetTenantBySlug(gomock.Any(), "ghost").Return(nil, storage.ErrNotFound)

	_, err := s.GetTenantBySlug(context.Background(), "ghost")
	if !errors.Is(err, ErrUnknownTenant) {
		t.Errorf("expected ErrUnknownTenant, got %v", err)
	}
}

func TestService_CallerRole(t *testing.T) {
	testCases := []struct {
		name       string
		setupMocks func(serviceMocks)
		expected   roles.Role
		expectErr  bool
	}{
		{
			name: "admin member",
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "user-1").
					Return(&types.Membership{Role: "admin"}, nil)
			},
			expected: roles.Admin,
		},
		{
			name: "not a member",
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "user-1").Return(nil, storage.ErrNotFound)
			},
			expected: roles.None,
		},
		{
			name: "storage failure fails closed",
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "user-1").Return(nil, errors.New("boom"))
			},
			expected:  roles.None,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, m, ctrl := newServiceUnderTest(t)
			defer ctrl.Finish()

			tc.setupMocks(m)

			role, err := s.CallerRole(context.Background(), "tenant-1", "user-1")
			if tc.expectErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tc.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if role != tc.expected {
				t.Errorf("expected role %s, got %s", tc.expected, role)
			}
		})
	}
}
