// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package leads

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/tenant-admin/internal/storage"
	"github.com/canonical/tenant-admin/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package leads -destination ./mock_interfaces.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package leads -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package leads -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package leads -destination ./mock_tracing.go go.opentelemetry.io/otel/trace Tracer

type serviceMocks struct {
	storage  *MockStorageInterface
	logger   *MockLoggerInterface
	security *MockSecurityLoggerInterface
}

func newServiceUnderTest(ctrl *gomock.Controller) (*Service, serviceMocks) {
	m := serviceMocks{
		storage:  NewMockStorageInterface(ctrl),
		logger:   NewMockLoggerInterface(ctrl),
		security: NewMockSecurityLoggerInterface(ctrl),
	}
	mockTracer := NewMockTracingInterface(ctrl)
	mockMonitor := NewMockMonitorInterface(ctrl)

	mockTracer.EXPECT().Start(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(ctx context.Context, _ string, _ ...trace.SpanStartOption) (context.Context, trace.Span) {
			return ctx, trace.SpanFromContext(ctx)
		})

	return NewService(m.storage, mockTracer, mockMonitor, m.logger), m
}

func membership(role string) *types.Membership {
	return &types.Membership{TenantID: "tenant-1", IdentityID: "caller-1", Role: role}
}

func TestService_ListLeads_RoleGate(t *testing.T) {
	testCases := []struct {
		name       string
		membership *types.Membership
		storageErr error
		expectErr  error
	}{
		{name: "viewer can list", membership: membership("viewer")},
		{name: "admin can list", membership: membership("admin")},
		{name: "non-member is forbidden", storageErr: storage.ErrNotFound, expectErr: ErrForbidden},
		{name: "unknown stored role is forbidden", membership: membership("superuser"), expectErr: ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newServiceUnderTest(ctrl)

			m.storage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "caller-1").
				Return(tc.membership, tc.storageErr)
			if tc.expectErr == nil {
				m.storage.EXPECT().ListLeadsByTenantID(gomock.Any(), "tenant-1", int64(1), defaultPageSize).
					Return([]*types.Lead{{ID: "lead-1", TenantID: "tenant-1"}}, nil)
			} else {
				m.logger.EXPECT().Security().Return(m.security)
				m.security.EXPECT().AuthzFailure("caller-1", "lead_list")
			}

			leads, err := svc.ListLeads(context.TODO(), "caller-1", "tenant-1", 0, 0)

			if tc.expectErr != nil {
				if !errors.Is(err, tc.expectErr) {
					t.Fatalf("expected %v, got %v", tc.expectErr, err)
				}
				if leads != nil {
					t.Errorf("expected no leads on forbidden, got %v", leads)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(leads) != 1 {
				t.Errorf("expected one lead, got %d", len(leads))
			}
		})
	}
}

func TestService_ListLeads_ClampsPagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newServiceUnderTest(ctrl)

	m.storage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "caller-1").
		Return(membership("viewer"), nil)
	m.storage.EXPECT().ListLeadsByTenantID(gomock.Any(), "tenant-1", int64(1), defaultPageSize).
		Return(nil, nil)

	if _, err := svc.ListLeads(context.TODO(), "caller-1", "tenant-1", -3, maxPageSize+1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestService_CreateLead_AppliesDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newServiceUnderTest(ctrl)

	m.storage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "caller-1").
		Return(membership("editor"), nil)
	m.storage.EXPECT().CreateLead(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, l *types.Lead) (*types.Lead, error) {
			if l.Source != "manual" {
				t.Errorf("expected default source manual, got %q", l.Source)
			}
			if l.Status != "new" {
				t.Errorf("expected default status new, got %q", l.Status)
			}
			l.ID = "lead-1"
			return l, nil
		})

	created, err := svc.CreateLead(context.TODO(), "caller-1", &types.Lead{
		TenantID: "tenant-1",
		Name:     "Ada",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.ID != "lead-1" {
		t.Errorf("expected stored lead back, got %+v", created)
	}
}

func TestService_CreateLead_KeepsExplicitSourceAndStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newServiceUnderTest(ctrl)

	m.storage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "caller-1").
		Return(membership("admin"), nil)
	m.storage.EXPECT().CreateLead(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, l *types.Lead) (*types.Lead, error) {
			if l.Source != "webform" || l.Status != "contacted" {
				t.Errorf("explicit values were overwritten: %+v", l)
			}
			return l, nil
		})

	_, err := svc.CreateLead(context.TODO(), "caller-1", &types.Lead{
		TenantID: "tenant-1",
		Name:     "Ada",
		Source:   "webform",
		Status:   "contacted",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestService_CreateLead_ViewerIsForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newServiceUnderTest(ctrl)

	m.storage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "caller-1").
		Return(membership("viewer"), nil)
	m.logger.EXPECT().Security().Return(m.security)
	m.security.EXPECT().AuthzFailure("caller-1", "lead_create")

	_, err := svc.CreateLead(context.TODO(), "caller-1", &types.Lead{TenantID: "tenant-1", Name: "Ada"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_UpdateLeadStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newServiceUnderTest(ctrl)

	m.storage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "caller-1").
		Return(membership("editor"), nil)
	m.storage.EXPECT().UpdateLeadStatus(gomock.Any(), "tenant-1", "lead-1", "qualified").Return(nil)

	if err := svc.UpdateLeadStatus(context.TODO(), "caller-1", "tenant-1", "lead-1", "qualified"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestService_UpdateLeadStatus_MissingLead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newServiceUnderTest(ctrl)

	m.storage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "caller-1").
		Return(membership("editor"), nil)
	m.storage.EXPECT().UpdateLeadStatus(gomock.Any(), "tenant-1", "lead-9", "qualified").
		Return(storage.ErrNotFound)

	err := svc.UpdateLeadStatus(context.TODO(), "caller-1", "tenant-1", "lead-9", "qualified")
	if !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestService_DeleteLead_RoleGate(t *testing.T) {
	testCases := []struct {
		role      string
		expectErr error
	}{
		{role: "admin"},
		{role: "editor", expectErr: ErrForbidden},
		{role: "viewer", expectErr: ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.role, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newServiceUnderTest(ctrl)

			m.storage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "caller-1").
				Return(membership(tc.role), nil)
			if tc.expectErr == nil {
				m.storage.EXPECT().DeleteLead(gomock.Any(), "tenant-1", "lead-1").Return(nil)
			} else {
				m.logger.EXPECT().Security().Return(m.security)
				m.security.EXPECT().AuthzFailure("caller-1", "lead_delete")
			}

			err := svc.DeleteLead(context.TODO(), "caller-1", "tenant-1", "lead-1")
			if !errors.Is(err, tc.expectErr) {
				t.Fatalf("expected %v, got %v", tc.expectErr, err)
			}
		})
	}
}

func TestService_RequireRole_StorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newServiceUnderTest(ctrl)

	m.storage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "caller-1").
		Return(nil, fmt.Errorf("connection refused"))

	_, err := svc.ListLeads(context.TODO(), "caller-1", "tenant-1", 1, 10)
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrForbidden) {
		t.Fatalf("infrastructure failure must not be reported as forbidden: %v", err)
	}
}
