// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/tenant-admin/internal/roles"
	"github.com/canonical/tenant-admin/internal/storage"
	"github.com/canonical/tenant-admin/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package access -destination ./mock_interfaces.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package access -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package access -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package access -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

func TestService_Resolve(t *testing.T) {
	tenant := &types.Tenant{ID: "tenant-1", Slug: "acme", Name: "Acme"}

	testCases := []struct {
		name           string
		identityID     string
		slug           string
		setupMocks     func(*MockStorageInterface, *MockLoggerInterface)
		expectTracer   bool
		expected       Resolution
		expectedErr    bool
		expectNotFound bool
	}{
		{
			name:       "no identity resolves to none without queries",
			identityID: "",
			slug:       "acme",
			setupMocks: func(mockStorage *MockStorageInterface, mockLogger *MockLoggerInterface) {},
			expected:   Resolution{},
		},
		{
			name:       "unknown slug",
			identityID: "user-1",
			slug:       "ghost",
			setupMocks: func(mockStorage *MockStorageInterface, mockLogger *MockLoggerInterface) {
				mockStorage.EXPECT().GetTenantBySlug(gomock.Any(), "ghost").Return(nil, storage.ErrNotFound)
			},
			expected:       Resolution{},
			expectedErr:    true,
			expectNotFound: true,
		},
		{
			name:       "member with role",
			identityID: "user-1",
			slug:       "acme",
			setupMocks: func(mockStorage *MockStorageInterface, mockLogger *MockLoggerInterface) {
				mockStorage.EXPECT().GetTenantBySlug(gomock.Any(), "acme").Return(tenant, nil)
				mockStorage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "user-1").
					Return(&types.Membership{ID: "m-1", TenantID: "tenant-1", IdentityID: "user-1", Role: "editor"}, nil)
			},
			expected: Resolution{TenantID: "tenant-1", Role: roles.Editor},
		},
		{
			name:       "non-member gets tenant id and none",
			identityID: "user-2",
			slug:       "acme",
			setupMocks: func(mockStorage *MockStorageInterface, mockLogger *MockLoggerInterface) {
				mockStorage.EXPECT().GetTenantBySlug(gomock.Any(), "acme").Return(tenant, nil)
				mockStorage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "user-2").Return(nil, storage.ErrNotFound)
			},
			expected: Resolution{TenantID: "tenant-1", Role: roles.None},
		},
		{
			name:       "storage failure fails closed",
			identityID: "user-1",
			slug:       "acme",
			setupMocks: func(mockStorage *MockStorageInterface, mockLogger *MockLoggerInterface) {
				mockStorage.EXPECT().GetTenantBySlug(gomock.Any(), "acme").Return(nil, errors.New("connection refused"))
				mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any(), gomock.Any())
			},
			expected:    Resolution{},
			expectedErr: true,
		},
		{
			name:       "membership lookup failure fails closed",
			identityID: "user-1",
			slug:       "acme",
			setupMocks: func(mockStorage *MockStorageInterface, mockLogger *MockLoggerInterface) {
				mockStorage.EXPECT().GetTenantBySlug(gomock.Any(), "acme").Return(tenant, nil)
				mockStorage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "user-1").Return(nil, errors.New("connection refused"))
				mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
			},
			expected:    Resolution{},
			expectedErr: true,
		},
		{
			name:       "unknown stored role yields none with error",
			identityID: "user-1",
			slug:       "acme",
			setupMocks: func(mockStorage *MockStorageInterface, mockLogger *MockLoggerInterface) {
				mockStorage.EXPECT().GetTenantBySlug(gomock.Any(), "acme").Return(tenant, nil)
				mockStorage.EXPECT().GetMembership(gomock.Any(), "tenant-1", "user-1").
					Return(&types.Membership{ID: "m-1", TenantID: "tenant-1", IdentityID: "user-1", Role: "superuser"}, nil)
				mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any(), gomock.Any())
			},
			expected:    Resolution{TenantID: "tenant-1", Role: roles.None},
			expectedErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)

			s := NewService(mockStorage, mockTracer, mockMonitor, mockLogger)

			mockTracer.EXPECT().Start(gomock.Any(), "access.Service.Resolve").
				Return(context.Background(), trace.SpanFromContext(context.Background()))
			tc.setupMocks(mockStorage, mockLogger)

			resolution, err := s.Resolve(context.Background(), tc.identityID, tc.slug)

			if tc.expectedErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				if tc.expectNotFound && !errors.Is(err, ErrTenantNotFound) {
					t.Errorf("expected ErrTenantNotFound, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if resolution != tc.expected {
				t.Errorf("expected resolution %+v, got %+v", tc.expected, resolution)
			}

			// Access must never be granted on an error path.
			if err != nil && resolution.Role != roles.None {
				t.Errorf("error path granted role %s", resolution.Role)
			}
		})
	}
}

func TestTracker_SupersededResultIsDiscarded(t *testing.T) {
	tracker := NewTracker()

	first := tracker.Begin()
	second := tracker.Begin()

	// The older lookup completes after the newer one began.
	if applied := tracker.Apply(first, Resolution{TenantID: "old", Role: roles.Admin}); applied {
		t.Error("superseded resolution was applied")
	}

	if applied := tracker.Apply(second, Resolution{TenantID: "new", Role: roles.Viewer}); !applied {
		t.Error("latest resolution was not applied")
	}

	current, loaded := tracker.Current()
	if !loaded {
		t.Error("expected latest resolution to be loaded")
	}
	if current.TenantID != "new" || current.Role != roles.Viewer {
		t.Errorf("unexpected current resolution: %+v", current)
	}
}

func TestTracker_BeginResetsLoaded(t *testing.T) {
	tracker := NewTracker()

	ticket := tracker.Begin()
	tracker.Apply(ticket, Resolution{TenantID: "tenant-1", Role: roles.Editor})

	if _, loaded := tracker.Current(); !loaded {
		t.Fatal("expected resolution to be loaded")
	}

	tracker.Begin()
	if _, loaded := tracker.Current(); loaded {
		t.Error("a new in-flight resolution should mark the state as not loaded")
	}
}

func TestTracker_LateApplyAfterNewTicket(t *testing.T) {
	tracker := NewTracker()

	ticket := tracker.Begin()
	if applied := tracker.Apply(ticket, Resolution{TenantID: "tenant-1", Role: roles.Admin}); !applied {
		t.Fatal("expected first resolution to apply")
	}

	stale := ticket
	tracker.Begin()
	if applied := tracker.Apply(stale, Resolution{TenantID: "tenant-1", Role: roles.Admin}); applied {
		t.Error("stale ticket must not publish after a newer lookup started")
	}
}
