// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/tenant-admin/internal/openfga"
	"github.com/canonical/tenant-admin/internal/roles"
)

//go:generate mockgen -build_flags=--mod=mod -package authorization -destination ./mock_interfaces.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package authorization -destination ./mock_logger.go -source=../logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package authorization -destination ./mock_monitor.go -source=../monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package authorization -destination ./mock_tracing.go -source=../tracing/interfaces.go

func TestAuthorizer_Check(t *testing.T) {
	user := "user:123"
	relation := "viewer"
	object := "tenant:456"
	contextualTuples := []openfga.Tuple{*openfga.NewTuple("user:789", "admin", "tenant:456")}

	testCases := []struct {
		name           string
		setupMocks     func(*MockAuthzClientInterface)
		expectedResult bool
		expectedErr    bool
	}{
		{
			name: "success - allowed",
			setupMocks: func(mockClient *MockAuthzClientInterface) {
				mockClient.EXPECT().Check(gomock.Any(), user, relation, object, contextualTuples).Return(true, nil)
			},
			expectedResult: true,
			expectedErr:    false,
		},
		{
			name: "success - not allowed",
			setupMocks: func(mockClient *MockAuthzClientInterface) {
				mockClient.EXPECT().Check(gomock.Any(), user, relation, object, contextualTuples).Return(false, nil)
			},
			expectedResult: false,
			expectedErr:    false,
		},
		{
			name: "error - client error",
			setupMocks: func(mockClient *MockAuthzClientInterface) {
				mockClient.EXPECT().Check(gomock.Any(), user, relation, object, contextualTuples).Return(false, errors.New("client error"))
			},
			expectedResult: false,
			expectedErr:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := NewMockAuthzClientInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)

			a := NewAuthorizer(mockClient, mockTracer, mockMonitor, mockLogger)

			mockTracer.EXPECT().Start(gomock.Any(), "authorization.Authorizer.Check").
				Return(context.Background(), trace.SpanFromContext(context.Background()))
			tc.setupMocks(mockClient)

			result, err := a.Check(context.Background(), user, relation, object, contextualTuples...)

			if tc.expectedErr {
				if err == nil {
					t.Error("expected error but got none")
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if result != tc.expectedResult {
				t.Errorf("expected result %v, got %v", tc.expectedResult, result)
			}
		})
	}
}

func TestAuthorizer_CheckTenantAccess(t *testing.T) {
	tenantId := "456"
	userId := "123"

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := NewMockAuthzClientInterface(ctrl)
	mockTracer := NewMockTracingInterface(ctrl)
	mockMonitor := NewMockMonitorInterface(ctrl)
	mockLogger := NewMockLoggerInterface(ctrl)

	a := NewAuthorizer(mockClient, mockTracer, mockMonitor, mockLogger)

	mockTracer.EXPECT().Start(gomock.Any(), gomock.Any()).
		Return(context.Background(), trace.SpanFromContext(context.Background())).Times(2)
	mockClient.EXPECT().Check(gomock.Any(), "user:123", ADMIN_RELATION, "tenant:456").Return(true, nil)

	allowed, err := a.CheckTenantAccess(context.Background(), tenantId, userId, ADMIN_RELATION)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !allowed {
		t.Error("expected access to be allowed")
	}
}

func TestAuthorizer_AssignTenantRole(t *testing.T) {
	tenantId := "456"
	userId := "123"

	testCases := []struct {
		name        string
		role        roles.Role
		setupMocks  func(*MockAuthzClientInterface, *MockLoggerInterface)
		expectedErr bool
	}{
		{
			name: "assign admin clears other relations",
			role: roles.Admin,
			setupMocks: func(mockClient *MockAuthzClientInterface, mockLogger *MockLoggerInterface) {
				mockClient.EXPECT().DeleteTuple(gomock.Any(), "user:123", VIEWER_RELATION, "tenant:456").Return(nil)
				mockClient.EXPECT().DeleteTuple(gomock.Any(), "user:123", EDITOR_RELATION, "tenant:456").Return(nil)
				mockClient.EXPECT().WriteTuple(gomock.Any(), "user:123", ADMIN_RELATION, "tenant:456").Return(nil)
			},
			expectedErr: false,
		},
		{
			name: "assign viewer tolerates absent tuples",
			role: roles.Viewer,
			setupMocks: func(mockClient *MockAuthzClientInterface, mockLogger *MockLoggerInterface) {
				mockClient.EXPECT().DeleteTuple(gomock.Any(), "user:123", EDITOR_RELATION, "tenant:456").Return(errors.New("tuple not found"))
				mockClient.EXPECT().DeleteTuple(gomock.Any(), "user:123", ADMIN_RELATION, "tenant:456").Return(nil)
				mockClient.EXPECT().WriteTuple(gomock.Any(), "user:123", VIEWER_RELATION, "tenant:456").Return(nil)
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
			},
			expectedErr: false,
		},
		{
			name:        "role without relation is a no-op",
			role:        roles.None,
			setupMocks:  func(mockClient *MockAuthzClientInterface, mockLogger *MockLoggerInterface) {},
			expectedErr: false,
		},
		{
			name: "error - write fails",
			role: roles.Editor,
			setupMocks: func(mockClient *MockAuthzClientInterface, mockLogger *MockLoggerInterface) {
				mockClient.EXPECT().DeleteTuple(gomock.Any(), "user:123", VIEWER_RELATION, "tenant:456").Return(nil)
				mockClient.EXPECT().DeleteTuple(gomock.Any(), "user:123", ADMIN_RELATION, "tenant:456").Return(nil)
				mockClient.EXPECT().WriteTuple(gomock.Any(), "user:123", EDITOR_RELATION, "tenant:456").Return(errors.New("write failed"))
			},
			expectedErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := NewMockAuthzClientInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)

			a := NewAuthorizer(mockClient, mockTracer, mockMonitor, mockLogger)

			mockTracer.EXPECT().Start(gomock.Any(), "authorization.Authorizer.AssignTenantRole").
				Return(context.Background(), trace.SpanFromContext(context.Background()))
			tc.setupMocks(mockClient, mockLogger)

			err := a.AssignTenantRole(context.Background(), tenantId, userId, tc.role)

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

func TestAuthorizer_RemoveTenantRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := NewMockAuthzClientInterface(ctrl)
	mockTracer := NewMockTracingInterface(ctrl)
	mockMonitor := NewMockMonitorInterface(ctrl)
	mockLogger := NewMockLoggerInterface(ctrl)

	a := NewAuthorizer(mockClient, mockTracer, mockMonitor, mockLogger)

	mockTracer.EXPECT().Start(gomock.Any(), "authorization.Authorizer.RemoveTenantRole").
		Return(context.Background(), trace.SpanFromContext(context.Background()))
	mockClient.EXPECT().DeleteTuple(gomock.Any(), "user:123", EDITOR_RELATION, "tenant:456").Return(nil)

	if err := a.RemoveTenantRole(context.Background(), "456", "123", roles.Editor); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthorizer_DeleteTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := NewMockAuthzClientInterface(ctrl)
	mockTracer := NewMockTracingInterface(ctrl)
	mockMonitor := NewMockMonitorInterface(ctrl)
	mockLogger := NewMockLoggerInterface(ctrl)

	a := NewAuthorizer(mockClient, mockTracer, mockMonitor, mockLogger)

	mockTracer.EXPECT().Start(gomock.Any(), "authorization.Authorizer.DeleteTenant").
		Return(context.Background(), trace.SpanFromContext(context.Background()))
	mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	for _, userId := range []string{"123", "789"} {
		for _, relation := range []string{VIEWER_RELATION, EDITOR_RELATION, ADMIN_RELATION} {
			mockClient.EXPECT().DeleteTuple(gomock.Any(), "user:"+userId, relation, "tenant:456").Return(nil)
		}
	}

	if err := a.DeleteTenant(context.Background(), "456", []string{"123", "789"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
