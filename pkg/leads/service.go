// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package leads manages tenant-scoped CRM records. Every operation is gated
// on the caller's membership role in the owning tenant: reading requires
// viewer, writing editor, deleting admin.
package leads

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/tenant-admin/internal/logging"
	"github.com/canonical/tenant-admin/internal/monitoring"
	"github.com/canonical/tenant-admin/internal/roles"
	"github.com/canonical/tenant-admin/internal/storage"
	"github.com/canonical/tenant-admin/internal/tracing"
	"github.com/canonical/tenant-admin/internal/types"
)

var (
	ErrForbidden    = errors.New("caller role does not permit this operation")
	ErrLeadNotFound = errors.New("lead not found")
)

const (
	defaultSource = "manual"
	defaultStatus = "new"

	defaultPageSize = int64(50)
	maxPageSize     = int64(200)
)

type Service struct {
	storage StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

var _ ServiceInterface = (*Service)(nil)

func NewService(
	storage StorageInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage: storage,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// requireRole resolves the caller's membership and compares it against the
// required floor. A missing membership is forbidden, not an error.
func (s *Service) requireRole(ctx context.Context, tenantID, callerID string, required roles.Role, operation string) error {
	membership, err := s.storage.GetMembership(ctx, tenantID, callerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Security().AuthzFailure(callerID, operation)
			return ErrForbidden
		}
		return fmt.Errorf("failed to resolve caller membership: %w", err)
	}

	role, err := roles.Parse(membership.Role)
	if err != nil || !role.Meets(required) {
		s.logger.Security().AuthzFailure(callerID, operation)
		return ErrForbidden
	}

	return nil
}

func (s *Service) ListLeads(ctx context.Context, callerID, tenantID string, page, size int64) ([]*types.Lead, error) {
	ctx, span := s.tracer.Start(ctx, "leads.Service.ListLeads")
	defer span.End()

	if err := s.requireRole(ctx, tenantID, callerID, roles.Viewer, "lead_list"); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if size < 1 || size > maxPageSize {
		size = defaultPageSize
	}

	leads, err := s.storage.ListLeadsByTenantID(ctx, tenantID, page, size)
	if err != nil {
		s.logger.Errorf("failed to list leads for tenant %s: %v", tenantID, err)
		return nil, err
	}

	return leads, nil
}

func (s *Service) CreateLead(ctx context.Context, callerID string, lead *types.Lead) (*types.Lead, error) {
	ctx, span := s.tracer.Start(ctx, "leads.Service.CreateLead")
	defer span.End()

	if err := s.requireRole(ctx, lead.TenantID, callerID, roles.Editor, "lead_create"); err != nil {
		return nil, err
	}

	if lead.Source == "" {
		lead.Source = defaultSource
	}
	if lead.Status == "" {
		lead.Status = defaultStatus
	}

	created, err := s.storage.CreateLead(ctx, lead)
	if err != nil {
		s.logger.Errorf("failed to create lead for tenant %s: %v", lead.TenantID, err)
		return nil, err
	}

	return created, nil
}

func (s *Service) UpdateLeadStatus(ctx context.Context, callerID, tenantID, leadID, status string) error {
	ctx, span := s.tracer.Start(ctx, "leads.Service.UpdateLeadStatus")
	defer span.End()

	if err := s.requireRole(ctx, tenantID, callerID, roles.Editor, "lead_update_status"); err != nil {
		return err
	}

	if err := s.storage.UpdateLeadStatus(ctx, tenantID, leadID, status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrLeadNotFound
		}
		s.logger.Errorf("failed to update lead %s status: %v", leadID, err)
		return err
	}

	return nil
}

func (s *Service) DeleteLead(ctx context.Context, callerID, tenantID, leadID string) error {
	ctx, span := s.tracer.Start(ctx, "leads.Service.DeleteLead")
	defer span.End()

	if err := s.requireRole(ctx, tenantID, callerID, roles.Admin, "lead_delete"); err != nil {
		return err
	}

	if err := s.storage.DeleteLead(ctx, tenantID, leadID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrLeadNotFound
		}
		s.logger.Errorf("failed to delete lead %s: %v", leadID, err)
		return err
	}

	return nil
}
