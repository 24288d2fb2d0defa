// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package access resolves what role, if any, an identity holds on a tenant
// addressed by slug. Resolution is fail closed: every error path yields the
// none role, so a broken storage layer can never widen access.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/tenant-admin/internal/logging"
	"github.com/canonical/tenant-admin/internal/monitoring"
	"github.com/canonical/tenant-admin/internal/roles"
	"github.com/canonical/tenant-admin/internal/storage"
	"github.com/canonical/tenant-admin/internal/tracing"
)

var ErrTenantNotFound = errors.New("tenant not found")

// Resolution is the outcome of a role lookup. TenantID is set whenever the
// slug resolved to a tenant, even when the identity holds no role on it.
type Resolution struct {
	TenantID string
	Role     roles.Role
}

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	storage StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

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

func (s *Service) Resolve(ctx context.Context, identityID, slug string) (Resolution, error) {
	ctx, span := s.tracer.Start(ctx, "access.Service.Resolve")
	defer span.End()

	// No identity means no role, without touching storage.
	if identityID == "" {
		return Resolution{}, nil
	}

	tenant, err := s.storage.GetTenantBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Resolution{}, ErrTenantNotFound
		}
		s.logger.Errorf("failed to resolve tenant %q: %v", slug, err)
		return Resolution{}, fmt.Errorf("failed to resolve tenant: %w", err)
	}

	membership, err := s.storage.GetMembership(ctx, tenant.ID, identityID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Resolution{TenantID: tenant.ID, Role: roles.None}, nil
		}
		s.logger.Errorf("failed to resolve membership for %s on %s: %v", identityID, tenant.ID, err)
		return Resolution{}, fmt.Errorf("failed to resolve membership: %w", err)
	}

	role, err := roles.Parse(membership.Role)
	if err != nil {
		s.logger.Errorf("membership %s carries unknown role: %v", membership.ID, err)
		return Resolution{TenantID: tenant.ID, Role: roles.None}, fmt.Errorf("failed to resolve role: %w", err)
	}

	return Resolution{TenantID: tenant.ID, Role: role}, nil
}
