// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package webhooks receives callbacks from the auth service. The registration
// hook provisions a personal tenant for every fresh sign-up so the user lands
// in a workspace they administer.
package webhooks

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/canonical/tenant-admin/internal/logging"
	"github.com/canonical/tenant-admin/internal/monitoring"
	"github.com/canonical/tenant-admin/internal/roles"
	"github.com/canonical/tenant-admin/internal/tracing"
	"github.com/canonical/tenant-admin/internal/types"
)

type Service struct {
	storage StorageInterface
	authz   AuthzInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

var _ ServiceInterface = (*Service)(nil)

func NewService(
	storage StorageInterface,
	authz AuthzInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage: storage,
		authz:   authz,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (s *Service) HandleRegistration(ctx context.Context, identityID, email string) error {
	ctx, span := s.tracer.Start(ctx, "webhooks.Service.HandleRegistration")
	defer span.End()

	s.logger.Debugf("handling registration for identity %s with email %s", identityID, email)

	if identityID == "" || email == "" {
		return fmt.Errorf("identity ID or email is empty")
	}

	tenant := &types.Tenant{
		Slug:    personalSlug(email),
		Name:    fmt.Sprintf("%s's Org", email),
		Enabled: true,
	}

	newTenant, err := s.storage.CreateTenant(ctx, tenant)
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	if _, err := s.storage.AddMember(ctx, newTenant.ID, identityID, roles.Admin.String()); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	if err := s.authz.AssignTenantRole(ctx, newTenant.ID, identityID, roles.Admin); err != nil {
		return fmt.Errorf("failed to assign tenant admin in authz: %w", err)
	}

	s.logger.Infof("provisioned tenant %s for user %s", newTenant.ID, identityID)
	return nil
}

// personalSlug derives a URL-safe, unique slug from the email local part.
// Slugs are unique in storage, so a random suffix keeps repeat local parts
// from colliding.
func personalSlug(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}

	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "workspace"
	}

	return fmt.Sprintf("%s-%s", slug, uuid.NewString()[:8])
}
