// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/tenant-admin/internal/directory"
	"github.com/canonical/tenant-admin/internal/logging"
	"github.com/canonical/tenant-admin/internal/monitoring"
	"github.com/canonical/tenant-admin/internal/roles"
	"github.com/canonical/tenant-admin/internal/storage"
	"github.com/canonical/tenant-admin/internal/tracing"
	"github.com/canonical/tenant-admin/internal/types"
)

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	storage            StorageInterface
	authz              AuthzInterface
	directory          DirectoryInterface
	invitationLifetime string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	authz AuthzInterface,
	directory DirectoryInterface,
	invitationLifetime string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage:            storage,
		authz:              authz,
		directory:          directory,
		invitationLifetime: invitationLifetime,
		tracer:             tracer,
		monitor:            monitor,
		logger:             logger,
	}
}

// CallerRole reads the caller's membership on the tenant. Absence of a
// membership is not an error, it is the none role.
func (s *Service) CallerRole(ctx context.Context, tenantID, callerID string) (roles.Role, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.CallerRole")
	defer span.End()

	membership, err := s.storage.GetMembership(ctx, tenantID, callerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return roles.None, nil
		}
		return roles.None, fmt.Errorf("failed to check caller membership: %w", err)
	}

	role, err := roles.Parse(membership.Role)
	if err != nil {
		return roles.None, fmt.Errorf("failed to parse caller role: %w", err)
	}

	return role, nil
}

// requireAdmin gates the member administration operations. Storage failures
// and unknown tenants fail closed.
func (s *Service) requireAdmin(ctx context.Context, tenantID, callerID string) error {
	if _, err := s.storage.GetTenantByID(ctx, tenantID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUnknownTenant
		}
		return fmt.Errorf("failed to load tenant: %w", err)
	}

	role, err := s.CallerRole(ctx, tenantID, callerID)
	if err != nil {
		return err
	}
	if !role.Meets(roles.Admin) {
		s.logger.Security().AuthzFailure(callerID, "tenant_member_admin")
		return ErrForbidden
	}
	return nil
}

func (s *Service) InviteMember(ctx context.Context, callerID, tenantID, email string, role roles.Role) (string, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.InviteMember")
	defer span.End()

	if !role.Valid() {
		return "", ErrInvalidRole
	}

	if err := s.requireAdmin(ctx, tenantID, callerID); err != nil {
		return "", err
	}

	// 1. Find or create the identity, with the elevated service credential.
	identityID, err := s.directory.GetIdentityIDByEmail(ctx, email)
	if err != nil {
		s.logger.Errorf("failed to check identity existence: %v", err)
		return "", fmt.Errorf("failed to check identity")
	}

	if identityID == "" {
		s.logger.Infof("creating new identity for %s", email)
		identityID, err = s.directory.CreateIdentity(ctx, email)
		if err != nil {
			s.logger.Errorf("failed to create identity: %v", err)
			return "", fmt.Errorf("failed to provision user")
		}

		// 2. Trigger the email invitation. When the deployment has no invite
		// operation the plain identity creation above already suffices.
		if _, _, err := s.directory.CreateRecoveryLink(ctx, identityID, s.invitationLifetime); err != nil {
			if !errors.Is(err, directory.ErrInviteUnavailable) {
				s.logger.Errorf("failed to create invitation link: %v", err)
				return "", fmt.Errorf("failed to generate invitation link")
			}
			s.logger.Warnf("invite operation unavailable, falling back to plain identity creation for %s", email)
		}
	}

	// 3. Upsert the membership. Re-inviting the same pair keeps a single row;
	// a different role overwrites the stored one.
	if _, err := s.storage.UpsertMember(ctx, tenantID, identityID, role.String()); err != nil {
		s.logger.Errorf("failed to upsert member: %v", err)
		return "", fmt.Errorf("failed to add member")
	}

	// 4. Mirror the role into the authorization system.
	if err := s.authz.AssignTenantRole(ctx, tenantID, identityID, role); err != nil {
		s.logger.Errorf("failed to assign role in authz: %v", err)
		return "", fmt.Errorf("failed to assign permissions")
	}

	return identityID, nil
}

func (s *Service) AddMemberByEmail(ctx context.Context, callerID, tenantID, email string, role roles.Role) (string, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.AddMemberByEmail")
	defer span.End()

	if !role.Valid() {
		return "", ErrInvalidRole
	}

	if err := s.requireAdmin(ctx, tenantID, callerID); err != nil {
		return "", err
	}

	identityID, err := s.directory.GetIdentityIDByEmail(ctx, email)
	if err != nil {
		s.logger.Errorf("failed to check identity existence: %v", err)
		return "", fmt.Errorf("failed to check identity")
	}
	if identityID == "" {
		// The caller is expected to fall back to the invite flow.
		return "", ErrUserNotFound
	}

	if _, err := s.storage.UpsertMember(ctx, tenantID, identityID, role.String()); err != nil {
		s.logger.Errorf("failed to upsert member: %v", err)
		return "", fmt.Errorf("failed to add member")
	}

	if err := s.authz.AssignTenantRole(ctx, tenantID, identityID, role); err != nil {
		s.logger.Errorf("failed to assign role in authz: %v", err)
		return "", fmt.Errorf("failed to assign permissions")
	}

	return identityID, nil
}

func (s *Service) SetMemberRole(ctx context.Context, callerID, tenantID, userID string, role roles.Role) error {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.SetMemberRole")
	defer span.End()

	if !role.Valid() {
		return ErrInvalidRole
	}

	if err := s.requireAdmin(ctx, tenantID, callerID); err != nil {
		return err
	}

	if err := s.storage.UpdateMember(ctx, tenantID, userID, role.String()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update member role: %w", err)
	}

	if err := s.authz.AssignTenantRole(ctx, tenantID, userID, role); err != nil {
		s.logger.Errorf("failed to mirror role change in authz: %v", err)
	}

	return nil
}

func (s *Service) RemoveMember(ctx context.Context, callerID, tenantID, userID string) error {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.RemoveMember")
	defer span.End()

	if err := s.requireAdmin(ctx, tenantID, callerID); err != nil {
		return err
	}

	membership, err := s.storage.GetMembership(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load membership: %w", err)
	}

	if err := s.storage.RemoveMember(ctx, tenantID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	role, err := roles.Parse(membership.Role)
	if err == nil {
		if err := s.authz.RemoveTenantRole(ctx, tenantID, userID, role); err != nil {
			s.logger.Errorf("failed to remove role tuple in authz: %v", err)
		}
	}

	return nil
}

func (s *Service) ListTenantMembers(ctx context.Context, callerID, tenantID string) ([]*types.TenantMember, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.ListTenantMembers")
	defer span.End()

	if err := s.requireAdmin(ctx, tenantID, callerID); err != nil {
		return nil, err
	}

	members, err := s.storage.ListMembersByTenantID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	var out []*types.TenantMember
	for _, m := range members {
		email := ""
		identity, err := s.directory.GetIdentity(ctx, m.IdentityID)
		if err != nil {
			// The identity may have been deleted upstream while the
			// membership row survived.
			s.logger.Warnf("failed to get identity %s: %v", m.IdentityID, err)
			email = "unknown"
		} else {
			if traits, ok := identity.Traits.(map[string]interface{}); ok {
				if e, ok := traits["email"].(string); ok {
					email = e
				}
			}
		}

		out = append(out, &types.TenantMember{
			UserID:   m.IdentityID,
			Email:    email,
			Role:     m.Role,
			JoinedAt: m.CreatedAt,
		})
	}

	return out, nil
}

func (s *Service) CreateTenant(ctx context.Context, callerID, slug, name string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.CreateTenant")
	defer span.End()

	t := &types.Tenant{
		Slug:    slug,
		Name:    name,
		Enabled: true,
	}

	created, err := s.storage.CreateTenant(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	// The creator administers their own tenant.
	if _, err := s.storage.AddMember(ctx, created.ID, callerID, roles.Admin.String()); err != nil {
		return nil, fmt.Errorf("failed to add creator membership: %w", err)
	}
	if err := s.authz.AssignTenantRole(ctx, created.ID, callerID, roles.Admin); err != nil {
		s.logger.Errorf("failed to mirror creator role in authz: %v", err)
	}

	return created, nil
}

func (s *Service) GetTenantBySlug(ctx context.Context, slug string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.GetTenantBySlug")
	defer span.End()

	t, err := s.storage.GetTenantBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnknownTenant
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return t, nil
}

func (s *Service) ListUserTenants(ctx context.Context, userID string) ([]*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.ListUserTenants")
	defer span.End()

	tenants, err := s.storage.ListTenantsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants for user: %w", err)
	}

	return tenants, nil
}

func (s *Service) UpdateTenant(ctx context.Context, callerID string, tenant *types.Tenant, paths []string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.UpdateTenant")
	defer span.End()

	if err := s.requireAdmin(ctx, tenant.ID, callerID); err != nil {
		return nil, err
	}

	if err := s.storage.UpdateTenant(ctx, tenant, paths); err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	updated, err := s.storage.GetTenantByID(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get updated tenant: %w", err)
	}

	return updated, nil
}

func (s *Service) DeleteTenant(ctx context.Context, callerID, tenantID string) error {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.DeleteTenant")
	defer span.End()

	if err := s.requireAdmin(ctx, tenantID, callerID); err != nil {
		return err
	}

	members, err := s.storage.ListMembersByTenantID(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to list members before delete: %w", err)
	}

	if err := s.storage.DeleteTenant(ctx, tenantID); err != nil {
		return fmt.Errorf("failed to delete tenant from storage: %w", err)
	}

	memberIds := make([]string, len(members))
	for i, m := range members {
		memberIds[i] = m.IdentityID
	}
	if err := s.authz.DeleteTenant(ctx, tenantID, memberIds); err != nil {
		// Log but don't fail, storage is already deleted.
		s.logger.Errorf("failed to delete tenant tuples in authz: %v", err)
	}

	return nil
}
