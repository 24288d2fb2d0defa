// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"

	"github.com/canonical/tenant-admin/internal/roles"
	"github.com/canonical/tenant-admin/internal/types"
)

// StorageInterface is the subset of internal/storage used to provision a
// freshly registered user.
type StorageInterface interface {
	CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	AddMember(ctx context.Context, tenantID, userID, role string) (string, error)
}

// AuthzInterface mirrors provisioned memberships into the authorization
// backend.
type AuthzInterface interface {
	AssignTenantRole(ctx context.Context, tenantID, userID string, role roles.Role) error
}

type ServiceInterface interface {
	HandleRegistration(ctx context.Context, identityID, email string) error
}
