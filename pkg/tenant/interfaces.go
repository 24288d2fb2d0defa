// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"

	ory "github.com/ory/client-go"

	"github.com/canonical/tenant-admin/internal/roles"
	"github.com/canonical/tenant-admin/internal/types"
)

type ServiceInterface interface {
	InviteMember(ctx context.Context, callerID, tenantID, email string, role roles.Role) (string, error)
	AddMemberByEmail(ctx context.Context, callerID, tenantID, email string, role roles.Role) (string, error)
	SetMemberRole(ctx context.Context, callerID, tenantID, userID string, role roles.Role) error
	RemoveMember(ctx context.Context, callerID, tenantID, userID string) error
	ListTenantMembers(ctx context.Context, callerID, tenantID string) ([]*types.TenantMember, error)

	CreateTenant(ctx context.Context, callerID, slug, name string) (*types.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*types.Tenant, error)
	ListUserTenants(ctx context.Context, userID string) ([]*types.Tenant, error)
	UpdateTenant(ctx context.Context, callerID string, tenant *types.Tenant, paths []string) (*types.Tenant, error)
	DeleteTenant(ctx context.Context, callerID, tenantID string) error

	// CallerRole reports the role the caller holds on the tenant, none when
	// not a member.
	CallerRole(ctx context.Context, tenantID, callerID string) (roles.Role, error)
}

// StorageInterface is the subset of the internal storage layer this package
// needs.
type StorageInterface interface {
	CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	GetTenantByID(ctx context.Context, id string) (*types.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*types.Tenant, error)
	ListTenantsByUserID(ctx context.Context, userID string) ([]*types.Tenant, error)
	UpdateTenant(ctx context.Context, tenant *types.Tenant, paths []string) error
	DeleteTenant(ctx context.Context, id string) error

	GetMembership(ctx context.Context, tenantID, identityID string) (*types.Membership, error)
	ListMembersByTenantID(ctx context.Context, tenantID string) ([]*types.Membership, error)
	AddMember(ctx context.Context, tenantID, userID, role string) (string, error)
	UpsertMember(ctx context.Context, tenantID, userID, role string) (string, error)
	UpdateMember(ctx context.Context, tenantID, userID, role string) error
	RemoveMember(ctx context.Context, tenantID, userID string) error
}

// AuthzInterface mirrors membership roles into the authorization system.
type AuthzInterface interface {
	AssignTenantRole(ctx context.Context, tenantID, userID string, role roles.Role) error
	RemoveTenantRole(ctx context.Context, tenantID, userID string, role roles.Role) error
	DeleteTenant(ctx context.Context, tenantID string, memberIds []string) error
}

// DirectoryInterface brokers privileged identity operations against the auth
// service admin API. Calls always carry the elevated service credential.
type DirectoryInterface interface {
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
	CreateIdentity(ctx context.Context, email string) (string, error)
	GetIdentity(ctx context.Context, id string) (*ory.Identity, error)
	CreateRecoveryLink(ctx context.Context, identityID string, expiresIn string) (string, string, error)
}
