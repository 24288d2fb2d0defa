// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"

	"github.com/canonical/tenant-admin/internal/types"
)

type StorageInterface interface {
	CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	GetTenantByID(ctx context.Context, id string) (*types.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*types.Tenant, error)
	ListTenants(ctx context.Context) ([]*types.Tenant, error)
	ListTenantsByUserID(ctx context.Context, userID string) ([]*types.Tenant, error)
	UpdateTenant(ctx context.Context, tenant *types.Tenant, paths []string) error
	DeleteTenant(ctx context.Context, id string) error

	GetMembership(ctx context.Context, tenantID, identityID string) (*types.Membership, error)
	ListMembersByTenantID(ctx context.Context, tenantID string) ([]*types.Membership, error)
	AddMember(ctx context.Context, tenantID, userID, role string) (string, error)
	UpsertMember(ctx context.Context, tenantID, userID, role string) (string, error)
	UpdateMember(ctx context.Context, tenantID, userID, role string) error
	RemoveMember(ctx context.Context, tenantID, userID string) error

	CreateLead(ctx context.Context, l *types.Lead) (*types.Lead, error)
	ListLeadsByTenantID(ctx context.Context, tenantID string, page, size int64) ([]*types.Lead, error)
	UpdateLeadStatus(ctx context.Context, tenantID, leadID, status string) error
	DeleteLead(ctx context.Context, tenantID, leadID string) error
}
