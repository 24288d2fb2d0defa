// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"context"

	"github.com/canonical/tenant-admin/internal/types"
)

type ServiceInterface interface {
	Resolve(ctx context.Context, identityID, slug string) (Resolution, error)
}

// StorageInterface is the subset of the internal storage layer the resolver
// needs.
type StorageInterface interface {
	GetTenantBySlug(ctx context.Context, slug string) (*types.Tenant, error)
	GetMembership(ctx context.Context, tenantID, identityID string) (*types.Membership, error)
}
