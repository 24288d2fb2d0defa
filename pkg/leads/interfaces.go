// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package leads

import (
	"context"

	"github.com/canonical/tenant-admin/internal/types"
)

type ServiceInterface interface {
	ListLeads(ctx context.Context, callerID, tenantID string, page, size int64) ([]*types.Lead, error)
	CreateLead(ctx context.Context, callerID string, lead *types.Lead) (*types.Lead, error)
	UpdateLeadStatus(ctx context.Context, callerID, tenantID, leadID, status string) error
	DeleteLead(ctx context.Context, callerID, tenantID, leadID string) error
}

type StorageInterface interface {
	GetMembership(ctx context.Context, tenantID, identityID string) (*types.Membership, error)
	CreateLead(ctx context.Context, l *types.Lead) (*types.Lead, error)
	ListLeadsByTenantID(ctx context.Context, tenantID string, page, size int64) ([]*types.Lead, error)
	UpdateLeadStatus(ctx context.Context, tenantID, leadID, status string) error
	DeleteLead(ctx context.Context, tenantID, leadID string) error
}
