// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"

	"github.com/canonical/tenant-admin/internal/openfga"
	"github.com/canonical/tenant-admin/internal/roles"
)

type AuthorizerInterface interface {
	ListObjects(context.Context, string, string, string) ([]string, error)
	Check(context.Context, string, string, string, ...openfga.Tuple) (bool, error)
	FilterObjects(context.Context, string, string, string, []string) ([]string, error)

	// AssignTenantRole records the single role a user holds on a tenant,
	// removing any other role relation first so a user never holds two.
	AssignTenantRole(ctx context.Context, tenantId, userId string, role roles.Role) error
	RemoveTenantRole(ctx context.Context, tenantId, userId string, role roles.Role) error

	// DeleteTenant removes every role tuple for the given member list.
	DeleteTenant(ctx context.Context, tenantId string, memberIds []string) error
	CheckTenantAccess(ctx context.Context, tenantId, userId, relation string) (bool, error)
}

type AuthzClientInterface interface {
	ListObjects(context.Context, string, string, string) ([]string, error)
	Check(context.Context, string, string, string, ...openfga.Tuple) (bool, error)
	WriteTuple(ctx context.Context, user, relation, object string) error
	DeleteTuple(ctx context.Context, user, relation, object string) error
}
