// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import "github.com/canonical/tenant-admin/internal/roles"

const (
	VIEWER_RELATION = "viewer"
	EDITOR_RELATION = "editor"
	ADMIN_RELATION  = "admin"

	CAN_VIEW_PERMISSION   = "can_view"
	CAN_EDIT_PERMISSION   = "can_edit"
	CAN_MANAGE_PERMISSION = "can_manage"

	TENANT_TYPE = "tenant"
)

func UserTuple(userId string) string {
	return "user:" + userId
}

func TenantTuple(tenantId string) string {
	return "tenant:" + tenantId
}

// RoleRelation maps a membership role onto its authorization model relation.
// Roles below viewer have no relation.
func RoleRelation(role roles.Role) string {
	switch role {
	case roles.Admin:
		return ADMIN_RELATION
	case roles.Editor:
		return EDITOR_RELATION
	case roles.Viewer:
		return VIEWER_RELATION
	default:
		return ""
	}
}
