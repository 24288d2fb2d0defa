// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

// Tenant is an isolated customer workspace. The slug is the external,
// URL-safe identifier; the id is the internal join key.
type Tenant struct {
	ID        string    `db:"id"`
	Slug      string    `db:"slug"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	Enabled   bool      `db:"enabled"`
}

// Membership links an identity from the auth service to a tenant with a role.
// Unique per (tenant_id, identity_id).
type Membership struct {
	ID         string    `db:"id"`
	TenantID   string    `db:"tenant_id"`
	IdentityID string    `db:"identity_id"`
	Role       string    `db:"role"`
	CreatedAt  time.Time `db:"created_at"`
}

// Lead is a tenant-scoped CRM record.
type Lead struct {
	ID        string    `db:"id"`
	TenantID  string    `db:"tenant_id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Source    string    `db:"source"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

// TenantMember is a membership joined with directory details for display.
type TenantMember struct {
	UserID   string
	Email    string
	Role     string
	JoinedAt time.Time
}
