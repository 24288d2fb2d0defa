// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"errors"
)

var (
	ErrForbidden     = errors.New("caller is not an admin of this tenant")
	ErrUserNotFound  = errors.New("user_not_found")
	ErrUnknownTenant = errors.New("tenant not found")
	ErrInvalidRole   = errors.New("invalid role")
	// ErrMisconfigured means a required upstream setting is absent. The
	// handler fails closed with a 500 rather than guessing.
	ErrMisconfigured = errors.New("invite backend is not configured")
)
