// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package roles defines the closed tenant role enumeration and its total
// order. Capability checks go through Meets instead of comparing strings
// at every call site.
package roles

import "fmt"

type Role int

const (
	None Role = iota
	Viewer
	Editor
	Admin
)

const (
	noneName   = "none"
	viewerName = "viewer"
	editorName = "editor"
	adminName  = "admin"
)

func (r Role) String() string {
	switch r {
	case Viewer:
		return viewerName
	case Editor:
		return editorName
	case Admin:
		return adminName
	default:
		return noneName
	}
}

// Meets reports whether a holder of r satisfies a guard requiring at least
// required. The order is viewer < editor < admin; None meets nothing but None.
func (r Role) Meets(required Role) bool {
	return r >= required
}

// Valid reports whether r is one of the three assignable roles.
func (r Role) Valid() bool {
	return r == Viewer || r == Editor || r == Admin
}

// Parse maps a stored or user supplied role name to a Role. Unknown or empty
// names map to None with an error so callers can decide whether absence is
// acceptable.
func Parse(name string) (Role, error) {
	switch name {
	case viewerName:
		return Viewer, nil
	case editorName:
		return Editor, nil
	case adminName:
		return Admin, nil
	case noneName, "":
		return None, nil
	default:
		return None, fmt.Errorf("unknown role %q", name)
	}
}

// All lists the assignable roles, lowest first.
func All() []Role {
	return []Role{Viewer, Editor, Admin}
}
