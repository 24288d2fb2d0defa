// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package roles

import (
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected Role
		wantErr  bool
	}{
		{name: "viewer", input: "viewer", expected: Viewer},
		{name: "editor", input: "editor", expected: Editor},
		{name: "admin", input: "admin", expected: Admin},
		{name: "none", input: "none", expected: None},
		{name: "empty maps to none", input: "", expected: None},
		{name: "unknown", input: "owner", expected: None, wantErr: true},
		{name: "case sensitive", input: "Admin", expected: None, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if (err != nil) != tc.wantErr {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if got != tc.expected {
				t.Errorf("Parse(%q) = %v, expected %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestMeets(t *testing.T) {
	order := []Role{None, Viewer, Editor, Admin}

	for i, holder := range order {
		for j, required := range order {
			expected := i >= j
			if got := holder.Meets(required); got != expected {
				t.Errorf("%v.Meets(%v) = %v, expected %v", holder, required, got, expected)
			}
		}
	}
}

func TestValid(t *testing.T) {
	if None.Valid() {
		t.Error("None must not be assignable")
	}
	for _, r := range All() {
		if !r.Valid() {
			t.Errorf("%v must be assignable", r)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, r := range All() {
		parsed, err := Parse(r.String())
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", r.String(), err)
		}
		if parsed != r {
			t.Errorf("round trip mismatch: %v != %v", parsed, r)
		}
	}
}
