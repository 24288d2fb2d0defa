// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import "sync"

// Tracker guards against out-of-order role resolutions. Lookups race when a
// caller switches tenants quickly; a slow response for the previous tenant
// must not clobber the newer one. Each lookup takes a ticket, and only the
// holder of the latest ticket may publish its result.
//
// Tracker is a utility for consumers of the role endpoint that cache the
// current resolution, such as embedded dashboards polling on tenant switch.
// The serving path itself is stateless and does not construct one.
type Tracker struct {
	mu      sync.Mutex
	seq     uint64
	current Resolution
	loaded  bool
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin registers a new in-flight resolution and returns its ticket. Any
// ticket issued earlier is superseded from this point on.
func (t *Tracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	t.loaded = false
	return t.seq
}

// Apply publishes a completed resolution. It reports false, discarding the
// result, when a newer resolution has begun since the ticket was issued.
func (t *Tracker) Apply(ticket uint64, r Resolution) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ticket != t.seq {
		return false
	}

	t.current = r
	t.loaded = true
	return true
}

// Current returns the last published resolution and whether the latest
// resolution has completed.
func (t *Tracker) Current() (Resolution, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.current, t.loaded
}
