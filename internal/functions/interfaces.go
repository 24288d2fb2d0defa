// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package functions

import "context"

type ClientInterface interface {
	// Invoke posts the payload to each candidate function endpoint in order
	// and returns the first response that is not a 404. Requests carry the
	// configured platform credential; caller session tokens never leave the
	// service.
	Invoke(ctx context.Context, payload []byte) (*Outcome, error)
	Candidates() []string
}
