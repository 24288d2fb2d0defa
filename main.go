// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package main

import "github.com/canonical/tenant-admin/cmd"

func main() {
	cmd.Execute()
}
