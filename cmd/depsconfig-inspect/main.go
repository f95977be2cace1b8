// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Command depsconfig-inspect loads a declarative configuration set from a
// JSON file, resolves it with the module's default in-memory resolver, and
// prints each configuration's dump plus its resolved artifacts. It exists
// to exercise the library end-to-end, the way `tofu graph` exercises
// internal/configs - it carries no invariants of its own.
package main

import (
	"fmt"
	"os"

	"github.com/depsconfig/depsconfig/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
