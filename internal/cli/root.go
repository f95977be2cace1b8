// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package cli implements the depsconfig-inspect command tree.
package cli

import "github.com/spf13/cobra"

// Execute builds and runs the depsconfig-inspect root command.
func Execute() error {
	root := &cobra.Command{
		Use:   "depsconfig-inspect",
		Short: "Inspect and resolve a declarative dependency-configuration set",
	}
	root.AddCommand(newInspectCmd())
	return root.Execute()
}
