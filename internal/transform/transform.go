// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package transform implements the artifact transform registry of §4.5: a
// user-supplied Transform converts one artifact file to another, declaring
// the attributes it consumes and the sets of attributes it can produce.
package transform

import "github.com/depsconfig/depsconfig/internal/dattr"

// Transform is a user-supplied unit that converts one artifact file to
// another.
type Transform interface {
	// Name identifies this transform for error messages and cache logging.
	Name() string

	// InputAttributes describes what this transform consumes.
	InputAttributes() *dattr.Snapshot

	// OutputAttributeSets describes every format this transform can
	// produce. Register generates one registration row per entry
	// (fan-out at registration time).
	OutputAttributeSets() []*dattr.Snapshot

	// OutputDirectory names a directory the executor must create
	// (including parents) before invoking Run, or "" if none is declared.
	OutputDirectory() string

	// Run performs the conversion, reading inputPath and producing
	// whatever GetResult will later report.
	Run(inputPath string) error

	// GetResult returns the path of the file produced for the given
	// requested output attributes, or "" if this transform produced no
	// file for that request.
	GetResult(out *dattr.Snapshot) string
}
