// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package depgraph implements the opaque declaration types named in the
// data model: Dependency, PublishArtifact, and ExcludeRule, plus the
// version-constraint parsing attached to module dependencies. Concrete
// dependency and artifact kinds are expected to be supplied by the host
// build tool; this package provides the interfaces every Configuration
// operates against plus a small set of reference implementations used by
// this module's own tests and its inspection CLI.
package depgraph

// Dependency is an opaque declared dependency. Specific dependency kinds
// (module coordinates, project references, file collections, ...) are
// external to this package; Configuration only ever needs the identity and
// Copy behavior below.
type Dependency interface {
	// ID uniquely identifies this dependency's declaration within a single
	// Configuration's own-dependency set. It need not be globally unique.
	ID() string

	// Copy returns an independent instance equal in value to the receiver.
	// Configuration.Copy and Configuration.CopyRecursive call this for
	// every dependency in the snapshot being copied.
	Copy() Dependency
}

// FileCollectionDependency is the file-collection dependency subtype named
// in the data model: a Dependency that additionally exposes the file set it
// resolves to directly (no module graph involved) and the build
// dependencies (task names) that must run before those files exist.
type FileCollectionDependency interface {
	Dependency

	// Files returns the paths this dependency resolves to.
	Files() []string

	// BuildDependencies returns the names of tasks that must complete
	// before Files can be read.
	BuildDependencies() []string
}

// PublishArtifact is an opaque produced artifact: it carries the file set it
// produces and the build dependencies that must complete before that file
// set exists.
type PublishArtifact interface {
	// ID uniquely identifies this artifact's declaration within a single
	// Configuration's own-artifact set.
	ID() string

	// Copy returns an independent instance equal in value to the receiver.
	Copy() PublishArtifact

	// Files returns the paths this artifact produces.
	Files() []string

	// BuildDependencies returns the names of tasks that must complete
	// before Files can be read.
	BuildDependencies() []string
}

// ExcludeRule is an immutable (group, module) pair. Once constructed an
// ExcludeRule's fields never change; Configuration's own-exclude-rule set
// holds ExcludeRule values directly rather than pointers.
type ExcludeRule struct {
	Group  string
	Module string
}

// NewExcludeRule constructs an ExcludeRule. Either field may be empty,
// meaning "any".
func NewExcludeRule(group, module string) ExcludeRule {
	return ExcludeRule{Group: group, Module: module}
}
