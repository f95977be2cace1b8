// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package depgraph

import "fmt"

// ModuleDependency is a reference Dependency implementation identifying a
// module by group, name, and an optional version constraint. It is the
// dependency kind this module's own tests and its inspection CLI use; a
// real build tool is expected to supply richer kinds (project references,
// platform-specific coordinates, and so on) implementing the same
// Dependency interface.
type ModuleDependency struct {
	Group   string
	Name    string
	Version VersionConstraint
}

var _ Dependency = ModuleDependency{}

// NewModuleDependency constructs a ModuleDependency, parsing versionConstraint
// with ParseVersionConstraint.
func NewModuleDependency(group, name, versionConstraint string) (ModuleDependency, error) {
	vc, err := ParseVersionConstraint(versionConstraint)
	if err != nil {
		return ModuleDependency{}, err
	}
	return ModuleDependency{Group: group, Name: name, Version: vc}, nil
}

// ID returns "group:name", the conventional coordinate string.
func (d ModuleDependency) ID() string {
	return fmt.Sprintf("%s:%s", d.Group, d.Name)
}

// Copy returns an independent, equal ModuleDependency. VersionConstraint
// holds no mutable shared state, so a value copy suffices.
func (d ModuleDependency) Copy() Dependency {
	return d
}

func (d ModuleDependency) String() string {
	return fmt.Sprintf("%s %s", d.ID(), d.Version)
}

// FileDependency is a reference FileCollectionDependency implementation: a
// dependency resolved directly to a fixed set of file paths, with no module
// graph involvement, as described for file-collection dependencies in the
// data model.
type FileDependency struct {
	Name         string
	Paths        []string
	BuildTargets []string
}

var _ FileCollectionDependency = FileDependency{}

// ID returns the FileDependency's Name.
func (d FileDependency) ID() string { return d.Name }

// Copy returns an independent FileDependency with its own backing slices.
func (d FileDependency) Copy() Dependency {
	return FileDependency{
		Name:         d.Name,
		Paths:        append([]string(nil), d.Paths...),
		BuildTargets: append([]string(nil), d.BuildTargets...),
	}
}

// Files returns the dependency's fixed path set.
func (d FileDependency) Files() []string { return d.Paths }

// BuildDependencies returns the task names that must run before Files exist.
func (d FileDependency) BuildDependencies() []string { return d.BuildTargets }
