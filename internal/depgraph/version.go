// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package depgraph

import (
	"fmt"

	"github.com/hashicorp/go-version"
)

// VersionConstraint is a parsed version-constraint expression attached to a
// module dependency declaration (e.g. "group:module" coordinates with a
// requested version range). This package does not select a version from a
// constraint or resolve conflicts between constraints from different
// configurations - that is the external Resolver's job - it only validates
// that the constraint string is syntactically well-formed so that a bad
// constraint is rejected at declaration time instead of deep inside
// resolution.
type VersionConstraint struct {
	Required version.Constraints
	Raw      string
}

// ParseVersionConstraint parses raw using the same constraint syntax go-version
// understands (e.g. ">= 1.2.0, < 2.0.0"). An empty string is treated as an
// unconstrained (always-satisfied) requirement.
func ParseVersionConstraint(raw string) (VersionConstraint, error) {
	if raw == "" {
		return VersionConstraint{Raw: raw}, nil
	}
	constraints, err := version.NewConstraint(raw)
	if err != nil {
		// go-version's own error isn't very actionable, so like the
		// teacher we substitute a plain, generic one.
		return VersionConstraint{}, fmt.Errorf("depgraph: %q is not a valid version constraint", raw)
	}
	return VersionConstraint{Required: constraints, Raw: raw}, nil
}

// Satisfied reports whether v satisfies the constraint. An unconstrained
// VersionConstraint is satisfied by every version.
func (c VersionConstraint) Satisfied(v *version.Version) bool {
	if c.Required == nil {
		return true
	}
	return c.Required.Check(v)
}

// String returns the original constraint text.
func (c VersionConstraint) String() string {
	if c.Raw == "" {
		return "(any version)"
	}
	return c.Raw
}
