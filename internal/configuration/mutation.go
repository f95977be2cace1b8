// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package configuration

// MutationType classifies a mutating operation on a Configuration so that
// validateMutation and validateParentMutation can apply the right rule.
// STRATEGY mutations (resolution-strategy changes) are the only kind that
// never affects an already-resolved graph and so are exempt from the
// observation gate.
type MutationType int

const (
	// MutationDependencies covers dependency declarations and the
	// extendsFrom parent set, since both shape the module graph.
	MutationDependencies MutationType = iota
	// MutationArtifacts covers produced-artifact declarations and exclude
	// rules.
	MutationArtifacts
	// MutationStrategy covers resolution-strategy changes, which do not
	// affect the graph once it has been built.
	MutationStrategy
	// MutationAttributes covers the configuration's attribute container.
	MutationAttributes
	// MutationRole covers canBeConsumed/canBeResolved plus the remaining
	// descriptive metadata (visible, transitive, format, description) the
	// spec groups alongside roles in its public-surface listing.
	MutationRole
)

func (t MutationType) String() string {
	switch t {
	case MutationDependencies:
		return "dependencies"
	case MutationArtifacts:
		return "artifacts"
	case MutationStrategy:
		return "resolution strategy"
	case MutationAttributes:
		return "attributes"
	case MutationRole:
		return "role"
	default:
		return "unknown"
	}
}

// validateMutation implements §4.1's rule list for a mutation of kind t
// originating on the receiver itself (not propagated from a parent). It
// runs on the caller's own thread with no dedicated lock: callers are
// expected to mutate a configuration only from its owning build's
// configuration thread, per the concurrency model in §5.
func (c *Configuration) validateMutation(t MutationType) error {
	switch {
	case c.resolvedState == ArtifactsResolved:
		return newUserMutationError(c.path, "cannot change "+t.String()+": this configuration has already been resolved")
	case c.resolvedState == GraphResolved:
		return newUserMutationError(c.path, "cannot change "+t.String()+": task dependencies have already been resolved for this configuration")
	case (c.observedState == GraphResolved || c.observedState == ArtifactsResolved) && t != MutationStrategy:
		detail := "cannot change " + t.String() + ": this configuration has already been included in dependency resolution"
		if c.insideBeforeResolve {
			detail += "; consider registering a default-dependency action instead of mutating from a beforeResolve listener"
		}
		return newUserMutationError(c.path, detail)
	default:
		for _, child := range c.childValidators {
			if err := child.validateParentMutation(t); err != nil {
				return err
			}
		}
		if t != MutationStrategy {
			c.dependenciesModified = true
		}
		return nil
	}
}

// validateParentMutation implements §4.1's "parent mutation" propagation:
// a configuration whose parent was just mutated decides whether it can
// tolerate that, and if so propagates the same check to its own children.
func (c *Configuration) validateParentMutation(t MutationType) error {
	if t == MutationStrategy {
		return nil
	}
	if c.resolvedState == ArtifactsResolved {
		return newUserMutationError(c.path, "cannot change "+t.String()+" of a parent configuration: this configuration's artifacts have already been resolved")
	}
	if c.resolvedState == GraphResolved && t == MutationDependencies {
		return newUserMutationError(c.path, "cannot change dependencies of a parent configuration: this configuration's task dependencies have already been resolved")
	}
	c.dependenciesModified = true
	for _, child := range c.childValidators {
		if err := child.validateParentMutation(t); err != nil {
			return err
		}
	}
	return nil
}
