// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package configuration

import (
	"github.com/depsconfig/depsconfig/internal/dattr"
	"github.com/depsconfig/depsconfig/internal/depgraph"
	"github.com/depsconfig/depsconfig/internal/dset"
)

// Copy materializes a new Configuration holding Copy() of each of the
// receiver's own dependencies matching spec (or every own dependency, if no
// spec is given), plus a full copy of its own artifacts and exclude rules.
// The result has a fresh UNRESOLVED state and an empty extendsFrom set: per
// §3's lifecycle note, the copy resolves in isolation.
func (c *Configuration) Copy(spec ...DependencySpec) *Configuration {
	return c.copy(oneSpec(spec), false)
}

// CopyRecursive is like Copy, but it flattens the receiver's entire
// extendsFrom hierarchy into the new configuration's own collections:
// AllDependencies()/AllArtifacts()/AllExcludeRules() of the receiver become
// the own collections of the copy, still with an empty extendsFrom set.
func (c *Configuration) CopyRecursive(spec ...DependencySpec) *Configuration {
	return c.copy(oneSpec(spec), true)
}

func oneSpec(specs []DependencySpec) DependencySpec {
	if len(specs) == 0 {
		return SatisfyAll
	}
	return specs[0]
}

func (c *Configuration) copy(spec DependencySpec, recursive bool) *Configuration {
	out := &Configuration{
		path:        c.path + "Copy",
		name:        c.name + "Copy",
		description: c.description,
		format:      c.format,
		hasFormat:   c.hasFormat,
		visible:     c.visible,
		transitive:  c.transitive,

		// The source resolves whether copyRecursive should carry over
		// canBeConsumed/canBeResolved: yes, see DESIGN.md's Open Question
		// decisions.
		canBeConsumed: c.canBeConsumed,
		canBeResolved: c.canBeResolved,

		parents:         dset.New[*Configuration](),
		ownDependencies: depgraph.NewDependencySet(),
		ownArtifacts:    depgraph.NewArtifactSet(),
		ownExcludeRules: depgraph.NewExcludeRuleSet(),
		attributes:      dattr.NewContainer(),

		resolver:      c.resolver,
		listeners:     c.listeners,
		projectFinder: c.projectFinder,
		projectPath:   c.projectPath,

		resolvedState: Unresolved,
		observedState: Unresolved,
	}
	out.strategy = ResolutionStrategy{owner: out}

	deps := c.ownDependencies.Values()
	arts := c.ownArtifacts.Values()
	rules := c.ownExcludeRules.Values()
	if recursive {
		deps = c.AllDependencies()
		arts = c.AllArtifacts()
		rules = c.AllExcludeRules()
	}

	for _, d := range deps {
		if spec(d) {
			out.ownDependencies.Add(d.Copy())
		}
	}
	for _, a := range arts {
		out.ownArtifacts.Add(a.Copy())
	}
	for _, r := range rules {
		out.ownExcludeRules.Add(r)
	}
	for _, attr := range c.attributes.Keys() {
		if v, ok := c.attributes.Get(attr); ok {
			_ = out.attributes.Set(attr, v) // fresh, UNRESOLVED container: always succeeds
		}
	}
	out.attributes.OnMutate = func() error { return out.validateMutation(MutationAttributes) }

	return out
}
