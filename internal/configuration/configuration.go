// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package configuration implements the configuration object and its
// mutation/observation/resolution state machine: the central entity of the
// dependency-configuration subsystem. A Configuration aggregates declared
// dependencies, produced artifacts, and exclude rules; may extend other
// configurations to inherit their contents; and drives an external Resolver
// through the two-phase resolution lifecycle described in §4.3, caching
// whatever the Resolver returns.
package configuration

import (
	"fmt"
	"strings"
	"sync"

	"github.com/depsconfig/depsconfig/internal/dattr"
	"github.com/depsconfig/depsconfig/internal/depgraph"
	"github.com/depsconfig/depsconfig/internal/dset"
)

// DependencySpec is a predicate over a Dependency, used to filter Copy,
// the lenient artifact view, and the file-collection view.
type DependencySpec func(depgraph.Dependency) bool

// SatisfyAll is the DependencySpec that matches every dependency. The
// lenient view's fast path (§4.4) is keyed off this exact function value.
func SatisfyAll(depgraph.Dependency) bool { return true }

// Configuration is a named, mutable container of dependency declarations,
// produced artifacts, exclude rules, and attributes; it is also the input
// to - and cache of - a resolution.
type Configuration struct {
	resolutionLock  sync.Mutex
	observationLock sync.Mutex

	path        string
	name        string
	description string
	format      string
	hasFormat   bool
	visible     bool
	transitive  bool

	canBeConsumed bool
	canBeResolved bool

	parents         *dset.Set[*Configuration]
	childValidators []*Configuration

	ownDependencies *depgraph.DependencySet
	ownArtifacts    *depgraph.ArtifactSet
	ownExcludeRules *depgraph.ExcludeRuleSet

	defaultDependencyActions []func(*depgraph.DependencySet)

	attributes *dattr.Container
	strategy   ResolutionStrategy

	resolvedState        ResolvedState
	observedState        ResolvedState
	dependenciesModified bool
	insideBeforeResolve  bool

	cachedResults ResolverResults

	resolver      Resolver
	listeners     ListenerManager
	projectFinder ProjectFinder
	projectPath   string
}

// New constructs a Configuration with the given project-unique path and
// display name, driven by resolver and broadcasting lifecycle events
// through listeners. Both canBeConsumed and canBeResolved default to true,
// as do visible and transitive, matching the defaults named in the data
// model.
func New(path, name string, resolver Resolver, listeners ListenerManager) *Configuration {
	c := &Configuration{
		path:            path,
		name:            name,
		visible:         true,
		transitive:      true,
		canBeConsumed:   true,
		canBeResolved:   true,
		parents:         dset.New[*Configuration](),
		ownDependencies: depgraph.NewDependencySet(),
		ownArtifacts:    depgraph.NewArtifactSet(),
		ownExcludeRules: depgraph.NewExcludeRuleSet(),
		attributes:      dattr.NewContainer(),
		resolver:        resolver,
		listeners:       listeners,
		resolvedState:   Unresolved,
		observedState:   Unresolved,
	}
	c.strategy = ResolutionStrategy{owner: c}
	c.attributes.OnMutate = func() error { return c.validateMutation(MutationAttributes) }
	return c
}

// SetProject wires the project-path and project-finder collaborators used
// to mark referenced project configurations observed (§4.1). It is
// optional; a Configuration with no project finder simply never propagates
// observation beyond its own extendsFrom hierarchy.
func (c *Configuration) SetProject(path string, finder ProjectFinder) {
	c.projectPath = path
	c.projectFinder = finder
}

// Path returns the configuration's project-unique identity.
func (c *Configuration) Path() string { return c.path }

// Name returns the configuration's display name.
func (c *Configuration) Name() string { return c.name }

// Description returns the configuration's human-readable description.
func (c *Configuration) Description() string { return c.description }

// SetDescription sets the configuration's description.
func (c *Configuration) SetDescription(d string) error {
	if err := c.validateMutation(MutationRole); err != nil {
		return err
	}
	c.description = d
	return nil
}

// Format returns the configuration's declared format and whether one was
// ever set.
func (c *Configuration) Format() (string, bool) { return c.format, c.hasFormat }

// SetFormat sets the configuration's format string.
func (c *Configuration) SetFormat(f string) error {
	if err := c.validateMutation(MutationRole); err != nil {
		return err
	}
	c.format = f
	c.hasFormat = true
	return nil
}

// Visible reports whether this configuration is visible to other projects.
func (c *Configuration) Visible() bool { return c.visible }

// SetVisible sets the configuration's visibility.
func (c *Configuration) SetVisible(v bool) error {
	if err := c.validateMutation(MutationRole); err != nil {
		return err
	}
	c.visible = v
	return nil
}

// Transitive reports whether this configuration's dependencies are
// themselves transitively resolved.
func (c *Configuration) Transitive() bool { return c.transitive }

// SetTransitive sets the configuration's transitivity.
func (c *Configuration) SetTransitive(t bool) error {
	if err := c.validateMutation(MutationRole); err != nil {
		return err
	}
	c.transitive = t
	return nil
}

// CanBeConsumed reports whether this configuration may be consumed by
// another project as a dependency target.
func (c *Configuration) CanBeConsumed() bool { return c.canBeConsumed }

// SetCanBeConsumed sets the configuration's consumable role.
func (c *Configuration) SetCanBeConsumed(v bool) error {
	if err := c.validateMutation(MutationRole); err != nil {
		return err
	}
	c.canBeConsumed = v
	return nil
}

// CanBeResolved reports whether this configuration may be resolved.
func (c *Configuration) CanBeResolved() bool { return c.canBeResolved }

// SetCanBeResolved sets the configuration's resolvable role.
func (c *Configuration) SetCanBeResolved(v bool) error {
	if err := c.validateMutation(MutationRole); err != nil {
		return err
	}
	c.canBeResolved = v
	return nil
}

// Strategy returns the configuration's resolution strategy, whose mutators
// are exempt from the observation gate (§4.1).
func (c *Configuration) Strategy() *ResolutionStrategy { return &c.strategy }

// Attributes returns the configuration's mutable attribute container.
// Mutations on it are gated by validateMutation(MutationAttributes).
func (c *Configuration) Attributes() *dattr.Container { return c.attributes }

// AddDependency adds d to the configuration's own-dependency set.
func (c *Configuration) AddDependency(d depgraph.Dependency) error {
	if err := c.validateMutation(MutationDependencies); err != nil {
		return err
	}
	c.ownDependencies.Add(d)
	return nil
}

// RemoveDependency removes the dependency with the given ID from the
// configuration's own-dependency set.
func (c *Configuration) RemoveDependency(id string) error {
	if err := c.validateMutation(MutationDependencies); err != nil {
		return err
	}
	c.ownDependencies.Remove(id)
	return nil
}

// Dependencies returns the configuration's own (non-inherited) dependencies,
// in insertion order.
func (c *Configuration) Dependencies() []depgraph.Dependency {
	return c.ownDependencies.Values()
}

// AllDependencies returns the union of the configuration's own dependencies
// and those of every parent, recursively, in the stable order required by
// invariant 5: own first, then parents in insertion order, each expanded
// the same way. A dependency ID reached more than once appears only at its
// first position.
func (c *Configuration) AllDependencies() []depgraph.Dependency {
	var out []depgraph.Dependency
	seen := make(map[string]bool)
	var collect func(cfg *Configuration)
	collect = func(cfg *Configuration) {
		for _, d := range cfg.ownDependencies.Values() {
			if !seen[d.ID()] {
				seen[d.ID()] = true
				out = append(out, d)
			}
		}
		for _, p := range cfg.parents.Values() {
			collect(p)
		}
	}
	collect(c)
	return out
}

// AddArtifact adds a to the configuration's own-artifact set.
func (c *Configuration) AddArtifact(a depgraph.PublishArtifact) error {
	if err := c.validateMutation(MutationArtifacts); err != nil {
		return err
	}
	c.ownArtifacts.Add(a)
	return nil
}

// RemoveArtifact removes the artifact with the given ID from the
// configuration's own-artifact set.
func (c *Configuration) RemoveArtifact(id string) error {
	if err := c.validateMutation(MutationArtifacts); err != nil {
		return err
	}
	c.ownArtifacts.Remove(id)
	return nil
}

// Artifacts returns the configuration's own (non-inherited) artifacts, in
// insertion order.
func (c *Configuration) Artifacts() []depgraph.PublishArtifact {
	return c.ownArtifacts.Values()
}

// AllArtifacts returns the union of the configuration's own artifacts and
// those of every parent, recursively, in the same stable order as
// AllDependencies, with each artifact ID appearing only once.
func (c *Configuration) AllArtifacts() []depgraph.PublishArtifact {
	var out []depgraph.PublishArtifact
	seen := make(map[string]bool)
	var collect func(cfg *Configuration)
	collect = func(cfg *Configuration) {
		for _, a := range cfg.ownArtifacts.Values() {
			if !seen[a.ID()] {
				seen[a.ID()] = true
				out = append(out, a)
			}
		}
		for _, p := range cfg.parents.Values() {
			collect(p)
		}
	}
	collect(c)
	return out
}

// AddExcludeRule adds r to the configuration's own-exclude-rule set.
func (c *Configuration) AddExcludeRule(r depgraph.ExcludeRule) error {
	if err := c.validateMutation(MutationArtifacts); err != nil {
		return err
	}
	c.ownExcludeRules.Add(r)
	return nil
}

// ExcludeRules returns the configuration's own exclude rules, in insertion
// order.
func (c *Configuration) ExcludeRules() []depgraph.ExcludeRule {
	return c.ownExcludeRules.Values()
}

// AllExcludeRules returns the union of the configuration's own exclude
// rules and those of every parent, recursively, deduplicated the same way
// AllDependencies is ordered. This is a natural symmetric extension of the
// own/all split the spec defines for dependencies and artifacts; the spec
// itself only names an own-exclude-rule set explicitly.
func (c *Configuration) AllExcludeRules() []depgraph.ExcludeRule {
	all := dset.New[depgraph.ExcludeRule]()
	c.collectExcludeRules(all)
	return all.Values()
}

func (c *Configuration) collectExcludeRules(into *dset.Set[depgraph.ExcludeRule]) {
	for _, r := range c.ownExcludeRules.Values() {
		into.Add(r)
	}
	for _, p := range c.parents.Values() {
		p.collectExcludeRules(into)
	}
}

// AddDefaultDependencyAction registers a callback run at the start of graph
// resolution, if and only if the own-dependency set is empty at that time
// (§4.3).
func (c *Configuration) AddDefaultDependencyAction(action func(*depgraph.DependencySet)) error {
	if err := c.validateMutation(MutationDependencies); err != nil {
		return err
	}
	c.defaultDependencyActions = append(c.defaultDependencyActions, action)
	return nil
}

func (c *Configuration) runDefaultDependencyActions() {
	if c.ownDependencies.Len() == 0 {
		for _, action := range c.defaultDependencyActions {
			action(c.ownDependencies)
		}
	}
	for _, p := range c.parents.Values() {
		p.runDefaultDependencyActions()
	}
}

// GetState reports UNRESOLVED, RESOLVED, or RESOLVED_WITH_FAILURES,
// folding in whether the cached ResolverResults carries any failure.
func (c *Configuration) GetState() ReportedState {
	if c.resolvedState == Unresolved {
		return StateUnresolved
	}
	if c.cachedResults != nil && c.cachedResults.HasError() {
		return StateResolvedWithFailures
	}
	return StateResolved
}

// ResolvedStateValue returns the raw resolvedState lattice value, mostly
// useful for tests asserting the exact point reached.
func (c *Configuration) ResolvedStateValue() ResolvedState { return c.resolvedState }

// ObservedStateValue returns the raw observedState lattice value.
func (c *Configuration) ObservedStateValue() ResolvedState { return c.observedState }

// ResolverResults returns the cached results of the most recent resolution,
// or nil if this configuration has never been resolved.
func (c *Configuration) ResolverResults() ResolverResults { return c.cachedResults }

// Dump returns a human-readable multi-line description of the
// configuration: its class name, identity, local dependencies, local
// artifacts, all dependencies, and all artifacts, mirroring the shape of
// Gradle-style Configuration.dump() output the spec names in §6.
func (c *Configuration) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Configuration %q (%s)\n", c.path, c.name)
	if c.description != "" {
		fmt.Fprintf(&b, "  description: %s\n", c.description)
	}
	fmt.Fprintf(&b, "  state: resolved=%s observed=%s canBeConsumed=%t canBeResolved=%t\n",
		c.resolvedState, c.observedState, c.canBeConsumed, c.canBeResolved)

	b.WriteString("  local dependencies:\n")
	dumpDependencies(&b, c.ownDependencies.Values())
	b.WriteString("  local artifacts:\n")
	dumpArtifacts(&b, c.ownArtifacts.Values())
	b.WriteString("  all dependencies:\n")
	dumpDependencies(&b, c.AllDependencies())
	b.WriteString("  all artifacts:\n")
	dumpArtifacts(&b, c.AllArtifacts())
	return b.String()
}

func dumpDependencies(b *strings.Builder, deps []depgraph.Dependency) {
	if len(deps) == 0 {
		b.WriteString("    (none)\n")
		return
	}
	for _, d := range deps {
		fmt.Fprintf(b, "    %s\n", d.ID())
	}
}

func dumpArtifacts(b *strings.Builder, arts []depgraph.PublishArtifact) {
	if len(arts) == 0 {
		b.WriteString("    (none)\n")
		return
	}
	for _, a := range arts {
		fmt.Fprintf(b, "    %s\n", a.ID())
	}
}
