// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package configuration

import (
	"fmt"
	"log"
)

// ResolveToStateOrLater drives the configuration's resolution pipeline to
// at least target, per §4.3. It holds resolutionLock for its whole
// duration, so at most one resolution is ever in flight for a given
// configuration.
func (c *Configuration) ResolveToStateOrLater(target ResolvedState) error {
	if !c.canBeResolved {
		return fmt.Errorf("configuration %q: resolution is not allowed for this configuration", c.path)
	}
	c.resolutionLock.Lock()
	defer c.resolutionLock.Unlock()

	if target == GraphResolved || target == ArtifactsResolved {
		if err := c.resolveGraphIfRequired(target); err != nil {
			return err
		}
	}
	if target == ArtifactsResolved {
		if err := c.resolveArtifactsIfRequired(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Configuration) resolveGraphIfRequired(target ResolvedState) error {
	switch c.resolvedState {
	case ArtifactsResolved:
		if c.dependenciesModified {
			return newStateMachineError(c.path, "cannot re-resolve: configuration was modified after its artifacts were resolved")
		}
		return nil
	case GraphResolved:
		if !c.dependenciesModified {
			return nil
		}
		return newStateMachineError(c.path, "cannot re-resolve: configuration was modified after its graph was resolved")
	}

	c.runBeforeResolve()
	c.runDefaultDependencyActions()

	if c.cachedResults == nil {
		c.cachedResults = c.resolver.NewResults(c)
	}
	if err := c.resolver.ResolveGraph(c, c.cachedResults); err != nil {
		// Per §5, a resolver failure that occurs before completion leaves
		// the configuration in whatever state it reached: UNRESOLVED here,
		// since resolvedState is only advanced below on success.
		return err
	}
	c.dependenciesModified = false
	c.resolvedState = GraphResolved
	log.Printf("[DEBUG] Configuration.resolveGraphIfRequired: %s reached GRAPH_RESOLVED", c.path)
	c.propagateObservation(target)
	c.runAfterResolve()
	return nil
}

func (c *Configuration) resolveArtifactsIfRequired() error {
	if c.resolvedState == ArtifactsResolved {
		return nil
	}
	if c.resolvedState != GraphResolved {
		return newStateMachineError(c.path, "cannot resolve artifacts before the graph has been resolved")
	}
	if err := c.resolver.ResolveArtifacts(c, c.cachedResults); err != nil {
		return err
	}
	c.resolvedState = ArtifactsResolved
	log.Printf("[DEBUG] Configuration.resolveArtifactsIfRequired: %s reached ARTIFACTS_RESOLVED", c.path)
	c.propagateObservation(ArtifactsResolved)
	return nil
}

func (c *Configuration) runBeforeResolve() {
	log.Printf("[DEBUG] Configuration.resolveGraphIfRequired: broadcasting beforeResolve for %s", c.path)
	c.insideBeforeResolve = true
	defer func() { c.insideBeforeResolve = false }()
	if c.listeners != nil {
		c.listeners.BroadcastBeforeResolve(c)
	}
}

func (c *Configuration) runAfterResolve() {
	if c.listeners != nil {
		c.listeners.BroadcastAfterResolve(c)
	}
}

// markAsObserved advances observedState monotonically to max(observedState,
// target) and, if that changed anything, propagates the same call upward
// to every extendsFrom parent (§4.1, "Observation propagation").
func (c *Configuration) markAsObserved(target ResolvedState) {
	c.observationLock.Lock()
	prev := c.observedState
	c.observedState = max(c.observedState, target)
	changed := c.observedState != prev
	c.observationLock.Unlock()

	if !changed {
		return
	}
	log.Printf("[DEBUG] Configuration.markAsObserved: %s observed at %s", c.path, target)
	for _, p := range c.parents.Values() {
		p.markAsObserved(target)
	}
}

// propagateObservation marks the receiver's parents observed (via
// markAsObserved) and additionally marks every project configuration
// referenced by this resolution's cached results, if a ProjectFinder is
// wired up.
func (c *Configuration) propagateObservation(target ResolvedState) {
	for _, p := range c.parents.Values() {
		p.markAsObserved(target)
	}
	if c.projectFinder == nil || c.cachedResults == nil {
		return
	}
	for _, projectPath := range c.cachedResults.ReferencedProjectPaths() {
		for _, refCfg := range c.projectFinder.ProjectConfigurations(projectPath) {
			if refCfg != c {
				refCfg.markAsObserved(target)
			}
		}
	}
}

// BuildDependencies implements the build-dependency query of §4.3.
func (c *Configuration) BuildDependencies() ([]string, error) {
	if c.strategy.ResolveGraphToDetermineTaskDependencies() {
		if err := c.ResolveToStateOrLater(GraphResolved); err != nil {
			return nil, err
		}
		return resultsBuildDependencies(c.cachedResults), nil
	}
	if c.resolvedState == Unresolved {
		scratch := c.resolver.NewResults(c)
		if err := c.resolver.ResolveBuildDependencies(c, scratch); err != nil {
			return nil, err
		}
		return resultsBuildDependencies(scratch), nil
	}
	return resultsBuildDependencies(c.cachedResults), nil
}

func resultsBuildDependencies(r ResolverResults) []string {
	if r == nil {
		return nil
	}
	return r.BuildDependencies()
}

// RethrowFailure re-raises the cached resolution's failures, if any, as a
// single aggregated *ResolutionFailure.
func (c *Configuration) RethrowFailure() error {
	if c.cachedResults == nil || !c.cachedResults.HasError() {
		return nil
	}
	return newResolutionFailure(c.path, "artifacts", c.cachedResults.Errors())
}
