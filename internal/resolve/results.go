// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package resolve provides a minimal in-memory implementation of the
// configuration package's Resolver and ResolverResults interfaces, grounded
// on the way internal/getproviders.MemoizeSource memoizes an underlying
// source's responses per-key under a dedicated mutex. It exists so that
// this module is runnable standalone, not as a replacement for a real
// module-graph resolver: version-conflict resolution is out of scope for
// this module.
package resolve

import (
	"github.com/depsconfig/depsconfig/internal/configuration"
	"github.com/depsconfig/depsconfig/internal/depgraph"
)

// GraphNode is a single entry in the module graph built by GraphResolver:
// one dependency's identity plus the configuration it was declared by.
type GraphNode struct {
	ID         string
	Dependency depgraph.Dependency
	OwnerPath  string
}

// Results is the default ResolverResults implementation populated by
// GraphResolver. It is safe for the same concurrency discipline the
// configuration package itself assumes: at most one resolution is ever in
// flight for the Configuration that owns it, guarded by resolutionLock.
type Results struct {
	errs []error

	nodes            []GraphNode
	fileDeps         []depgraph.FileCollectionDependency
	artifactsByNode  map[string][]configuration.ResolvedArtifact
	buildDeps        []string
	referencedPaths  []string
}

var _ configuration.ResolverResults = (*Results)(nil)

func newResults() *Results {
	return &Results{
		artifactsByNode: make(map[string][]configuration.ResolvedArtifact),
	}
}

// HasError reports whether any failure was recorded during resolution.
func (r *Results) HasError() bool { return len(r.errs) > 0 }

// Errors returns every failure recorded during resolution, in recording
// order.
func (r *Results) Errors() []error { return r.errs }

// ResolvedComponents exposes the graph nodes built by GraphResolver.
func (r *Results) ResolvedComponents() any { return r.nodes }

// Artifacts returns the artifacts resolved for the given node id.
func (r *Results) Artifacts(nodeID string) []configuration.ResolvedArtifact {
	return r.artifactsByNode[nodeID]
}

// FileDependencies returns the first-level file-collection dependencies
// recorded during graph resolution.
func (r *Results) FileDependencies() []depgraph.FileCollectionDependency {
	return r.fileDeps
}

// BuildDependencies returns the task names collected from resolved local
// components and file dependencies.
func (r *Results) BuildDependencies() []string { return r.buildDeps }

// ReferencedProjectPaths returns the project paths consumed while producing
// this resolution.
func (r *Results) ReferencedProjectPaths() []string { return r.referencedPaths }

func (r *Results) addError(err error) {
	if err != nil {
		r.errs = append(r.errs, err)
	}
}
