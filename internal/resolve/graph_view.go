// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"github.com/depsconfig/depsconfig/internal/artifacts"
	"github.com/depsconfig/depsconfig/internal/depgraph"
)

var _ artifacts.GraphView = (*Results)(nil)

// Nodes returns the first-level graph nodes GraphResolver built directly
// from AllDependencies().
func (r *Results) Nodes() []artifacts.NodeRef {
	out := make([]artifacts.NodeRef, len(r.nodes))
	for i, n := range r.nodes {
		out[i] = artifacts.NodeRef{ID: n.ID, Dependency: n.Dependency}
	}
	return out
}

// Edges returns no further nodes: GraphResolver builds a flat, one-level
// graph with no transitive edges, consistent with its Non-goal of
// version-conflict resolution.
func (r *Results) Edges(nodeID string) []artifacts.NodeRef { return nil }

// FileDependenciesAt returns no node-specific file dependencies: every file
// dependency GraphResolver records is top-level, already exposed through
// Results.FileDependencies.
func (r *Results) FileDependenciesAt(nodeID string) []depgraph.FileCollectionDependency { return nil }
