// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package artifacts

import "github.com/depsconfig/depsconfig/internal/depgraph"

// NodeRef identifies one node in a resolved module graph: its graph
// identity plus the Dependency declaration it originated from, so the
// filtered walk can test dependencySpec against it.
type NodeRef struct {
	ID         string
	Dependency depgraph.Dependency
}

// GraphView is an optional capability a configuration.ResolverResults
// value may implement to support the filtered walk of §4.4. The fast path
// works against any ResolverResults; when GraphView is absent, the filtered
// path visits only the first-level file dependencies that satisfy the
// view's spec, since there is no graph to filter over. The default
// in-memory GraphResolver's results implement it as a flat, one-level graph.
type GraphView interface {
	// Nodes returns the graph's first-level nodes: those reachable directly
	// from the synthetic root by one edge.
	Nodes() []NodeRef

	// Edges returns the nodes directly reachable from nodeID by one
	// outgoing edge.
	Edges(nodeID string) []NodeRef

	// FileDependenciesAt returns the file-collection dependencies attached
	// specifically to nodeID, distinct from the top-level set exposed by
	// ResolverResults.FileDependencies.
	FileDependenciesAt(nodeID string) []depgraph.FileCollectionDependency
}
