// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/depsconfig/depsconfig/internal/configuration"
	"github.com/depsconfig/depsconfig/internal/dattr"
	"github.com/depsconfig/depsconfig/internal/depgraph"
	"github.com/depsconfig/depsconfig/internal/dset"
)

// ExtensionAttribute is the attribute ResolvedArtifactFor derives from an
// artifact's first file, matching §4.5's own "extension=aar" example of an
// attribute transforms match against.
var ExtensionAttribute = dattr.Of("extension", cty.String)

// RootNodeID is the synthetic root node identity artifacts and file
// dependencies attach to before being distributed across the module graph,
// matching the "incoming-edge artifacts from the synthetic root" framing of
// the lenient artifact walk.
const RootNodeID = ""

// GraphResolver is the module's default, in-memory Resolver: it builds a
// flat module graph directly from each configuration's AllDependencies(),
// with no version-conflict resolution of its own (that remains the job of
// whatever real Resolver a consumer wires up in its place).
type GraphResolver struct{}

var _ configuration.Resolver = GraphResolver{}

// NewResults constructs a fresh, empty Results for cfg.
func (GraphResolver) NewResults(cfg *configuration.Configuration) configuration.ResolverResults {
	return newResults()
}

// ResolveGraph builds one GraphNode per entry in cfg.AllDependencies(),
// each with a direct edge from RootNodeID, and records every
// FileCollectionDependency encountered for later file-dependency queries.
func (GraphResolver) ResolveGraph(cfg *configuration.Configuration, outResults configuration.ResolverResults) error {
	r, ok := outResults.(*Results)
	if !ok {
		return fmt.Errorf("depsconfig/resolve: GraphResolver requires a *resolve.Results, got %T", outResults)
	}
	for _, dep := range cfg.AllDependencies() {
		r.nodes = append(r.nodes, GraphNode{ID: dep.ID(), Dependency: dep, OwnerPath: cfg.Path()})
		if fcd, ok := dep.(depgraph.FileCollectionDependency); ok {
			r.fileDeps = append(r.fileDeps, fcd)
		}
	}
	return nil
}

// ResolveArtifacts resolves cfg's own and inherited PublishArtifact set into
// ResolvedArtifact values attached to RootNodeID. Every artifact this
// resolver produces is local (External: false): fetching artifacts for
// external module dependencies is outside what an in-memory, no-network
// reference resolver can do.
func (GraphResolver) ResolveArtifacts(cfg *configuration.Configuration, outResults configuration.ResolverResults) error {
	r, ok := outResults.(*Results)
	if !ok {
		return fmt.Errorf("depsconfig/resolve: GraphResolver requires a *resolve.Results, got %T", outResults)
	}
	artifacts := cfg.AllArtifacts()
	resolved := make([]configuration.ResolvedArtifact, 0, len(artifacts))
	for _, a := range artifacts {
		resolved = append(resolved, ResolvedArtifactFor(a))
	}
	r.artifactsByNode[RootNodeID] = resolved
	r.buildDeps = collectBuildDependencies(artifacts, r.fileDeps)
	return nil
}

// ResolveBuildDependencies populates outResults with build-dependency
// information derived only from cfg's own declarations, without touching
// the module graph or resolved artifacts, per the Resolver contract.
func (GraphResolver) ResolveBuildDependencies(cfg *configuration.Configuration, outResults configuration.ResolverResults) error {
	r, ok := outResults.(*Results)
	if !ok {
		return fmt.Errorf("depsconfig/resolve: GraphResolver requires a *resolve.Results, got %T", outResults)
	}
	var fileDeps []depgraph.FileCollectionDependency
	for _, dep := range cfg.Dependencies() {
		if fcd, ok := dep.(depgraph.FileCollectionDependency); ok {
			fileDeps = append(fileDeps, fcd)
		}
	}
	r.buildDeps = collectBuildDependencies(cfg.Artifacts(), fileDeps)
	return nil
}

// ResolvedArtifactFor adapts a depgraph.PublishArtifact into the
// configuration package's ResolvedArtifact shape, resolving GetFile to the
// artifact's first declared file path and Attributes to that file's
// extension, so that a wired transform.Registry has something real to
// match against.
func ResolvedArtifactFor(a depgraph.PublishArtifact) configuration.ResolvedArtifact {
	files := a.Files()
	return configuration.ResolvedArtifact{
		ID:         a.ID(),
		External:   false,
		Attributes: extensionSnapshot(files),
		GetFile: func() (string, error) {
			if len(files) == 0 {
				return "", fmt.Errorf("artifact %q declares no files", a.ID())
			}
			return files[0], nil
		},
	}
}

// extensionSnapshot derives a *dattr.Snapshot carrying ExtensionAttribute
// from the first of files, or dattr.Empty if there is no file or it has no
// extension.
func extensionSnapshot(files []string) *dattr.Snapshot {
	if len(files) == 0 {
		return dattr.Empty
	}
	ext := strings.TrimPrefix(filepath.Ext(files[0]), ".")
	if ext == "" {
		return dattr.Empty
	}
	c := dattr.NewContainer()
	if err := c.Set(ExtensionAttribute, cty.StringVal(ext)); err != nil {
		return dattr.Empty
	}
	return c.AsImmutable()
}

func collectBuildDependencies(artifacts []depgraph.PublishArtifact, fileDeps []depgraph.FileCollectionDependency) []string {
	seen := dset.New[string]()
	for _, a := range artifacts {
		for _, task := range a.BuildDependencies() {
			seen.Add(task)
		}
	}
	for _, fd := range fileDeps {
		for _, task := range fd.BuildDependencies() {
			seen.Add(task)
		}
	}
	return seen.Values()
}
