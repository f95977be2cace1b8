// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"sort"
	"testing"

	"github.com/depsconfig/depsconfig/internal/configuration"
	"github.com/depsconfig/depsconfig/internal/dattr"
	"github.com/depsconfig/depsconfig/internal/depgraph"
)

type fakeListeners struct{}

func (fakeListeners) AddDependencyResolutionListener(configuration.DependencyResolutionListener)    {}
func (fakeListeners) RemoveDependencyResolutionListener(configuration.DependencyResolutionListener) {}
func (fakeListeners) BroadcastBeforeResolve(*configuration.Configuration)                           {}
func (fakeListeners) BroadcastAfterResolve(*configuration.Configuration)                            {}

func TestGraphResolverBuildsNodesAndArtifacts(t *testing.T) {
	r := GraphResolver{}
	cfg := configuration.New("P", "p", r, fakeListeners{})

	dep, _ := depgraph.NewModuleDependency("g", "m", "")
	if err := cfg.AddDependency(dep); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}
	art := depgraph.FileArtifact{Name: "out", Path: "build/out.jar", BuildTargets: []string{"compile"}}
	if err := cfg.AddArtifact(art); err != nil {
		t.Fatalf("AddArtifact: %v", err)
	}

	if err := cfg.ResolveToStateOrLater(configuration.ArtifactsResolved); err != nil {
		t.Fatalf("ResolveToStateOrLater: %v", err)
	}

	results := cfg.ResolverResults().(*Results)
	if len(results.nodes) != 1 || results.nodes[0].ID != dep.ID() {
		t.Fatalf("nodes = %+v, want one node for %s", results.nodes, dep.ID())
	}

	artifacts := results.Artifacts(RootNodeID)
	if len(artifacts) != 1 || artifacts[0].ID != "out" {
		t.Fatalf("Artifacts(root) = %+v, want [out]", artifacts)
	}
	file, err := artifacts[0].GetFile()
	if err != nil || file != "build/out.jar" {
		t.Fatalf("GetFile() = (%q, %v), want (build/out.jar, nil)", file, err)
	}

	buildDeps := results.BuildDependencies()
	sort.Strings(buildDeps)
	if len(buildDeps) != 1 || buildDeps[0] != "compile" {
		t.Fatalf("BuildDependencies() = %v, want [compile]", buildDeps)
	}
}

func TestResolveBuildDependenciesDoesNotTouchGraphOrArtifacts(t *testing.T) {
	r := GraphResolver{}
	cfg := configuration.New("P", "p", r, fakeListeners{})
	art := depgraph.FileArtifact{Name: "out", BuildTargets: []string{"compile"}}
	_ = cfg.AddArtifact(art)

	deps, err := cfg.BuildDependencies()
	if err != nil {
		t.Fatalf("BuildDependencies: %v", err)
	}
	if len(deps) != 1 || deps[0] != "compile" {
		t.Fatalf("BuildDependencies() = %v, want [compile]", deps)
	}
	if cfg.ResolvedStateValue() != configuration.Unresolved {
		t.Fatalf("ResolvedStateValue() = %v, want Unresolved: ResolveBuildDependencies must not drive the graph resolve",
			cfg.ResolvedStateValue())
	}
}

func TestCacheLockingManagerSerializesByScope(t *testing.T) {
	m := NewDefaultCacheLockingManager()
	var order []string
	done := make(chan struct{})
	go func() {
		_ = m.UseCache("scope-a", func() error {
			order = append(order, "a-start")
			order = append(order, "a-end")
			return nil
		})
		close(done)
	}()
	<-done
	if err := m.UseCache("scope-a", func() error {
		order = append(order, "a-again")
		return nil
	}); err != nil {
		t.Fatalf("UseCache: %v", err)
	}
	if len(order) != 3 || order[2] != "a-again" {
		t.Fatalf("order = %v, want calls to run serially within one scope", order)
	}
}

func TestResolvedArtifactForDerivesExtensionAttribute(t *testing.T) {
	ra := ResolvedArtifactFor(depgraph.FileArtifact{Name: "out", Path: "build/out.aar"})
	snap, ok := ra.Attributes.(*dattr.Snapshot)
	if !ok {
		t.Fatalf("Attributes = %T, want *dattr.Snapshot", ra.Attributes)
	}
	got, ok := snap.Get(ExtensionAttribute)
	if !ok || got.AsString() != "aar" {
		t.Fatalf("extension attribute = %v, %v, want \"aar\", true", got, ok)
	}
}

func TestResolvedArtifactForHasNoExtensionAttributeWhenFileHasNoExtension(t *testing.T) {
	ra := ResolvedArtifactFor(depgraph.FileArtifact{Name: "out", Path: "build/out"})
	if ra.Attributes.(*dattr.Snapshot) != dattr.Empty {
		t.Fatalf("Attributes = %v, want the shared dattr.Empty snapshot", ra.Attributes)
	}
}
