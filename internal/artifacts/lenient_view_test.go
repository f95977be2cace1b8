// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package artifacts_test

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/zclconf/go-cty/cty"

	"github.com/depsconfig/depsconfig/internal/artifacts"
	"github.com/depsconfig/depsconfig/internal/configuration"
	"github.com/depsconfig/depsconfig/internal/dattr"
	"github.com/depsconfig/depsconfig/internal/depgraph"
	"github.com/depsconfig/depsconfig/internal/resolve"
	"github.com/depsconfig/depsconfig/internal/transform"
)

type noopListeners struct{}

func (noopListeners) AddDependencyResolutionListener(configuration.DependencyResolutionListener)    {}
func (noopListeners) RemoveDependencyResolutionListener(configuration.DependencyResolutionListener) {}
func (noopListeners) BroadcastBeforeResolve(*configuration.Configuration)                           {}
func (noopListeners) BroadcastAfterResolve(*configuration.Configuration)                            {}

func TestLenientViewFastPathCollectsArtifactsAndFiles(t *testing.T) {
	r := resolve.GraphResolver{}
	cfg := configuration.New("P", "p", r, noopListeners{})

	fileDep := depgraph.FileDependency{Name: "libs", Paths: []string{"vendor/a.jar", "vendor/b.jar"}}
	if err := cfg.AddDependency(fileDep); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}
	art := depgraph.FileArtifact{Name: "out", Path: "build/out.jar"}
	if err := cfg.AddArtifact(art); err != nil {
		t.Fatalf("AddArtifact: %v", err)
	}

	files, err := artifacts.NewFileCollection(cfg, configuration.SatisfyAll).Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	sort.Strings(files)
	want := []string{"build/out.jar", "vendor/a.jar", "vendor/b.jar"}
	if len(files) != len(want) {
		t.Fatalf("Files() = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("Files() = %v, want %v", files, want)
		}
	}

	if cfg.ResolvedStateValue() != configuration.ArtifactsResolved {
		t.Fatalf("ResolvedStateValue() = %v, want ArtifactsResolved after Files()", cfg.ResolvedStateValue())
	}
}

func TestDeduplicatingVisitorSkipsRepeatedArtifactsAndFiles(t *testing.T) {
	visitor, collected := artifacts.DeduplicatingVisitor(true)

	a := configuration.ResolvedArtifact{ID: "out", ComponentID: "comp"}
	visitor.OnArtifact(a)
	visitor.OnArtifact(a)
	visitor.OnFiles("", []string{"x.txt", "x.txt"})

	if len(collected.Artifacts) != 1 {
		t.Fatalf("collected.Artifacts = %v, want exactly one entry", collected.Artifacts)
	}
	if len(collected.Files) != 1 {
		t.Fatalf("collected.Files = %v, want exactly one entry", collected.Files)
	}
}

type fakeExternalResolver struct{}

func (fakeExternalResolver) NewResults(cfg *configuration.Configuration) configuration.ResolverResults {
	return &fakeResults{}
}
func (fakeExternalResolver) ResolveGraph(cfg *configuration.Configuration, out configuration.ResolverResults) error {
	return nil
}
func (fakeExternalResolver) ResolveArtifacts(cfg *configuration.Configuration, out configuration.ResolverResults) error {
	r := out.(*fakeResults)
	r.artifacts = []configuration.ResolvedArtifact{
		{
			ID:       "missing",
			External: true,
			GetFile: func() (string, error) {
				return "", &artifacts.ArtifactResolveFailure{ArtifactID: "missing", Cause: errors.New("404")}
			},
		},
		{
			ID: "local",
			GetFile: func() (string, error) {
				return "build/local.jar", nil
			},
		},
	}
	return nil
}
func (fakeExternalResolver) ResolveBuildDependencies(cfg *configuration.Configuration, out configuration.ResolverResults) error {
	return nil
}

type fakeResults struct {
	artifacts []configuration.ResolvedArtifact
}

func (r *fakeResults) HasError() bool                                        { return false }
func (r *fakeResults) Errors() []error                                       { return nil }
func (r *fakeResults) ResolvedComponents() any                               { return nil }
func (r *fakeResults) Artifacts(nodeID string) []configuration.ResolvedArtifact {
	if nodeID != artifacts.RootNodeID {
		return nil
	}
	return r.artifacts
}
func (r *fakeResults) FileDependencies() []depgraph.FileCollectionDependency { return nil }
func (r *fakeResults) BuildDependencies() []string                          { return nil }
func (r *fakeResults) ReferencedProjectPaths() []string                     { return nil }

func TestLenientViewIgnoresMissingExternalArtifact(t *testing.T) {
	cfg := configuration.New("P", "p", fakeExternalResolver{}, noopListeners{})

	got, err := artifacts.NewLenientView(cfg, configuration.SatisfyAll).GetArtifacts()
	if err != nil {
		t.Fatalf("GetArtifacts: %v", err)
	}
	if len(got) != 1 || got[0].ArtifactID != "local" {
		t.Fatalf("GetArtifacts() = %+v, want only the local artifact", got)
	}
}

func TestLenientViewPropagatesNonExternalFailure(t *testing.T) {
	r := resolve.GraphResolver{}
	cfg := configuration.New("P", "p", r, noopListeners{})
	// A local (non-external) artifact whose declared file path is empty
	// triggers GetFile's "declares no files" error, which must not be
	// filtered since it is not external.
	art := depgraph.FileArtifact{Name: "broken"}
	_ = cfg.AddArtifact(art)

	_, err := artifacts.NewLenientView(cfg, configuration.SatisfyAll).GetArtifacts()
	if err == nil {
		t.Fatal("expected a propagated resolution failure for the local artifact")
	}
}

func TestLenientViewWithTransformsConvertsArtifact(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "out.aar")
	if err := os.WriteFile(srcPath, []byte("payload"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := resolve.GraphResolver{}
	cfg := configuration.New("P", "p", r, noopListeners{})
	if err := cfg.AddArtifact(depgraph.FileArtifact{Name: "out", Path: srcPath}); err != nil {
		t.Fatalf("AddArtifact: %v", err)
	}

	jarAttrs := attrSnapshot(t, resolve.ExtensionAttribute, cty.StringVal("jar"))
	registry := transform.NewRegistry()
	registry.Register(&transform.CopyTransform{
		TransformName: "aar-to-jar",
		From:          dattr.Empty,
		To:            jarAttrs,
		OutputDir:     dir,
		OutputExt:     ".jar",
	})

	view := artifacts.NewLenientView(cfg, configuration.SatisfyAll).WithTransforms(registry, jarAttrs)
	got, err := view.GetArtifacts()
	if err != nil {
		t.Fatalf("GetArtifacts: %v", err)
	}
	if len(got) != 1 || filepath.Ext(got[0].Path) != ".jar" {
		t.Fatalf("GetArtifacts() = %+v, want a single converted .jar artifact", got)
	}
	if _, err := os.Stat(got[0].Path); err != nil {
		t.Fatalf("expected converted file to exist: %v", err)
	}
}

func TestLenientViewWithTransformsLeavesMatchingArtifactAlone(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "out.jar")
	if err := os.WriteFile(srcPath, []byte("payload"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := resolve.GraphResolver{}
	cfg := configuration.New("P", "p", r, noopListeners{})
	if err := cfg.AddArtifact(depgraph.FileArtifact{Name: "out", Path: srcPath}); err != nil {
		t.Fatalf("AddArtifact: %v", err)
	}

	jarAttrs := attrSnapshot(t, resolve.ExtensionAttribute, cty.StringVal("jar"))
	registry := transform.NewRegistry()
	registry.Register(&transform.CopyTransform{
		TransformName: "aar-to-jar",
		From:          dattr.Empty,
		To:            jarAttrs,
		OutputDir:     dir,
		OutputExt:     ".jar",
	})

	view := artifacts.NewLenientView(cfg, configuration.SatisfyAll).WithTransforms(registry, jarAttrs)
	got, err := view.GetArtifacts()
	if err != nil {
		t.Fatalf("GetArtifacts: %v", err)
	}
	if len(got) != 1 || got[0].Path != srcPath {
		t.Fatalf("GetArtifacts() = %+v, want the original .jar path untouched", got)
	}
}

type spyCacheLock struct {
	calls []string
}

func (s *spyCacheLock) UseCache(scope string, action func() error) error {
	s.calls = append(s.calls, scope)
	return action()
}

func TestLenientViewWithCacheLockWrapsGetFile(t *testing.T) {
	r := resolve.GraphResolver{}
	cfg := configuration.New("P", "p", r, noopListeners{})
	if err := cfg.AddArtifact(depgraph.FileArtifact{Name: "out", Path: "build/out.jar"}); err != nil {
		t.Fatalf("AddArtifact: %v", err)
	}

	lock := &spyCacheLock{}
	got, err := artifacts.NewLenientView(cfg, configuration.SatisfyAll).WithCacheLock(lock).GetArtifacts()
	if err != nil {
		t.Fatalf("GetArtifacts: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("GetArtifacts() = %+v, want exactly one artifact", got)
	}
	if len(lock.calls) != 1 || lock.calls[0] != "out" {
		t.Fatalf("cache lock calls = %v, want a single call scoped to %q", lock.calls, "out")
	}
}

func attrSnapshot(t *testing.T, attr dattr.Attribute, val cty.Value) *dattr.Snapshot {
	t.Helper()
	c := dattr.NewContainer()
	if err := c.Set(attr, val); err != nil {
		t.Fatalf("Set: %v", err)
	}
	return c.AsImmutable()
}
