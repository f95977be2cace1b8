// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package artifacts

import (
	"errors"
	"reflect"

	"github.com/depsconfig/depsconfig/internal/configuration"
	"github.com/depsconfig/depsconfig/internal/dattr"
	"github.com/depsconfig/depsconfig/internal/transform"
)

// RootNodeID is the synthetic root node identity artifacts and file
// dependencies attach to before being distributed across the module graph.
// It matches resolve.RootNodeID by construction (both are the zero value
// of string) so that the default GraphResolver's results line up with this
// package's walk without this package importing resolve.
const RootNodeID = ""

// ErrArtifactResolveFailure is the sentinel an external artifact's GetFile
// wraps when the artifact's file genuinely cannot be materialized (missing
// upstream, network failure, and so on). LenientView.GetArtifacts silently
// drops external artifacts whose GetFile fails with an error satisfying
// errors.Is(err, ErrArtifactResolveFailure); every other failure propagates.
var ErrArtifactResolveFailure = errors.New("artifact file could not be resolved")

// ArtifactResolveFailure wraps the underlying cause of a failed GetFile
// call so that errors.Is(err, ErrArtifactResolveFailure) succeeds while
// still preserving the original error via Unwrap.
type ArtifactResolveFailure struct {
	ArtifactID string
	Cause      error
}

func (e *ArtifactResolveFailure) Error() string {
	return "could not resolve file for artifact " + e.ArtifactID + ": " + e.Cause.Error()
}

func (e *ArtifactResolveFailure) Unwrap() error { return e.Cause }

func (e *ArtifactResolveFailure) Is(target error) bool { return target == ErrArtifactResolveFailure }

// LenientView exposes a configuration's resolved artifacts while
// tolerating missing external files, per §4.4.
type LenientView struct {
	cfg  *configuration.Configuration
	spec configuration.DependencySpec

	transforms  *transform.Registry
	targetAttrs *dattr.Snapshot
	cacheLock   configuration.CacheLockingManager
}

// NewLenientView constructs a LenientView over cfg, considering only
// dependencies (and the nodes and file-collections they originated) that
// satisfy spec. Pass configuration.SatisfyAll for the unfiltered view.
func NewLenientView(cfg *configuration.Configuration, spec configuration.DependencySpec) *LenientView {
	if spec == nil {
		spec = configuration.SatisfyAll
	}
	return &LenientView{cfg: cfg, spec: spec}
}

// WithTransforms has GetArtifacts/GetFiles consult registry to convert
// every materialized artifact toward target, per §1/§2: "A LenientView
// then walks the graph with an ArtifactVisitor that, before handing each
// artifact to the caller, consults the TransformRegistry to convert
// between declared attribute sets." An artifact already satisfying target
// (per dattr.Snapshot.Matches) is handed back untouched; one with no
// matching registration is also handed back untouched, since transforms
// apply only "on demand" where one exists.
func (v *LenientView) WithTransforms(registry *transform.Registry, target *dattr.Snapshot) *LenientView {
	v.transforms = registry
	v.targetAttrs = target
	return v
}

// WithCacheLock has every GetFile call run inside mgr.UseCache, scoped per
// artifact component, serializing concurrent disk-cache access per §5.
func (v *LenientView) WithCacheLock(mgr configuration.CacheLockingManager) *LenientView {
	v.cacheLock = mgr
	return v
}

// materialize resolves a to a concrete file path (through the cache lock,
// if one is wired) and then converts it toward targetAttrs (through the
// transform registry, if one is wired).
func (v *LenientView) materialize(a configuration.ResolvedArtifact) (string, error) {
	path, err := v.fetchFile(a)
	if err != nil {
		return "", err
	}
	return v.convert(a, path)
}

func (v *LenientView) fetchFile(a configuration.ResolvedArtifact) (string, error) {
	if v.cacheLock == nil {
		return a.GetFile()
	}
	scope := a.ComponentID
	if scope == "" {
		scope = a.ID
	}
	var path string
	err := v.cacheLock.UseCache(scope, func() error {
		var fetchErr error
		path, fetchErr = a.GetFile()
		return fetchErr
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

func (v *LenientView) convert(a configuration.ResolvedArtifact, path string) (string, error) {
	if v.transforms == nil || v.targetAttrs == nil {
		return path, nil
	}
	attrs, ok := a.Attributes.(*dattr.Snapshot)
	if !ok || attrs == nil {
		attrs = dattr.Empty
	}
	if v.targetAttrs.Matches(attrs) {
		return path, nil
	}
	fn := v.transforms.GetTransform(attrs, v.targetAttrs)
	if fn == nil {
		return path, nil
	}
	return fn(path)
}

var satisfyAllPtr = reflect.ValueOf(configuration.SatisfyAll).Pointer()

func isSatisfyAll(spec configuration.DependencySpec) bool {
	return reflect.ValueOf(spec).Pointer() == satisfyAllPtr
}

// Walk drives cfg to ARTIFACTS_RESOLVED and then visits its resolved
// artifacts and (if visitor.WantsFiles) file dependencies through visitor,
// taking the fast path when the view's spec is configuration.SatisfyAll and
// the filtered graph walk otherwise.
func (v *LenientView) Walk(visitor Visitor) error {
	if err := v.cfg.ResolveToStateOrLater(configuration.ArtifactsResolved); err != nil {
		return err
	}
	results := v.cfg.ResolverResults()
	if results == nil {
		return nil
	}

	if isSatisfyAll(v.spec) {
		v.walkFastPath(results, visitor)
		return nil
	}
	v.walkFilteredPath(results, visitor)
	return nil
}

func (v *LenientView) walkFastPath(results configuration.ResolverResults, visitor Visitor) {
	if visitor.WantsFiles && visitor.OnFiles != nil {
		for _, fd := range results.FileDependencies() {
			visitor.OnFiles("", fd.Files())
		}
	}
	if visitor.OnArtifact == nil {
		return
	}
	for _, a := range results.Artifacts(RootNodeID) {
		visitor.OnArtifact(a)
	}
	if gv, ok := results.(GraphView); ok {
		seen := map[string]bool{RootNodeID: true}
		for _, n := range gv.Nodes() {
			walkAllArtifacts(n, gv, results, visitor, seen)
		}
	}
}

func (v *LenientView) walkFilteredPath(results configuration.ResolverResults, visitor Visitor) {
	if visitor.WantsFiles && visitor.OnFiles != nil {
		for _, fd := range results.FileDependencies() {
			if v.spec(fd) {
				visitor.OnFiles("", fd.Files())
			}
		}
	}
	gv, ok := results.(GraphView)
	if !ok {
		// No graph to filter over: only the first-level file dependencies
		// visited above can be reached.
		return
	}
	seen := map[string]bool{}
	for _, n := range gv.Nodes() {
		if !v.spec(n.Dependency) {
			continue
		}
		walkNode(n, gv, results, visitor, seen)
	}
}

func walkNode(n NodeRef, gv GraphView, results configuration.ResolverResults, visitor Visitor, seen map[string]bool) {
	if seen[n.ID] {
		return
	}
	seen[n.ID] = true

	if visitor.OnArtifact != nil {
		for _, a := range results.Artifacts(n.ID) {
			visitor.OnArtifact(a)
		}
	}
	if visitor.WantsFiles && visitor.OnFiles != nil {
		for _, fd := range gv.FileDependenciesAt(n.ID) {
			visitor.OnFiles(n.ID, fd.Files())
		}
	}
	for _, next := range gv.Edges(n.ID) {
		walkNode(next, gv, results, visitor, seen)
	}
}

func walkAllArtifacts(n NodeRef, gv GraphView, results configuration.ResolverResults, visitor Visitor, seen map[string]bool) {
	if seen[n.ID] {
		return
	}
	seen[n.ID] = true
	for _, a := range results.Artifacts(n.ID) {
		visitor.OnArtifact(a)
	}
	for _, next := range gv.Edges(n.ID) {
		walkAllArtifacts(next, gv, results, visitor, seen)
	}
}

// GetArtifacts walks the view collecting every distinct resolved artifact
// (deduplicated per §4.4), applying the ignore-missing-external filter:
// an external artifact whose GetFile fails with an error satisfying
// errors.Is(err, ErrArtifactResolveFailure) is silently dropped. Any other
// GetFile failure aggregates into a single *configuration.ResolutionFailure
// under the "artifacts" context, per §7.
func (v *LenientView) GetArtifacts() ([]ResolvedFile, error) {
	visitor, collected := DeduplicatingVisitor(false)
	if err := v.Walk(visitor); err != nil {
		return nil, err
	}

	var out []ResolvedFile
	var failures []error
	for _, a := range collected.Artifacts {
		path, err := v.materialize(a)
		if err != nil {
			if a.External && errors.Is(err, ErrArtifactResolveFailure) {
				continue
			}
			failures = append(failures, err)
			continue
		}
		out = append(out, ResolvedFile{ArtifactID: a.ID, ComponentID: a.ComponentID, Path: path})
	}
	if len(failures) > 0 {
		return nil, configuration.NewResolutionFailure(v.cfg.Path(), "artifacts", failures)
	}
	return out, nil
}

// ResolvedFile is a single artifact that GetArtifacts successfully
// materialized to a concrete path.
type ResolvedFile struct {
	ArtifactID  string
	ComponentID string
	Path        string
}

// GetFiles walks the view collecting every distinct file path from both
// file-collection dependencies and resolved artifacts (deduplicated per
// §4.4's file rules), applying the same ignore-missing-external filter as
// GetArtifacts for the artifact half of the set.
func (v *LenientView) GetFiles() ([]string, error) {
	visitor, collected := DeduplicatingVisitor(true)
	if err := v.Walk(visitor); err != nil {
		return nil, err
	}

	var out []string
	var failures []error
	for _, f := range collected.Files {
		out = append(out, f.Path)
	}
	for _, a := range collected.Artifacts {
		path, err := v.materialize(a)
		if err != nil {
			if a.External && errors.Is(err, ErrArtifactResolveFailure) {
				continue
			}
			failures = append(failures, err)
			continue
		}
		out = append(out, path)
	}
	if len(failures) > 0 {
		return nil, configuration.NewResolutionFailure(v.cfg.Path(), "files", failures)
	}
	return out, nil
}
