// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package configuration

import "github.com/depsconfig/depsconfig/internal/depgraph"

// Resolver is the external collaborator that actually builds the module
// graph, resolves artifacts, and determines build-time task dependencies.
// Repository access, network I/O, and conflict resolution all live behind
// this interface; this package only drives it through the lifecycle in
// §4.3 and caches what it returns.
type Resolver interface {
	// ResolveBuildDependencies populates outResults with local-component
	// build-dependency information only; it must not populate the module
	// graph or artifacts.
	ResolveBuildDependencies(cfg *Configuration, outResults ResolverResults) error

	// ResolveGraph populates outResults with the module graph and local
	// components.
	ResolveGraph(cfg *Configuration, outResults ResolverResults) error

	// ResolveArtifacts populates outResults with resolved artifacts, keyed
	// by node id. The graph must already be resolved.
	ResolveArtifacts(cfg *Configuration, outResults ResolverResults) error

	// NewResults constructs a fresh, empty ResolverResults for cfg. Kept on
	// the Resolver (rather than a free function) so that a Resolver
	// implementation can choose its own concrete ResolverResults type.
	NewResults(cfg *Configuration) ResolverResults
}

// ResolverResults is produced by a Resolver and consumed by Configuration,
// the lenient view, and the file-collection view.
type ResolverResults interface {
	// HasError reports whether this resolution recorded any failure.
	HasError() bool

	// Errors returns every failure recorded during this resolution, in the
	// order they were recorded.
	Errors() []error

	// ResolvedComponents exposes whatever the Resolver populated as the
	// resolved module graph's components - kept untyped (any) here because
	// the shape of a "module graph node" is entirely up to the Resolver
	// implementation; this package never interprets it, only passes it
	// through to callers via Configuration.ResolverResults.
	ResolvedComponents() any

	// Artifacts returns the artifacts resolved for the given node id.
	// Called by the lenient view while walking the graph.
	Artifacts(nodeID string) []ResolvedArtifact

	// FileDependencies returns the first-level file-collection
	// dependencies recorded during graph resolution.
	FileDependencies() []depgraph.FileCollectionDependency

	// BuildDependencies returns the task names collected from both
	// resolved local components and file dependencies, per §4.3's
	// build-dependency query.
	BuildDependencies() []string

	// ReferencedProjectPaths returns the project paths whose configurations
	// were consumed while producing this resolution, so that
	// Configuration.propagateObservation can mark them observed alongside
	// extendsFrom parents.
	ReferencedProjectPaths() []string
}

// ResolvedArtifact is a single artifact as it comes back from a Resolver:
// either a concrete local file, or an external-module artifact whose file
// is obtained lazily and may fail (see the lenient ignore-missing filter in
// §4.4).
type ResolvedArtifact struct {
	// ID identifies this artifact for the deduplication rules in §4.4.
	ID string

	// ComponentID identifies the owning module/component, if any. Empty
	// for artifacts with no owning component (e.g. raw file artifacts).
	ComponentID string

	// External is true if this artifact belongs to an external module
	// rather than a local one. Only external artifacts are eligible for
	// the lenient ignore-missing filter.
	External bool

	// Attributes describes the artifact's declared format, for transform
	// matching.
	Attributes AttributeSnapshot

	// GetFile resolves the artifact to a concrete file path. It may fail;
	// for external artifacts, an error satisfying errors.Is(err,
	// artifacts.ErrArtifactResolveFailure) is eligible to be silently dropped by the
	// lenient filter.
	GetFile func() (string, error)
}

// AttributeSnapshot is the subset of *dattr.Snapshot this package's public
// interfaces need, expressed narrowly here to avoid every external
// collaborator importing the dattr package just to implement ResolverResults.
type AttributeSnapshot interface {
	Len() int
}

// DependencyResolutionListener receives beforeResolve/afterResolve
// callbacks, broadcast once per graph resolution.
type DependencyResolutionListener interface {
	BeforeResolve(incoming *Configuration)
	AfterResolve(incoming *Configuration)
}

// ListenerManager provides the anonymous broadcaster Configuration uses to
// fan out beforeResolve/afterResolve to every registered
// DependencyResolutionListener.
type ListenerManager interface {
	AddDependencyResolutionListener(l DependencyResolutionListener)
	RemoveDependencyResolutionListener(l DependencyResolutionListener)
	BroadcastBeforeResolve(incoming *Configuration)
	BroadcastAfterResolve(incoming *Configuration)
}

// ProjectFinder resolves a project path to the set of configurations
// belonging to that project, so that referenced-project configurations can
// be marked observed alongside local parents (§4.1, "Observation
// propagation").
type ProjectFinder interface {
	ProjectConfigurations(projectPath string) []*Configuration
}

// CacheLockingManager is the external collaborator named in §5 that
// serializes access to whatever on-disk cache an artifact's GetFile call
// materializes into: "calls that read artifact.getFile() must run inside
// useCache(scope, action) to serialize disk cache access." Declared here
// rather than in the resolve or artifacts package so that both can depend
// on the same interface without importing each other.
type CacheLockingManager interface {
	// UseCache runs action while holding the cache lock for scope. scope
	// lets callers serialize only within one cache area (for example, one
	// per artifact repository) rather than globally.
	UseCache(scope string, action func() error) error
}
