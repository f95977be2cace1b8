// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package artifacts

import "github.com/depsconfig/depsconfig/internal/configuration"

// FileCollection is the lazy file-collection view of §4.7: requesting its
// file set drives the owning configuration to ARTIFACTS_RESOLVED (under
// that configuration's resolutionLock, via ResolveToStateOrLater) and then
// returns the lenient view's deduplicated file set for the same spec.
type FileCollection struct {
	cfg  *configuration.Configuration
	spec configuration.DependencySpec
}

// NewFileCollection constructs a FileCollection over cfg, filtered by spec.
// Pass configuration.SatisfyAll for the unfiltered collection.
func NewFileCollection(cfg *configuration.Configuration, spec configuration.DependencySpec) *FileCollection {
	if spec == nil {
		spec = configuration.SatisfyAll
	}
	return &FileCollection{cfg: cfg, spec: spec}
}

// Files drives resolution to ARTIFACTS_RESOLVED and returns the
// deduplicated file set for this collection's spec.
func (f *FileCollection) Files() ([]string, error) {
	return NewLenientView(f.cfg, f.spec).GetFiles()
}

// BuildDependencies forwards to the owning configuration's build-dependency
// query (§4.3).
func (f *FileCollection) BuildDependencies() ([]string, error) {
	return f.cfg.BuildDependencies()
}
