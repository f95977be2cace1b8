// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package configuration

// ResolutionStrategy holds the handful of resolution-time switches that are
// classified as MutationStrategy changes and are therefore exempt from the
// observation gate in §4.1: changing them after a configuration has been
// observed, or even after its graph has been resolved, is allowed because
// they do not retroactively affect an already-built graph.
type ResolutionStrategy struct {
	owner *Configuration

	failOnVersionConflict                   bool
	resolveGraphToDetermineTaskDependencies bool
}

// FailOnVersionConflict enables strict version-conflict failure in the
// external Resolver. This module does not implement conflict resolution
// itself (Non-goal, §1); the flag is simply threaded through to whatever
// Resolver is wired up.
func (s *ResolutionStrategy) FailOnVersionConflict() error {
	if err := s.owner.validateMutation(MutationStrategy); err != nil {
		return err
	}
	s.failOnVersionConflict = true
	return nil
}

// FailOnVersionConflictEnabled reports whether FailOnVersionConflict has
// been called.
func (s *ResolutionStrategy) FailOnVersionConflictEnabled() bool {
	return s.failOnVersionConflict
}

// SetResolveGraphToDetermineTaskDependencies controls the build-dependency
// query in §4.3: when true, a BuildDependencies call always drives the
// pipeline to GRAPH_RESOLVED first; when false (the default), it only does
// so if the configuration has already reached GRAPH_RESOLVED, otherwise it
// uses a throwaway, uncached ResolveBuildDependencies call.
func (s *ResolutionStrategy) SetResolveGraphToDetermineTaskDependencies(v bool) error {
	if err := s.owner.validateMutation(MutationStrategy); err != nil {
		return err
	}
	s.resolveGraphToDetermineTaskDependencies = v
	return nil
}

// ResolveGraphToDetermineTaskDependencies reports the current setting.
func (s *ResolutionStrategy) ResolveGraphToDetermineTaskDependencies() bool {
	return s.resolveGraphToDetermineTaskDependencies
}
