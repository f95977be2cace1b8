// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package configuration

// ResolvedState is a point in the two-phase resolution lattice
// UNRESOLVED -> GRAPH_RESOLVED -> ARTIFACTS_RESOLVED. Both Configuration's
// resolvedState and its observedState live in this lattice; observedState
// additionally uses it to track how far a resolution that consumed this
// configuration got.
type ResolvedState int

const (
	// Unresolved is the initial state: nothing has driven this
	// configuration's resolver yet.
	Unresolved ResolvedState = iota
	// GraphResolved means the module graph and local components have been
	// populated.
	GraphResolved
	// ArtifactsResolved means concrete artifact files have additionally
	// been populated.
	ArtifactsResolved
)

func (s ResolvedState) String() string {
	switch s {
	case Unresolved:
		return "UNRESOLVED"
	case GraphResolved:
		return "GRAPH_RESOLVED"
	case ArtifactsResolved:
		return "ARTIFACTS_RESOLVED"
	default:
		return "UNKNOWN"
	}
}

// ReportedState is the state reported to callers by Configuration.GetState,
// which folds in whether the cached resolution carries any failures.
type ReportedState int

const (
	// StateUnresolved mirrors Unresolved.
	StateUnresolved ReportedState = iota
	// StateResolved means the configuration resolved (to at least
	// GraphResolved) with no recorded failures.
	StateResolved
	// StateResolvedWithFailures means the graph resolved but the cached
	// ResolverResults carries at least one failure.
	StateResolvedWithFailures
)

func (s ReportedState) String() string {
	switch s {
	case StateUnresolved:
		return "UNRESOLVED"
	case StateResolved:
		return "RESOLVED"
	case StateResolvedWithFailures:
		return "RESOLVED_WITH_FAILURES"
	default:
		return "UNKNOWN"
	}
}

// max returns the greater of two ResolvedState values, used to make
// observation monotonic: observedState = max(observedState, requested).
func max(a, b ResolvedState) ResolvedState {
	if a > b {
		return a
	}
	return b
}
