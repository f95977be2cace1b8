// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package depgraph

import "github.com/depsconfig/depsconfig/internal/dset"

// DependencySet is an insertion-ordered collection of Dependency values
// deduplicated by ID, used for a Configuration's own-dependency set.
type DependencySet struct {
	order []string
	byID  map[string]Dependency
}

// NewDependencySet returns an empty DependencySet.
func NewDependencySet() *DependencySet {
	return &DependencySet{byID: make(map[string]Dependency)}
}

// Add inserts d, or replaces the existing entry with the same ID in place.
// It returns true if this ID was not already present.
func (s *DependencySet) Add(d Dependency) bool {
	if s.byID == nil {
		s.byID = make(map[string]Dependency)
	}
	_, existed := s.byID[d.ID()]
	s.byID[d.ID()] = d
	if !existed {
		s.order = append(s.order, d.ID())
	}
	return !existed
}

// Remove deletes the dependency with the given ID, if present.
func (s *DependencySet) Remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, existingID := range s.order {
		if existingID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of dependencies in the set.
func (s *DependencySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Values returns the set's Dependency values in insertion order.
func (s *DependencySet) Values() []Dependency {
	if s == nil {
		return nil
	}
	out := make([]Dependency, len(s.order))
	for i, id := range s.order {
		out[i] = s.byID[id]
	}
	return out
}

// Copy returns an independent DependencySet holding Copy() of every
// dependency in the receiver, in the same order.
func (s *DependencySet) Copy() *DependencySet {
	out := NewDependencySet()
	for _, id := range s.order {
		d := s.byID[id].Copy()
		out.byID[d.ID()] = d
		out.order = append(out.order, d.ID())
	}
	return out
}

// ArtifactSet is an insertion-ordered collection of PublishArtifact values
// deduplicated by ID, used for a Configuration's own-artifact set.
type ArtifactSet struct {
	order []string
	byID  map[string]PublishArtifact
}

// NewArtifactSet returns an empty ArtifactSet.
func NewArtifactSet() *ArtifactSet {
	return &ArtifactSet{byID: make(map[string]PublishArtifact)}
}

// Add inserts a, or replaces the existing entry with the same ID in place.
// It returns true if this ID was not already present.
func (s *ArtifactSet) Add(a PublishArtifact) bool {
	if s.byID == nil {
		s.byID = make(map[string]PublishArtifact)
	}
	_, existed := s.byID[a.ID()]
	s.byID[a.ID()] = a
	if !existed {
		s.order = append(s.order, a.ID())
	}
	return !existed
}

// Remove deletes the artifact with the given ID, if present.
func (s *ArtifactSet) Remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, existingID := range s.order {
		if existingID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of artifacts in the set.
func (s *ArtifactSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Values returns the set's PublishArtifact values in insertion order.
func (s *ArtifactSet) Values() []PublishArtifact {
	if s == nil {
		return nil
	}
	out := make([]PublishArtifact, len(s.order))
	for i, id := range s.order {
		out[i] = s.byID[id]
	}
	return out
}

// Copy returns an independent ArtifactSet holding Copy() of every artifact
// in the receiver, in the same order.
func (s *ArtifactSet) Copy() *ArtifactSet {
	out := NewArtifactSet()
	for _, id := range s.order {
		a := s.byID[id].Copy()
		out.byID[a.ID()] = a
		out.order = append(out.order, a.ID())
	}
	return out
}

// ExcludeRuleSet is an insertion-ordered, deduplicated collection of
// ExcludeRule values.
type ExcludeRuleSet = dset.Set[ExcludeRule]

// NewExcludeRuleSet returns an empty ExcludeRuleSet.
func NewExcludeRuleSet() *ExcludeRuleSet {
	return dset.New[ExcludeRule]()
}
