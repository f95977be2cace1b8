// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package configuration

import (
	"encoding/json"
	"fmt"
	"io"

	uuid "github.com/hashicorp/go-uuid"

	"github.com/depsconfig/depsconfig/internal/depgraph"
)

// ModuleDependencyDescriptor declares one ModuleDependency in a
// Descriptor's JSON form.
type ModuleDependencyDescriptor struct {
	Group   string `json:"group"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// FileDependencyDescriptor declares one depgraph.FileDependency.
type FileDependencyDescriptor struct {
	Name         string   `json:"name"`
	Paths        []string `json:"paths"`
	BuildTargets []string `json:"buildTargets,omitempty"`
}

// ArtifactDescriptor declares one depgraph.FileArtifact.
type ArtifactDescriptor struct {
	Name         string   `json:"name"`
	Path         string   `json:"path"`
	BuildTargets []string `json:"buildTargets,omitempty"`
}

// Descriptor is the declarative, file-based description this module's
// inspection CLI loads a Configuration from: a thin JSON rendering of the
// own-dependency, own-file-dependency, and own-artifact sets a caller would
// otherwise build up through AddDependency/AddArtifact calls.
type Descriptor struct {
	Path              string                       `json:"path"`
	Name              string                       `json:"name"`
	Description       string                       `json:"description,omitempty"`
	Dependencies      []ModuleDependencyDescriptor `json:"dependencies,omitempty"`
	FileDependencies  []FileDependencyDescriptor   `json:"fileDependencies,omitempty"`
	Artifacts         []ArtifactDescriptor         `json:"artifacts,omitempty"`
	ExtendsFromPaths  []string                     `json:"extendsFrom,omitempty"`
}

// ReadDescriptors parses a JSON array of Descriptor values from r.
func ReadDescriptors(r io.Reader) ([]Descriptor, error) {
	var out []Descriptor
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding configuration descriptors: %w", err)
	}
	return out, nil
}

// BuildConfigurations materializes one Configuration per descriptor, wiring
// resolver and listeners, applying each descriptor's extendsFrom
// references (which may name any descriptor's path in the input, earlier or
// later), and returns them in the order they were declared.
func BuildConfigurations(descriptors []Descriptor, resolver Resolver, listeners ListenerManager) ([]*Configuration, error) {
	byPath := make(map[string]*Configuration, len(descriptors))
	out := make([]*Configuration, 0, len(descriptors))

	for _, d := range descriptors {
		cfg := New(d.Path, d.Name, resolver, listeners)
		if d.Description != "" {
			if err := cfg.SetDescription(d.Description); err != nil {
				return nil, err
			}
		}
		for _, dep := range d.Dependencies {
			md, err := depgraph.NewModuleDependency(dep.Group, dep.Name, dep.Version)
			if err != nil {
				return nil, fmt.Errorf("configuration %q: %w", d.Path, err)
			}
			if err := cfg.AddDependency(md); err != nil {
				return nil, err
			}
		}
		for _, fd := range d.FileDependencies {
			name, err := nameOrGenerated(fd.Name)
			if err != nil {
				return nil, fmt.Errorf("configuration %q: %w", d.Path, err)
			}
			if err := cfg.AddDependency(depgraph.FileDependency{Name: name, Paths: fd.Paths, BuildTargets: fd.BuildTargets}); err != nil {
				return nil, err
			}
		}
		for _, a := range d.Artifacts {
			name, err := nameOrGenerated(a.Name)
			if err != nil {
				return nil, fmt.Errorf("configuration %q: %w", d.Path, err)
			}
			if err := cfg.AddArtifact(depgraph.FileArtifact{Name: name, Path: a.Path, BuildTargets: a.BuildTargets}); err != nil {
				return nil, err
			}
		}
		byPath[d.Path] = cfg
		out = append(out, cfg)
	}

	for _, d := range descriptors {
		if len(d.ExtendsFromPaths) == 0 {
			continue
		}
		cfg := byPath[d.Path]
		parents := make([]*Configuration, 0, len(d.ExtendsFromPaths))
		for _, p := range d.ExtendsFromPaths {
			parent, ok := byPath[p]
			if !ok {
				return nil, fmt.Errorf("configuration %q: extendsFrom unknown path %q", d.Path, p)
			}
			parents = append(parents, parent)
		}
		if err := cfg.ExtendsFrom(parents...); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// nameOrGenerated returns name unchanged, or a freshly generated UUID if
// name is blank. A FileDependency or FileArtifact with no declared name
// would otherwise collide on the empty ID in the owning set, silently
// discarding every such entry but the last.
func nameOrGenerated(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", fmt.Errorf("generating identifier: %w", err)
	}
	return id, nil
}
