// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package artifacts implements the lenient artifact view and its graph
// walk: dynamic dispatch over a single Visitor variant rather than a
// hierarchy of visitor base classes, per the "Dynamic dispatch over
// visitors" design note. The file-collecting, artifacts-collecting, and
// deduplicating behaviors are three constructors of the same Visitor type.
package artifacts

import (
	"path/filepath"

	"github.com/depsconfig/depsconfig/internal/configuration"
)

// Visitor receives callbacks while a LenientView walk is in progress.
// OnArtifact fires once per visited resolved artifact; OnFiles fires once
// per visited file-collection, with componentID empty when the files did
// not originate from a graph node. WantsFiles controls whether the walk
// bothers visiting file dependencies at all.
type Visitor struct {
	OnArtifact func(a configuration.ResolvedArtifact)
	OnFiles    func(componentID string, files []string)
	WantsFiles bool
}

// ArtifactsOnlyVisitor builds a Visitor that ignores file dependencies
// entirely and forwards every visited artifact to onArtifact.
func ArtifactsOnlyVisitor(onArtifact func(a configuration.ResolvedArtifact)) Visitor {
	return Visitor{OnArtifact: onArtifact, WantsFiles: false}
}

// FilesOnlyVisitor builds a Visitor that ignores artifacts and forwards
// every visited file-collection to onFiles.
func FilesOnlyVisitor(onFiles func(componentID string, files []string)) Visitor {
	return Visitor{OnFiles: onFiles, WantsFiles: true}
}

// CollectedArtifacts accumulates the result of a DeduplicatingVisitor walk:
// every distinct artifact and every distinct file path visited, applying
// the deduplication rules of the lenient artifact walk.
type CollectedArtifacts struct {
	Artifacts []configuration.ResolvedArtifact
	Files     []CollectedFile

	seenArtifacts map[artifactKey]bool
	seenFiles     map[string]bool
}

// CollectedFile is one deduplicated file visited by a DeduplicatingVisitor,
// carrying the identifier synthesized for it per §4.4's deduplication
// rules: an opaque file-artifact identifier when no componentID is known,
// or (componentID, file name) otherwise.
type CollectedFile struct {
	ComponentID string
	Path        string
	Identifier  string
}

type artifactKey struct {
	componentID string
	artifactID  string
}

// DeduplicatingVisitor builds the "collect artifacts with identifiers"
// visitor from §4.4: it skips a resolved artifact whose
// (componentID, artifact ID) pair has already been emitted, and skips a
// file whose synthesized identifier has already been emitted.
// includeFiles controls WantsFiles on the returned Visitor.
func DeduplicatingVisitor(includeFiles bool) (Visitor, *CollectedArtifacts) {
	acc := &CollectedArtifacts{
		seenArtifacts: make(map[artifactKey]bool),
		seenFiles:     make(map[string]bool),
	}
	v := Visitor{
		WantsFiles: includeFiles,
		OnArtifact: func(a configuration.ResolvedArtifact) {
			key := artifactKey{componentID: a.ComponentID, artifactID: a.ID}
			if acc.seenArtifacts[key] {
				return
			}
			acc.seenArtifacts[key] = true
			acc.Artifacts = append(acc.Artifacts, a)
		},
		OnFiles: func(componentID string, files []string) {
			for _, path := range files {
				identifier := fileIdentifier(componentID, path)
				if acc.seenFiles[identifier] {
					continue
				}
				acc.seenFiles[identifier] = true
				acc.Files = append(acc.Files, CollectedFile{ComponentID: componentID, Path: path, Identifier: identifier})
			}
		},
	}
	return v, acc
}

func fileIdentifier(componentID, path string) string {
	if componentID == "" {
		return "file:" + path
	}
	return "component-file:" + componentID + ":" + filepath.Base(path)
}
