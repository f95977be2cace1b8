// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package configuration

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testDescriptorsJSON = `[
	{
		"path": "A",
		"name": "a",
		"dependencies": [{"group": "g", "name": "d1"}],
		"artifacts": [{"name": "out", "path": "build/out.jar"}]
	},
	{
		"path": "B",
		"name": "b",
		"extendsFrom": ["A"],
		"dependencies": [{"group": "g", "name": "d2"}]
	}
]`

func TestBuildConfigurationsWiresExtendsFrom(t *testing.T) {
	descriptors, err := ReadDescriptors(strings.NewReader(testDescriptorsJSON))
	if err != nil {
		t.Fatalf("ReadDescriptors: %v", err)
	}

	resolver := &fakeResolver{}
	listeners := &fakeListeners{}
	configs, err := BuildConfigurations(descriptors, resolver, listeners)
	if err != nil {
		t.Fatalf("BuildConfigurations: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("len(configs) = %d, want 2", len(configs))
	}

	b := configs[1]
	if len(b.Parents()) != 1 || b.Parents()[0].Path() != "A" {
		t.Fatalf("B.Parents() = %v, want [A]", b.Parents())
	}
	all := b.AllDependencies()
	gotIDs := make([]string, len(all))
	for i, dep := range all {
		gotIDs[i] = dep.ID()
	}
	wantIDs := []string{"g:d2", "g:d1"}
	if diff := cmp.Diff(wantIDs, gotIDs); diff != "" {
		t.Fatalf("B.AllDependencies() IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildConfigurationsGeneratesNamesForUnnamedFileEntries(t *testing.T) {
	const withoutNames = `[
		{
			"path": "A",
			"name": "a",
			"fileDependencies": [{"paths": ["x.txt"]}, {"paths": ["y.txt"]}],
			"artifacts": [{"path": "build/out.jar"}]
		}
	]`
	descriptors, err := ReadDescriptors(strings.NewReader(withoutNames))
	if err != nil {
		t.Fatalf("ReadDescriptors: %v", err)
	}

	configs, err := BuildConfigurations(descriptors, &fakeResolver{}, &fakeListeners{})
	if err != nil {
		t.Fatalf("BuildConfigurations: %v", err)
	}

	deps := configs[0].Dependencies()
	if len(deps) != 2 {
		t.Fatalf("len(deps) = %d, want 2 (unnamed entries must not collide)", len(deps))
	}
	if deps[0].ID() == "" || deps[1].ID() == "" || deps[0].ID() == deps[1].ID() {
		t.Fatalf("expected two distinct generated IDs, got %q and %q", deps[0].ID(), deps[1].ID())
	}
}

func TestReadDescriptorsRejectsMalformedJSON(t *testing.T) {
	if _, err := ReadDescriptors(strings.NewReader("not json")); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}
