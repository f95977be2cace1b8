// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package depgraph

import (
	"reflect"
	"testing"

	"github.com/hashicorp/go-version"
)

func TestParseVersionConstraintRejectsGarbage(t *testing.T) {
	if _, err := ParseVersionConstraint("not a version"); err == nil {
		t.Fatal("expected an error for an invalid constraint string")
	}
}

func TestParseVersionConstraintEmptyIsUnconstrained(t *testing.T) {
	vc, err := ParseVersionConstraint("")
	if err != nil {
		t.Fatalf("ParseVersionConstraint(\"\"): %v", err)
	}
	v, _ := version.NewVersion("9.9.9")
	if !vc.Satisfied(v) {
		t.Fatal("an empty constraint should be satisfied by any version")
	}
}

func TestParseVersionConstraintSatisfaction(t *testing.T) {
	vc, err := ParseVersionConstraint(">= 1.2.0, < 2.0.0")
	if err != nil {
		t.Fatalf("ParseVersionConstraint: %v", err)
	}
	inRange, _ := version.NewVersion("1.5.0")
	tooNew, _ := version.NewVersion("2.0.0")
	if !vc.Satisfied(inRange) {
		t.Error("expected 1.5.0 to satisfy >= 1.2.0, < 2.0.0")
	}
	if vc.Satisfied(tooNew) {
		t.Error("did not expect 2.0.0 to satisfy >= 1.2.0, < 2.0.0")
	}
}

func TestModuleDependencyCopyIsIndependentAndEqual(t *testing.T) {
	d, err := NewModuleDependency("com.example", "widget", ">= 1.0.0")
	if err != nil {
		t.Fatalf("NewModuleDependency: %v", err)
	}
	cp := d.Copy()
	md, ok := cp.(ModuleDependency)
	if !ok {
		t.Fatalf("Copy() returned %T, want ModuleDependency", cp)
	}
	if !reflect.DeepEqual(md, d) {
		t.Fatalf("Copy() = %+v, want equal to %+v", md, d)
	}
}

func TestFileDependencyCopyHasIndependentSlices(t *testing.T) {
	d := FileDependency{Name: "libs", Paths: []string{"a.jar"}, BuildTargets: []string{"compile"}}
	cp := d.Copy().(FileDependency)
	cp.Paths[0] = "mutated.jar"
	if d.Paths[0] == "mutated.jar" {
		t.Fatal("Copy() shared the underlying Paths slice")
	}
}

func TestDependencySetOrderAndDedup(t *testing.T) {
	s := NewDependencySet()
	d1, _ := NewModuleDependency("g", "a", "")
	d2, _ := NewModuleDependency("g", "b", "")
	s.Add(d1)
	s.Add(d2)
	s.Add(d1) // re-add, should not duplicate or reorder

	vals := s.Values()
	if len(vals) != 2 {
		t.Fatalf("Values() has %d entries, want 2", len(vals))
	}
	if vals[0].ID() != d1.ID() || vals[1].ID() != d2.ID() {
		t.Fatalf("unexpected order: %v", vals)
	}
}

func TestDependencySetCopyDeepCopies(t *testing.T) {
	s := NewDependencySet()
	fd := FileDependency{Name: "libs", Paths: []string{"a.jar"}}
	s.Add(fd)

	cp := s.Copy()
	cpFd := cp.Values()[0].(FileDependency)
	cpFd.Paths[0] = "mutated.jar"
	if s.Values()[0].(FileDependency).Paths[0] == "mutated.jar" {
		t.Fatal("DependencySet.Copy() shared dependency state with the original")
	}
}
