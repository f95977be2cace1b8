// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package dattr

import (
	"errors"
	"testing"

	"github.com/zclconf/go-cty/cty"
)

func TestContainerSetAndGet(t *testing.T) {
	c := NewContainer()
	format := Of("format", cty.String)
	if err := c.Set(format, cty.StringVal("jar")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := c.Get(format)
	if !ok || got.AsString() != "jar" {
		t.Fatalf("Get() = %v, %v, want jar, true", got, ok)
	}
}

func TestContainerRejectsNullValue(t *testing.T) {
	c := NewContainer()
	err := c.Set(Of("format", cty.String), cty.NullVal(cty.String))
	if err == nil {
		t.Fatal("expected error setting a null value")
	}
}

func TestContainerRejectsTypeMismatch(t *testing.T) {
	c := NewContainer()
	err := c.Set(Of("format", cty.String), cty.NumberIntVal(1))
	if err == nil {
		t.Fatal("expected error setting a value of the wrong type")
	}
}

func TestContainerRejectsNameCollisionWithDifferentType(t *testing.T) {
	c := NewContainer()
	if err := c.Set(Of("usage", cty.String), cty.StringVal("compile")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	err := c.Set(Of("usage", cty.Number), cty.NumberIntVal(1))
	if err == nil {
		t.Fatal("expected error for colliding attribute name with a different type")
	}
}

func TestContainerOnMutateGatesSet(t *testing.T) {
	sentinel := errors.New("resolved")
	c := NewContainer()
	c.OnMutate = func() error { return sentinel }
	err := c.Set(Of("format", cty.String), cty.StringVal("jar"))
	if !errors.Is(err, sentinel) {
		t.Fatalf("Set() error = %v, want %v", err, sentinel)
	}
	if c.Len() != 0 {
		t.Fatal("container was mutated despite OnMutate rejecting it")
	}
}

func TestAsImmutableSharesEmptySingleton(t *testing.T) {
	c1 := NewContainer()
	c2 := NewContainer()
	if c1.AsImmutable() != Empty || c2.AsImmutable() != Empty {
		t.Fatal("empty containers should both snapshot to the shared Empty singleton")
	}
}

func TestSnapshotAsImmutableIsIdempotent(t *testing.T) {
	c := NewContainer()
	_ = c.Set(Of("format", cty.String), cty.StringVal("jar"))
	snap := c.AsImmutable()
	if snap.AsImmutable() != snap {
		t.Fatal("Snapshot.AsImmutable() should return the same pointer")
	}
}

func TestSnapshotSetFails(t *testing.T) {
	snap := Empty
	err := snap.Set(Of("format", cty.String), cty.StringVal("jar"))
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("Snapshot.Set() error = %v, want ErrNotAllowed", err)
	}
}

func TestSnapshotMatchesIsSubsetMatch(t *testing.T) {
	c := NewContainer()
	_ = c.Set(Of("format", cty.String), cty.StringVal("jar"))
	from := c.AsImmutable()

	other := NewContainer()
	_ = other.Set(Of("format", cty.String), cty.StringVal("jar"))
	_ = other.Set(Of("usage", cty.String), cty.StringVal("runtime"))
	to := other.AsImmutable()

	if !from.Matches(to) {
		t.Fatal("expected from to match a superset container")
	}
	if to.Matches(from) {
		t.Fatal("did not expect the superset to match the narrower container")
	}
}
