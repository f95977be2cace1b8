// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package dattr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty-debug/ctydebug"
)

// ErrNotAllowed is returned by Snapshot.Set: an immutable snapshot can never
// be mutated.
var ErrNotAllowed = errors.New("dattr: attribute container is immutable")

// Container is a mutable, lazily-initialized mapping from Attribute to
// cty.Value. Values are untyped in storage but constrained at insertion
// time: nil values are rejected, a value whose runtime type does not
// conform to its Attribute's declared type is rejected, and an Attribute
// whose name collides with an existing, differently-typed Attribute is
// rejected.
//
// OnMutate, if set, is invoked before every Set call; if it returns a
// non-nil error the mutation is rejected and the container is left
// unchanged. Configuration wires this to validateMutation(ATTRIBUTES) so
// that attribute changes participate in the same resolution-state gating
// as every other mutation.
type Container struct {
	OnMutate func() error

	values map[Attribute]cty.Value
	byName map[string]Attribute
}

// NewContainer returns an empty, ready-to-use Container.
func NewContainer() *Container {
	return &Container{}
}

// Set inserts or replaces the value for attr. It fails if value is null,
// if value's type does not conform to attr.Type, if a different Attribute
// with the same Name is already present, or if OnMutate rejects the
// mutation.
func (c *Container) Set(attr Attribute, value cty.Value) error {
	if value.IsNull() {
		return fmt.Errorf("dattr: cannot set attribute %q to a null value", attr.Name)
	}
	if !value.Type().Equals(attr.Type) {
		return fmt.Errorf("dattr: value of type %s is not assignable to attribute %q of type %s",
			value.Type().FriendlyName(), attr.Name, attr.Type.FriendlyName())
	}
	if existing, ok := c.byName[attr.Name]; ok && existing != attr {
		return fmt.Errorf("dattr: attribute name %q is already declared with type %s, cannot redeclare with type %s",
			attr.Name, existing.Type.FriendlyName(), attr.Type.FriendlyName())
	}
	if c.OnMutate != nil {
		if err := c.OnMutate(); err != nil {
			return err
		}
	}
	if c.values == nil {
		c.values = make(map[Attribute]cty.Value)
		c.byName = make(map[string]Attribute)
	}
	c.values[attr] = value
	c.byName[attr.Name] = attr
	return nil
}

// Get returns the value stored for attr, if any.
func (c *Container) Get(attr Attribute) (cty.Value, bool) {
	if c == nil {
		return cty.NilVal, false
	}
	v, ok := c.values[attr]
	return v, ok
}

// Keys returns every Attribute with a value in this container, in no
// particular order.
func (c *Container) Keys() []Attribute {
	if c == nil {
		return nil
	}
	out := make([]Attribute, 0, len(c.values))
	for k := range c.values {
		out = append(out, k)
	}
	return out
}

// Len returns the number of attributes with values in this container.
func (c *Container) Len() int {
	if c == nil {
		return 0
	}
	return len(c.values)
}

// AsImmutable produces a Snapshot of the container's current contents. An
// empty container always returns the shared Empty snapshot. The returned
// snapshot may share storage with the container, since callers are expected
// to stop mutating a container once it has been snapshotted for a
// resolution.
func (c *Container) AsImmutable() *Snapshot {
	if c.Len() == 0 {
		return Empty
	}
	return &Snapshot{values: c.values}
}

// Snapshot is the immutable form of Container. Its zero value (other than
// Empty itself) should not be constructed directly; use Container.AsImmutable.
type Snapshot struct {
	values map[Attribute]cty.Value
}

// Empty is the process-wide immutable empty attribute container, shared by
// every Container.AsImmutable call on an empty container.
var Empty = &Snapshot{}

// Get returns the value stored for attr, if any.
func (s *Snapshot) Get(attr Attribute) (cty.Value, bool) {
	if s == nil {
		return cty.NilVal, false
	}
	v, ok := s.values[attr]
	return v, ok
}

// Keys returns every Attribute with a value in this snapshot, in no
// particular order.
func (s *Snapshot) Keys() []Attribute {
	if s == nil {
		return nil
	}
	out := make([]Attribute, 0, len(s.values))
	for k := range s.values {
		out = append(out, k)
	}
	return out
}

// Len returns the number of attributes with values in this snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Set always fails: a Snapshot is immutable.
func (s *Snapshot) Set(_ Attribute, _ cty.Value) error {
	return ErrNotAllowed
}

// AsImmutable returns s itself: snapshotting is idempotent.
func (s *Snapshot) AsImmutable() *Snapshot {
	return s
}

// Matches reports whether every attribute present in s also has an equal
// value in other. Extra attributes in other are allowed. This is the
// subset-match predicate used by the transform registry's GetTransform,
// CopyTransform.GetResult, and the lenient view's target check.
func (s *Snapshot) Matches(other *Snapshot) bool {
	for attr, val := range s.values {
		otherVal, ok := other.Get(attr)
		if !ok || !val.RawEquals(otherVal) {
			return false
		}
	}
	return true
}

// String renders the snapshot's attributes sorted by name, one per line, in
// "name (type) = value" form.
func (s *Snapshot) String() string {
	if s.Len() == 0 {
		return ""
	}
	names := make([]string, 0, len(s.values))
	byName := make(map[string]Attribute, len(s.values))
	for attr := range s.values {
		names = append(names, attr.Name)
		byName[attr.Name] = attr
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}
		attr := byName[name]
		fmt.Fprintf(&b, "%s = %s", attr, strings.TrimSpace(ctydebug.ValueString(s.values[attr])))
	}
	return b.String()
}
