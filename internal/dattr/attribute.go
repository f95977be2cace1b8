// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package dattr implements attribute-typed values: a typed key (an
// Attribute, pairing a name with a cty.Type) and the containers that map
// attributes to values whose runtime type must conform to the key. These
// are used both on Configuration itself and as the input/output matching
// keys for artifact transforms.
package dattr

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Attribute is a typed, name-keyed tag. Two Attribute values with the same
// Name but different Type are considered distinct by identity but are a
// user error if both are ever used as keys in the same Container - see
// Container.Set.
type Attribute struct {
	Name string
	Type cty.Type
}

// Of constructs an Attribute with the given name and type.
func Of(name string, typ cty.Type) Attribute {
	return Attribute{Name: name, Type: typ}
}

// String renders the attribute as "name (type)", used in diagnostics and in
// Snapshot's sorted String output.
func (a Attribute) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.Type.FriendlyName())
}
