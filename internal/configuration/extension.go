// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package configuration

import (
	"fmt"

	"github.com/depsconfig/depsconfig/internal/dset"
)

// ExtendsFrom adds each of parents to the configuration's extension set, in
// order. Adding a configuration that is already a parent is idempotent.
// Adding one whose hierarchy already contains the receiver is rejected as a
// cyclic extendsFrom and leaves both configurations' parent sets unchanged.
func (c *Configuration) ExtendsFrom(parents ...*Configuration) error {
	for _, p := range parents {
		if err := c.addParent(p); err != nil {
			return err
		}
	}
	return nil
}

// SetExtendsFrom fully replaces the configuration's extension set: it first
// unregisters from every current parent, then adds the new set one by one,
// applying the same cycle and mutation checks ExtendsFrom does.
func (c *Configuration) SetExtendsFrom(parents ...*Configuration) error {
	if err := c.validateMutation(MutationDependencies); err != nil {
		return err
	}
	for _, old := range c.parents.Values() {
		old.unregisterChildValidator(c)
	}
	c.parents.Clear()
	for _, p := range parents {
		if err := c.addParent(p); err != nil {
			return err
		}
	}
	return nil
}

// Parents returns the configuration's direct extendsFrom parents, in
// insertion order.
func (c *Configuration) Parents() []*Configuration {
	return c.parents.Values()
}

func (c *Configuration) addParent(p *Configuration) error {
	if c.parents.Has(p) {
		return nil
	}
	if err := c.validateMutation(MutationDependencies); err != nil {
		return err
	}
	if p.Hierarchy().Has(c) {
		return newUserMutationError(c.path,
			fmt.Sprintf("cannot extendsFrom %q: it would create a cyclic extendsFrom graph", p.path))
	}
	c.parents.Add(p)
	p.registerChildValidator(c)
	return nil
}

func (c *Configuration) registerChildValidator(child *Configuration) {
	for _, existing := range c.childValidators {
		if existing == child {
			return
		}
	}
	c.childValidators = append(c.childValidators, child)
}

func (c *Configuration) unregisterChildValidator(child *Configuration) {
	for i, existing := range c.childValidators {
		if existing == child {
			c.childValidators = append(c.childValidators[:i], c.childValidators[i+1:]...)
			return
		}
	}
}

// Hierarchy returns the ordered set [self, P1, P1's parents recursively,
// P2, P2's parents recursively, ...]. If the same ancestor is reachable by
// more than one path it appears exactly once, at its last visited
// position, per §4.2.
func (c *Configuration) Hierarchy() *dset.Set[*Configuration] {
	var order []*Configuration
	var walk func(cfg *Configuration)
	walk = func(cfg *Configuration) {
		order = append(order, cfg)
		for _, p := range cfg.parents.Values() {
			walk(p)
		}
	}
	walk(c)

	lastIndex := make(map[*Configuration]int, len(order))
	for i, cfg := range order {
		lastIndex[cfg] = i
	}

	result := dset.New[*Configuration]()
	for i, cfg := range order {
		if lastIndex[cfg] == i {
			result.Add(cfg)
		}
	}
	return result
}
