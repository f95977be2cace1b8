// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"sync"

	"github.com/depsconfig/depsconfig/internal/configuration"
)

// DefaultCacheLockingManager is a trivial configuration.CacheLockingManager
// backed by one sync.Mutex per scope, matching the per-key locking
// internal/getproviders.MemoizeSource uses to serialize concurrent callers
// without serializing unrelated scopes against each other.
type DefaultCacheLockingManager struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ configuration.CacheLockingManager = (*DefaultCacheLockingManager)(nil)

// NewDefaultCacheLockingManager constructs a DefaultCacheLockingManager.
func NewDefaultCacheLockingManager() *DefaultCacheLockingManager {
	return &DefaultCacheLockingManager{locks: make(map[string]*sync.Mutex)}
}

// UseCache runs action while holding the lock associated with scope,
// creating that lock on first use.
func (m *DefaultCacheLockingManager) UseCache(scope string, action func() error) error {
	m.mu.Lock()
	lock, ok := m.locks[scope]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[scope] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return action()
}
