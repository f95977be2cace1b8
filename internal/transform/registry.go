// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/depsconfig/depsconfig/internal/dattr"
)

// Callable is the (input file -> output file) function GetTransform
// returns: the execution contract of §4.5.
type Callable func(inputPath string) (string, error)

// DefaultCacheSize bounds the number of (from, to) -> Callable lookups the
// registry memoizes, the way internal/getproviders.MemoizeSource memoizes
// per-key responses but with an eviction bound since transform pairs are
// arbitrary user attribute combinations rather than a fixed provider set.
const DefaultCacheSize = 256

type registration struct {
	from      *dattr.Snapshot
	to        *dattr.Snapshot
	transform Transform
}

// Registry matches artifact transforms by declared attributes, per §4.5.
// Registration instantiates nothing itself - callers already hold a
// constructed Transform - but does fan out one registration row per
// declared output-attribute set.
type Registry struct {
	mu            sync.Mutex
	registrations []registration
	cache         *lru.Cache[string, Callable]
}

// NewRegistry constructs an empty Registry with a bounded match cache.
func NewRegistry() *Registry {
	cache, err := lru.New[string, Callable](DefaultCacheSize)
	if err != nil {
		// Only possible if DefaultCacheSize <= 0, which it never is.
		panic(err)
	}
	return &Registry{cache: cache}
}

// Register reads t's attribute declarations and generates one registration
// row per entry in t.OutputAttributeSets().
func (r *Registry) Register(t Transform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	from := t.InputAttributes()
	for _, to := range t.OutputAttributeSets() {
		r.registrations = append(r.registrations, registration{from: from, to: to, transform: t})
	}
}

// GetTransform returns a Callable iff some registration R exists such that
// R.from matches from and R.to matches to (§4.5's subset-match rule, via
// dattr.Snapshot.Matches). Ties go to whichever registration was added
// first. Returns nil if no registration matches.
func (r *Registry) GetTransform(from, to *dattr.Snapshot) Callable {
	key := matchKey(from, to)
	if cached, ok := r.cache.Get(key); ok {
		return cached
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.registrations {
		if reg.from.Matches(from) && reg.to.Matches(to) {
			fn := executorFor(reg)
			r.cache.Add(key, fn)
			return fn
		}
	}
	return nil
}

func matchKey(from, to *dattr.Snapshot) string {
	return from.String() + "\x00" + to.String()
}

// executorFor builds the Callable for reg, implementing the execution
// contract: create the declared output directory, run the transform, then
// call GetResult and fail if it produced nothing. The source's
// `output == null || output == null` is a typo for a single check, treated
// here as the one `output == ""` test.
func executorFor(reg registration) Callable {
	return func(inputPath string) (string, error) {
		if dir := reg.transform.OutputDirectory(); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", &Failure{Input: inputPath, TransformName: reg.transform.Name(), Detail: "could not create output directory", Cause: err}
			}
		}
		if err := reg.transform.Run(inputPath); err != nil {
			return "", &Failure{Input: inputPath, TransformName: reg.transform.Name(), Detail: "transform raised an error", Cause: err}
		}
		output := reg.transform.GetResult(reg.to)
		if output == "" {
			return "", &Failure{Input: inputPath, TransformName: reg.transform.Name(), Detail: "no output file created"}
		}
		if _, err := os.Stat(output); err != nil {
			return "", &Failure{Input: inputPath, TransformName: reg.transform.Name(), Detail: "expected output file " + output + " was not created"}
		}
		return output, nil
	}
}
