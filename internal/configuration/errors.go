// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package configuration

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// UserMutationError reports a rejected mutation caused by user input: a
// mutation attempted after the configuration was resolved or observed, or a
// cyclic extendsFrom. A null, mistyped, or name-colliding attribute value is
// rejected by dattr.Container.Set with a plain error, not with this type.
type UserMutationError struct {
	ConfigPath string
	Detail     string
}

func (e *UserMutationError) Error() string {
	return fmt.Sprintf("configuration %q: %s", e.ConfigPath, e.Detail)
}

func newUserMutationError(path, detail string) *UserMutationError {
	return &UserMutationError{ConfigPath: path, Detail: detail}
}

// StateMachineError reports an internal invariant violation - for example,
// an attempt to resolve artifacts before the graph has been resolved. This
// indicates a bug in the caller (or in this package), not bad user input.
type StateMachineError struct {
	ConfigPath string
	Detail     string
}

func (e *StateMachineError) Error() string {
	return fmt.Sprintf("configuration %q: internal error: %s", e.ConfigPath, e.Detail)
}

func newStateMachineError(path, detail string) *StateMachineError {
	return &StateMachineError{ConfigPath: path, Detail: detail}
}

// ResolutionFailure aggregates the failures recorded in a resolution's
// cached ResolverResults into a single error, the way Configuration's
// RethrowFailure (§4.3) and the lenient view's artifact-resolve exception
// (§4.4, §7) both need to surface "everything that went wrong" rather than
// just the first failure.
type ResolutionFailure struct {
	ConfigPath string
	Context    string // "graph", "artifacts", or "files"

	cause *multierror.Error
}

// NewResolutionFailure constructs a ResolutionFailure aggregating errs
// under the given context label ("graph", "artifacts", or "files").
// Exported so that the artifacts package's walk can raise the same error
// shape described in §7 ("a failing visit aggregates captured throwables
// into a single artifact-resolve exception").
func NewResolutionFailure(path, context string, errs []error) *ResolutionFailure {
	return newResolutionFailure(path, context, errs)
}

func newResolutionFailure(path, context string, errs []error) *ResolutionFailure {
	var me *multierror.Error
	for _, err := range errs {
		me = multierror.Append(me, err)
	}
	return &ResolutionFailure{ConfigPath: path, Context: context, cause: me}
}

func (f *ResolutionFailure) Error() string {
	if f.cause == nil || len(f.cause.Errors) == 0 {
		return fmt.Sprintf("could not resolve %s for configuration %q", f.Context, f.ConfigPath)
	}
	return fmt.Sprintf("could not resolve %s for configuration %q: %s", f.Context, f.ConfigPath, f.cause.Error())
}

// Unwrap exposes the underlying causes for errors.Is/errors.As traversal.
func (f *ResolutionFailure) Unwrap() []error {
	if f.cause == nil {
		return nil
	}
	return f.cause.Errors
}
