// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/depsconfig/depsconfig/internal/dattr"
)

// CopyTransform is a reference Transform: it copies its input file into
// OutputDir under OutputExt, giving this module a concrete transform to
// register and exercise end to end without depending on a real
// format-conversion library, the same way resolve.GraphResolver is a
// reference Resolver.
type CopyTransform struct {
	TransformName string
	From          *dattr.Snapshot
	To            *dattr.Snapshot
	OutputDir     string
	OutputExt     string

	output string
}

var _ Transform = (*CopyTransform)(nil)

func (t *CopyTransform) Name() string { return t.TransformName }

func (t *CopyTransform) InputAttributes() *dattr.Snapshot { return t.From }

func (t *CopyTransform) OutputAttributeSets() []*dattr.Snapshot { return []*dattr.Snapshot{t.To} }

func (t *CopyTransform) OutputDirectory() string { return t.OutputDir }

// Run copies inputPath into OutputDir, renaming its extension to OutputExt.
func (t *CopyTransform) Run(inputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	out := filepath.Join(t.OutputDir, base+t.OutputExt)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, in); err != nil {
		return err
	}
	t.output = out
	return nil
}

// GetResult returns the file Run produced, for the one output attribute
// set this transform declares.
func (t *CopyTransform) GetResult(to *dattr.Snapshot) string {
	if !to.Matches(t.To) {
		return ""
	}
	return t.output
}
