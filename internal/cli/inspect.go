// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zclconf/go-cty/cty"

	"github.com/depsconfig/depsconfig/internal/artifacts"
	"github.com/depsconfig/depsconfig/internal/configuration"
	"github.com/depsconfig/depsconfig/internal/dattr"
	"github.com/depsconfig/depsconfig/internal/resolve"
	"github.com/depsconfig/depsconfig/internal/transform"
)

type noListeners struct{}

func (noListeners) AddDependencyResolutionListener(configuration.DependencyResolutionListener)    {}
func (noListeners) RemoveDependencyResolutionListener(configuration.DependencyResolutionListener) {}
func (noListeners) BroadcastBeforeResolve(*configuration.Configuration)                           {}
func (noListeners) BroadcastAfterResolve(*configuration.Configuration)                            {}

func newInspectCmd() *cobra.Command {
	var targetExtension, transformOutputDir string

	cmd := &cobra.Command{
		Use:   "inspect <descriptors.json>",
		Short: "Resolve every configuration declared in descriptors.json and print its dump and artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, targetExtension, transformOutputDir)
		},
	}
	cmd.Flags().StringVar(&targetExtension, "target-extension", "", "convert every resolved artifact to this file extension via a CopyTransform before printing it")
	cmd.Flags().StringVar(&transformOutputDir, "transform-output-dir", ".", "directory CopyTransform writes converted artifacts into")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string, targetExtension, transformOutputDir string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	descriptors, err := configuration.ReadDescriptors(f)
	if err != nil {
		return err
	}

	resolver := resolve.GraphResolver{}
	configs, err := configuration.BuildConfigurations(descriptors, resolver, noListeners{})
	if err != nil {
		return err
	}

	// Shared across every configuration's view so that disk-cache access
	// is serialized process-wide, not just within one configuration.
	cacheLock := resolve.NewDefaultCacheLockingManager()

	var registry *transform.Registry
	var targetAttrs *dattr.Snapshot
	if targetExtension != "" {
		c := dattr.NewContainer()
		if err := c.Set(resolve.ExtensionAttribute, cty.StringVal(targetExtension)); err != nil {
			return err
		}
		targetAttrs = c.AsImmutable()

		registry = transform.NewRegistry()
		registry.Register(&transform.CopyTransform{
			TransformName: "copy-to-" + targetExtension,
			From:          dattr.Empty,
			To:            targetAttrs,
			OutputDir:     transformOutputDir,
			OutputExt:     "." + targetExtension,
		})
	}

	for _, cfg := range configs {
		if err := cfg.ResolveToStateOrLater(configuration.ArtifactsResolved); err != nil {
			return fmt.Errorf("resolving %s: %w", cfg.Path(), err)
		}
		fmt.Fprint(cmd.OutOrStdout(), cfg.Dump())

		view := artifacts.NewLenientView(cfg, configuration.SatisfyAll).WithCacheLock(cacheLock)
		if registry != nil {
			view = view.WithTransforms(registry, targetAttrs)
		}
		resolved, err := view.GetArtifacts()
		if err != nil {
			return fmt.Errorf("resolving artifacts for %s: %w", cfg.Path(), err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "  resolved artifacts:")
		if len(resolved) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "    (none)")
		}
		for _, a := range resolved {
			fmt.Fprintf(cmd.OutOrStdout(), "    %s -> %s\n", a.ArtifactID, a.Path)
		}
	}
	return nil
}
