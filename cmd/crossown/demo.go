package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hsiuhsiu/crossown-go/pkg/crossown"
)

func newDemoCmd() *cobra.Command {
	var cfg crossown.Config
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a reference_internal crossing through a runtime and finalize its receiver",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	f.StringVar(&cfg.HolderFile, "holders", "", "optional TOML holder declaration")
	f.IntVar(&cfg.Shards, "shards", 0, "keep-alive registry shards")
	return cmd
}

func runDemo(ctx context.Context, w io.Writer, cfg crossown.Config) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := crossown.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	pet, err := rt.Track("pet")
	if err != nil {
		return err
	}
	name, err := rt.Track("pet.name")
	if err != nil {
		return err
	}

	dec, err := rt.Return(ctx, crossown.Site{
		Name:   "Pet.name",
		Shape:  crossown.RawReference,
		Policy: crossown.ReferenceInternal,
	}, name, pet)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Pet.name -> %s\n", dec)
	if err := reportReleasable(w, rt, name); err != nil {
		return err
	}

	released, err := rt.Finalized(ctx, pet)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "pet finalized, %d link(s) released\n", released)
	if err := reportReleasable(w, rt, name); err != nil {
		return err
	}

	_, err = rt.Finalized(ctx, name)
	return err
}

func reportReleasable(w io.Writer, rt *crossown.Runtime, id crossown.ObjectID) error {
	ok, err := rt.CanRelease(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "name releasable: %t\n", ok)
	return nil
}
