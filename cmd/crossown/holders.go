package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hsiuhsiu/crossown-go/pkg/crossown/holder"
)

func newHoldersCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "holders",
		Short: "Validate a holder declaration file and list its types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				return errUsage("--config is required")
			}
			return runHolders(cmd.OutOrStdout(), path)
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "path to the TOML holder declaration")
	return cmd
}

func runHolders(w io.Writer, path string) error {
	reg, err := holder.LoadFile(path)
	if err != nil {
		return err
	}
	for _, e := range reg.Entries() {
		kind := e.Kind.String()
		if e.Kind == holder.Shared {
			kind = sharedColor.Sprint(kind)
		}
		fmt.Fprintf(w, "%s\t%s\n", e.Type, kind)
	}
	fmt.Fprintf(w, "%d type(s)\n", reg.Len())
	return nil
}
