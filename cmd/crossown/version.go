package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/hsiuhsiu/crossown-go/pkg/crossown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "crossown %s (%s %s/%s)\n",
				crossown.WrapperVersion(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
