package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hsiuhsiu/crossown-go/pkg/crossown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "crossown",
		Short:        "Inspect ownership decisions for values crossing a runtime boundary",
		SilenceUsage: true,
		Version:      crossown.WrapperVersion(),
	}
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		mode, _ := cmd.Flags().GetString("color")
		return applyColorMode(mode)
	}

	root.AddCommand(newResolveCmd())
	root.AddCommand(newTableCmd())
	root.AddCommand(newHoldersCmd())
	root.AddCommand(newDemoCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func applyColorMode(mode string) error {
	switch mode {
	case "auto":
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return errUsage("--color must be auto, on or off")
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
