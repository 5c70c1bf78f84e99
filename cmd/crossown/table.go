package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hsiuhsiu/crossown-go/pkg/crossown/ownership"
)

type tableOptions struct {
	pointer      bool
	rvalue       bool
	sharedHolder bool
}

func newTableCmd() *cobra.Command {
	var opts tableOptions
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the owner for every shape and policy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTable(cmd.OutOrStdout(), opts)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.pointer, "pointer", false, "resolve as a pointer return")
	f.BoolVar(&opts.rvalue, "rvalue", false, "resolve as an rvalue reference return")
	f.BoolVar(&opts.sharedHolder, "shared-holder", false, "resolve for a type with a shared holder")
	return cmd
}

func runTable(w io.Writer, opts tableOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "policy")
	for _, s := range ownership.Shapes() {
		fmt.Fprintf(tw, "\t%s", s)
	}
	fmt.Fprintln(tw)

	for _, p := range ownership.Policies() {
		fmt.Fprint(tw, p)
		for _, s := range ownership.Shapes() {
			dec, err := ownership.ResolveCrossing(ownership.Crossing{
				Shape:        s,
				Policy:       p,
				IsPointer:    opts.pointer,
				IsRValueRef:  opts.rvalue,
				SharedHolder: opts.sharedHolder,
			})
			fmt.Fprintf(tw, "\t%s", cell(dec, err))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// cell renders one grid entry. A trailing "+" marks a required keep-alive
// link.
func cell(dec ownership.Decision, err error) string {
	if err != nil && !ownership.IsWarning(err) {
		return errorColor.Sprint("mismatch")
	}
	text := dec.Owner.String()
	if dec.RequiresLifetimeLink {
		text += "+"
	}
	return ownerColor(dec.Owner.String()).Sprint(text)
}
