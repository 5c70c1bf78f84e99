package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hsiuhsiu/crossown-go/pkg/crossown/ownership"
)

type usageError string

func (e usageError) Error() string { return string(e) }

func errUsage(msg string) error { return usageError(msg) }

var (
	callerColor = color.New(color.FgGreen, color.Bold)
	calleeColor = color.New(color.FgYellow, color.Bold)
	sharedColor = color.New(color.FgBlue, color.Bold)
	errorColor  = color.New(color.FgRed)
	warnColor   = color.New(color.FgMagenta)
)

type resolveOptions struct {
	shape            string
	policy           string
	pointer          bool
	rvalue           bool
	sharedHolder     bool
	trackedElsewhere bool
	format           string
}

type resolvePayload struct {
	Shape        string `json:"shape"`
	Policy       string `json:"policy"`
	Effective    string `json:"effective_policy"`
	Owner        string `json:"owner,omitempty"`
	KeepAlive    bool   `json:"keep_alive"`
	Warning      string `json:"warning,omitempty"`
	Error        string `json:"error,omitempty"`
	SharedHolder bool   `json:"shared_holder,omitempty"`
}

func newResolveCmd() *cobra.Command {
	var opts resolveOptions
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the owner of one returned value",
		Example: `  crossown resolve --shape owning --policy automatic --pointer
  crossown resolve --shape raw --policy take_ownership --pointer --shared-holder --tracked-elsewhere`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd.OutOrStdout(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.shape, "shape", "value", "value shape (owning|shared|raw|value)")
	f.StringVar(&opts.policy, "policy", "automatic", "return value policy")
	f.BoolVar(&opts.pointer, "pointer", false, "the returned expression is a pointer")
	f.BoolVar(&opts.rvalue, "rvalue", false, "the returned expression is an rvalue reference")
	f.BoolVar(&opts.sharedHolder, "shared-holder", false, "the value's type uses a shared holder")
	f.BoolVar(&opts.trackedElsewhere, "tracked-elsewhere", false, "the pointee is already owned by another holder")
	f.StringVar(&opts.format, "format", "text", "output format (text|json)")
	return cmd
}

func runResolve(w io.Writer, opts resolveOptions) error {
	shape, err := ownership.ParseShape(opts.shape)
	if err != nil {
		return err
	}
	policy, err := ownership.ParsePolicy(opts.policy)
	if err != nil {
		return err
	}
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", opts.format)
	}

	c := ownership.Crossing{
		Shape:            shape,
		Policy:           policy,
		IsPointer:        opts.pointer,
		IsRValueRef:      opts.rvalue,
		SharedHolder:     opts.sharedHolder,
		TrackedElsewhere: opts.trackedElsewhere,
	}
	dec, rerr := ownership.ResolveCrossing(c)

	p := resolvePayload{
		Shape:        shape.String(),
		Policy:       policy.String(),
		Effective:    ownership.Effective(policy, opts.pointer, opts.rvalue).String(),
		SharedHolder: opts.sharedHolder,
	}
	switch {
	case rerr == nil:
		p.Owner, p.KeepAlive = dec.Owner.String(), dec.RequiresLifetimeLink
	case ownership.IsWarning(rerr):
		p.Owner, p.KeepAlive = dec.Owner.String(), dec.RequiresLifetimeLink
		p.Warning = rerr.Error()
	default:
		p.Error = rerr.Error()
	}

	if opts.format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return err
		}
	} else {
		writeResolveText(w, p)
	}

	if rerr != nil && !ownership.IsWarning(rerr) {
		return rerr
	}
	return nil
}

func writeResolveText(w io.Writer, p resolvePayload) {
	fmt.Fprintf(w, "%s under %s (effective %s)\n", p.Shape, p.Policy, p.Effective)
	if p.Error != "" {
		errorColor.Fprintf(w, "  rejected: %s\n", p.Error)
		return
	}
	fmt.Fprintf(w, "  owner:      %s\n", ownerColor(p.Owner).Sprint(p.Owner))
	fmt.Fprintf(w, "  keep-alive: %t\n", p.KeepAlive)
	if p.Warning != "" {
		warnColor.Fprintf(w, "  warning: %s\n", p.Warning)
	}
}

func ownerColor(owner string) *color.Color {
	switch owner {
	case ownership.CallerRuntime.String():
		return callerColor
	case ownership.CalleeRuntime.String():
		return calleeColor
	default:
		return sharedColor
	}
}
