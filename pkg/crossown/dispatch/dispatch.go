package dispatch

import (
	"context"
	"errors"

	"github.com/hsiuhsiu/crossown-go/internal/handles"
	"github.com/hsiuhsiu/crossown-go/pkg/crossown/holder"
	"github.com/hsiuhsiu/crossown-go/pkg/crossown/keepalive"
	"github.com/hsiuhsiu/crossown-go/pkg/crossown/logging"
	"github.com/hsiuhsiu/crossown-go/pkg/crossown/ownership"
)

// ErrNilRegistry is returned by New when no keep-alive registry is supplied.
var ErrNilRegistry = errors.New("dispatch: keep-alive registry must not be nil")

// Site describes the callable whose return value is crossing.
type Site struct {
	// Name identifies the callable in logs, e.g. "Pet.owner".
	Name string
	// TypeName is the bound type of the returned value, looked up in the
	// holder registry.
	TypeName string

	Shape       ownership.ValueShape
	Policy      ownership.Policy
	IsPointer   bool
	IsRValueRef bool

	// TrackedElsewhere marks a pointee the host already owns through another
	// holder.
	TrackedElsewhere bool
}

// Config wires a Dispatcher.
type Config struct {
	Links   *keepalive.Registry
	Holders *holder.Registry // nil means holder.Default()
	Logger  logging.Logger   // nil means logging.New(nil)
}

// Dispatcher applies ownership decisions to values returned across the
// boundary and records the keep-alive links they require.
type Dispatcher struct {
	links   *keepalive.Registry
	holders *holder.Registry
	log     logging.Logger
	objects *handles.Table
}

// New returns a Dispatcher. The holder registry is captured once; later
// SetDefault calls do not affect it.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Links == nil {
		return nil, ErrNilRegistry
	}
	if cfg.Holders == nil {
		cfg.Holders = holder.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New(nil)
	}
	return &Dispatcher{
		links:   cfg.Links,
		holders: cfg.Holders,
		log:     cfg.Logger,
		objects: handles.NewTable(),
	}, nil
}

// Return resolves ownership for a value returned by site and, when the policy
// requires it, records that returned must be kept alive until receiver (the
// call's first argument) is finalized.
//
// A PolicyShapeMismatch is logged and returned with a zero Decision. A
// DoubleOwnershipRisk is logged as a warning and returned together with the
// callee-owned Decision that was applied; check it with ownership.IsWarning.
func (d *Dispatcher) Return(ctx context.Context, site Site, returned, receiver keepalive.ObjectID) (ownership.Decision, error) {
	if site.Policy == ownership.ReferenceInternal {
		// The receiver is an argument of the call and still alive here.
		defer d.links.Hold(receiver)()
	}

	c := ownership.Crossing{
		Shape:            site.Shape,
		Policy:           site.Policy,
		IsPointer:        site.IsPointer,
		IsRValueRef:      site.IsRValueRef,
		SharedHolder:     d.holders.IsShared(site.TypeName),
		TrackedElsewhere: site.TrackedElsewhere,
	}

	dec, err := ownership.ResolveCrossing(c)
	if err != nil {
		if !ownership.IsWarning(err) {
			d.log.Error(ctx, "crossing rejected", "site", site.Name, "type", site.TypeName, "err", err)
			return ownership.Decision{}, err
		}
		d.log.Warn(ctx, "double ownership avoided; value stays callee-owned",
			"site", site.Name, "type", site.TypeName, "err", err)
	}

	if dec.RequiresLifetimeLink {
		if receiver == keepalive.NoObject {
			d.log.Debug(ctx, "keep-alive skipped: no receiver", "site", site.Name, "returned", uint64(returned))
		} else {
			d.links.Register(returned, receiver)
		}
	}
	return dec, err
}

// Track issues an object id for v and keeps v reachable until Finalized.
func (d *Dispatcher) Track(v any) (keepalive.ObjectID, error) {
	h, err := d.objects.Put(v)
	if err != nil {
		return keepalive.NoObject, err
	}
	return keepalive.ObjectID(h), nil
}

// Value returns the Go value tracked under id.
func (d *Dispatcher) Value(id keepalive.ObjectID) (any, bool) {
	return d.objects.Get(handles.ID(id))
}

// Finalized is called by the host memory manager when it finalizes id. It
// stops tracking the value and releases every link id was keeping alive.
func (d *Dispatcher) Finalized(ctx context.Context, id keepalive.ObjectID) int {
	if err := d.objects.Delete(handles.ID(id)); err != nil {
		d.log.Debug(ctx, "finalized id was not tracked", "id", uint64(id), "err", err)
	}
	n := d.links.OnPatientFinalized(id)
	if n > 0 {
		d.log.Debug(ctx, "patient finalized", "patient", uint64(id), "released", n)
	}
	return n
}

// Token returns the pointer-sized token the other runtime stores for id.
func Token(id keepalive.ObjectID) (uintptr, error) {
	return handles.ID(id).PointerBits()
}

// FromToken converts a token handed back by the other runtime into an id.
func FromToken(tok uintptr) (keepalive.ObjectID, error) {
	h, err := handles.FromPointerBits(tok)
	if err != nil {
		return keepalive.NoObject, err
	}
	return keepalive.ObjectID(h), nil
}

// CanRelease reports whether the host may release id: no patient is keeping
// it alive.
func (d *Dispatcher) CanRelease(id keepalive.ObjectID) bool {
	return !d.links.HasActiveLinks(id)
}

// Tracked reports how many values are tracked.
func (d *Dispatcher) Tracked() int {
	return d.objects.Len()
}

// LogEvents returns a keepalive observer that writes registry events to l at
// debug level. Unverified registrations are logged as warnings.
func LogEvents(l logging.Logger) func(keepalive.Event) {
	return func(e keepalive.Event) {
		args := []any{"nurse", uint64(e.Link.Nurse), "patient", uint64(e.Link.Patient)}
		if e.Kind == keepalive.Unverified {
			l.Warn(context.Background(), "keep-alive link for a possibly finalized patient; it may never be released", args...)
			return
		}
		l.Debug(context.Background(), "keep-alive "+e.Kind.String(), args...)
	}
}
