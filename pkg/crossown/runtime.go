package crossown

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hsiuhsiu/crossown-go/pkg/crossown/dispatch"
	"github.com/hsiuhsiu/crossown-go/pkg/crossown/holder"
	"github.com/hsiuhsiu/crossown-go/pkg/crossown/keepalive"
	"github.com/hsiuhsiu/crossown-go/pkg/crossown/logging"
	"github.com/hsiuhsiu/crossown-go/pkg/crossown/ownership"
)

var stderr io.Writer = os.Stderr

// Runtime bundles the keep-alive registry, holder registry and dispatcher that
// serve one host runtime.
type Runtime struct {
	mu     sync.Mutex
	closed bool

	links   *keepalive.Registry
	holders *holder.Registry
	disp    *dispatch.Dispatcher
	log     logging.Logger
}

// Open validates cfg, loads the holder declarations if any and returns a ready
// Runtime. Without HolderFile the process-wide holder.Default() is used.
func Open(cfg Config) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	logger := cfg.logger().With("component", "crossown")

	holders := holder.Default()
	if cfg.HolderFile != "" {
		r, err := holder.LoadFile(cfg.HolderFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHolderConfig, err)
		}
		holders = r
	}

	links := keepalive.New(keepalive.Options{
		Shards:         cfg.Shards,
		TombstoneLimit: cfg.TombstoneLimit,
		Observer:       dispatch.LogEvents(logger),
	})
	disp, err := dispatch.New(dispatch.Config{Links: links, Holders: holders, Logger: logger})
	if err != nil {
		return nil, RemapError(err)
	}

	logger.Debug(context.Background(), "runtime opened",
		"shards", cfg.Shards, "holders", holders.Len(), "tombstone_limit", cfg.TombstoneLimit)
	return &Runtime{links: links, holders: holders, disp: disp, log: logger}, nil
}

// Close marks the runtime closed. It is safe to call on nil and returns
// ErrRuntimeClosed when called twice.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRuntimeClosed
	}
	r.closed = true
	if n := r.links.Len(); n > 0 {
		r.log.Warn(context.Background(), "runtime closed with active keep-alive links", "links", n)
	}
	return nil
}

func (r *Runtime) live() error {
	if r == nil {
		return ErrRuntimeClosed
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRuntimeClosed
	}
	return nil
}

// Return forwards to the dispatcher. See dispatch.Dispatcher.Return.
func (r *Runtime) Return(ctx context.Context, site Site, returned, receiver ObjectID) (Decision, error) {
	if err := r.live(); err != nil {
		return Decision{}, err
	}
	return r.disp.Return(ctx, site, returned, receiver)
}

// Track issues an object id for v.
func (r *Runtime) Track(v any) (ObjectID, error) {
	if err := r.live(); err != nil {
		return NoObject, err
	}
	return r.disp.Track(v)
}

// Finalized reports that the host finalized id. It returns the number of
// keep-alive links released.
func (r *Runtime) Finalized(ctx context.Context, id ObjectID) (int, error) {
	if err := r.live(); err != nil {
		return 0, err
	}
	return r.disp.Finalized(ctx, id), nil
}

// CanRelease reports whether no patient keeps id alive. The answer is
// linearizable per patient only; see keepalive.Registry.HasActiveLinks.
func (r *Runtime) CanRelease(id ObjectID) (bool, error) {
	if err := r.live(); err != nil {
		return false, err
	}
	return r.disp.CanRelease(id), nil
}

// Links exposes the keep-alive registry.
func (r *Runtime) Links() *keepalive.Registry { return r.links }

// Holders exposes the holder registry in use.
func (r *Runtime) Holders() *holder.Registry { return r.holders }

// Resolve is ownership.Resolve.
func Resolve(shape ValueShape, policy Policy, isPointer, isRValueRef bool) (Decision, error) {
	return ownership.Resolve(shape, policy, isPointer, isRValueRef)
}
