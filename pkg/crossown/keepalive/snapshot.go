package keepalive

import (
	"fmt"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is written into every encoded snapshot.
const SnapshotVersion = 1

// Snapshot is a point-in-time copy of the registry for a host runtime that
// lives in another process. Links and Finalized are sorted.
type Snapshot struct {
	Version   int        `msgpack:"v"`
	Links     []Link     `msgpack:"links"`
	Finalized []ObjectID `msgpack:"finalized"`
}

// Snapshot copies the registry. Each shard is copied under its own lock; the
// result is consistent per patient.
func (r *Registry) Snapshot() Snapshot {
	snap := Snapshot{Version: SnapshotVersion}
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		for p, nurses := range s.byPatient {
			for n := range nurses {
				snap.Links = append(snap.Links, Link{Nurse: n, Patient: p})
			}
		}
		for p := range s.finalized {
			snap.Finalized = append(snap.Finalized, p)
		}
		s.mu.Unlock()
	}
	sortLinks(snap.Links)
	sort.Slice(snap.Finalized, func(i, j int) bool { return snap.Finalized[i] < snap.Finalized[j] })
	return snap
}

// MarshalSnapshot encodes a snapshot of r with msgpack.
func (r *Registry) MarshalSnapshot() ([]byte, error) {
	return msgpack.Marshal(r.Snapshot())
}

// UnmarshalSnapshot decodes data produced by MarshalSnapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("keepalive: decode snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("keepalive: unsupported snapshot version %d", snap.Version)
	}
	return snap, nil
}

// Restore loads a snapshot into r, typically an empty registry after a host
// restart. Tombstones are restored before links so that a link naming a
// finalized patient is dropped.
func (r *Registry) Restore(snap Snapshot) {
	for _, p := range snap.Finalized {
		s := r.shardFor(p)
		s.mu.Lock()
		s.tombstone(p)
		s.mu.Unlock()
	}
	for _, l := range snap.Links {
		r.Register(l.Nurse, l.Patient)
	}
}
