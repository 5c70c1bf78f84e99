package keepalive

import (
	"math/bits"
	"sort"
	"sync"

	"fortio.org/safecast"
)

// ObjectID identifies a value tracked by the host runtime.
type ObjectID uint64

// NoObject is the absent id. Links naming it as patient are never recorded.
const NoObject ObjectID = 0

// Link records that Nurse must not be released while Patient is alive.
type Link struct {
	Nurse   ObjectID `msgpack:"nurse"`
	Patient ObjectID `msgpack:"patient"`
}

const (
	// DefaultShards is the shard count used when Options.Shards is zero.
	DefaultShards = 16

	// DefaultTombstoneLimit is the tombstone bound used when
	// Options.TombstoneLimit is zero.
	DefaultTombstoneLimit = 1 << 16
)

// Options configures a Registry.
type Options struct {
	// Shards is rounded up to a power of two. Zero selects DefaultShards.
	Shards int

	// TombstoneLimit bounds how many finalized patients are remembered so that
	// late registrations naming them can be dropped. Zero selects
	// DefaultTombstoneLimit; a negative value means unbounded. Only patients
	// that had links, or a Hold, when finalized are remembered.
	TombstoneLimit int

	// Observer, when set, is called after every state change, outside of any
	// registry lock.
	Observer func(Event)
}

// Registry is the set of keep-alive links between nurses and patients. It
// never releases anything itself; the host runtime consults HasActiveLinks
// before it finalizes a candidate nurse.
//
// Links are sharded by patient. Every operation naming a patient is serialized
// on that patient's shard, so a registration racing with the patient's
// finalization either lands before the removal or is dropped. A patient that
// had no links when finalized is only remembered if a registration naming it
// was announced with Hold.
type Registry struct {
	shards   []shard
	mask     uint64
	observer func(Event)
}

type shard struct {
	mu sync.Mutex

	// patient -> nurses and nurse -> patients, restricted to this shard's
	// patients.
	byPatient map[ObjectID]map[ObjectID]struct{}
	byNurse   map[ObjectID]map[ObjectID]struct{}

	// held counts in-flight registrations announced with Hold.
	held map[ObjectID]int

	finalized map[ObjectID]struct{}
	tombs     []ObjectID
	tombLimit int
	// evictedMax is the highest patient whose tombstone was evicted.
	evictedMax ObjectID
}

// New returns an empty registry.
func New(opts Options) *Registry {
	n := opts.Shards
	if n <= 0 {
		n = DefaultShards
	}
	un, err := safecast.Conv[uint64](n)
	if err != nil {
		un = DefaultShards
	}
	if un&(un-1) != 0 {
		un = 1 << bits.Len64(un)
	}

	limit := opts.TombstoneLimit
	if limit == 0 {
		limit = DefaultTombstoneLimit
	}
	perShard := 0
	if limit > 0 {
		perShard = (limit + int(un) - 1) / int(un)
	}

	r := &Registry{
		shards:   make([]shard, un),
		mask:     un - 1,
		observer: opts.Observer,
	}
	for i := range r.shards {
		r.shards[i] = shard{
			byPatient: make(map[ObjectID]map[ObjectID]struct{}),
			byNurse:   make(map[ObjectID]map[ObjectID]struct{}),
			held:      make(map[ObjectID]int),
			finalized: make(map[ObjectID]struct{}),
			tombLimit: perShard,
		}
	}
	return r
}

func (r *Registry) shardFor(patient ObjectID) *shard {
	return &r.shards[uint64(patient)&r.mask]
}

// Register records that nurse must be kept alive until patient is finalized.
// A NoObject patient is a no-op. Registering an existing pair has no further
// effect. Registrations naming a finalized patient that is still remembered
// are dropped. The result reports whether a new link was recorded.
//
// Once a finalized patient's tombstone has been evicted, a late registration
// naming it cannot be told apart from one naming a live patient. Such a
// registration is recorded and reported to the observer as Unverified; the
// link it creates is never released.
func (r *Registry) Register(nurse, patient ObjectID) bool {
	if patient == NoObject {
		return false
	}
	l := Link{Nurse: nurse, Patient: patient}

	s := r.shardFor(patient)
	s.mu.Lock()
	if _, gone := s.finalized[patient]; gone {
		s.mu.Unlock()
		r.notify(Event{Kind: Dropped, Link: l})
		return false
	}
	nurses := s.byPatient[patient]
	unverified := false
	if nurses == nil {
		unverified = patient <= s.evictedMax && s.held[patient] == 0
		nurses = make(map[ObjectID]struct{})
		s.byPatient[patient] = nurses
	}
	if _, dup := nurses[nurse]; dup {
		s.mu.Unlock()
		return false
	}
	nurses[nurse] = struct{}{}
	patients := s.byNurse[nurse]
	if patients == nil {
		patients = make(map[ObjectID]struct{})
		s.byNurse[nurse] = patients
	}
	patients[patient] = struct{}{}
	s.mu.Unlock()

	r.notify(Event{Kind: Registered, Link: l})
	if unverified {
		r.notify(Event{Kind: Unverified, Link: l})
	}
	return true
}

// Hold announces a registration naming patient that is about to be made. It
// must be called while patient is still alive, typically when the call whose
// result will be linked begins. Until release is called, finalizing patient
// leaves a tombstone even if it has no links, so the pending Register is
// dropped instead of creating a link nothing would release. NoObject is
// ignored. release may be called more than once.
func (r *Registry) Hold(patient ObjectID) (release func()) {
	if patient == NoObject {
		return func() {}
	}
	s := r.shardFor(patient)
	s.mu.Lock()
	s.held[patient]++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.held[patient]--; s.held[patient] <= 0 {
				delete(s.held, patient)
			}
			s.mu.Unlock()
		})
	}
}

// OnPatientFinalized releases every link whose patient is the given id and
// returns how many were released. Unknown ids are a no-op. The nurses are not
// finalized by this call; it only removes the obligation.
func (r *Registry) OnPatientFinalized(patient ObjectID) int {
	if patient == NoObject {
		return 0
	}

	s := r.shardFor(patient)
	s.mu.Lock()
	nurses := s.byPatient[patient]
	delete(s.byPatient, patient)
	released := make([]Link, 0, len(nurses))
	for nurse := range nurses {
		if patients := s.byNurse[nurse]; patients != nil {
			delete(patients, patient)
			if len(patients) == 0 {
				delete(s.byNurse, nurse)
			}
		}
		released = append(released, Link{Nurse: nurse, Patient: patient})
	}
	if len(released) > 0 || s.held[patient] > 0 {
		s.tombstone(patient)
	}
	s.mu.Unlock()

	for _, l := range released {
		r.notify(Event{Kind: Released, Link: l})
	}
	return len(released)
}

func (s *shard) tombstone(patient ObjectID) {
	if _, ok := s.finalized[patient]; ok {
		return
	}
	s.finalized[patient] = struct{}{}
	if s.tombLimit <= 0 {
		return
	}
	s.tombs = append(s.tombs, patient)
	for len(s.tombs) > s.tombLimit {
		evicted := s.tombs[0]
		delete(s.finalized, evicted)
		s.tombs = s.tombs[1:]
		if evicted > s.evictedMax {
			s.evictedMax = evicted
		}
	}
}

// HasActiveLinks reports whether any patient still keeps nurse alive.
//
// Shards are inspected one at a time, so the answer is linearizable per
// patient only. While links for nurse are being registered and finalized
// concurrently under different patients, it can report false even though some
// patient kept nurse alive at every instant of the scan. Hosts that release
// on a false answer must not register new links for nurse concurrently.
func (r *Registry) HasActiveLinks(nurse ObjectID) bool {
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		_, ok := s.byNurse[nurse]
		s.mu.Unlock()
		if ok {
			return true
		}
	}
	return false
}

// Patients returns the patients currently keeping nurse alive, sorted.
func (r *Registry) Patients(nurse ObjectID) []ObjectID {
	var out []ObjectID
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		for p := range s.byNurse[nurse] {
			out = append(out, p)
		}
		s.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len reports the number of active links.
func (r *Registry) Len() int {
	n := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		for _, nurses := range s.byPatient {
			n += len(nurses)
		}
		s.mu.Unlock()
	}
	return n
}

// Links returns every active link sorted by nurse, then patient.
func (r *Registry) Links() []Link {
	var out []Link
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		for p, nurses := range s.byPatient {
			for n := range nurses {
				out = append(out, Link{Nurse: n, Patient: p})
			}
		}
		s.mu.Unlock()
	}
	sortLinks(out)
	return out
}

func sortLinks(ls []Link) {
	sort.Slice(ls, func(i, j int) bool {
		if ls[i].Nurse != ls[j].Nurse {
			return ls[i].Nurse < ls[j].Nurse
		}
		return ls[i].Patient < ls[j].Patient
	})
}

func (r *Registry) notify(e Event) {
	if r.observer != nil {
		r.observer(e)
	}
}
