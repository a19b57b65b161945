package synopsis

import (
	"sync"

	"github.com/FastFilter/xorfilter"
	"github.com/cespare/xxhash/v2"
	"github.com/tenzir/vast/data"
)

// Bloom is an equality/membership synopsis backed by a static xor filter.
// Unlike a classic k-hash Bloom filter, xorfilter.Xor8 must be built once
// from its complete key set; that matches spec.md §3's "never mutated after
// handoff" lifecycle for a partition synopsis exactly, so Add only
// accumulates keys and the filter itself is built lazily, once, on first
// Lookup.
type Bloom struct {
	mu     sync.Mutex
	keys   []uint64
	once   sync.Once
	filter *xorfilter.Xor8
	built  bool
}

// NewBloom returns an empty Bloom synopsis.
func NewBloom() *Bloom {
	return &Bloom{}
}

// Add records one observed value's canonical hash as a filter key.
func (b *Bloom) Add(view data.View) {
	key := xxhash.Sum64(data.CanonicalBytes(view.Get()))
	b.mu.Lock()
	b.keys = append(b.keys, key)
	b.mu.Unlock()
}

func (b *Bloom) ensureBuilt() {
	b.once.Do(func() {
		b.mu.Lock()
		keys := append([]uint64(nil), b.keys...)
		b.mu.Unlock()
		if len(keys) == 0 {
			b.built = true
			return
		}
		filter, err := xorfilter.Populate(keys)
		if err != nil {
			// Populate fails only on pathological duplicate-heavy inputs;
			// fall back to an always-maybe filter rather than panic, since
			// lookups must remain total per spec.md §4.F.
			b.built = true
			return
		}
		b.filter = filter
		b.built = true
	})
}

// Lookup implements the Bloom contract of spec.md §4.D.
func (b *Bloom) Lookup(op data.RelOp, view data.View) (bool, bool) {
	switch op {
	case data.OpEqual:
		return b.containsOne(view.Get())
	case data.OpNotEqual:
		return None()
	case data.OpIn:
		return b.lookupIn(view.Get())
	default:
		return None()
	}
}

func (b *Bloom) containsOne(d data.Data) (bool, bool) {
	b.ensureBuilt()
	if b.filter == nil {
		return None()
	}
	key := xxhash.Sum64(data.CanonicalBytes(d))
	return Some(b.filter.Contains(key))
}

func (b *Bloom) lookupIn(d data.Data) (bool, bool) {
	list, ok := d.AsList()
	if !ok {
		return None()
	}
	any, unknown := false, false
	for _, item := range list {
		v, known := b.containsOne(item)
		if !known {
			unknown = true
			continue
		}
		if v {
			any = true
			break
		}
	}
	if !any && unknown {
		return None()
	}
	return Some(any)
}

// MemoryUsage reports the filter's resident size plus the pending key
// buffer, in bytes.
func (b *Bloom) MemoryUsage() uint64 {
	b.mu.Lock()
	pending := uint64(len(b.keys)) * 8
	b.mu.Unlock()
	if b.filter == nil {
		return pending
	}
	return uint64(len(b.filter.Fingerprints)) + pending
}
