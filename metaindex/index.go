// Package metaindex implements the meta-index itself: the state mapping
// partition identifiers to partition synopses (spec.md §4.F) and the query
// surface that exposes merge/erase/lookup as mailbox-ordered operations
// (spec.md §4.G). Index is not safe for concurrent use by multiple
// goroutines; Actor (actor.go) supplies the single-consumer ordering
// guarantee spec.md §5 requires.
package metaindex

import (
	"github.com/go-kit/log"
	"github.com/tenzir/vast/partition"
)

// Index holds every partition synopsis currently known to one shard. The
// zero value is not usable; construct with NewIndex.
type Index struct {
	synopses map[partition.ID]*partition.Synopsis
	logger   log.Logger
}

// Option configures an Index at construction time.
type Option func(*Index)

// WithLogger attaches a logger for the diagnostic conditions spec.md §4.F
// names (unknown LHS, mistyped RHS). The default is a no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(idx *Index) { idx.logger = logger }
}

// NewIndex returns an empty Index, the initial state spec.md §4.G specifies.
func NewIndex(opts ...Option) *Index {
	idx := &Index{
		synopses: make(map[partition.ID]*partition.Synopsis),
		logger:   log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Merge inserts or replaces the synopsis for id, per spec.md §4.G's
// `S → S ∪ {id ↦ synopsis}` transition.
func (idx *Index) Merge(id partition.ID, syn *partition.Synopsis) {
	idx.synopses[id] = syn
}

// MergeBulk applies a batch of merges. The final state is independent of
// application order provided the keys are unique, per spec.md §4.G.
func (idx *Index) MergeBulk(batch map[partition.ID]*partition.Synopsis) {
	for id, syn := range batch {
		idx.synopses[id] = syn
	}
}

// Erase removes id's synopsis, if present. It is a no-op if id is absent,
// per spec.md §4.G.
func (idx *Index) Erase(id partition.ID) {
	delete(idx.synopses, id)
}

// At returns the synopsis registered for id and whether one exists.
func (idx *Index) At(id partition.ID) (*partition.Synopsis, bool) {
	syn, ok := idx.synopses[id]
	return syn, ok
}

// MemoryUsage returns the exact sum of every partition synopsis's resident
// size, per spec.md §3's (I4) invariant.
func (idx *Index) MemoryUsage() uint64 {
	var total uint64
	for _, syn := range idx.synopses {
		total += syn.MemoryUsage()
	}
	return total
}

// Len returns the number of partitions currently tracked.
func (idx *Index) Len() int { return len(idx.synopses) }
