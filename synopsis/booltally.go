package synopsis

import (
	"sync"

	"github.com/tenzir/vast/data"
)

// BoolTally is a counts-only synopsis for bool fields: it tracks how many
// true and false values were observed, per spec.md §4.D.
type BoolTally struct {
	mu         sync.Mutex
	trueCount  uint64
	falseCount uint64
}

// NewBoolTally returns an empty BoolTally synopsis.
func NewBoolTally() *BoolTally {
	return &BoolTally{}
}

// Add increments the matching counter for the observed value.
func (t *BoolTally) Add(view data.View) {
	b, ok := view.Get().AsBool()
	if !ok {
		return
	}
	t.mu.Lock()
	if b {
		t.trueCount++
	} else {
		t.falseCount++
	}
	t.mu.Unlock()
}

// Lookup implements the Boolean tally contract of spec.md §4.D: lookup(==,
// true) is Some(false) iff zero trues were observed and Some(true)
// otherwise, since the counts are exact; symmetric for false. The same reasoning extends soundly to !=: probe != true can only be
// Some(false) if every observed value was true, i.e. zero falses.
func (t *BoolTally) Lookup(op data.RelOp, view data.View) (bool, bool) {
	probe, ok := view.Get().AsBool()
	if !ok {
		return None()
	}
	t.mu.Lock()
	trueCount, falseCount := t.trueCount, t.falseCount
	t.mu.Unlock()

	countOf := func(v bool) uint64 {
		if v {
			return trueCount
		}
		return falseCount
	}

	switch op {
	case data.OpEqual:
		return Some(countOf(probe) > 0)
	case data.OpNotEqual:
		if countOf(!probe) == 0 {
			return Some(false)
		}
		return None()
	default:
		return None()
	}
}

// MemoryUsage reports the two counters' fixed resident size.
func (t *BoolTally) MemoryUsage() uint64 {
	return 16
}
