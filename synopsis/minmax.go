package synopsis

import (
	"sync"

	"github.com/tenzir/vast/data"
)

// MinMax is a range synopsis over an ordered type: it tracks the smallest
// and largest value added and answers comparisons against that range per
// spec.md §4.D.
type MinMax struct {
	mu       sync.Mutex
	hasValue bool
	lo, hi   data.Data
}

// NewMinMax returns an empty MinMax synopsis.
func NewMinMax() *MinMax {
	return &MinMax{}
}

// Add extends the tracked [lo, hi] range to include the observed value.
func (m *MinMax) Add(view data.View) {
	v := view.Get()
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasValue {
		m.lo, m.hi = v, v
		m.hasValue = true
		return
	}
	if data.Evaluate(v, data.OpLess, m.lo) {
		m.lo = v
	}
	if data.Evaluate(v, data.OpGreater, m.hi) {
		m.hi = v
	}
}

// Lookup implements the Min-Max contract of spec.md §4.D.
func (m *MinMax) Lookup(op data.RelOp, view data.View) (bool, bool) {
	m.mu.Lock()
	hasValue, lo, hi := m.hasValue, m.lo, m.hi
	m.mu.Unlock()
	if !hasValue {
		return None()
	}
	probe := view.Get()
	switch op {
	case data.OpEqual:
		if data.Evaluate(probe, data.OpLess, lo) || data.Evaluate(probe, data.OpGreater, hi) {
			return Some(false)
		}
		return None()
	case data.OpLess:
		if data.Evaluate(lo, data.OpGreaterEqual, probe) {
			return Some(false)
		}
		if data.Evaluate(hi, data.OpLess, probe) {
			return Some(true)
		}
		return None()
	case data.OpLessEqual:
		if data.Evaluate(lo, data.OpGreater, probe) {
			return Some(false)
		}
		if data.Evaluate(hi, data.OpLessEqual, probe) {
			return Some(true)
		}
		return None()
	case data.OpGreater:
		if data.Evaluate(hi, data.OpLessEqual, probe) {
			return Some(false)
		}
		if data.Evaluate(lo, data.OpGreater, probe) {
			return Some(true)
		}
		return None()
	case data.OpGreaterEqual:
		if data.Evaluate(hi, data.OpLess, probe) {
			return Some(false)
		}
		if data.Evaluate(lo, data.OpGreaterEqual, probe) {
			return Some(true)
		}
		return None()
	default:
		return None()
	}
}

// MemoryUsage reports the two boundary values' approximate resident size.
func (m *MinMax) MemoryUsage() uint64 {
	return 2 * 32 // fixed-size Data value, approximated
}
