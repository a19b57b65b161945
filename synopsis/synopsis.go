// Package synopsis implements VAST's per-field synopsis abstraction: a
// bounded-size, sound (no-false-negative) summary of the values observed for
// one field in one partition. Every concrete kind honours the contract
// spec.md §3 states for the trait: a lookup returning Some(false) guarantees
// no inserted value satisfies the probe; Some(true) or None both mean "maybe".
package synopsis

import "github.com/tenzir/vast/data"

// Synopsis is the per-field summary trait. Add accumulates one observed
// value; it is only ever called during construction, before the synopsis is
// handed to a meta-index via merge (spec.md §3: "never mutated after
// handoff"). Lookup answers a probe as an Option<bool>, modelled here as
// (value, known bool): known == false means None.
type Synopsis interface {
	Add(view data.View)
	Lookup(op data.RelOp, view data.View) (value bool, known bool)
	MemoryUsage() uint64
}

// Some wraps a definite answer, for readability at call sites that build one
// by hand instead of delegating to a concrete kind.
func Some(v bool) (bool, bool) { return v, true }

// None is the "maybe" answer: not known either way.
func None() (bool, bool) { return false, false }
