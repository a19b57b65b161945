// Package data implements VAST's tagged-union value domain: the typed
// literals that appear as predicate right-hand sides and as the probe keys
// synopses are queried with. Data owns its contents; View is a non-owning
// projection over a Data used to avoid copies across a single synopsis
// lookup call.
package data

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/tenzir/vast/schema"
)

// Data is a tagged union covering every schema.Kind variant plus the two
// composite literal shapes (list, map) predicates can appear against.
type Data struct {
	kind   schema.Kind
	b      bool
	i      int64
	u      uint64
	f      float64
	t      time.Time
	dur    time.Duration
	s      string
	addr   netip.Addr
	subnet netip.Prefix
	port   uint16
	list   []Data
	m      []MapEntry
	pat    PatternKind
}

// MapEntry is one key/value pair of a Map literal.
type MapEntry struct {
	Key   Data
	Value Data
}

// PatternKind distinguishes the two pattern dialects spec.md §4.B names for
// match/!match.
type PatternKind uint8

const (
	PatternRegex PatternKind = iota
	PatternGlob
)

// Kind returns the variant this Data holds.
func (d Data) Kind() schema.Kind { return d.kind }

// None returns the none/absent value.
func None() Data { return Data{kind: schema.KindNone} }

// Bool constructs a bool Data.
func Bool(v bool) Data { return Data{kind: schema.KindBool, b: v} }

// Integer constructs a signed integer Data.
func Integer(v int64) Data { return Data{kind: schema.KindInteger, i: v} }

// Count constructs an unsigned integer Data.
func Count(v uint64) Data { return Data{kind: schema.KindCount, u: v} }

// Real constructs a floating point Data.
func Real(v float64) Data { return Data{kind: schema.KindReal, f: v} }

// Time constructs a timestamp Data.
func Time(v time.Time) Data { return Data{kind: schema.KindTime, t: v} }

// Duration constructs a duration Data.
func Duration(v time.Duration) Data { return Data{kind: schema.KindDuration, dur: v} }

// String constructs a string Data.
func String(v string) Data { return Data{kind: schema.KindString, s: v} }

// Enumeration constructs an enumeration-member Data by name.
func Enumeration(member string) Data { return Data{kind: schema.KindEnumeration, s: member} }

// Pattern constructs a pattern Data of the given dialect.
func Pattern(expr string, kind PatternKind) Data {
	return Data{kind: schema.KindPattern, s: expr, pat: kind}
}

// Address constructs an IP address Data.
func Address(v netip.Addr) Data { return Data{kind: schema.KindAddress, addr: v} }

// Subnet constructs a CIDR subnet Data.
func Subnet(v netip.Prefix) Data { return Data{kind: schema.KindSubnet, subnet: v} }

// Port constructs a transport-port Data holding the port number only; no
// protocol is stored. AsPort returns the number.
func Port(number uint16) Data { return Data{kind: schema.KindPort, port: number} }

// List constructs a list Data.
func List(items ...Data) Data { return Data{kind: schema.KindList, list: items} }

// Map constructs a map Data from ordered entries.
func Map(entries ...MapEntry) Data { return Data{kind: schema.KindMap, m: entries} }

// AsBool returns the bool value and whether d holds one.
func (d Data) AsBool() (bool, bool) { return d.b, d.kind == schema.KindBool }

// AsString returns the string value and whether d holds a string, pattern,
// or enumeration member (all of which are backed by a string).
func (d Data) AsString() (string, bool) {
	switch d.kind {
	case schema.KindString, schema.KindPattern, schema.KindEnumeration:
		return d.s, true
	default:
		return "", false
	}
}

// AsAddress returns the address value and whether d holds one.
func (d Data) AsAddress() (netip.Addr, bool) { return d.addr, d.kind == schema.KindAddress }

// AsSubnet returns the subnet value and whether d holds one.
func (d Data) AsSubnet() (netip.Prefix, bool) { return d.subnet, d.kind == schema.KindSubnet }

// AsPort returns the port number and whether d holds one.
func (d Data) AsPort() (uint16, bool) { return d.port, d.kind == schema.KindPort }

// AsTime returns the timestamp value and whether d holds one.
func (d Data) AsTime() (time.Time, bool) { return d.t, d.kind == schema.KindTime }

// AsDuration returns the duration value and whether d holds one.
func (d Data) AsDuration() (time.Duration, bool) { return d.dur, d.kind == schema.KindDuration }

// AsList returns the list elements and whether d holds a list.
func (d Data) AsList() ([]Data, bool) { return d.list, d.kind == schema.KindList }

// AsMap returns the map entries and whether d holds a map.
func (d Data) AsMap() ([]MapEntry, bool) { return d.m, d.kind == schema.KindMap }

// PatternKind returns d's pattern dialect; only meaningful if d.Kind() ==
// schema.KindPattern.
func (d Data) PatternKind() PatternKind { return d.pat }

// isNumeric reports whether d is one of the three numeric variants that
// cross-compare for equality and ordering.
func (d Data) isNumeric() bool {
	switch d.kind {
	case schema.KindInteger, schema.KindCount, schema.KindReal:
		return true
	default:
		return false
	}
}

// asFloat64 narrows any numeric variant to float64 for cross-variant
// comparison. It is only called once isNumeric has confirmed d is numeric.
func (d Data) asFloat64() float64 {
	switch d.kind {
	case schema.KindInteger:
		return float64(d.i)
	case schema.KindCount:
		return float64(d.u)
	case schema.KindReal:
		return d.f
	default:
		return 0
	}
}

// Narrow converts d to the requested numeric kind, preserving value when
// possible. It reports a conversion failure rather than silently truncating
// per spec.md §3: "explicit and must preserve value when possible or be
// reported as a parse/convert failure."
func (d Data) Narrow(to schema.Kind) (Data, error) {
	if !d.isNumeric() {
		return Data{}, fmt.Errorf("data: cannot narrow non-numeric kind %s", d.kind)
	}
	switch to {
	case schema.KindInteger:
		switch d.kind {
		case schema.KindInteger:
			return d, nil
		case schema.KindCount:
			if d.u > 1<<63-1 {
				return Data{}, fmt.Errorf("data: count %d overflows integer", d.u)
			}
			return Integer(int64(d.u)), nil
		case schema.KindReal:
			if d.f != float64(int64(d.f)) {
				return Data{}, fmt.Errorf("data: real %v has no exact integer representation", d.f)
			}
			return Integer(int64(d.f)), nil
		}
	case schema.KindCount:
		switch d.kind {
		case schema.KindCount:
			return d, nil
		case schema.KindInteger:
			if d.i < 0 {
				return Data{}, fmt.Errorf("data: negative integer %d cannot become a count", d.i)
			}
			return Count(uint64(d.i)), nil
		case schema.KindReal:
			if d.f < 0 || d.f != float64(uint64(d.f)) {
				return Data{}, fmt.Errorf("data: real %v has no exact count representation", d.f)
			}
			return Count(uint64(d.f)), nil
		}
	case schema.KindReal:
		return Real(d.asFloat64()), nil
	}
	return Data{}, fmt.Errorf("data: unsupported narrowing target %s", to)
}
