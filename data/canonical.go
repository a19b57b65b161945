package data

import (
	"encoding/binary"
	"math"

	"github.com/tenzir/vast/schema"
)

// CanonicalBytes returns a deterministic byte encoding of d suitable for
// hashing into a synopsis probe key. The three numeric variants encode to
// the same bytes when they hold the same value, so a Bloom synopsis built
// from one variant still answers a probe made with another, per spec.md
// §4.B's cross-variant numeric equality rule.
func CanonicalBytes(d Data) []byte {
	var buf []byte
	buf = append(buf, byte(d.kind))
	if d.isNumeric() {
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], math.Float64bits(d.asFloat64()))
		return append([]byte{canonicalNumericTag}, tmp[:]...)
	}
	switch d.kind {
	case schema.KindNone:
		return buf
	case schema.KindBool:
		if d.b {
			return append(buf, 1)
		}
		return append(buf, 0)
	case schema.KindString, schema.KindPattern, schema.KindEnumeration:
		return append(buf, []byte(d.s)...)
	case schema.KindTime:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], uint64(d.t.UnixNano()))
		return append(buf, tmp[:]...)
	case schema.KindDuration:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], uint64(d.dur))
		return append(buf, tmp[:]...)
	case schema.KindAddress:
		asSlice, _ := d.addr.MarshalBinary()
		return append(buf, asSlice...)
	case schema.KindSubnet:
		asSlice, _ := d.subnet.MarshalBinary()
		return append(buf, asSlice...)
	case schema.KindPort:
		var tmp [2]byte
		binary.BigEndian.PutUint16(tmp[:], d.port)
		return append(buf, tmp[:]...)
	case schema.KindList:
		for _, item := range d.list {
			buf = append(buf, CanonicalBytes(item)...)
			buf = append(buf, 0xff)
		}
		return buf
	case schema.KindMap:
		for _, entry := range d.m {
			buf = append(buf, CanonicalBytes(entry.Key)...)
			buf = append(buf, 0xfe)
			buf = append(buf, CanonicalBytes(entry.Value)...)
			buf = append(buf, 0xff)
		}
		return buf
	default:
		return buf
	}
}

// canonicalNumericTag replaces the kind byte for any numeric variant so
// integer/count/real probes of equal value collide in the encoding.
const canonicalNumericTag = 0xf0
