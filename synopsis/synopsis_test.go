package synopsis

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tenzir/vast/data"
)

func addAll(s Synopsis, values ...data.Data) {
	for _, v := range values {
		s.Add(data.ViewOf(v))
	}
}

func TestBloomEqualityContract(t *testing.T) {
	b := NewBloom()
	addAll(b, data.Address(netip.MustParseAddr("10.0.0.1")), data.Address(netip.MustParseAddr("10.0.0.2")))

	v, known := b.Lookup(data.OpEqual, data.ViewOf(data.Address(netip.MustParseAddr("10.0.0.1"))))
	assert.True(t, known)
	assert.True(t, v)

	v, known = b.Lookup(data.OpEqual, data.ViewOf(data.Address(netip.MustParseAddr("10.0.0.99"))))
	assert.True(t, known)
	assert.False(t, v)
}

func TestBloomNeverRulesOutNotEqual(t *testing.T) {
	b := NewBloom()
	addAll(b, data.String("example.com"))

	_, known := b.Lookup(data.OpNotEqual, data.ViewOf(data.String("example.com")))
	assert.False(t, known, "!= must always be None per the soundness contract")
}

func TestBloomInIsOrOfElementLookups(t *testing.T) {
	b := NewBloom()
	addAll(b, data.String("a"), data.String("b"))

	list := data.List(data.String("a"), data.String("z"))
	v, known := b.Lookup(data.OpIn, data.ViewOf(list))
	assert.True(t, known)
	assert.True(t, v, "one element present should make the whole `in` true")

	missing := data.List(data.String("y"), data.String("z"))
	v, known = b.Lookup(data.OpIn, data.ViewOf(missing))
	assert.True(t, known)
	assert.False(t, v, "no element present should make the whole `in` Some(false)")
}

func TestBloomUnsupportedOpReturnsNone(t *testing.T) {
	b := NewBloom()
	addAll(b, data.Integer(1))
	_, known := b.Lookup(data.OpLess, data.ViewOf(data.Integer(1)))
	assert.False(t, known)
}

func TestMinMaxEqualityOutsideRange(t *testing.T) {
	m := NewMinMax()
	addAll(m, data.Count(80), data.Count(443))

	v, known := m.Lookup(data.OpEqual, data.ViewOf(data.Count(1)))
	assert.True(t, known)
	assert.False(t, v)

	_, known = m.Lookup(data.OpEqual, data.ViewOf(data.Count(100)))
	assert.False(t, known, "a probe inside the range is only maybe-present")
}

func TestMinMaxOrderedComparisons(t *testing.T) {
	m := NewMinMax()
	addAll(m, data.Count(80), data.Count(443))

	v, known := m.Lookup(data.OpLess, data.ViewOf(data.Count(80)))
	assert.True(t, known)
	assert.False(t, v, "lo >= probe means Some(false)")

	v, known = m.Lookup(data.OpLess, data.ViewOf(data.Count(1000)))
	assert.True(t, known)
	assert.True(t, v, "hi < probe means Some(true)")

	_, known = m.Lookup(data.OpLess, data.ViewOf(data.Count(100)))
	assert.False(t, known)
}

func TestMinMaxUnsupportedOpReturnsNone(t *testing.T) {
	m := NewMinMax()
	addAll(m, data.Count(1))
	_, known := m.Lookup(data.OpIn, data.ViewOf(data.Count(1)))
	assert.False(t, known)
}

func TestMinMaxEmptyIsAlwaysNone(t *testing.T) {
	m := NewMinMax()
	_, known := m.Lookup(data.OpEqual, data.ViewOf(data.Count(1)))
	assert.False(t, known)
}

func TestBoolTallyEqualityContract(t *testing.T) {
	tally := NewBoolTally()
	addAll(tally, data.Bool(true), data.Bool(true))

	v, known := tally.Lookup(data.OpEqual, data.ViewOf(data.Bool(false)))
	assert.True(t, known)
	assert.False(t, v, "no false observed means Some(false) for == false")

	_, known = tally.Lookup(data.OpEqual, data.ViewOf(data.Bool(true)))
	assert.True(t, known)
}

func TestBoolTallyNotEqualContract(t *testing.T) {
	tally := NewBoolTally()
	addAll(tally, data.Bool(true), data.Bool(true))

	v, known := tally.Lookup(data.OpNotEqual, data.ViewOf(data.Bool(true)))
	assert.True(t, known)
	assert.False(t, v, "only trues observed means probe != true is Some(false)")
}
