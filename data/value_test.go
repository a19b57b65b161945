package data

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenzir/vast/schema"
)

func TestAccessorsRoundTrip(t *testing.T) {
	b, ok := Bool(true).AsBool()
	require.True(t, ok)
	assert.True(t, b)

	s, ok := String("hello").AsString()
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	addr := netip.MustParseAddr("10.0.0.1")
	got, ok := Address(addr).AsAddress()
	require.True(t, ok)
	assert.Equal(t, addr, got)

	now := time.Now()
	gt, ok := Time(now).AsTime()
	require.True(t, ok)
	assert.True(t, gt.Equal(now))

	_, ok = Bool(true).AsString()
	assert.False(t, ok)
}

func TestAsStringCoversPatternAndEnumeration(t *testing.T) {
	s, ok := Pattern("foo.*", PatternRegex).AsString()
	require.True(t, ok)
	assert.Equal(t, "foo.*", s)

	s, ok = Enumeration("RUNNING").AsString()
	require.True(t, ok)
	assert.Equal(t, "RUNNING", s)
}

func TestNarrowPreservesValue(t *testing.T) {
	got, err := Integer(42).Narrow(schema.KindCount)
	require.NoError(t, err)
	assert.Equal(t, schema.KindCount, got.Kind())
	assert.Equal(t, uint64(42), got.u)

	got, err = Count(42).Narrow(schema.KindInteger)
	require.NoError(t, err)
	assert.Equal(t, schema.KindInteger, got.Kind())
	assert.Equal(t, int64(42), got.i)

	got, err = Real(3.0).Narrow(schema.KindInteger)
	require.NoError(t, err)
	assert.Equal(t, schema.KindInteger, got.Kind())
	assert.Equal(t, int64(3), got.i)
}

func TestNarrowRejectsLossyConversions(t *testing.T) {
	_, err := Integer(-1).Narrow(schema.KindCount)
	assert.Error(t, err)

	_, err = Real(3.5).Narrow(schema.KindInteger)
	assert.Error(t, err)

	_, err = Bool(true).Narrow(schema.KindInteger)
	assert.Error(t, err)
}

func TestViewProjectsWithoutCopyingOwnership(t *testing.T) {
	d := String("payload")
	v := NewView(&d)
	assert.Equal(t, d, v.Get())

	v2 := ViewOf(Integer(7))
	got, ok := v2.Get().AsBool()
	_ = got
	_ = ok
	assert.Equal(t, schema.KindInteger, v2.Get().Kind())

	var empty View
	assert.Equal(t, schema.KindNone, empty.Get().Kind())
}
