package data

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualityIsCrossVariantForNumerics(t *testing.T) {
	assert.True(t, Evaluate(Integer(3), OpEqual, Count(3)))
	assert.True(t, Evaluate(Count(3), OpEqual, Real(3.0)))
	assert.False(t, Evaluate(Integer(3), OpEqual, Real(3.5)))
	assert.True(t, Evaluate(Integer(3), OpNotEqual, Real(3.5)))
}

func TestEqualityOnNonNumericVariants(t *testing.T) {
	assert.True(t, Evaluate(String("a"), OpEqual, String("a")))
	assert.False(t, Evaluate(String("a"), OpEqual, String("b")))
	assert.True(t, Evaluate(Bool(true), OpEqual, Bool(true)))
	assert.False(t, Evaluate(Bool(true), OpEqual, String("true")))
}

func TestOrderedComparisons(t *testing.T) {
	assert.True(t, Evaluate(Count(80), OpLess, Count(443)))
	assert.True(t, Evaluate(Count(443), OpGreaterEqual, Count(443)))
	assert.False(t, Evaluate(Count(443), OpLess, Count(443)))

	a := Address(netip.MustParseAddr("10.0.0.1"))
	b := Address(netip.MustParseAddr("10.0.0.2"))
	assert.True(t, Evaluate(a, OpLess, b))
}

func TestUndefinedComparisonIsFalseNotPanic(t *testing.T) {
	assert.False(t, Evaluate(Bool(true), OpLess, Bool(false)))
	assert.False(t, Evaluate(String("a"), OpLess, Integer(1)))
}

func TestInMembership(t *testing.T) {
	list := List(Integer(1), Integer(2), Integer(3))
	assert.True(t, Evaluate(Integer(2), OpIn, list))
	assert.False(t, Evaluate(Integer(9), OpIn, list))
	assert.True(t, Evaluate(Integer(9), OpNotIn, list))

	subnet := Subnet(netip.MustParsePrefix("10.0.0.0/8"))
	assert.True(t, Evaluate(Address(netip.MustParseAddr("10.1.2.3")), OpIn, subnet))
	assert.False(t, Evaluate(Address(netip.MustParseAddr("192.168.1.1")), OpIn, subnet))

	assert.True(t, Evaluate(String("example"), OpIn, String("example.com")))
}

func TestMatchDispatchesOnPatternKind(t *testing.T) {
	re := Pattern("^ex.*\\.com$", PatternRegex)
	assert.True(t, Evaluate(String("example.com"), OpMatch, re))
	assert.False(t, Evaluate(String("nope.org"), OpMatch, re))

	glob := Pattern("ex*.com", PatternGlob)
	assert.True(t, Evaluate(String("example.com"), OpMatch, glob))
	assert.False(t, Evaluate(String("example.org"), OpMatch, glob))

	assert.True(t, Evaluate(String("nope.org"), OpNotMatch, re))
}

func TestIsNegated(t *testing.T) {
	assert.True(t, IsNegated(OpNotEqual))
	assert.True(t, IsNegated(OpNotIn))
	assert.True(t, IsNegated(OpNotMatch))
	assert.False(t, IsNegated(OpEqual))
	assert.False(t, IsNegated(OpIn))
	assert.False(t, IsNegated(OpMatch))
}
