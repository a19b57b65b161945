package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenzir/vast/data"
	"github.com/tenzir/vast/schema"
)

func TestNilIsTheZeroValue(t *testing.T) {
	var e Expression
	assert.True(t, e.IsNil())
	assert.True(t, Nil.IsNil())
}

func TestPredicateRoundTrip(t *testing.T) {
	p := Predicate{LHS: FieldExtractor("orig_h"), Op: data.OpEqual, RHS: data.String("10.0.0.1")}
	e := NewPredicate(p)
	got, ok := e.AsPredicate()
	require.True(t, ok)
	assert.Equal(t, "orig_h", got.LHS.FieldName())
	assert.Equal(t, data.OpEqual, got.Op)

	_, ok = e.AsConjunction()
	assert.False(t, ok)
}

func TestConjunctionAndDisjunctionChildren(t *testing.T) {
	p1 := NewPredicate(Predicate{LHS: FieldExtractor("a"), Op: data.OpEqual, RHS: data.Integer(1)})
	p2 := NewPredicate(Predicate{LHS: FieldExtractor("b"), Op: data.OpEqual, RHS: data.Integer(2)})

	conj := NewConjunction(p1, p2)
	children, ok := conj.AsConjunction()
	require.True(t, ok)
	assert.Len(t, children, 2)

	disj := NewDisjunction(p1, p2)
	children, ok = disj.AsDisjunction()
	require.True(t, ok)
	assert.Len(t, children, 2)
}

func TestNegationWrapsSingleChild(t *testing.T) {
	p := NewPredicate(Predicate{LHS: FieldExtractor("a"), Op: data.OpEqual, RHS: data.Integer(1)})
	neg := NewNegation(p)
	child, ok := neg.AsNegation()
	require.True(t, ok)
	assert.Equal(t, p, child)
}

func TestExtractorKinds(t *testing.T) {
	m := MetaExtractor(MetaType)
	assert.Equal(t, ExtractorMeta, m.Kind())
	assert.Equal(t, MetaType, m.MetaKind())

	f := FieldExtractor("orig_p")
	assert.Equal(t, ExtractorField, f.Kind())
	assert.Equal(t, "orig_p", f.FieldName())

	ty := TypeExtractor(schema.New(schema.KindCount))
	assert.Equal(t, ExtractorType, ty.Kind())
	assert.Equal(t, schema.KindCount, ty.Type().Kind())

	d := DataExtractor(data.Integer(3))
	assert.Equal(t, ExtractorData, d.Kind())
	assert.Equal(t, data.Integer(3), d.Literal())
}
