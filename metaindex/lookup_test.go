package metaindex

import (
	"context"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenzir/vast/data"
	"github.com/tenzir/vast/expr"
	"github.com/tenzir/vast/partition"
	"github.com/tenzir/vast/schema"
	"github.com/tenzir/vast/synopsis"
)

func idN(n byte) partition.ID {
	return partition.IDFromBytes([16]byte{15: n})
}

// buildABC constructs the three literal partitions from spec.md §8's
// end-to-end scenarios: A and C share the conn layout, B is dns.
func buildABC(t *testing.T) (*Index, partition.ID, partition.ID, partition.ID) {
	t.Helper()
	a, b, c := idN(1), idN(2), idN(3)

	origHKeyConn := schema.FieldKey{LayoutName: "conn", FQN: "orig_h", Type: schema.New(schema.KindAddress)}
	origPKeyConn := schema.FieldKey{LayoutName: "conn", FQN: "orig_p", Type: schema.New(schema.KindCount)}
	queryKeyDNS := schema.FieldKey{LayoutName: "dns", FQN: "query", Type: schema.New(schema.KindString)}

	psA := partition.NewSynopsis()
	bloomA := synopsis.NewBloom()
	bloomA.Add(data.ViewOf(data.Address(netip.MustParseAddr("10.0.0.1"))))
	bloomA.Add(data.ViewOf(data.Address(netip.MustParseAddr("10.0.0.2"))))
	psA.SetField(origHKeyConn, bloomA)
	minmaxA := synopsis.NewMinMax()
	minmaxA.Add(data.ViewOf(data.Count(80)))
	minmaxA.Add(data.ViewOf(data.Count(443)))
	psA.SetField(origPKeyConn, minmaxA)

	psB := partition.NewSynopsis()
	bloomB := synopsis.NewBloom()
	bloomB.Add(data.ViewOf(data.String("example.com")))
	psB.SetField(queryKeyDNS, bloomB)

	psC := partition.NewSynopsis()
	bloomC := synopsis.NewBloom()
	bloomC.Add(data.ViewOf(data.Address(netip.MustParseAddr("192.168.1.1"))))
	psC.SetField(origHKeyConn, bloomC)
	minmaxC := synopsis.NewMinMax()
	minmaxC.Add(data.ViewOf(data.Count(53)))
	psC.SetField(origPKeyConn, minmaxC)

	idx := NewIndex()
	idx.Merge(a, psA)
	idx.Merge(b, psB)
	idx.Merge(c, psC)
	return idx, a, b, c
}

func lookupIDs(t *testing.T, idx *Index, e expr.Expression) []partition.ID {
	t.Helper()
	ids, _, err := idx.Lookup(e)
	require.NoError(t, err)
	return ids
}

func predicate(lhs expr.Extractor, op data.RelOp, rhs data.Data) expr.Expression {
	return expr.NewPredicate(expr.Predicate{LHS: lhs, Op: op, RHS: rhs})
}

func TestScenarioEqualityOnBloomField(t *testing.T) {
	idx, a, _, _ := buildABC(t)
	got := lookupIDs(t, idx, predicate(expr.FieldExtractor("orig_h"), data.OpEqual, data.Address(netip.MustParseAddr("10.0.0.1"))))
	assert.Equal(t, []partition.ID{a}, got)
}

func TestScenarioEqualityAbsentFromBothBlooms(t *testing.T) {
	idx, _, _, _ := buildABC(t)
	got := lookupIDs(t, idx, predicate(expr.FieldExtractor("orig_h"), data.OpEqual, data.Address(netip.MustParseAddr("10.0.0.3"))))
	assert.Empty(t, got)
}

func TestScenarioMinMaxRangeOverlap(t *testing.T) {
	idx, a, _, c := buildABC(t)
	got := lookupIDs(t, idx, predicate(expr.FieldExtractor("orig_p"), data.OpLess, data.Count(100)))
	assert.Equal(t, []partition.ID{a, c}, got)
}

func TestScenarioMinMaxRangeNoOverlap(t *testing.T) {
	idx, _, _, _ := buildABC(t)
	got := lookupIDs(t, idx, predicate(expr.FieldExtractor("orig_p"), data.OpGreater, data.Count(500)))
	assert.Empty(t, got)
}

func TestScenarioMetaTypeEquality(t *testing.T) {
	idx, a, _, c := buildABC(t)
	got := lookupIDs(t, idx, predicate(expr.MetaExtractor(expr.MetaType), data.OpEqual, data.String("conn")))
	assert.Equal(t, []partition.ID{a, c}, got)
}

func TestScenarioMetaFieldEqualityAndNegation(t *testing.T) {
	idx, a, b, c := buildABC(t)
	got := lookupIDs(t, idx, predicate(expr.MetaExtractor(expr.MetaField), data.OpEqual, data.String("query")))
	assert.Equal(t, []partition.ID{b}, got)

	got = lookupIDs(t, idx, predicate(expr.MetaExtractor(expr.MetaField), data.OpNotEqual, data.String("query")))
	assert.Equal(t, []partition.ID{a, c}, got)
}

func TestScenarioNegationWidensToAllPartitions(t *testing.T) {
	idx, a, b, c := buildABC(t)
	inner := predicate(expr.FieldExtractor("orig_h"), data.OpEqual, data.Address(netip.MustParseAddr("10.0.0.1")))
	got := lookupIDs(t, idx, expr.NewNegation(inner))
	assert.Equal(t, []partition.ID{a, b, c}, got)
}

func TestScenarioConjunctionIntersects(t *testing.T) {
	idx, a, _, _ := buildABC(t)
	p1 := predicate(expr.FieldExtractor("orig_h"), data.OpEqual, data.Address(netip.MustParseAddr("10.0.0.1")))
	p2 := predicate(expr.FieldExtractor("orig_p"), data.OpEqual, data.Count(80))
	got := lookupIDs(t, idx, expr.NewConjunction(p1, p2))
	assert.Equal(t, []partition.ID{a}, got)
}

func TestScenarioDisjunctionUnions(t *testing.T) {
	idx, a, _, c := buildABC(t)
	p1 := predicate(expr.FieldExtractor("orig_h"), data.OpEqual, data.Address(netip.MustParseAddr("10.0.0.1")))
	p2 := predicate(expr.FieldExtractor("orig_h"), data.OpEqual, data.Address(netip.MustParseAddr("192.168.1.1")))
	got := lookupIDs(t, idx, expr.NewDisjunction(p1, p2))
	assert.Equal(t, []partition.ID{a, c}, got)
}

func TestNilExpressionIsTheOnlyHardFailure(t *testing.T) {
	idx, _, _, _ := buildABC(t)
	_, _, err := idx.Lookup(expr.Nil)
	assert.ErrorIs(t, err, ErrInvalidExpression)
}

func TestEmptyIndexReturnsEmptyForNonNegation(t *testing.T) {
	idx := NewIndex()
	p := predicate(expr.FieldExtractor("x"), data.OpEqual, data.Integer(1))
	assert.Empty(t, lookupIDs(t, idx, p))
	assert.Empty(t, lookupIDs(t, idx, expr.NewNegation(p)))
}

func TestMergeBulkIsOrderIndependent(t *testing.T) {
	a, b := idN(1), idN(2)
	psA := partition.NewSynopsis()
	psB := partition.NewSynopsis()

	idx1 := NewIndex()
	idx1.MergeBulk(map[partition.ID]*partition.Synopsis{a: psA, b: psB})

	idx2 := NewIndex()
	idx2.Merge(b, psB)
	idx2.Merge(a, psA)

	assert.Equal(t, idx1.Len(), idx2.Len())
}

func TestIdempotentMerge(t *testing.T) {
	idx, a, _, _ := buildABC(t)
	syn, ok := idx.At(a)
	require.True(t, ok)
	idx.Merge(a, syn)
	idx.Merge(a, syn)
	assert.Equal(t, 3, idx.Len())
}

func TestEraseRemovesPartition(t *testing.T) {
	idx, a, _, c := buildABC(t)
	idx.Erase(a)
	_, ok := idx.At(a)
	assert.False(t, ok)
	assert.Equal(t, 2, idx.Len())

	got := lookupIDs(t, idx, predicate(expr.MetaExtractor(expr.MetaType), data.OpEqual, data.String("conn")))
	assert.Equal(t, []partition.ID{c}, got)
}

func TestActorSerializesMergeAndLookup(t *testing.T) {
	idx, _, _, _ := buildABC(t)
	actor := NewActor(idx, 0)
	defer actor.Stop()

	ctx := context.Background()
	d := idN(4)
	require.NoError(t, actor.Merge(ctx, d, partition.NewSynopsis()))

	usage, err := actor.MemoryUsage(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, usage, uint64(0))

	_, stats, err := actor.Lookup(ctx, predicate(expr.MetaExtractor(expr.MetaType), data.OpEqual, data.String("conn")))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.Partitions, 0)
}
