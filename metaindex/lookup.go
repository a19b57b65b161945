package metaindex

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-kit/log/level"
	"github.com/tenzir/vast/data"
	"github.com/tenzir/vast/expr"
	"github.com/tenzir/vast/partition"
	"github.com/tenzir/vast/schema"
)

// ErrInvalidExpression is returned for a top-level Nil expression, the only
// hard-failure condition spec.md §4.F names.
var ErrInvalidExpression = errors.New("metaindex: invalid (nil) expression")

// LookupStats carries diagnostics about one Lookup call, supplementing
// spec.md's core contract the way the original implementation's stopwatch-
// timed debug log line does.
type LookupStats struct {
	Partitions int
	Elapsed    time.Duration
}

// Lookup evaluates expr against the current state and returns every
// partition that might satisfy it: sorted ascending, duplicate-free, with
// no false negatives under each synopsis's soundness contract, per
// spec.md §4.F.
func (idx *Index) Lookup(e expr.Expression) ([]partition.ID, LookupStats, error) {
	if e.IsNil() {
		level.Error(idx.logger).Log("msg", "received an empty expression")
		return nil, LookupStats{}, ErrInvalidExpression
	}
	start := time.Now()
	var memoized []partition.ID
	allPartitions := func() []partition.ID {
		if memoized != nil || len(idx.synopses) == 0 {
			return memoized
		}
		memoized = make([]partition.ID, 0, len(idx.synopses))
		for id := range idx.synopses {
			memoized = append(memoized, id)
		}
		sortIDs(memoized)
		return memoized
	}
	result := idx.evalExpr(e, allPartitions)
	stats := LookupStats{Partitions: len(result), Elapsed: time.Since(start)}
	level.Debug(idx.logger).Log(
		"msg", "meta index lookup", "candidates", stats.Partitions,
		"microseconds", stats.Elapsed.Microseconds())
	return result, stats, nil
}

func (idx *Index) evalExpr(e expr.Expression, allPartitions func() []partition.ID) []partition.ID {
	if children, ok := e.AsConjunction(); ok {
		return idx.evalConjunction(children, allPartitions)
	}
	if children, ok := e.AsDisjunction(); ok {
		return idx.evalDisjunction(children, allPartitions)
	}
	if _, ok := e.AsNegation(); ok {
		// Synopses may return false positives; negating such a result would
		// produce false negatives, so negation always over-approximates to
		// the full partition set regardless of the child.
		return allPartitions()
	}
	if pred, ok := e.AsPredicate(); ok {
		return idx.evalPredicate(pred, allPartitions)
	}
	// Reaching here means a Nil node below the top level, which the
	// external parser's normalisation guarantees cannot happen. Stay total
	// and sound rather than failing the whole lookup.
	return allPartitions()
}

func (idx *Index) evalConjunction(children []expr.Expression, allPartitions func() []partition.ID) []partition.ID {
	result := idx.evalExpr(children[0], allPartitions)
	if len(result) == 0 {
		return result
	}
	for _, child := range children[1:] {
		xs := idx.evalExpr(child, allPartitions)
		if len(xs) == 0 {
			return xs
		}
		result = intersectSorted(result, xs)
	}
	return result
}

func (idx *Index) evalDisjunction(children []expr.Expression, allPartitions func() []partition.ID) []partition.ID {
	var result []partition.ID
	for _, child := range children {
		xs := idx.evalExpr(child, allPartitions)
		if len(xs) == len(idx.synopses) {
			return xs
		}
		result = unionSorted(result, xs)
	}
	return result
}

func (idx *Index) evalPredicate(pred expr.Predicate, allPartitions func() []partition.ID) []partition.ID {
	switch pred.LHS.Kind() {
	case expr.ExtractorMeta:
		switch pred.LHS.MetaKind() {
		case expr.MetaType:
			return idx.lookupMetaType(pred.Op, pred.RHS)
		case expr.MetaField:
			return idx.lookupMetaField(pred.Op, pred.RHS)
		}
	case expr.ExtractorField:
		name := pred.LHS.FieldName()
		return idx.search(pred.Op, pred.RHS, func(f schema.FieldKey) bool {
			return strings.HasSuffix(f.FQN, name)
		})
	case expr.ExtractorType:
		return idx.lookupType(pred)
	}
	level.Warn(idx.logger).Log("msg", "cannot process predicate, over-approximating", "extractor", pred.LHS.Kind())
	return allPartitions()
}

func (idx *Index) lookupMetaType(op data.RelOp, rhs data.Data) []partition.ID {
	var result []partition.ID
	for id, ps := range idx.synopses {
		for _, entry := range ps.Fields() {
			if data.Evaluate(data.String(entry.Key.LayoutName), op, rhs) {
				result = append(result, id)
				break
			}
		}
	}
	sortIDs(result)
	return result
}

func (idx *Index) lookupMetaField(op data.RelOp, rhs data.Data) []partition.ID {
	s, ok := rhs.AsString()
	if !ok {
		level.Warn(idx.logger).Log("msg", "#field meta queries only support string comparisons")
		return nil
	}
	negated := data.IsNegated(op)
	var result []partition.ID
	for id, ps := range idx.synopses {
		matching := false
		for _, entry := range ps.Fields() {
			if strings.HasSuffix(entry.Key.FQN, s) {
				matching = true
				break
			}
		}
		if !negated == matching {
			result = append(result, id)
		}
	}
	sortIDs(result)
	return result
}

func (idx *Index) lookupType(pred expr.Predicate) []partition.ID {
	t := pred.LHS.Type()
	var result []partition.ID
	if t.Name() == "" {
		result = idx.search(pred.Op, pred.RHS, func(f schema.FieldKey) bool {
			return schema.Equal(f.Type, t) && f.Type.Name() == ""
		})
	} else {
		result = idx.search(pred.Op, pred.RHS, func(f schema.FieldKey) bool {
			return f.Type.Name() == t.Name()
		})
	}
	if t.Name() == "timestamp" {
		tsResult := idx.search(pred.Op, pred.RHS, func(f schema.FieldKey) bool {
			return f.Type.HasAttribute("timestamp")
		})
		result = unionSorted(result, tsResult)
	}
	return result
}

// search implements spec.md §4.F's search(pred) helper: iterate every
// partition's fields, and for those matching pred, consult in priority
// order (i) the field's own synopsis, (ii) the type-level fallback, (iii)
// else accept unconditionally.
func (idx *Index) search(op data.RelOp, rhs data.Data, match func(schema.FieldKey) bool) []partition.ID {
	view := data.ViewOf(rhs)
	var result []partition.ID
partitions:
	for id, ps := range idx.synopses {
		for _, entry := range ps.Fields() {
			field, syn := entry.Key, entry.Synopsis
			if !match(field) {
				continue
			}
			if syn != nil {
				if v, known := syn.Lookup(op, view); known && !v {
					continue
				}
				result = append(result, id)
				continue partitions
			}
			fallback, ok := ps.FallbackFor(field.Type)
			if ok && fallback != nil {
				if v, known := fallback.Lookup(op, view); known && !v {
					continue
				}
			}
			result = append(result, id)
			continue partitions
		}
	}
	sortIDs(result)
	return result
}

func sortIDs(ids []partition.ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}

func intersectSorted(a, b []partition.ID) []partition.ID {
	result := make([]partition.ID, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Less(b[j]):
			i++
		case b[j].Less(a[i]):
			j++
		default:
			result = append(result, a[i])
			i++
			j++
		}
	}
	return result
}

func unionSorted(a, b []partition.ID) []partition.ID {
	result := make([]partition.ID, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Less(b[j]):
			result = append(result, a[i])
			i++
		case b[j].Less(a[i]):
			result = append(result, b[j])
			j++
		default:
			result = append(result, a[i])
			i++
			j++
		}
	}
	result = append(result, a[i:]...)
	result = append(result, b[j:]...)
	return result
}
