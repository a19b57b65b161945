package data

import (
	"strings"

	"github.com/coregx/coregex"
	"github.com/tenzir/vast/schema"
)

// RelOp is a relational operator appearing on the right of a predicate's
// extractor. Its set matches spec.md §3 exactly.
type RelOp uint8

const (
	OpEqual RelOp = iota
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpIn
	OpNotIn
	OpMatch
	OpNotMatch
)

func (op RelOp) String() string {
	switch op {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	case OpIn:
		return "in"
	case OpNotIn:
		return "!in"
	case OpMatch:
		return "match"
	case OpNotMatch:
		return "!match"
	default:
		return "?"
	}
}

// IsNegated reports whether op is the negated form of a relational family:
// !=, !in, !match. Used by the meta-index's #field extractor handling (spec.md
// §4.F) to decide which side of a match/no-match split a partition belongs on.
func IsNegated(op RelOp) bool {
	return op == OpNotEqual || op == OpNotIn || op == OpNotMatch
}

// Evaluate implements the relational operators of spec.md §4.B: lhs op rhs.
func Evaluate(lhs Data, op RelOp, rhs Data) bool {
	switch op {
	case OpEqual:
		return equal(lhs, rhs)
	case OpNotEqual:
		return !equal(lhs, rhs)
	case OpLess:
		return compareOrdered(lhs, rhs, func(c int) bool { return c < 0 })
	case OpLessEqual:
		return compareOrdered(lhs, rhs, func(c int) bool { return c <= 0 })
	case OpGreater:
		return compareOrdered(lhs, rhs, func(c int) bool { return c > 0 })
	case OpGreaterEqual:
		return compareOrdered(lhs, rhs, func(c int) bool { return c >= 0 })
	case OpIn:
		return in(lhs, rhs)
	case OpNotIn:
		return !in(lhs, rhs)
	case OpMatch:
		return match(lhs, rhs)
	case OpNotMatch:
		return !match(lhs, rhs)
	default:
		return false
	}
}

// equal implements ==: structural equality per variant, with numeric
// cross-variant equality (integer 3 == count 3 == real 3.0).
func equal(a, b Data) bool {
	if a.isNumeric() && b.isNumeric() {
		return a.asFloat64() == b.asFloat64()
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case schema.KindNone:
		return true
	case schema.KindBool:
		return a.b == b.b
	case schema.KindString, schema.KindEnumeration, schema.KindPattern:
		return a.s == b.s
	case schema.KindTime:
		return a.t.Equal(b.t)
	case schema.KindDuration:
		return a.dur == b.dur
	case schema.KindAddress:
		return a.addr == b.addr
	case schema.KindSubnet:
		return a.subnet == b.subnet
	case schema.KindPort:
		return a.port == b.port
	case schema.KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case schema.KindMap:
		if len(a.m) != len(b.m) {
			return false
		}
		for i := range a.m {
			if !equal(a.m[i].Key, b.m[i].Key) || !equal(a.m[i].Value, b.m[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// compareOrdered implements <, <=, >, >= for the ordered variants; an
// undefined comparison (mismatched non-numeric kinds, or a kind without a
// defined order) evaluates to false per spec.md §4.B.
func compareOrdered(a, b Data, accept func(cmp int) bool) bool {
	c, ok := compare(a, b)
	if !ok {
		return false
	}
	return accept(c)
}

// compare returns -1/0/1 and true if a and b are both ordered and
// comparable; otherwise ok is false.
func compare(a, b Data) (int, bool) {
	if a.isNumeric() && b.isNumeric() {
		af, bf := a.asFloat64(), b.asFloat64()
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	if a.kind != b.kind || !isOrderedKind(a.kind) {
		return 0, false
	}
	switch a.kind {
	case schema.KindTime:
		switch {
		case a.t.Before(b.t):
			return -1, true
		case a.t.After(b.t):
			return 1, true
		default:
			return 0, true
		}
	case schema.KindDuration:
		return cmpInt64(int64(a.dur), int64(b.dur)), true
	case schema.KindString:
		return strings.Compare(a.s, b.s), true
	case schema.KindAddress:
		return a.addr.Compare(b.addr), true
	case schema.KindSubnet:
		c := a.subnet.Addr().Compare(b.subnet.Addr())
		if c != 0 {
			return c, true
		}
		return cmpInt64(int64(a.subnet.Bits()), int64(b.subnet.Bits())), true
	case schema.KindPort:
		return cmpInt64(int64(a.port), int64(b.port)), true
	default:
		return 0, false
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// in implements membership: list containment, substring for strings, and
// subnet containment for addresses.
func in(lhs, rhs Data) bool {
	switch {
	case rhs.kind == schema.KindList:
		for _, item := range rhs.list {
			if equal(lhs, item) {
				return true
			}
		}
		return false
	case lhs.kind == schema.KindAddress && rhs.kind == schema.KindSubnet:
		return rhs.subnet.Contains(lhs.addr)
	case lhs.kind == schema.KindString && rhs.kind == schema.KindString:
		return strings.Contains(rhs.s, lhs.s)
	default:
		return false
	}
}

// match implements the pattern operators: regex or glob depending on the
// pattern's PatternKind, per spec.md §4.B.
func match(lhs Data, rhs Data) bool {
	var subject string
	switch lhs.kind {
	case schema.KindString:
		subject = lhs.s
	default:
		return false
	}
	if rhs.kind != schema.KindPattern {
		return false
	}
	switch rhs.pat {
	case PatternGlob:
		ok, err := globMatch(rhs.s, subject)
		return err == nil && ok
	default:
		re, err := coregex.Compile(rhs.s)
		if err != nil {
			return false
		}
		return re.MatchString(subject)
	}
}

// globMatch implements shell-style glob matching (* and ?) by translating
// to an anchored regular expression, since coregex does not expose a
// dedicated glob compiler.
func globMatch(pattern, subject string) (bool, error) {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '.', '+', '(', ')', '|', '[', ']', '{', '}', '^', '$', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('$')
	re, err := coregex.Compile(b.String())
	if err != nil {
		return false, err
	}
	return re.MatchString(subject), nil
}

// isOrderedKind reports whether k supports relational comparison, mirroring
// schema.Type.IsOrdered for the kinds compare handles directly (numeric
// kinds are handled separately via isNumeric/asFloat64 above).
func isOrderedKind(k schema.Kind) bool {
	return schema.New(k).IsOrdered()
}
