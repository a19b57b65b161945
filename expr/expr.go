// Package expr implements VAST's expression AST: the boolean combinators and
// typed predicate extractors the meta-index's lookup algorithm recurses over.
// Expressions are immutable; normalisation (no double negations, RHS always
// the literal side, non-empty conjunction/disjunction child lists) is the
// external parser's responsibility and is assumed to already hold here.
package expr

import (
	"github.com/tenzir/vast/data"
	"github.com/tenzir/vast/schema"
)

// Expression is the sum type the meta-index evaluates. The zero value is
// Nil, the hard-assert case (spec.md §4.F: "the only hard-assert condition
// is an all-Nil expression").
type Expression struct {
	kind     expressionKind
	children []Expression
	pred     Predicate
}

type expressionKind uint8

const (
	kindNil expressionKind = iota
	kindPredicate
	kindConjunction
	kindDisjunction
	kindNegation
)

// Nil is the empty expression.
var Nil = Expression{kind: kindNil}

// IsNil reports whether e is the Nil case.
func (e Expression) IsNil() bool { return e.kind == kindNil }

// NewPredicate constructs a Predicate expression node.
func NewPredicate(p Predicate) Expression {
	return Expression{kind: kindPredicate, pred: p}
}

// NewConjunction constructs a Conjunction over children, which must be
// non-empty; the caller (the external parser) is responsible for that
// invariant, per spec.md §4.F.
func NewConjunction(children ...Expression) Expression {
	return Expression{kind: kindConjunction, children: children}
}

// NewDisjunction constructs a Disjunction over children, which must be
// non-empty.
func NewDisjunction(children ...Expression) Expression {
	return Expression{kind: kindDisjunction, children: children}
}

// NewNegation constructs a Negation wrapping child.
func NewNegation(child Expression) Expression {
	return Expression{kind: kindNegation, children: []Expression{child}}
}

// AsPredicate returns the wrapped Predicate and true if e is a predicate
// node.
func (e Expression) AsPredicate() (Predicate, bool) {
	if e.kind != kindPredicate {
		return Predicate{}, false
	}
	return e.pred, true
}

// AsConjunction returns the child list and true if e is a conjunction node.
func (e Expression) AsConjunction() ([]Expression, bool) {
	if e.kind != kindConjunction {
		return nil, false
	}
	return e.children, true
}

// AsDisjunction returns the child list and true if e is a disjunction node.
func (e Expression) AsDisjunction() ([]Expression, bool) {
	if e.kind != kindDisjunction {
		return nil, false
	}
	return e.children, true
}

// AsNegation returns the wrapped child and true if e is a negation node.
func (e Expression) AsNegation() (Expression, bool) {
	if e.kind != kindNegation || len(e.children) != 1 {
		return Expression{}, false
	}
	return e.children[0], true
}

// Predicate is lhs op rhs, where rhs is always the literal-typed side per
// the external parser's normalisation guarantee.
type Predicate struct {
	LHS Extractor
	Op  data.RelOp
	RHS data.Data
}

// ExtractorKind discriminates the Extractor sum.
type ExtractorKind uint8

const (
	ExtractorMeta ExtractorKind = iota
	ExtractorField
	ExtractorType
	ExtractorData
)

// MetaKind discriminates the two MetaExtractor flavours.
type MetaKind uint8

const (
	MetaType MetaKind = iota
	MetaField
)

// Extractor names what a predicate tests: a meta-property of the field
// (its layout name or its own fully-qualified name), a bare field name, a
// Type to match against a field's declared type, or an already-extracted
// literal Data value.
type Extractor struct {
	kind    ExtractorKind
	meta    MetaKind
	field   string
	typ     schema.Type
	literal data.Data
}

// MetaExtractor constructs an Extractor naming a meta-property (#type or
// #field).
func MetaExtractor(kind MetaKind) Extractor {
	return Extractor{kind: ExtractorMeta, meta: kind}
}

// FieldExtractor constructs an Extractor naming a bare field by its
// fully-qualified name suffix.
func FieldExtractor(name string) Extractor {
	return Extractor{kind: ExtractorField, field: name}
}

// TypeExtractor constructs an Extractor matching fields by declared Type.
func TypeExtractor(t schema.Type) Extractor {
	return Extractor{kind: ExtractorType, typ: t}
}

// DataExtractor constructs an Extractor wrapping an already-extracted
// literal value, for predicates whose LHS is itself data rather than a
// schema reference.
func DataExtractor(d data.Data) Extractor {
	return Extractor{kind: ExtractorData, literal: d}
}

// Kind returns which Extractor variant this is.
func (x Extractor) Kind() ExtractorKind { return x.kind }

// MetaKind returns the meta-property kind; only meaningful if Kind() ==
// ExtractorMeta.
func (x Extractor) MetaKind() MetaKind { return x.meta }

// FieldName returns the field-name suffix; only meaningful if Kind() ==
// ExtractorField.
func (x Extractor) FieldName() string { return x.field }

// Type returns the matched Type; only meaningful if Kind() == ExtractorType.
func (x Extractor) Type() schema.Type { return x.typ }

// Literal returns the wrapped literal; only meaningful if Kind() ==
// ExtractorData.
func (x Extractor) Literal() data.Data { return x.literal }
