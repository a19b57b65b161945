// Package schema implements VAST's algebraic type model: the sum over
// primitive, container and record variants that every field in a layout
// carries, plus the structural and named equality modes the meta-index's
// predicate matching relies on.
//
// A Type is a small, copyable value. Containers (list, map, record,
// enumeration) hold their children behind pointers or slices so that
// copying a Type never deep-copies a whole record tree.
package schema

import (
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which variant of the type sum a Type holds.
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindInteger
	KindCount // unsigned integer
	KindReal
	KindTime
	KindDuration
	KindString
	KindPattern
	KindAddress
	KindSubnet
	KindPort
	KindEnumeration
	KindList
	KindMap
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindCount:
		return "count"
	case KindReal:
		return "real"
	case KindTime:
		return "time"
	case KindDuration:
		return "duration"
	case KindString:
		return "string"
	case KindPattern:
		return "pattern"
	case KindAddress:
		return "address"
	case KindSubnet:
		return "subnet"
	case KindPort:
		return "port"
	case KindEnumeration:
		return "enumeration"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// RecordField is a single (name, Type) member of a record type, in
// declaration order.
type RecordField struct {
	Name string
	Type Type
}

// Type is the algebraic description of a field's shape: a Kind plus,
// depending on the Kind, an ordered list of enumeration field names, a list
// element type, a map key/value pair, or a record's ordered fields. Every
// Type additionally carries an optional display Name and a set of string
// Attributes, neither of which participates in structural equality.
type Type struct {
	kind       Kind
	name       string
	attributes map[string]struct{}
	fields     []string // enumeration member names, ordered
	element    *Type    // list element type
	key        *Type    // map key type
	value      *Type    // map value type
	record     []RecordField
}

// New constructs a Type of a primitive Kind. Passing KindEnumeration,
// KindList, KindMap or KindRecord produces a Type with no children; use the
// dedicated constructors for those.
func New(kind Kind) Type {
	return Type{kind: kind}
}

// NewEnumeration constructs an enumeration type over the given ordered field
// names.
func NewEnumeration(fields []string) Type {
	return Type{kind: KindEnumeration, fields: append([]string(nil), fields...)}
}

// NewList constructs a list type with the given element type.
func NewList(element Type) Type {
	return Type{kind: KindList, element: &element}
}

// NewMap constructs a map type with the given key and value types.
func NewMap(key, value Type) Type {
	return Type{kind: KindMap, key: &key, value: &value}
}

// NewRecord constructs a record type with the given ordered fields.
func NewRecord(fields []RecordField) Type {
	return Type{kind: KindRecord, record: append([]RecordField(nil), fields...)}
}

// Kind returns the type's variant.
func (t Type) Kind() Kind { return t.kind }

// Name returns the type's display name, or the empty string if unnamed.
func (t Type) Name() string { return t.name }

// WithName returns a copy of t carrying the given display name.
func (t Type) WithName(name string) Type {
	t.name = name
	return t
}

// WithAttributes returns a copy of t with the given attribute keys added to
// its attribute set.
func (t Type) WithAttributes(attrs ...string) Type {
	if len(attrs) == 0 {
		return t
	}
	out := make(map[string]struct{}, len(t.attributes)+len(attrs))
	for k := range t.attributes {
		out[k] = struct{}{}
	}
	for _, a := range attrs {
		out[a] = struct{}{}
	}
	t.attributes = out
	return t
}

// HasAttribute reports whether t carries the given attribute key.
func (t Type) HasAttribute(key string) bool {
	_, ok := t.attributes[key]
	return ok
}

// Attributes returns t's attribute keys in sorted order.
func (t Type) Attributes() []string {
	if len(t.attributes) == 0 {
		return nil
	}
	out := make([]string, 0, len(t.attributes))
	for k := range t.attributes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// EnumerationFields returns an enumeration type's ordered member names.
func (t Type) EnumerationFields() ([]string, bool) {
	if t.kind != KindEnumeration {
		return nil, false
	}
	return t.fields, true
}

// Element returns a list type's element type.
func (t Type) Element() (Type, bool) {
	if t.kind != KindList || t.element == nil {
		return Type{}, false
	}
	return *t.element, true
}

// KeyValue returns a map type's key and value types.
func (t Type) KeyValue() (key, value Type, ok bool) {
	if t.kind != KindMap || t.key == nil || t.value == nil {
		return Type{}, Type{}, false
	}
	return *t.key, *t.value, true
}

// RecordFields returns a record type's ordered fields.
func (t Type) RecordFields() ([]RecordField, bool) {
	if t.kind != KindRecord {
		return nil, false
	}
	return t.record, true
}

// StrippedOfAttributes returns a copy of t with its attribute set cleared
// but its name retained. It mirrors the original implementation's
// `vast::type{field.type}.attributes({})` call made before consulting a
// partition synopsis's per-type fallback map.
func (t Type) StrippedOfAttributes() Type {
	t.attributes = nil
	return t
}

// Stripped returns a copy of t with both its name and attributes cleared,
// suitable as the canonical key for a type-level (as opposed to field-level)
// synopsis fallback map.
func (t Type) Stripped() Type {
	t.name = ""
	t.attributes = nil
	return t
}

// Equal reports whether a and b are structurally identical, ignoring
// display name and attributes on both sides.
func Equal(a, b Type) bool {
	return equal(a, b, false)
}

// EqualNamed reports whether a and b are structurally identical and carry
// the same display name. Attributes are still ignored.
func EqualNamed(a, b Type) bool {
	return equal(a, b, true)
}

func equal(a, b Type, withName bool) bool {
	if withName && a.name != b.name {
		return false
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindEnumeration:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i] != b.fields[i] {
				return false
			}
		}
		return true
	case KindList:
		if a.element == nil || b.element == nil {
			return a.element == b.element
		}
		return equal(*a.element, *b.element, withName)
	case KindMap:
		if (a.key == nil) != (b.key == nil) || (a.value == nil) != (b.value == nil) {
			return false
		}
		if a.key != nil && !equal(*a.key, *b.key, withName) {
			return false
		}
		if a.value != nil && !equal(*a.value, *b.value, withName) {
			return false
		}
		return true
	case KindRecord:
		if len(a.record) != len(b.record) {
			return false
		}
		for i := range a.record {
			if a.record[i].Name != b.record[i].Name {
				return false
			}
			if !equal(a.record[i].Type, b.record[i].Type, withName) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// CanonicalKey returns a deterministic string encoding of t's structural
// shape (Kind plus recursive children), ignoring name and attributes. It is
// used as a map key for the per-type synopsis fallback, since Type's slice-
// and pointer-bearing fields keep it from being directly comparable as a Go
// map key.
func CanonicalKey(t Type) string {
	var b strings.Builder
	writeCanonicalKey(&b, t)
	return b.String()
}

func writeCanonicalKey(b *strings.Builder, t Type) {
	b.WriteString(t.kind.String())
	switch t.kind {
	case KindEnumeration:
		b.WriteByte('(')
		b.WriteString(strings.Join(t.fields, ","))
		b.WriteByte(')')
	case KindList:
		b.WriteByte('(')
		if t.element != nil {
			writeCanonicalKey(b, *t.element)
		}
		b.WriteByte(')')
	case KindMap:
		b.WriteByte('(')
		if t.key != nil {
			writeCanonicalKey(b, *t.key)
		}
		b.WriteByte(':')
		if t.value != nil {
			writeCanonicalKey(b, *t.value)
		}
		b.WriteByte(')')
	case KindRecord:
		b.WriteByte('{')
		for i, f := range t.record {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteString(f.Name)
			b.WriteByte(':')
			writeCanonicalKey(b, f.Type)
		}
		b.WriteByte('}')
	}
}

// IsOrdered reports whether t's variant supports relational comparison
// (<, <=, >, >=) per spec.md §4.B.
func (t Type) IsOrdered() bool {
	switch t.kind {
	case KindInteger, KindCount, KindReal, KindTime, KindDuration, KindString, KindAddress, KindSubnet, KindPort:
		return true
	default:
		return false
	}
}

// String renders t for diagnostics and log lines; it is not the wire
// format.
func (t Type) String() string {
	var b strings.Builder
	b.WriteString(t.kind.String())
	if t.name != "" {
		b.WriteString(" #name=")
		b.WriteString(strconv.Quote(t.name))
	}
	if len(t.attributes) > 0 {
		b.WriteString(" #attrs=")
		b.WriteString(strings.Join(t.Attributes(), ","))
	}
	return b.String()
}
