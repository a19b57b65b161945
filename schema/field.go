package schema

import "strings"

// FieldKey identifies one leaf field reachable from a layout's record root:
// the top-level record name it belongs to, its dotted path from that root,
// and its Type.
type FieldKey struct {
	LayoutName string
	FQN        string
	Type       Type
}

// Fields walks a record type and returns every leaf field as a FieldKey,
// in depth-first declaration order, carrying layoutName as the top-level
// record name. Non-record fields of the root itself (a degenerate layout)
// are returned as a single FieldKey whose FQN is empty.
func Fields(layoutName string, t Type) []FieldKey {
	fields, ok := t.RecordFields()
	if !ok {
		return []FieldKey{{LayoutName: layoutName, Type: t}}
	}
	var out []FieldKey
	walkFields(layoutName, "", fields, &out)
	return out
}

func walkFields(layoutName, prefix string, fields []RecordField, out *[]FieldKey) {
	for _, f := range fields {
		fqn := f.Name
		if prefix != "" {
			fqn = prefix + "." + f.Name
		}
		if nested, ok := f.Type.RecordFields(); ok {
			walkFields(layoutName, fqn, nested, out)
			continue
		}
		*out = append(*out, FieldKey{LayoutName: layoutName, FQN: fqn, Type: f.Type})
	}
}

// FieldByPath looks up a field inside a record type by dotted path,
// accepting either genuine path traversal (splitting on ".") or, if the
// first path component does not itself name a sub-record, a flat match
// against a field whose own name is already the full dotted string. This
// mirrors spec.md §4.A: "a consumer must try path traversal first and fall
// back to flat lookup if the first component is not a sub-record."
func (t Type) FieldByPath(path string) (Type, bool) {
	fields, ok := t.RecordFields()
	if !ok {
		return Type{}, false
	}
	if found, ok := lookupByTraversal(fields, path); ok {
		return found, true
	}
	head, _, _ := strings.Cut(path, ".")
	for _, f := range fields {
		if _, isRecord := f.Type.RecordFields(); isRecord && f.Name == head {
			return Type{}, false
		}
	}
	return lookupFlat(fields, path)
}

func lookupByTraversal(fields []RecordField, path string) (Type, bool) {
	head, rest, hasRest := strings.Cut(path, ".")
	for _, f := range fields {
		if f.Name != head {
			continue
		}
		if !hasRest {
			return f.Type, true
		}
		nested, ok := f.Type.RecordFields()
		if !ok {
			return Type{}, false
		}
		return lookupByTraversal(nested, rest)
	}
	return Type{}, false
}

func lookupFlat(fields []RecordField, path string) (Type, bool) {
	for _, f := range fields {
		if f.Name == path {
			return f.Type, true
		}
	}
	return Type{}, false
}
