// Package partition implements the partition identifier and per-partition
// synopsis container the meta-index consults during lookup: PartitionID (a
// 128-bit opaque totally-ordered key) and Synopsis (the field- and
// type-level synopsis collection for one partition), per spec.md §3 and
// §4.E.
package partition

import (
	"github.com/google/uuid"
	"github.com/tenzir/vast/schema"
	"github.com/tenzir/vast/synopsis"
)

// ID is an opaque 128-bit partition identifier with a total, stable byte-
// lexicographic order, per spec.md §3.
type ID struct {
	u uuid.UUID
}

// NewID constructs an ID from a freshly generated random UUID.
func NewID() ID {
	return ID{u: uuid.New()}
}

// IDFromBytes constructs an ID from its 16-byte big-endian wire form.
func IDFromBytes(b [16]byte) ID {
	return ID{u: uuid.UUID(b)}
}

// Bytes returns the ID's 16-byte big-endian wire form, per spec.md §6.
func (id ID) Bytes() [16]byte { return id.u }

// String hex-encodes id for logging, per spec.md §6.
func (id ID) String() string { return id.u.String() }

// Less reports whether id sorts before other in the total order the
// meta-index's result vectors are sorted by.
func (id ID) Less(other ID) bool {
	for i := range id.u {
		if id.u[i] != other.u[i] {
			return id.u[i] < other.u[i]
		}
	}
	return false
}

// Equal reports whether id and other name the same partition.
func (id ID) Equal(other ID) bool { return id.u == other.u }

// FieldEntry pairs a field key with its (possibly nil) synopsis.
type FieldEntry struct {
	Key      schema.FieldKey
	Synopsis synopsis.Synopsis
}

// Synopsis is the per-partition collection of field- and type-level
// synopses. Its construction happens outside the meta-index core, during
// partition sealing; once built it is handed to the meta-index via merge
// and never mutated again, per spec.md §3's lifecycle note.
//
// Fields are keyed internally by a string encoding of (layout name, fully-
// qualified name) rather than by schema.FieldKey directly: Type carries
// slice- and map-valued children, which keeps it — and therefore FieldKey —
// from being a valid Go map key.
type Synopsis struct {
	fields map[string]FieldEntry
	types  map[string]synopsis.Synopsis // keyed by schema.CanonicalKey(stripped type)
}

// NewSynopsis returns an empty partition Synopsis builder.
func NewSynopsis() *Synopsis {
	return &Synopsis{
		fields: make(map[string]FieldEntry),
		types:  make(map[string]synopsis.Synopsis),
	}
}

func fieldMapKey(key schema.FieldKey) string {
	return key.LayoutName + "\x1f" + key.FQN
}

// SetField records the (possibly nil) synopsis for one field, replacing any
// prior entry under the same (layout name, fully-qualified name) pair. A
// nil synopsis still records the field's existence for #field meta-queries,
// per spec.md §3's "an entry with None records a field for which no
// dedicated synopsis exists".
func (s *Synopsis) SetField(key schema.FieldKey, syn synopsis.Synopsis) {
	s.fields[fieldMapKey(key)] = FieldEntry{Key: key, Synopsis: syn}
}

// SetTypeFallback records the fallback synopsis for a stripped type.
func (s *Synopsis) SetTypeFallback(t schema.Type, syn synopsis.Synopsis) {
	s.types[schema.CanonicalKey(t.Stripped())] = syn
}

// Fields returns every field entry for iteration. Callers must not mutate
// the returned slice's backing synopses.
func (s *Synopsis) Fields() []FieldEntry {
	out := make([]FieldEntry, 0, len(s.fields))
	for _, entry := range s.fields {
		out = append(out, entry)
	}
	return out
}

// FallbackFor returns the type-level fallback synopsis for t (stripped of
// attributes before lookup, per spec.md §4.F's "type_synopses_ entry for the
// field's type stripped of attributes") and whether one is registered.
func (s *Synopsis) FallbackFor(t schema.Type) (synopsis.Synopsis, bool) {
	syn, ok := s.types[schema.CanonicalKey(t.Stripped())]
	return syn, ok
}

// MemoryUsage sums the resident size of every field and type-level synopsis,
// per spec.md §3's (I4) invariant restated at the partition level.
func (s *Synopsis) MemoryUsage() uint64 {
	var total uint64
	for _, entry := range s.fields {
		if entry.Synopsis != nil {
			total += entry.Synopsis.MemoryUsage()
		}
	}
	for _, syn := range s.types {
		if syn != nil {
			total += syn.MemoryUsage()
		}
	}
	return total
}
