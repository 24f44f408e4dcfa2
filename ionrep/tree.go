// Package ionrep is a small in-memory structural value tree together with a
// tree-walking Reader over it. It exists to stand in for the streaming
// reader and value-tree writer that spec.md §6 treats as external
// collaborators — the symtab package never depends on ionrep itself, only
// on the narrow symtab.Reader/symtab.Value family of interfaces ionrep
// happens to satisfy.
//
// This mirrors the shape of the original Java implementation this
// subsystem was ported from, which builds its symbol-table structs against
// an in-process IonStruct tree and reads them back with an IonTreeReader
// over that same tree.
package ionrep

import "github.com/chazu/symtab/symtab"

// Leaf is a null/int/string value.
type Leaf struct {
	typ        symtab.TypeTag
	annotation string
	isNull     bool
	intVal     int64
	strVal     string
}

func (l *Leaf) Type() symtab.TypeTag           { return l.typ }
func (l *Leaf) AddTypeAnnotation(name string)  { l.annotation = name }
func (l *Leaf) Annotation() string             { return l.annotation }
func (l *Leaf) IsNull() bool                   { return l.isNull }
func (l *Leaf) IntVal() int64                  { return l.intVal }
func (l *Leaf) StrVal() string                 { return l.strVal }

// List is an ordered sequence of values.
type List struct {
	annotation string
	elems      []symtab.Value
}

func (l *List) Type() symtab.TypeTag          { return symtab.TypeList }
func (l *List) AddTypeAnnotation(name string) { l.annotation = name }
func (l *List) Add(v symtab.Value)            { l.elems = append(l.elems, v) }
func (l *List) Len() int                      { return len(l.elems) }
func (l *List) Elem(i int) symtab.Value       { return l.elems[i] }

// structField is one name/value pair of a Struct, in insertion order.
type structField struct {
	name string
	val  symtab.Value
}

// Struct is a named-field container. It starts either empty or "null"
// (IsNullStruct true); any Add or Put materializes it into a real struct,
// mirroring how an Ion null struct behaves once fields are written to it.
type Struct struct {
	annotation string
	isNull     bool
	fields     []structField
}

func (s *Struct) Type() symtab.TypeTag          { return symtab.TypeStruct }
func (s *Struct) AddTypeAnnotation(name string) { s.annotation = name }
func (s *Struct) Annotation() string            { return s.annotation }
func (s *Struct) IsNullStruct() bool            { return s.isNull }

func (s *Struct) Add(fieldName string, v symtab.Value) {
	s.isNull = false
	s.fields = append(s.fields, structField{fieldName, v})
}

func (s *Struct) Put(fieldName string, v symtab.Value) {
	s.isNull = false
	for i := range s.fields {
		if s.fields[i].name == fieldName {
			s.fields[i].val = v
			return
		}
	}
	s.fields = append(s.fields, structField{fieldName, v})
}

func (s *Struct) Get(fieldName string) (symtab.Value, bool) {
	for _, f := range s.fields {
		if f.name == fieldName {
			return f.val, true
		}
	}
	return nil, false
}

func (s *Struct) RemoveAll(fieldName string) {
	out := s.fields[:0]
	for _, f := range s.fields {
		if f.name != fieldName {
			out = append(out, f)
		}
	}
	s.fields = out
}

// Fields exposes the struct's fields in insertion order, for tests and
// debugging dumps.
func (s *Struct) Fields() []struct {
	Name  string
	Value symtab.Value
} {
	out := make([]struct {
		Name  string
		Value symtab.Value
	}, len(s.fields))
	for i, f := range s.fields {
		out[i] = struct {
			Name  string
			Value symtab.Value
		}{f.name, f.val}
	}
	return out
}

// Factory is the symtab.ValueFactory backed by this package's tree types.
type Factory struct{}

func (Factory) NewEmptyStruct() symtab.StructValue { return &Struct{} }
func (Factory) NewEmptyList() symtab.ListValue     { return &List{} }
func (Factory) NewNullStruct() symtab.StructValue  { return &Struct{isNull: true} }
func (Factory) NewString(s string) symtab.Value    { return &Leaf{typ: symtab.TypeString, strVal: s} }
func (Factory) NewInt(i int64) symtab.Value        { return &Leaf{typ: symtab.TypeInt, intVal: i} }

// NewNullValue creates a typed null leaf. The reader binding skips null
// fields, so it is a way to build "malformed open content" input.
func NewNullValue(typ symtab.TypeTag) symtab.Value {
	return &Leaf{typ: typ, isNull: true}
}
