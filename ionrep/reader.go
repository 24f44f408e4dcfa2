package ionrep

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/symtab/symtab"
)

// TreeReader walks a Struct/List tree built from this package's Factory,
// implementing symtab.Reader. Field names are mapped back to symbol ids
// using the same well-known names/sid-literal convention the writer side
// produces: "name"→4, "version"→5, "imports"→6, "symbols"→7, "max_id"→8,
// and "$<digits>" for the per-symbol fields of a struct-form symbols map.
type TreeReader struct {
	frames []*frame
}

type frame struct {
	inStruct bool
	fields   []structField
	elems    []symtab.Value

	idx int // index of the currently-positioned item; -1 before first

	curFieldID int
	curType    symtab.TypeTag
	curNull    bool
	curVal     symtab.Value
}

var wellKnownFieldIDs = map[string]int{
	symtab.FieldName:    symtab.SidName,
	symtab.FieldVersion: symtab.SidVersion,
	symtab.FieldImports: symtab.SidImports,
	symtab.FieldSymbols: symtab.SidSymbols,
	symtab.FieldMaxID:   symtab.SidMaxID,
}

func fieldNameToID(name string) int {
	if id, ok := wellKnownFieldIDs[name]; ok {
		return id
	}
	if strings.HasPrefix(name, string(rune(symtab.SidSigil))) {
		if n, err := strconv.Atoi(name[1:]); err == nil {
			return n
		}
	}
	return -1
}

func isNullValue(v symtab.Value) bool {
	switch t := v.(type) {
	case *Leaf:
		return t.isNull
	case *Struct:
		return t.isNull
	default:
		return false
	}
}

// NewTreeReader returns a Reader positioned inside root, ready to walk its
// fields — matching the entry precondition of symtab.ParseLocal/ParseShared.
func NewTreeReader(root *Struct) *TreeReader {
	return &TreeReader{frames: []*frame{structFrame(root)}}
}

func structFrame(s *Struct) *frame {
	return &frame{inStruct: true, fields: append([]structField(nil), s.fields...), idx: -1}
}

func listFrame(l *List) *frame {
	return &frame{inStruct: false, elems: append([]symtab.Value(nil), l.elems...), idx: -1}
}

func (r *TreeReader) top() *frame { return r.frames[len(r.frames)-1] }

func (r *TreeReader) HasNext() bool {
	f := r.top()
	if f.inStruct {
		return f.idx+1 < len(f.fields)
	}
	return f.idx+1 < len(f.elems)
}

func (r *TreeReader) Next() symtab.TypeTag {
	f := r.top()
	f.idx++
	if f.inStruct {
		field := f.fields[f.idx]
		f.curFieldID = fieldNameToID(field.name)
		f.curVal = field.val
	} else {
		f.curFieldID = 0
		f.curVal = f.elems[f.idx]
	}
	f.curType = f.curVal.Type()
	f.curNull = isNullValue(f.curVal)
	return f.curType
}

func (r *TreeReader) IsNullValue() bool { return r.top().curNull }
func (r *TreeReader) FieldID() int      { return r.top().curFieldID }
func (r *TreeReader) Type() symtab.TypeTag { return r.top().curType }
func (r *TreeReader) IsInStruct() bool  { return r.top().inStruct }

func (r *TreeReader) StepIn() {
	cur := r.top().curVal
	switch v := cur.(type) {
	case *Struct:
		r.frames = append(r.frames, structFrame(v))
	case *List:
		r.frames = append(r.frames, listFrame(v))
	default:
		panic(fmt.Sprintf("ionrep: StepIn on non-container value %T", cur))
	}
}

func (r *TreeReader) StepOut() {
	if len(r.frames) == 1 {
		panic("ionrep: StepOut at top level")
	}
	r.frames = r.frames[:len(r.frames)-1]
}

func (r *TreeReader) IntValue() (int, error) {
	leaf, ok := r.top().curVal.(*Leaf)
	if !ok || leaf.typ != symtab.TypeInt || leaf.isNull {
		return 0, fmt.Errorf("ionrep: current value is not a non-null int")
	}
	return int(leaf.intVal), nil
}

func (r *TreeReader) StringValue() (string, error) {
	leaf, ok := r.top().curVal.(*Leaf)
	if !ok || leaf.typ != symtab.TypeString || leaf.isNull {
		return "", fmt.Errorf("ionrep: current value is not a non-null string")
	}
	return leaf.strVal, nil
}
