package symtab

import "fmt"

// ---------------------------------------------------------------------------
// Reader binding — parsing a table struct (spec.md §4.5)
// ---------------------------------------------------------------------------

// collectedSymbol is a candidate SymbolEntry gathered while scanning the
// "symbols" field, before it is installed (installation is deferred until
// the whole struct has been consumed, per spec.md §4.5).
type collectedSymbol struct {
	sid     int
	text    string
	hasText bool
}

// ParseLocal materializes a local table from a reader positioned inside a
// symbol-table struct. system must be the system table in effect.
func ParseLocal(r Reader, system *Table, catalog Catalog) (*Table, error) {
	if system == nil || !system.IsSystem() {
		panic("symtab: ParseLocal requires the system table")
	}
	t := NewLocalTable(system)

	_, _, symbols, err := readTableFields(r, false, catalog, t)
	if err != nil {
		return nil, err
	}

	firstLocalSid := t.maxID + 1
	for _, sym := range symbols {
		if sym.sid < firstLocalSid {
			// Colliding with an import: cannot override, silently dropped.
			continue
		}
		if err := t.defineEntry(sym.sid, sym.text, sym.hasText, t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ParseShared materializes a shared table from a reader positioned inside a
// symbol-table struct.
func ParseShared(r Reader) (*Table, error) {
	t := &Table{textIdx: make(map[string]int)}

	name, version, symbols, err := readTableFields(r, true, nil, t)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: field 'name' must be a non-empty string", ErrMalformedTable)
	}
	if version < 1 {
		version = 1
	}

	for _, sym := range symbols {
		if err := t.defineEntry(sym.sid, sym.text, sym.hasText, t); err != nil {
			return nil, err
		}
	}
	t.name = name
	t.version = version
	t.locked = true
	return t, nil
}

// readTableFields scans every field of the struct reader is positioned in,
// dispatching by field-id, and returns the name/version (shared tables
// only) and the deferred symbol candidates. Import elements (local tables
// only) are applied immediately as they are encountered, since a local
// table's actual symbol installation always happens after the full struct
// is consumed.
func readTableFields(r Reader, shared bool, catalog Catalog, t *Table) (name string, version int, symbols []collectedSymbol, err error) {
	version = 1

	for r.HasNext() {
		fieldType := r.Next()
		if r.IsNullValue() {
			continue
		}

		switch r.FieldID() {
		case SidVersion:
			if shared && fieldType == TypeInt {
				v, e := r.IntValue()
				if e != nil {
					return "", 0, nil, e
				}
				version = v
			}

		case SidName:
			if shared && fieldType == TypeString {
				s, e := r.StringValue()
				if e != nil {
					return "", 0, nil, e
				}
				name = s
			}

		case SidSymbols:
			collected, e := readSymbolsField(r, fieldType, t)
			if e != nil {
				return "", 0, nil, e
			}
			symbols = append(symbols, collected...)

		case SidImports:
			if !shared && fieldType == TypeList {
				if e := readImportList(r, catalog, t); e != nil {
					return "", 0, nil, e
				}
			}
		}
	}
	return name, version, symbols, nil
}

func readSymbolsField(r Reader, fieldType TypeTag, t *Table) ([]collectedSymbol, error) {
	var structForm bool
	switch fieldType {
	case TypeStruct:
		structForm = true
	case TypeList:
		structForm = false
	default:
		// Non-list, non-struct symbols field: treated as empty.
		return nil, nil
	}

	var out []collectedSymbol
	sid := t.maxID

	r.StepIn()
	for r.HasNext() {
		elemType := r.Next()
		if structForm {
			sid = r.FieldID()
		} else {
			sid++
		}

		var text string
		var hasText bool
		if elemType == TypeString && !r.IsNullValue() {
			s, e := r.StringValue()
			if e != nil {
				r.StepOut()
				return nil, e
			}
			if s != "" {
				text, hasText = s, true
			}
		}
		out = append(out, collectedSymbol{sid: sid, text: text, hasText: hasText})
	}
	r.StepOut()
	return out, nil
}

func readImportList(r Reader, catalog Catalog, t *Table) error {
	r.StepIn()
	for r.HasNext() {
		elemType := r.Next()
		if elemType == TypeStruct {
			if err := readOneImport(r, catalog, t); err != nil {
				r.StepOut()
				return err
			}
		}
	}
	r.StepOut()
	return nil
}

func readOneImport(r Reader, catalog Catalog, t *Table) error {
	var name string
	version := -1
	maxID := -1

	r.StepIn()
	for r.HasNext() {
		fieldType := r.Next()
		if r.IsNullValue() {
			continue
		}
		switch r.FieldID() {
		case SidName:
			if fieldType == TypeString {
				s, e := r.StringValue()
				if e != nil {
					r.StepOut()
					return e
				}
				name = s
			}
		case SidVersion:
			if fieldType == TypeInt {
				v, e := r.IntValue()
				if e != nil {
					r.StepOut()
					return e
				}
				version = v
			}
		case SidMaxID:
			if fieldType == TypeInt {
				v, e := r.IntValue()
				if e != nil {
					r.StepOut()
					return e
				}
				maxID = v
			}
		}
	}
	r.StepOut()

	// Malformed name field: ignore this import clause entirely.
	if name == "" || name == systemTableName {
		return nil
	}
	if version < 1 {
		version = 1
	}

	var (
		found  bool
		shared *Table
	)
	if catalog != nil {
		shared, found = catalog.GetTable(name, version)
	}

	mismatch := !found || shared.Version() != version
	if mismatch && maxID < 0 {
		if found {
			return fmt.Errorf("%w: import of %q lacks a valid max_id and the catalog only has version %d", ErrMalformedImport, name, shared.Version())
		}
		return fmt.Errorf("%w: import of %q lacks a valid max_id and no catalog match was found", ErrMalformedImport, name)
	}

	if !found {
		shared = newPlaceholderShared(name, version, maxID)
	}
	return t.Import(shared, maxID)
}

// newPlaceholderShared synthesizes a shared table with a declared max_id
// and no resolvable symbols, preserving sid arithmetic when the catalog
// cannot supply the real table.
func newPlaceholderShared(name string, version int, maxID int) *Table {
	t := &Table{
		name:    name,
		version: version,
		textIdx: make(map[string]int),
		locked:  true,
	}
	if maxID > 0 {
		t.ensureCapacity(maxID + 1)
	}
	t.maxID = maxID
	return t
}
