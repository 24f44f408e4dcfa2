package symtab

// ---------------------------------------------------------------------------
// Table: the one concrete symbol table type, playing three roles
// ---------------------------------------------------------------------------

// Table is the unified symbol table. A single Table value plays one of
// three roles over its lifetime, distinguished by (locked, name, systemRef)
// as described in spec.md §9:
//
//   - system: the fixed, process-wide table (SystemTable()). systemRef
//     points to itself.
//   - shared: named, versioned, locked, produced by ParseShared or by
//     PromoteToShared. systemRef is nil (forgotten on promotion).
//   - local: mutable, chains a system table and zero or more imports.
//     name is empty, version is 0.
type Table struct {
	name    string
	version int

	systemRef *Table // self for the system table; nil for shared tables
	imports   []tableImport

	entries []SymbolEntry // dense, index 0 unused; hasText==false marks a hole
	present []bool        // present[k] tracks whether entries[k] is a real slot
	textIdx map[string]int

	maxID           int
	hasLocalSymbols bool
	locked          bool

	// Cached structural mirror (locals only), built lazily by StructuralView
	// and updated in lock-step by define/remove, per spec.md §4.6/§9.
	view       StructValue
	symbolsRep StructValue
	factory    ValueFactory
}

// tableImport is one entry of a local table's import list: the shared table
// itself plus the max_id actually declared/reserved for it at import time,
// which is not always the same as the shared table's own current MaxID()
// (Import's declaredMaxID can exceed it, reserving trailing holes).
type tableImport struct {
	table         *Table
	declaredMaxID int
}

// MaxID returns the highest sid known to this table.
func (t *Table) MaxID() int { return t.maxID }

// Name returns the table's name; empty for local (and, before promotion,
// non-shared) tables.
func (t *Table) Name() string { return t.name }

// Version returns the table's version; 0 for local tables.
func (t *Table) Version() int { return t.version }

// IsLocked reports whether the table has been shared (via ParseShared or
// PromoteToShared); locked tables reject every mutation. AddSymbol of a
// text the table already knows still returns its sid, since it changes
// nothing.
func (t *Table) IsLocked() bool { return t.locked }

// IsShared reports whether this table is locked. The system table is
// locked (and named "$ion") too, so IsShared is also true for it; IsSystem
// is the discriminator when the distinction matters.
func (t *Table) IsShared() bool { return t.locked }

// IsSystem reports whether this table is the fixed system table.
func (t *Table) IsSystem() bool { return t.locked && t.systemRef == t }

// IsLocalTable reports whether this table is still mutable.
func (t *Table) IsLocalTable() bool { return !t.locked }

// HasImports reports whether this (local) table carries any imports.
func (t *Table) HasImports() bool { return len(t.imports) > 0 }

// Imports returns the ordered list of imported shared tables. Always empty
// for shared and system tables.
func (t *Table) Imports() []*Table {
	out := make([]*Table, len(t.imports))
	for i, imp := range t.imports {
		out[i] = imp.table
	}
	return out
}

// IsTrivial reports whether the table carries no information beyond its
// system reference: for a shared table, MaxID()==0; for a local table, no
// imports and no locally-defined symbols. Ported from the original
// UnifiedSymbolTable.isTrivial().
func (t *Table) IsTrivial() bool {
	if t.locked {
		return t.maxID == 0
	}
	return !t.hasLocalSymbols && len(t.imports) == 0
}

// SystemID returns the version-identifier text of the system table in
// effect for this table (e.g. "$ion_1_0"-shaped), or "" if this table has
// no system reference (a shared, non-system table). Ported from the
// original getSystemId().
func (t *Table) SystemID() string {
	if t.systemRef == nil {
		return ""
	}
	if t.systemRef != t {
		return t.systemRef.SystemID()
	}
	return systemVersionID
}

func (t *Table) ensureCapacity(sid int) {
	for len(t.entries) <= sid {
		t.entries = append(t.entries, SymbolEntry{})
		t.present = append(t.present, false)
	}
}

func (t *Table) slot(sid int) (SymbolEntry, bool) {
	if sid < 0 || sid >= len(t.entries) || !t.present[sid] {
		return SymbolEntry{}, false
	}
	return t.entries[sid], true
}

// NewLocalTable creates a mutable local table rooted at the given system
// table, importing it at offset 0 as spec.md §3 requires. system must be
// SystemTable() or another table with IsSystem() true.
func NewLocalTable(system *Table) *Table {
	if system == nil || !system.IsSystem() {
		panic("symtab: NewLocalTable requires the system table")
	}
	t := &Table{
		systemRef: system,
		textIdx:   make(map[string]int),
	}
	t.ensureCapacity(system.maxID + 1)
	t.importSymbols(system, 0, -1)
	return t
}
