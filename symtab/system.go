package symtab

import "sync"

// ---------------------------------------------------------------------------
// SystemTable: the fixed, process-wide version-1 table
// ---------------------------------------------------------------------------

// Wire-level constants for the Format's own reserved symbols. These mirror
// Ion 1.0's system symbol table: sid 3 is the annotation used on every
// symbol-table struct, sids 4-8 are the recognized field names, and 9 is
// Ion's shared-table annotation name. StructuralView annotates every table,
// shared tables included, with TableAnnotation (sid 3); sid 9 appears here
// only as an entry of the system table.
const (
	SidSigil       = '$'
	ReservedPrefix = "$ion"

	systemTableName = "$ion"
	systemVersionID = "$ion_1_0"

	SidTableAnnotation = 3
	SidName            = 4
	SidVersion         = 5
	SidImports         = 6
	SidSymbols         = 7
	SidMaxID           = 8
	SidSharedAnnotation = 9

	FieldName    = "name"
	FieldVersion = "version"
	FieldImports = "imports"
	FieldSymbols = "symbols"
	FieldMaxID   = "max_id"

	TableAnnotation  = "$ion_symbol_table"
	SharedAnnotation = "$ion_shared_symbol_table"
)

// systemSymbols lists the Format-defined symbols in declared order; index i
// (0-based) maps to sid i+1.
var systemSymbols = []string{
	systemTableName,
	systemVersionID,
	TableAnnotation,
	FieldName,
	FieldVersion,
	FieldImports,
	FieldSymbols,
	FieldMaxID,
	SharedAnnotation,
}

var (
	systemTableOnce     sync.Once
	systemTableInstance *Table
)

// SystemTable returns the process-wide singleton system table. It is
// constructed once, on first use, and the sync.Once guarantees the
// initialization is observed as complete (happens-before) by every caller,
// including callers on other goroutines, per spec.md §5.
func SystemTable() *Table {
	systemTableOnce.Do(func() {
		t := &Table{
			textIdx: make(map[string]int),
		}
		t.ensureCapacity(len(systemSymbols) + 1)
		for i, name := range systemSymbols {
			sid := i + 1
			t.entries[sid] = newSymbolEntry(sid, name, true, t)
			t.present[sid] = true
			// First-writer-wins is moot here (all names are distinct) but
			// keep the same invariant as everywhere else: lower sid wins.
			if _, exists := t.textIdx[name]; !exists {
				t.textIdx[name] = sid
			}
		}
		t.maxID = len(systemSymbols)
		t.name = systemTableName
		t.version = 1
		t.locked = true
		t.systemRef = t // self-reference sentinel, per spec.md §9
		systemTableInstance = t
	})
	return systemTableInstance
}
