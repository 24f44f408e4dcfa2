package symtab_test

import (
	"errors"
	"testing"

	"github.com/chazu/symtab/ionrep"
	"github.com/chazu/symtab/symtab"
)

// TestSharedTableRoundTrip is scenario 1: build a table, define two symbols,
// promote it, write it out, and read it back in as a fresh shared table.
func TestSharedTableRoundTrip(t *testing.T) {
	local := symtab.NewLocalTable(symtab.SystemTable())
	if err := local.DefineSymbol("alpha", local.MaxID()+1); err != nil {
		t.Fatal(err)
	}
	if err := local.DefineSymbol("beta", local.MaxID()+1); err != nil {
		t.Fatal(err)
	}

	shared, err := local.PromoteToShared("greek", 1)
	if err != nil {
		t.Fatalf("PromoteToShared: %v", err)
	}

	view := shared.StructuralView(ionrep.Factory{})
	root, ok := view.(*ionrep.Struct)
	if !ok {
		t.Fatalf("StructuralView did not return an *ionrep.Struct: %T", view)
	}

	parsed, err := symtab.ParseShared(ionrep.NewTreeReader(root))
	if err != nil {
		t.Fatalf("ParseShared: %v", err)
	}

	if parsed.Name() != "greek" || parsed.Version() != 1 {
		t.Errorf("identity = %q v%d, want greek v1", parsed.Name(), parsed.Version())
	}
	if sid, _ := parsed.FindSidByText("alpha"); sid != 1 {
		t.Errorf("alpha = %d, want 1", sid)
	}
	if sid, _ := parsed.FindSidByText("beta"); sid != 2 {
		t.Errorf("beta = %d, want 2", sid)
	}
	if parsed.MaxID() != 2 {
		t.Errorf("MaxID() = %d, want 2", parsed.MaxID())
	}
	if !parsed.IsLocked() {
		t.Error("a parsed shared table must be locked")
	}
}

// TestLocalTableRoundTripWithImport is scenario 2: a local table importing a
// shared table, written out and read back, preserving import sid offsets.
func TestLocalTableRoundTripWithImport(t *testing.T) {
	greekBuilder := symtab.NewLocalTable(symtab.SystemTable())
	greekBuilder.DefineSymbol("alpha", greekBuilder.MaxID()+1)
	greekBuilder.DefineSymbol("beta", greekBuilder.MaxID()+1)
	greek, err := greekBuilder.PromoteToShared("greek", 1)
	if err != nil {
		t.Fatal(err)
	}

	local := symtab.NewLocalTable(symtab.SystemTable())
	if err := local.Import(greek, 2); err != nil {
		t.Fatalf("Import: %v", err)
	}
	local.AddSymbol("gamma")

	catalog := &staticCatalog{tables: map[string]*symtab.Table{"greek": greek}}

	view := local.StructuralView(ionrep.Factory{})
	root := view.(*ionrep.Struct)

	parsed, err := symtab.ParseLocal(ionrep.NewTreeReader(root), symtab.SystemTable(), catalog)
	if err != nil {
		t.Fatalf("ParseLocal: %v", err)
	}

	wantAlpha, _ := local.FindSidByText("alpha")
	gotAlpha, err := parsed.FindSidByText("alpha")
	if err != nil || gotAlpha != wantAlpha {
		t.Errorf("alpha = %d, %v; want %d, nil", gotAlpha, err, wantAlpha)
	}
	wantGamma, _ := local.FindSidByText("gamma")
	gotGamma, err := parsed.FindSidByText("gamma")
	if err != nil || gotGamma != wantGamma {
		t.Errorf("gamma = %d, %v; want %d, nil", gotGamma, err, wantGamma)
	}
	if parsed.MaxID() != local.MaxID() {
		t.Errorf("MaxID() = %d, want %d", parsed.MaxID(), local.MaxID())
	}
}

// TestLocalTableRoundTripPreservesDeclaredMaxIdBeyondActual guards against
// StructuralView re-deriving an import's max_id from the imported table's
// current MaxID() instead of the width actually declared/reserved at
// import time: when declaredMaxID exceeds the shared table's own MaxID(),
// a round trip must reproduce the same declared max_id and the same local
// symbol offset, per spec.md's local-table round-trip law.
func TestLocalTableRoundTripPreservesDeclaredMaxIdBeyondActual(t *testing.T) {
	soloBuilder := symtab.NewLocalTable(symtab.SystemTable())
	soloBuilder.DefineSymbol("solo", soloBuilder.MaxID()+1)
	solo, err := soloBuilder.PromoteToShared("solo-table", 1)
	if err != nil {
		t.Fatal(err)
	}
	if solo.MaxID() != 1 {
		t.Fatalf("solo.MaxID() = %d, want 1", solo.MaxID())
	}

	local := symtab.NewLocalTable(symtab.SystemTable())
	if err := local.Import(solo, 5); err != nil {
		t.Fatalf("Import: %v", err)
	}
	local.AddSymbol("gamma")

	catalog := &staticCatalog{tables: map[string]*symtab.Table{"solo-table": solo}}

	view := local.StructuralView(ionrep.Factory{})
	root := view.(*ionrep.Struct)

	imports, ok := root.Get(symtab.FieldImports)
	if !ok {
		t.Fatal("StructuralView produced no imports field")
	}
	list := imports.(*ionrep.List)
	importEntry := list.Elem(0).(*ionrep.Struct)
	maxIDField, ok := importEntry.Get(symtab.FieldMaxID)
	if !ok {
		t.Fatal("import entry has no max_id field")
	}
	if got := maxIDField.(*ionrep.Leaf).IntVal(); got != 5 {
		t.Errorf("serialized import max_id = %d, want 5 (the declared width, not solo.MaxID()==1)", got)
	}

	parsed, err := symtab.ParseLocal(ionrep.NewTreeReader(root), symtab.SystemTable(), catalog)
	if err != nil {
		t.Fatalf("ParseLocal: %v", err)
	}

	if parsed.MaxID() != local.MaxID() {
		t.Errorf("MaxID() = %d, want %d", parsed.MaxID(), local.MaxID())
	}
	wantGamma, _ := local.FindSidByText("gamma")
	gotGamma, err := parsed.FindSidByText("gamma")
	if err != nil || gotGamma != wantGamma {
		t.Errorf("gamma = %d, %v; want %d, nil", gotGamma, err, wantGamma)
	}
}

// TestMissingImportWithExplicitMaxIdReservesRange is scenario 3: an import
// clause naming a table the catalog can't resolve, but carrying an explicit
// max_id, reserves that sid range with holes instead of failing.
func TestMissingImportWithExplicitMaxIdReservesRange(t *testing.T) {
	root := &ionrep.Struct{}
	root.AddTypeAnnotation(symtab.TableAnnotation)

	imports := &ionrep.List{}
	importEntry := &ionrep.Struct{}
	importEntry.Add(symtab.FieldName, ionrep.Factory{}.NewString("nowhere"))
	importEntry.Add(symtab.FieldVersion, ionrep.Factory{}.NewInt(1))
	importEntry.Add(symtab.FieldMaxID, ionrep.Factory{}.NewInt(3))
	imports.Add(importEntry)
	root.Add(symtab.FieldImports, imports)

	local, err := symtab.ParseLocal(ionrep.NewTreeReader(root), symtab.SystemTable(), nil)
	if err != nil {
		t.Fatalf("ParseLocal: %v", err)
	}

	systemMax := symtab.SystemTable().MaxID()
	if local.MaxID() != systemMax+3 {
		t.Errorf("MaxID() = %d, want %d", local.MaxID(), systemMax+3)
	}
	for sid := systemMax + 1; sid <= systemMax+3; sid++ {
		if _, ok := local.FindKnownText(sid); ok {
			t.Errorf("sid %d should be an unresolved hole", sid)
		}
	}
}

// TestMissingImportWithoutMaxIdFails is scenario 4: an unresolvable import
// with no explicit max_id can't have its sid range reserved, and is malformed.
func TestMissingImportWithoutMaxIdFails(t *testing.T) {
	root := &ionrep.Struct{}
	root.AddTypeAnnotation(symtab.TableAnnotation)

	imports := &ionrep.List{}
	importEntry := &ionrep.Struct{}
	importEntry.Add(symtab.FieldName, ionrep.Factory{}.NewString("nowhere"))
	importEntry.Add(symtab.FieldVersion, ionrep.Factory{}.NewInt(1))
	imports.Add(importEntry)
	root.Add(symtab.FieldImports, imports)

	_, err := symtab.ParseLocal(ionrep.NewTreeReader(root), symtab.SystemTable(), nil)
	if !errors.Is(err, symtab.ErrMalformedImport) {
		t.Errorf("ParseLocal = %v, want ErrMalformedImport", err)
	}
}

// TestSharedTableRedefinitionForbidden is scenario 6: a single sid bound to
// two different texts in the same struct-form symbols field is malformed —
// a sid may never be rebound once it names a symbol.
func TestSharedTableRedefinitionForbidden(t *testing.T) {
	root := &ionrep.Struct{}
	root.Add(symtab.FieldName, ionrep.Factory{}.NewString("dup"))
	root.Add(symtab.FieldVersion, ionrep.Factory{}.NewInt(1))

	symbols := &ionrep.Struct{}
	symbols.Add("$1", ionrep.Factory{}.NewString("first"))
	symbols.Add("$1", ionrep.Factory{}.NewString("second"))
	root.Add(symtab.FieldSymbols, symbols)

	_, err := symtab.ParseShared(ionrep.NewTreeReader(root))
	if !errors.Is(err, symtab.ErrSymbolRedefinition) {
		t.Errorf("ParseShared = %v, want ErrSymbolRedefinition", err)
	}
}

// TestSharedTableAllowsSameTextAtDifferentSids confirms text reuse across
// distinct sids is legal — only rebinding a single sid is forbidden.
func TestSharedTableAllowsSameTextAtDifferentSids(t *testing.T) {
	root := &ionrep.Struct{}
	root.Add(symtab.FieldName, ionrep.Factory{}.NewString("dup"))
	root.Add(symtab.FieldVersion, ionrep.Factory{}.NewInt(1))

	symbols := &ionrep.Struct{}
	symbols.Add("$1", ionrep.Factory{}.NewString("same"))
	symbols.Add("$2", ionrep.Factory{}.NewString("same"))
	root.Add(symtab.FieldSymbols, symbols)

	parsed, err := symtab.ParseShared(ionrep.NewTreeReader(root))
	if err != nil {
		t.Fatalf("ParseShared: %v", err)
	}
	// First-writer-wins: the text index keeps the lowest sid.
	if sid, _ := parsed.FindSidByText("same"); sid != 1 {
		t.Errorf("FindSidByText(same) = %d, want 1", sid)
	}
}

type staticCatalog struct {
	tables map[string]*symtab.Table
}

func (c *staticCatalog) GetTable(name string, version int) (*symtab.Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}
