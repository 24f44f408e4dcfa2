package symtab

// ---------------------------------------------------------------------------
// Writer binding — generating the structural view (spec.md §4.6)
// ---------------------------------------------------------------------------

// StructuralView produces (and, on subsequent calls, returns the cached)
// structural value tree for this table, in the shape described by
// spec.md §4.6/§6. Local tables mirror later add/remove calls into the
// cached "symbols" substructure incrementally; shared tables are immutable
// once locked so the cache never goes stale.
func (t *Table) StructuralView(f ValueFactory) StructValue {
	if t.view != nil {
		return t.view
	}
	t.factory = f

	s := f.NewEmptyStruct()
	s.AddTypeAnnotation(TableAnnotation)

	if t.IsShared() {
		s.Add(FieldName, f.NewString(t.name))
		s.Add(FieldVersion, f.NewInt(int64(t.version)))
	} else if len(t.imports) > 0 {
		list := f.NewEmptyList()
		for _, imp := range t.imports {
			entry := f.NewEmptyStruct()
			entry.Add(FieldName, f.NewString(imp.table.name))
			entry.Add(FieldVersion, f.NewInt(int64(imp.table.version)))
			entry.Add(FieldMaxID, f.NewInt(int64(imp.declaredMaxID)))
			list.Add(entry)
		}
		s.Add(FieldImports, list)
	}

	symbolsRep := f.NewNullStruct()
	s.Add(FieldSymbols, symbolsRep)
	t.symbolsRep = symbolsRep
	t.view = s

	for sid := 1; sid <= t.maxID; sid++ {
		entry, ok := t.slot(sid)
		if !ok || entry.Source() != t {
			continue
		}
		t.recordLocalSymbolInView(entry)
	}

	return s
}

// recordLocalSymbolInView mirrors one locally-owned entry into the cached
// symbols substructure. An entry with no text (an unresolved local hole)
// is recorded as an empty string, matching the read side's rule that an
// empty string collapses to no text — so the mirror round-trips.
func (t *Table) recordLocalSymbolInView(entry SymbolEntry) {
	if t.symbolsRep == nil {
		return
	}
	text, hasText := entry.Text()
	if !hasText {
		text = ""
	}
	t.symbolsRep.Add(SidLiteral(entry.Sid()), t.factory.NewString(text))
}
