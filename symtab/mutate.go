package symtab

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// UnifiedTable — mutation (spec.md §4.4)
// ---------------------------------------------------------------------------

// AddSymbol looks up text; if already known, its sid is returned unchanged.
// Otherwise the table must be unlocked, a fresh sid (MaxID()+1) is
// allocated, and text is installed as a local symbol of this table.
func (t *Table) AddSymbol(text string) (int, error) {
	if text == "" {
		return 0, fmt.Errorf("%w: text must be non-empty", ErrIllegalArgument)
	}
	if sid, err := t.FindSidByText(text); err == nil {
		return sid, nil
	} else if !errors.Is(err, ErrUnknownSymbol) {
		return 0, err
	}
	if t.locked {
		return 0, fmt.Errorf("%w: cannot add symbols to a shared table", ErrIllegalState)
	}
	sid := t.maxID + 1
	if err := t.defineEntry(sid, text, true, t); err != nil {
		return 0, err
	}
	return sid, nil
}

// DefineSymbol binds text to sid. If text already maps to sid, this is a
// no-op. If it maps to a different sid, ErrIllegalArgument. Otherwise text
// is installed at sid per the invariants of spec.md §3 — including the
// permissive open question of §9: sid may legally fall within an import's
// reserved range if no imported symbol currently occupies it.
func (t *Table) DefineSymbol(text string, sid int) error {
	if t.locked {
		return fmt.Errorf("%w: cannot change a shared table", ErrIllegalState)
	}
	if text == "" || sid < 1 {
		return fmt.Errorf("%w: invalid symbol definition (text=%q, sid=%d)", ErrIllegalArgument, text, sid)
	}
	existing, err := t.FindSidByText(text)
	if err == nil {
		if existing == sid {
			return nil
		}
		return fmt.Errorf("%w: %q is already bound to $%d, cannot rebind to $%d", ErrIllegalArgument, text, existing, sid)
	}
	return t.defineEntry(sid, text, true, t)
}

// defineEntry is the low-level installer shared by AddSymbol, DefineSymbol,
// import ingestion and the reader binding. Callers are responsible for the
// locked check; this only enforces no-sid-rebinding and applies
// first-writer-wins to the text index.
func (t *Table) defineEntry(sid int, text string, hasText bool, source *Table) error {
	t.ensureCapacity(sid + 1)

	if t.present[sid] {
		existing := t.entries[sid]
		etext, ehas := existing.Text()
		if ehas != hasText || etext != text {
			return fmt.Errorf("%w: cannot redefine $%d from %s to %q", ErrSymbolRedefinition, sid, existing, text)
		}
	}

	entry := newSymbolEntry(sid, text, hasText, source)
	t.entries[sid] = entry
	t.present[sid] = true

	kept := true
	if hasText {
		if priorSid, exists := t.textIdx[text]; exists && priorSid != sid {
			if priorSid < sid {
				// First-writer-wins: the earlier, lower sid keeps the
				// binding; this slot becomes a hole.
				t.present[sid] = false
				t.entries[sid] = SymbolEntry{}
				kept = false
			} else {
				t.present[priorSid] = false
				t.entries[priorSid] = SymbolEntry{}
				t.textIdx[text] = sid
			}
		} else {
			t.textIdx[text] = sid
		}
	}

	if sid > t.maxID {
		t.maxID = sid
	}
	if kept && source == t {
		t.hasLocalSymbols = true
		if t.symbolsRep != nil {
			t.recordLocalSymbolInView(entry)
		}
	}
	return nil
}

// RemoveSymbol clears the binding for text. If sid is given (sid >= 1) it
// must match text's current binding. System-range sids cannot be removed.
func (t *Table) RemoveSymbol(text string, sid int) error {
	if t.locked {
		return fmt.Errorf("%w: cannot change a shared table", ErrIllegalState)
	}
	current, err := t.FindSidByText(text)
	if err != nil {
		if sid >= 1 {
			return fmt.Errorf("%w: %q not bound, cannot match sid %d", ErrIllegalArgument, text, sid)
		}
		return nil
	}
	if sid >= 1 && sid != current {
		return fmt.Errorf("%w: %q is bound to $%d, not $%d", ErrIllegalArgument, text, current, sid)
	}
	if t.systemRef != nil && current <= systemMaxIDFor(t) {
		return fmt.Errorf("%w: cannot remove system symbol $%d", ErrIllegalArgument, current)
	}
	delete(t.textIdx, text)
	if current < len(t.present) {
		t.present[current] = false
		t.entries[current] = SymbolEntry{}
	}
	if t.symbolsRep != nil {
		t.symbolsRep.RemoveAll(SidLiteral(current))
	}
	return nil
}

func systemMaxIDFor(t *Table) int {
	if t.systemRef == nil {
		return 0
	}
	return t.systemRef.maxID
}

// Import ingests a shared table's symbols at the current MaxID() offset.
// declaredMaxId reserves id space up to that width even past what the
// shared table actually defines, or (if negative) defaults to the shared
// table's own MaxID(). Must be called before any local symbol exists.
func (t *Table) Import(shared *Table, declaredMaxID int) error {
	if t.locked {
		return fmt.Errorf("%w: cannot import into a shared table", ErrIllegalState)
	}
	if t.hasLocalSymbols {
		return fmt.Errorf("%w: importing tables is not valid once local symbols have been added", ErrIllegalState)
	}
	if t.systemRef == nil {
		return fmt.Errorf("%w: a system table must be defined before importing other tables", ErrIllegalState)
	}
	if shared == nil || shared.name == "" {
		return fmt.Errorf("%w: imported symbol tables must be named", ErrIllegalArgument)
	}
	if shared.IsLocalTable() || shared.IsSystem() {
		return fmt.Errorf("%w: only non-system shared tables can be imported", ErrIllegalArgument)
	}

	resolvedMaxID := declaredMaxID
	if resolvedMaxID < 0 {
		resolvedMaxID = shared.maxID
	}
	t.imports = append(t.imports, tableImport{table: shared, declaredMaxID: resolvedMaxID})
	t.importSymbols(shared, t.maxID, declaredMaxID)
	return nil
}

// importSymbols is the shared offsetting routine used both by NewLocalTable
// (to seed the system import at offset 0) and by Import.
func (t *Table) importSymbols(source *Table, sidOffset, declaredMaxID int) {
	if declaredMaxID < 0 {
		declaredMaxID = source.maxID
	}
	priorMaxID := t.maxID

	limit := declaredMaxID
	if source.maxID < limit {
		limit = source.maxID
	}
	for sid := 1; sid <= limit; sid++ {
		entry, ok := source.slot(sid)
		if !ok {
			continue
		}
		text, hasText := entry.Text()
		_ = t.defineEntry(sid+sidOffset, text, hasText, source)
	}

	newMaxID := priorMaxID + declaredMaxID
	if newMaxID > t.maxID {
		t.maxID = newMaxID
	}
}

// PromoteToShared consumes this local table, producing a new shared table
// carrying only the symbols originally declared locally (source == self),
// renumbered contiguously starting at 1. The receiver must not be reused
// after this call.
func (t *Table) PromoteToShared(name string, version int) (*Table, error) {
	if t.locked {
		return nil, fmt.Errorf("%w: table is already shared", ErrIllegalState)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name must be non-empty", ErrIllegalArgument)
	}
	if version < 1 {
		return nil, fmt.Errorf("%w: version must be at least 1", ErrIllegalArgument)
	}

	shared := &Table{
		name:    name,
		version: version,
		textIdx: make(map[string]int),
	}
	shared.ensureCapacity(16)

	next := 1
	for sid := 1; sid <= t.maxID; sid++ {
		entry, ok := t.slot(sid)
		if !ok || entry.Source() != t {
			continue
		}
		text, hasText := entry.Text()
		if err := shared.defineEntry(next, text, hasText, shared); err != nil {
			return nil, err
		}
		next++
	}
	shared.locked = true
	return shared, nil
}

// NewSharedTableFromKnownSymbols builds a new shared table by walking the
// sid range above local's system table, copying every resolvable symbol.
// Unlike PromoteToShared, local is left untouched and may still be used
// afterward. Ported from the original UnifiedSymbolTable(local, name,
// version) constructor.
func NewSharedTableFromKnownSymbols(local *Table, name string, version int) (*Table, error) {
	if local.systemRef == nil {
		return nil, fmt.Errorf("%w: table has no system reference", ErrIllegalState)
	}
	shared := &Table{
		name:    name,
		version: version,
		textIdx: make(map[string]int),
	}
	shared.ensureCapacity(16)

	minID := local.systemRef.maxID
	next := 1
	for sid := minID + 1; sid <= local.maxID; sid++ {
		text, ok := local.FindKnownText(sid)
		if !ok {
			continue
		}
		if err := shared.defineEntry(next, text, true, shared); err != nil {
			return nil, err
		}
		next++
	}
	shared.locked = true
	return shared, nil
}
