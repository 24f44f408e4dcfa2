package catalog

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/symtab/ionrep"
	"github.com/chazu/symtab/symtab"
)

// cborEncMode encodes snapshots canonically so two saves of the same table
// produce byte-identical output, mirroring the dist package's wire encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("catalog: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// snapshot is the on-disk shape of a shared table: its identity plus a
// sid->text map. Sids in [1, MaxID] absent from Symbols are holes — symbols
// that existed in the original table but whose text could not be resolved
// (spec.md §3's "malformed input tolerance" case).
type snapshot struct {
	Name    string            `cbor:"name"`
	Version int               `cbor:"version"`
	MaxID   int               `cbor:"max_id"`
	Symbols map[string]string `cbor:"symbols"`
}

func snapshotFromTable(t *symtab.Table) snapshot {
	s := snapshot{
		Name:    t.Name(),
		Version: t.Version(),
		MaxID:   t.MaxID(),
		Symbols: make(map[string]string),
	}
	for sid := 1; sid <= t.MaxID(); sid++ {
		if text, ok := t.FindKnownText(sid); ok {
			s.Symbols[strconv.Itoa(sid)] = text
		}
	}
	return s
}

// toTable rebuilds a locked shared *symtab.Table from the snapshot by
// replaying it through the same reader binding a real Ion parser would use,
// rather than poking at symtab internals directly.
func (s snapshot) toTable() (*symtab.Table, error) {
	root := &ionrep.Struct{}
	root.Add(symtab.FieldName, ionrep.Factory{}.NewString(s.Name))
	root.Add(symtab.FieldVersion, ionrep.Factory{}.NewInt(int64(s.Version)))

	symbols := &ionrep.Struct{}
	for sid := 1; sid <= s.MaxID; sid++ {
		text := s.Symbols[strconv.Itoa(sid)]
		symbols.Add(symtab.SidLiteral(sid), ionrep.Factory{}.NewString(text))
	}
	root.Add(symtab.FieldSymbols, symbols)

	return symtab.ParseShared(ionrep.NewTreeReader(root))
}

// SaveSnapshot writes a locked shared table to path as canonical CBOR.
func SaveSnapshot(t *symtab.Table, path string) error {
	if !t.IsShared() {
		return fmt.Errorf("catalog: SaveSnapshot requires a locked shared table, got %q", t.Name())
	}
	data, err := cborEncMode.Marshal(snapshotFromTable(t))
	if err != nil {
		return fmt.Errorf("catalog: marshal snapshot for %q: %w", t.Name(), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("catalog: write %s: %w", path, err)
	}
	return nil
}

// LoadSnapshot reads a shared table snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (*symtab.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var s snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("catalog: unmarshal snapshot %s: %w", path, err)
	}
	t, err := s.toTable()
	if err != nil {
		return nil, fmt.Errorf("catalog: rebuild table from %s: %w", path, err)
	}
	return t, nil
}
