package catalog

import (
	"strconv"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/chazu/symtab/symtab"
)

// Memory is the simplest symtab.Catalog: a map kept entirely in memory,
// useful in tests and for programs that build their own shared tables and
// want to make them resolvable to imports without touching disk.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]*symtab.Table
}

// NewMemory returns an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string]*symtab.Table)}
}

// Put registers a locked shared table under (name, version). It panics if
// t is not a locked shared table, since an unlocked table cannot satisfy
// the Catalog contract of returning stable, immutable results.
func (m *Memory) Put(t *symtab.Table) {
	if !t.IsShared() {
		panic("catalog: Memory.Put requires a locked shared table")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[key(t.Name(), t.Version())] = t
}

// GetTable implements symtab.Catalog.
func (m *Memory) GetTable(name string, version int) (*symtab.Table, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[key(name, version)]
	return t, ok
}

func key(name string, version int) string {
	return name + "\x00" + strconv.Itoa(version)
}

// ManifestCatalog is a symtab.Catalog backed by a TOML manifest of on-disk
// CBOR snapshots (see Manifest, TableEntry, SaveSnapshot/LoadSnapshot).
// Snapshots are loaded lazily on first request and cached afterward.
// GetTable logs hits, misses, and version mismatches the way a resident
// catalog service would.
type ManifestCatalog struct {
	manifest *Manifest
	log      commonlog.Logger

	mu     sync.Mutex
	cache  map[string]*symtab.Table // by file path
	byName map[string][]TableEntry
}

// NewManifestCatalog builds a catalog over the given manifest.
func NewManifestCatalog(m *Manifest) *ManifestCatalog {
	byName := make(map[string][]TableEntry)
	for _, e := range m.Table {
		byName[e.Name] = append(byName[e.Name], e)
	}
	return &ManifestCatalog{
		manifest: m,
		log:      commonlog.GetLogger("symtab.catalog"),
		cache:    make(map[string]*symtab.Table),
		byName:   byName,
	}
}

// GetTable implements symtab.Catalog. If no entry for name carries the
// requested version, the highest available version is returned instead
// (found=true, mismatched) so the caller's own version-mismatch handling
// (spec.md's import mismatch resolution) can decide what to do with it.
func (c *ManifestCatalog) GetTable(name string, version int) (*symtab.Table, bool) {
	entries := c.byName[name]
	if len(entries) == 0 {
		c.log.Warningf("catalog miss: no entry for %q", name)
		return nil, false
	}

	entry := entries[0]
	for _, e := range entries {
		if e.Version == version {
			entry = e
			break
		}
		if e.Version > entry.Version {
			entry = e
		}
	}

	t, err := c.load(entry)
	if err != nil {
		c.log.Errorf("catalog: failed to load %q version %d from %s: %s", name, entry.Version, entry.File, err)
		return nil, false
	}
	if entry.Version != version {
		c.log.Infof("catalog version mismatch: %q requested version %d, resolved version %d", name, version, entry.Version)
	} else {
		c.log.Debugf("catalog hit: %q version %d", name, version)
	}
	return t, true
}

func (c *ManifestCatalog) load(entry TableEntry) (*symtab.Table, error) {
	path := c.manifest.resolve(entry.File)

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.cache[path]; ok {
		return t, nil
	}
	t, err := LoadSnapshot(path)
	if err != nil {
		return nil, err
	}
	c.cache[path] = t
	return t, nil
}
