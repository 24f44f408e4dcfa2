// Package catalog provides symtab.Catalog implementations: an in-memory
// registry for tests and embedded use, and a TOML-manifest-backed catalog
// that lazily loads shared table snapshots from CBOR files on disk.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest describes a directory of shared symbol table snapshots, in the
// same spirit as maggie.toml describes a project: a small TOML document
// naming what's available and where to find it on disk.
type Manifest struct {
	Table []TableEntry `toml:"table"`

	// Dir is the directory containing the manifest file (set at load time);
	// each entry's File is resolved relative to it.
	Dir string `toml:"-"`
}

// TableEntry names one shared table snapshot within a manifest.
type TableEntry struct {
	Name    string `toml:"name"`
	Version int    `toml:"version"`
	File    string `toml:"file"`
}

// LoadManifest parses a catalog manifest TOML file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("catalog: parse error in %s: %w", path, err)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("catalog: cannot resolve directory of %s: %w", path, err)
	}
	m.Dir = dir
	return &m, nil
}

func (m *Manifest) resolve(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(m.Dir, file)
}
