package symtab

import "fmt"

// ---------------------------------------------------------------------------
// SymbolEntry: an immutable (sid, text, source) triple
// ---------------------------------------------------------------------------

// SymbolEntry is one slot in a Table's dense sid-indexed vector. Text is
// absent (HasText == false) for an imported symbol whose shared table could
// not be resolved through the catalog. Source is a non-owning back-pointer
// to the Table that originally declared this symbol — used to decide, at
// serialization time, which entries belong to this table versus an import.
type SymbolEntry struct {
	sid     int
	text    string
	hasText bool
	source  *Table

	// Length hints in Format wire units, precomputed at construction for
	// use by downstream encoders. They are informational only; nothing in
	// this package reads them back.
	textLen int // byte length of text (0 if hasText is false)
	sidLen  int // width of sid as a variable-length-unsigned-int
	tdLen   int // combined type-descriptor + length-prefix width for text
}

func newSymbolEntry(sid int, text string, hasText bool, source *Table) SymbolEntry {
	e := SymbolEntry{
		sid:     sid,
		text:    text,
		hasText: hasText,
		source:  source,
	}
	if hasText {
		e.textLen = len(text)
	}
	e.sidLen = varUIntLen(sid)
	e.tdLen = typeDescLen(e.textLen)
	return e
}

// Sid returns this entry's symbol id.
func (e SymbolEntry) Sid() int { return e.sid }

// Text returns the entry's text and whether it is present.
func (e SymbolEntry) Text() (string, bool) { return e.text, e.hasText }

// Source returns the table that originally declared this entry. It is a
// non-owning back-reference: holding it must never keep the source table
// alive on its own.
func (e SymbolEntry) Source() *Table { return e.source }

// TextLen, SidLen and TypeDescLen expose the precomputed wire-length hints.
func (e SymbolEntry) TextLen() int     { return e.textLen }
func (e SymbolEntry) SidLen() int      { return e.sidLen }
func (e SymbolEntry) TypeDescLen() int { return e.tdLen }

// Equal implements value equality on (sid, text); Source is identity, not
// part of equality.
func (e SymbolEntry) Equal(o SymbolEntry) bool {
	return e.sid == o.sid && e.hasText == o.hasText && e.text == o.text
}

func (e SymbolEntry) String() string {
	if !e.hasText {
		return fmt.Sprintf("$%d=<unknown>", e.sid)
	}
	return fmt.Sprintf("$%d=%q", e.sid, e.text)
}

// varUIntLen returns the number of bytes needed to encode n as a
// variable-length unsigned int using 7 payload bits per byte.
func varUIntLen(n int) int {
	if n < 0 {
		n = 0
	}
	length := 1
	for n >>= 7; n > 0; n >>= 7 {
		length++
	}
	return length
}

// typeDescLen returns the combined width of a type descriptor byte and its
// length prefix for a value of the given byte length, following the
// low-nibble-inline-length convention: lengths under 14 fit in the
// descriptor byte itself; larger lengths need a trailing VarUInt.
func typeDescLen(byteLen int) int {
	if byteLen < 14 {
		return 1
	}
	return 1 + varUIntLen(byteLen)
}
