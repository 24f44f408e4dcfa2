package symtab

import "errors"

// Closed taxonomy of failure kinds a caller can match against with errors.Is.
// Every mutating or resolving operation in this package returns one of these
// (wrapped with fmt.Errorf("%w: ...", ...) for detail). The one exception is
// an error reported by a Reader's IntValue/StringValue during ParseLocal or
// ParseShared, which is passed through unwrapped.
var (
	// ErrIllegalArgument is returned when a caller passes a null/empty text,
	// a non-positive sid, or an inconsistent (text, sid) pair to a mutator.
	ErrIllegalArgument = errors.New("symtab: illegal argument")

	// ErrIllegalState is returned when a mutation is attempted on a locked
	// table, an import is attempted after user symbols exist, or an import
	// is attempted before a system reference is in place.
	ErrIllegalState = errors.New("symtab: illegal state")

	// ErrSymbolRedefinition is returned when a sid slot already holds a
	// different text than the one being bound.
	ErrSymbolRedefinition = errors.New("symtab: symbol redefinition")

	// ErrInvalidSystemSymbol is returned when a lookup text matches the
	// reserved-name prefix but is not a well-formed sid-literal.
	ErrInvalidSystemSymbol = errors.New("symtab: invalid system symbol")

	// ErrMalformedTable is returned when a parsed shared table lacks a
	// non-empty name.
	ErrMalformedTable = errors.New("symtab: malformed table")

	// ErrMalformedImport is returned when a parsed import lacks a max_id
	// and is not exactly matched by the catalog.
	ErrMalformedImport = errors.New("symtab: malformed import")

	// ErrUnknownSymbol is surfaced by callers that look up text for a sid
	// whose text is absent (e.g. an unresolved import hole).
	ErrUnknownSymbol = errors.New("symtab: unknown symbol")
)
