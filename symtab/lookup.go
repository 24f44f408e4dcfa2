package symtab

import (
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// UnifiedTable — lookup operations (spec.md §4.3)
// ---------------------------------------------------------------------------

// FindSidByText resolves text to a sid, probing the system table first,
// then this table's own local index. Failing both, a well-formed
// sid-literal ("$" followed by decimal digits) is parsed and returned
// directly; a reserved-prefix text that is not a valid sid-literal fails
// with ErrInvalidSystemSymbol. Returns (sid, nil) on success, and
// ErrUnknownSymbol when text resolves by none of these routes.
func (t *Table) FindSidByText(text string) (int, error) {
	if text == "" {
		return 0, fmt.Errorf("%w: text must be non-empty", ErrIllegalArgument)
	}

	if t.systemRef != nil && t.systemRef != t {
		if sid, ok := t.systemRef.findLocalSid(text); ok {
			return sid, nil
		}
	}

	if sid, ok := t.findLocalSid(text); ok {
		return sid, nil
	}

	if text[0] == SidSigil {
		digits := text[1:]
		if n, err := strconv.Atoi(digits); err == nil {
			if n >= 0 {
				return n, nil
			}
			return 0, fmt.Errorf("%w: negative sid literal %q", ErrIllegalArgument, text)
		}
		if strings.HasPrefix(text, ReservedPrefix) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSystemSymbol, text)
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownSymbol, text)
}

func (t *Table) findLocalSid(text string) (int, bool) {
	sid, ok := t.textIdx[text]
	return sid, ok
}

// FindKnownText returns the text bound to sid, or ("", false) if sid is
// unbound. It never synthesizes a sid-literal. sid must be >= 1.
func (t *Table) FindKnownText(sid int) (string, bool) {
	if sid < 1 {
		panic("symtab: FindKnownText requires sid >= 1")
	}
	if sid > t.maxID {
		return "", false
	}
	if t.systemRef != nil && t.systemRef != t && sid <= t.systemRef.maxID {
		if text, ok := t.systemRef.FindKnownText(sid); ok {
			return text, true
		}
	}
	if entry, ok := t.slot(sid); ok {
		if text, has := entry.Text(); has {
			return text, true
		}
	}
	return "", false
}

// FindText returns the text for sid, synthesizing the sid-literal form
// ("$<sid>") when the text is unknown. sid must be >= 1.
func (t *Table) FindText(sid int) string {
	if text, ok := t.FindKnownText(sid); ok {
		return text
	}
	return SidLiteral(sid)
}

// SidLiteral renders the sid-literal text form of an unresolved sid, e.g.
// SidLiteral(324) == "$324".
func SidLiteral(sid int) string {
	if sid <= 0 {
		panic("symtab: SidLiteral requires sid > 0")
	}
	return string(rune(SidSigil)) + strconv.Itoa(sid)
}
