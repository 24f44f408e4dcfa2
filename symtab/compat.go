package symtab

// IsCompatible reports whether this table can fully stand in for other:
// true iff every non-null (sid, text) entry in other resolves to the same
// sid through this table's FindSidByText. Asymmetric by design.
func (t *Table) IsCompatible(other *Table) bool {
	for sid := 1; sid <= other.maxID; sid++ {
		entry, ok := other.slot(sid)
		if !ok {
			continue
		}
		text, hasText := entry.Text()
		if !hasText {
			continue
		}
		got, err := t.FindSidByText(text)
		if err != nil || got != sid {
			return false
		}
	}
	return true
}
