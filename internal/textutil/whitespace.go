package textutil

import "strings"

// NoneChoice is the placeholder host choosers use when nothing is selected.
const NoneChoice = "None"

// isStrippedSpace reports whether r is one of the whitespace runes removed by
// TrimAll. The set covers the Unicode space separators, line and paragraph
// separators, and the ASCII control whitespace.
func isStrippedSpace(r rune) bool {
	switch r {
	case '\u0020', '\u00A0', '\u1680', '\u2000', '\u2001',
		'\u2002', '\u2003', '\u2004', '\u2005', '\u2006',
		'\u2007', '\u2008', '\u2009', '\u200A', '\u202F',
		'\u205F', '\u3000', '\u2028', '\u2029', '\u0009',
		'\u000A', '\u000B', '\u000C', '\u000D', '\u0085':
		return true
	default:
		return false
	}
}

// TrimAll removes all whitespace from value, including interior runs.
func TrimAll(value string) string {
	if value == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if isStrippedSpace(r) {
			return -1
		}
		return r
	}, value)
}

// IsEmptyChoice reports whether a chooser value means "nothing selected".
func IsEmptyChoice(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || value == NoneChoice
}
