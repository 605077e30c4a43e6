package textutil

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const unknownClip = "Unknown Clip"

// DisplayName turns an asset path or id into a label: the file stem split on
// separators and punctuation, then title-cased.
func DisplayName(sourcePath string) string {
	stem := path.Base(strings.ReplaceAll(strings.TrimSpace(sourcePath), `\`, "/"))
	stem = strings.TrimSuffix(stem, path.Ext(stem))
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(words) == 0 {
		return unknownClip
	}
	return cases.Title(language.Und).String(strings.Join(words, " "))
}
