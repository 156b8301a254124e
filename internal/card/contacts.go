package card

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/obsidianstack/sccrelay/internal/finding"
)

// FormatContacts renders contacts as a plain-text block:
//
//	Security:
//	  - Email: sec@example.com
//
// One header per contact type, one indented line per attribute per contact,
// each line newline-terminated. Empty input yields "".
func FormatContacts(c finding.Contacts) string {
	var b strings.Builder
	for _, g := range c {
		b.WriteString(capitalize(g.Type))
		b.WriteString(":\n")
		for _, contact := range g.Contacts {
			for _, attr := range contact {
				b.WriteString("  - ")
				b.WriteString(capitalize(attr.Key))
				b.WriteString(": ")
				b.WriteString(attr.Value)
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// capitalize upper-cases the first character and lower-cases the rest.
// A Caser is stateful, so one is built per call.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToTitle(r)) + cases.Lower(language.Und).String(s[size:])
}
