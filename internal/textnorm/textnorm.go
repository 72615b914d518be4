// Package textnorm cleans extracted text before embedding.
//
// The pipeline is a fixed ordered sequence of pure transforms: common
// character substitution, diacritic stripping, canonical Unicode
// composition, whitespace collapsing. Order matters (diacritics are
// stripped after character substitution, composition happens before the
// final whitespace pass) and the whole chain is idempotent.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// charReplacer maps typographic characters that extraction engines emit to
// plain ASCII equivalents.
var charReplacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'",
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`,
	"–", "-", // en dash
	"—", "-", // em dash
	"−", "-", // minus sign
	"…", "...", // ellipsis
	" ", " ", // no-break space
	"­", "", // soft hyphen
	"\uFEFF", "", // BOM
	"•", "*", // bullet
	"·", "*", // middle dot
)

// diacriticStripper decomposes, drops combining marks, and recomposes.
var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// ReplaceCommonChars substitutes smart quotes, dashes and similar
// typographic characters with ASCII equivalents.
func ReplaceCommonChars(text string) string {
	return charReplacer.Replace(text)
}

// StripDiacritics removes combining marks, so "café" becomes "cafe".
func StripDiacritics(text string) string {
	out, _, err := transform.String(diacriticStripper, text)
	if err != nil {
		// Malformed input passes through untouched rather than aborting
		// the file.
		return text
	}
	return out
}

// NormalizeUnicode puts text into canonical composed form (NFC).
func NormalizeUnicode(text string) string {
	return norm.NFC.String(text)
}

// NormalizeWhitespace collapses every run of whitespace to a single space
// and trims the ends.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Normalize applies the full cleaning chain in its fixed order.
func Normalize(text string) string {
	text = ReplaceCommonChars(text)
	text = StripDiacritics(text)
	text = NormalizeUnicode(text)
	return NormalizeWhitespace(text)
}
