// Package normalize reduces raw tweet text to a canonical lowercase string.
//
// The rules run in a fixed order:
//
//  1. URLs (http, https, www followed by non-whitespace)
//  2. @-mentions
//  3. hashtags, including the tagged word
//  4. literal backslash escapes such as \n or \u, replaced by a space
//  5. digit runs
//  6. the Punctuation character set
//  7. emoji glyphs
//  8. any remaining non-ASCII character
//  9. standalone one-letter words
//  10. whitespace runs, collapsed and trimmed
//  11. standalone hyphen tokens
//  12. lowercasing
//
// Deleting a character can glue its neighbours into a new removable
// pattern (for example "htt.pfoo" becoming a URL). Normalize therefore
// repeats the chain until the output is stable, which makes it idempotent.
//
// The empty string is a valid result.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Punctuation is the character set removed by rule 6. The hyphen is
// absent on purpose: hyphenated words survive and only standalone
// hyphens are dropped by rule 11.
const Punctuation = "!\"#$%&'()*+,./:;<=>?@[\\]^_`{|}~"

var (
	urlRe        = regexp.MustCompile(`(?:https?|www)\S+`)
	mentionRe    = regexp.MustCompile(`@\w+`)
	hashtagRe    = regexp.MustCompile(`#\w+`)
	escapeRe     = regexp.MustCompile(`\\[tnfrvu]`)
	digitRe      = regexp.MustCompile(`[0-9]+`)
	punctRe      = regexp.MustCompile(`[` + regexp.QuoteMeta(Punctuation) + `]`)
	emojiRe      = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2300}-\x{23FF}\x{2B00}-\x{2BFF}\x{FE00}-\x{FE0F}\x{200D}\x{20E3}]+`)
	nonASCIIRe   = regexp.MustCompile(`[^\x00-\x7F]+`)
	singleCharRe = regexp.MustCompile(`\b[A-Za-z]\b`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// Normalize applies the cleaning rules to raw and returns the result.
func Normalize(raw string) string {
	out := raw
	for {
		// After the first pass the text is lowercase ASCII, so any change
		// shortens it and the loop terminates.
		next := pass(out)
		if next == out {
			return out
		}
		out = next
	}
}

func pass(s string) string {
	s = urlRe.ReplaceAllString(s, "")
	s = mentionRe.ReplaceAllString(s, "")
	s = hashtagRe.ReplaceAllString(s, "")
	s = escapeRe.ReplaceAllString(s, " ")
	s = digitRe.ReplaceAllString(s, "")
	s = punctRe.ReplaceAllString(s, "")
	s = emojiRe.ReplaceAllString(s, "")
	s = nonASCIIRe.ReplaceAllString(s, "")
	s = singleCharRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
	s = dropHyphenTokens(s)
	// cases.Caser keeps state between calls, so each pass gets its own.
	return cases.Lower(language.Indonesian).String(s)
}

// dropHyphenTokens removes space-separated tokens made only of hyphens.
func dropHyphenTokens(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if strings.Trim(f, "-") == "" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
