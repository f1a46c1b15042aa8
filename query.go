package dtdocs

import (
	"regexp"
	"strings"
	"unicode"
)

// ftsKeywordRe matches an FTS5 boolean operator appearing as a whole word.
// Case-insensitive: the grammar only honors the uppercase forms, but a user
// typing "and" in lowercase is treated as intentional grammar use too.
var ftsKeywordRe = regexp.MustCompile(`(?i)\b(AND|OR|NOT)\b`)

// SanitizeQuery rewrites a free-form search string into one that is safe for
// the FTS5 query grammar.
//
// FTS5 tokenizes hyphens as word separators at index time, but at query time
// treats a bare hyphen between two terms as column-filter or NOT syntax, so
// an unquoted hyphenated term like "server-side" either changes meaning or
// raises a syntax error. Each hyphenated token is therefore rewritten into a
// quoted phrase with the hyphens replaced by spaces, matching how the
// tokenizer indexed the words.
//
// If the input already contains a double quote or an FTS5 boolean keyword as
// a whole word, it is returned unmodified: the caller is assumed to be using
// the query grammar intentionally, and rewriting would corrupt deliberate
// syntax. The escape hatch is all-or-nothing for the entire input, even for
// unrelated hyphenated tokens elsewhere in the string.
func SanitizeQuery(raw string) string {
	if strings.Contains(raw, `"`) || ftsKeywordRe.MatchString(raw) {
		return raw
	}
	if !strings.Contains(raw, "-") {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw) + 8)

	// Walk alternating whitespace and token runs, preserving whitespace
	// byte-for-byte so reassembly keeps the original spacing.
	runes := []rune(raw)
	for i := 0; i < len(runes); {
		j := i
		if unicode.IsSpace(runes[i]) {
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			b.WriteString(string(runes[i:j]))
		} else {
			for j < len(runes) && !unicode.IsSpace(runes[j]) {
				j++
			}
			b.WriteString(sanitizeToken(string(runes[i:j])))
		}
		i = j
	}

	return b.String()
}

// sanitizeToken rewrites a single hyphenated token into an exact-phrase
// unit. Tokens without hyphens pass through unchanged. Hyphens are replaced
// positionally, so "-side" becomes the phrase " side" rather than being
// stripped, and "a-b-c" becomes a single phrase "a b c".
func sanitizeToken(token string) string {
	if !strings.Contains(token, "-") {
		return token
	}
	phrase := strings.ReplaceAll(token, "-", " ")
	// FTS5 escapes quotes inside phrases by doubling them.
	phrase = strings.ReplaceAll(phrase, `"`, `""`)
	return `"` + phrase + `"`
}
