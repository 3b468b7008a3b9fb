package match

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Variants returns the patterns tried for term, in priority order:
//
//  1. the term itself, read as a pattern
//  2. the term with metacharacters escaped
//  3. hyphens as an optional hyphen or whitespace
//  4. slashes as an optional slash or whitespace
//  5. whitespace runs as one or more whitespace characters
//
// Variants 3 to 5 are only produced when the term contains the separator.
func Variants(term string) []string {
	variants := []string{term, regexp2.Escape(term)}
	if strings.Contains(term, "-") {
		variants = append(variants, joinEscaped(strings.Split(term, "-"), `[-\s]?`))
	}
	if strings.Contains(term, "/") {
		variants = append(variants, joinEscaped(strings.Split(term, "/"), `[/\s]?`))
	}
	if words := strings.Fields(term); len(words) > 1 {
		variants = append(variants, joinEscaped(words, `\s+`))
	}
	return variants
}

func joinEscaped(parts []string, sep string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = regexp2.Escape(p)
	}
	return strings.Join(escaped, sep)
}
