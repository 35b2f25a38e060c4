package cards

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a card name into the lookup key used across
// the pipeline: NFKC form, runs of whitespace collapsed to one space,
// trimmed, lowercased. It is total and idempotent.
func Normalize(name string) string {
	s := norm.NFKC.String(name)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}
