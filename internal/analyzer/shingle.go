package analyzer

import (
	"strings"
	"unicode"
)

// Shingles extracts the set of k-character windows from text.
//
// Text is normalized first: lowercased, leading/trailing whitespace trimmed,
// and interior whitespace runs collapsed to a single space. Duplicates
// collapse because downstream similarity estimation works on set membership,
// not multiplicity.
//
// Degenerate cases: empty text yields an empty set; non-empty text shorter
// than k yields the whole text as a single shingle.
func Shingles(text string, k int) map[string]struct{} {
	if k < 1 {
		k = 1
	}

	normalized := normalizeText(text)
	if normalized == "" {
		return map[string]struct{}{}
	}

	runes := []rune(normalized)
	if len(runes) < k {
		return map[string]struct{}{normalized: {}}
	}

	shingles := make(map[string]struct{}, len(runes)-k+1)
	for i := 0; i+k <= len(runes); i++ {
		shingles[string(runes[i:i+k])] = struct{}{}
	}

	return shingles
}

// normalizeText lowercases text and collapses whitespace runs to single spaces
func normalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inSpace := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}

	return b.String()
}
