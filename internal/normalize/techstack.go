package normalize

import (
	"strings"
	"unicode"
)

// TechStack extracts known technology names from free text. Matching is
// case-insensitive against the embedded skills dictionary; the result is
// deduplicated with the order of first appearance preserved.
func TechStack(text string) []string {
	low := strings.ToLower(text)

	type hit struct {
		pos       int
		canonical string
	}
	var hits []hit
	seen := map[string]bool{}

	for _, tok := range skillTokens {
		canonical := dicts.Skills[tok]
		if seen[canonical] {
			continue
		}
		pos := indexToken(low, tok)
		if pos < 0 {
			continue
		}
		seen[canonical] = true
		hits = append(hits, hit{pos: pos, canonical: canonical})
	}

	// order of first appearance in the text
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.canonical
	}
	return out
}

// indexToken finds tok in text at a word boundary; tokens that end in
// symbols (c++, c#) only need a boundary on the left.
func indexToken(text, tok string) int {
	from := 0
	for {
		i := strings.Index(text[from:], tok)
		if i < 0 {
			return -1
		}
		i += from
		if boundedAt(text, i, len(tok)) {
			return i
		}
		from = i + 1
	}
}

func boundedAt(text string, i, n int) bool {
	if i > 0 && isWordByte(text[i-1]) {
		return false
	}
	end := i + n
	if end < len(text) && isWordByte(text[end-1]) && isWordByte(text[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}
