// Package emoji provides a static codepoint-range table and a pure scanner
// that splits text into emoji occurrences and residual text.
package emoji

import (
	"sort"
	"strings"
)

const (
	zwj        = 0x200D // zero-width joiner
	vs16       = 0xFE0F // emoji variation selector
	skinToneLo = 0x1F3FB
	skinToneHi = 0x1F3FF
)

// Is reports whether r falls in one of the emoji codepoint ranges.
func Is(r rune) bool {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].Hi >= r })
	return i < len(ranges) && ranges[i].Lo <= r
}

// Extract scans s and returns the emoji found plus the residual text with
// those emoji removed. The same call backs both the emoji tally and the word
// tally, so a codepoint is never counted as part of a word and as an emoji.
//
// Skin-tone modifiers, VS16, and ZWJ-joined emoji attach to the preceding
// emoji and count as a single occurrence.
func Extract(s string) ([]string, string) {
	if s == "" {
		return nil, ""
	}

	var found []string
	var residual strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); {
		r := runes[i]
		if !Is(r) {
			residual.WriteRune(r)
			i++
			continue
		}

		// Absorb the whole cluster: modifiers and ZWJ-joined emoji.
		j := i + 1
	absorb:
		for j < len(runes) {
			switch {
			case runes[j] == vs16 || (runes[j] >= skinToneLo && runes[j] <= skinToneHi):
				j++
			case runes[j] == zwj && j+1 < len(runes) && Is(runes[j+1]):
				j += 2
			default:
				break absorb
			}
		}
		found = append(found, string(runes[i:j]))
		i = j
	}

	return found, residual.String()
}
