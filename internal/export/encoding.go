package export

import "unicode/utf8"

// FixEncoding repairs the export's mojibake. The archive writer escapes raw
// UTF-8 bytes as Latin-1 codepoints, so names and message text decode into
// runes in the 0x80-0xFF range that are really UTF-8 bytes.
// Reinterpreting those runes as bytes recovers the original text.
//
// Strings containing runes above 0xFF are already genuine Unicode and are
// returned unchanged, as is anything whose reinterpretation is not valid
// UTF-8.
func FixEncoding(s string) string {
	mangled := false
	for _, r := range s {
		if r > 0xFF {
			return s
		}
		if r >= 0x80 {
			mangled = true
		}
	}
	if !mangled {
		return s
	}

	buf := make([]byte, 0, len(s))
	for _, r := range s {
		buf = append(buf, byte(r))
	}
	if !utf8.Valid(buf) {
		return s
	}
	return string(buf)
}
