package export

import "testing"

func TestFixEncoding(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ascii untouched", "John Smith", "John Smith"},
		{"empty", "", ""},
		// "José" whose UTF-8 bytes were re-read as Latin-1
		{"latin1 mangled accent", "JosÃ©", "José"},
		// A four-byte emoji mangled the same way
		{"latin1 mangled emoji", "\u00f0\u009f\u0098\u0080", "\U0001F600"},
		// Already-correct Unicode must not be touched
		{"genuine unicode", "José 中文", "José 中文"},
		// High runes that do not form valid UTF-8 stay as-is
		{"invalid reinterpretation", "aÿb", "aÿb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FixEncoding(tt.input); got != tt.want {
				t.Errorf("FixEncoding(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFixEncoding_Idempotent(t *testing.T) {
	once := FixEncoding("JosÃ©")
	twice := FixEncoding(once)
	if once != twice {
		t.Errorf("not idempotent: %q then %q", once, twice)
	}
}
