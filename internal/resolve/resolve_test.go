package resolve

import (
	"testing"

	"github.com/johns/chatstats/internal/roster"
)

func thread(id string, names ...string) roster.Thread {
	title := ""
	if len(names) > 0 {
		title = names[0]
	}
	return roster.Thread{ID: id, Title: title, Participants: names}
}

func TestResolve_EmptyThreads(t *testing.T) {
	got := Resolve("anyone", nil, 0)
	if len(got) != 0 {
		t.Errorf("Resolve = %v, want empty", got)
	}
}

func TestResolve_ExactNameRanksFirst(t *testing.T) {
	threads := []roster.Thread{
		thread("a_1", "Jane Doe"),
		thread("b_2", "John Smith"),
		thread("c_3", "Janet Door"),
	}

	got := Resolve("John Smith", threads, 0)
	if len(got) != 3 {
		t.Fatalf("candidates = %d", len(got))
	}
	if got[0].Thread.ID != "b_2" {
		t.Errorf("top candidate = %s, want b_2", got[0].Thread.ID)
	}
	if got[0].Score != 1 {
		t.Errorf("exact match score = %f, want 1", got[0].Score)
	}
	if got[1].Score >= got[0].Score {
		t.Errorf("runner-up score %f not below exact match", got[1].Score)
	}
}

func TestResolve_Misspelling(t *testing.T) {
	threads := []roster.Thread{
		thread("jane_1", "Jane Doe"),
		thread("john_2", "John Smith"),
	}

	got := Resolve("Jon Smyth", threads, 0)
	if got[0].Thread.ID != "john_2" {
		t.Fatalf("top candidate = %s, want john_2", got[0].Thread.ID)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("scores not separated: %f vs %f", got[0].Score, got[1].Score)
	}
	if got[0].Score < DefaultThreshold {
		t.Errorf("close misspelling score %f below threshold %f", got[0].Score, DefaultThreshold)
	}
}

func TestResolve_LimitCap(t *testing.T) {
	var threads []roster.Thread
	for i := 0; i < 40; i++ {
		threads = append(threads, thread(string(rune('a'+i%26))+"_t", "Jane Doe"))
	}

	got := Resolve("Jane", threads, 0)
	if len(got) != DefaultLimit {
		t.Errorf("candidates = %d, want %d", len(got), DefaultLimit)
	}

	got = Resolve("Jane", threads, 3)
	if len(got) != 3 {
		t.Errorf("candidates = %d, want 3", len(got))
	}
}

func TestResolve_TiesDeterministic(t *testing.T) {
	// Identical participant sets must tie and come back ID-ascending.
	threads := []roster.Thread{
		thread("zz_9", "Jane Doe"),
		thread("aa_1", "Jane Doe"),
		thread("mm_5", "Jane Doe"),
	}

	got := Resolve("Jane Doe", threads, 0)
	if len(got) != 3 {
		t.Fatalf("candidates = %d", len(got))
	}
	want := []string{"aa_1", "mm_5", "zz_9"}
	for i, id := range want {
		if got[i].Thread.ID != id {
			t.Errorf("got[%d] = %s, want %s", i, got[i].Thread.ID, id)
		}
		if got[i].Score != got[0].Score {
			t.Errorf("tie broken on score: %f vs %f", got[i].Score, got[0].Score)
		}
	}
}

func TestResolve_SubstringQuery(t *testing.T) {
	threads := []roster.Thread{
		thread("jane_1", "Jane Doe"),
		thread("bob_2", "Bob Ray"),
	}

	got := Resolve("jane", threads, 0)
	if got[0].Thread.ID != "jane_1" {
		t.Errorf("top candidate = %s", got[0].Thread.ID)
	}
	if got[0].Score < DefaultThreshold {
		t.Errorf("first-name query score %f below threshold", got[0].Score)
	}
}

func TestResolve_GroupThreadByParticipant(t *testing.T) {
	threads := []roster.Thread{
		{ID: "club_1", Title: "Book Club", Participants: []string{"Jane Doe", "Alice Wu", "Sam Hill"}},
		{ID: "work_2", Title: "Standup", Participants: []string{"Bob Ray"}},
	}

	got := Resolve("Alice Wu", threads, 0)
	if got[0].Thread.ID != "club_1" {
		t.Errorf("top candidate = %s, want club_1 (participant match)", got[0].Thread.ID)
	}
	if got[0].Score != 1 {
		t.Errorf("score = %f, want 1", got[0].Score)
	}
}

func TestSimilarity_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"a", "a"},
		{"jane doe", "completely different"},
		{"  Jane   DOE ", "jane doe"},
		{"x", ""},
		{"", ""},
	}
	for _, p := range pairs {
		s := Similarity(p[0], p[1])
		if s < 0 || s > 1 {
			t.Errorf("Similarity(%q, %q) = %f out of [0,1]", p[0], p[1], s)
		}
	}
}

func TestSimilarity_CaseAndWhitespace(t *testing.T) {
	if s := Similarity("  jAnE    dOe ", "Jane Doe"); s != 1 {
		t.Errorf("normalized equality score = %f, want 1", s)
	}
}

func TestSimilarity_Ordering(t *testing.T) {
	closer := Similarity("Jon Smyth", "John Smith")
	farther := Similarity("Jon Smyth", "Jane Doe")
	if closer <= farther {
		t.Errorf("Similarity ordering wrong: %f <= %f", closer, farther)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"smyth", "smith", 1},
		{"jon", "john", 1},
		{"same", "same", 0},
	}
	for _, tt := range tests {
		if got := levenshtein([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
