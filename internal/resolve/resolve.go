// Package resolve ranks conversation threads against a free-text name query.
// It is a pure function over roster data; selection policy (auto-pick vs
// interactive shortlist) belongs to the caller.
package resolve

import (
	"sort"
	"strings"

	"github.com/johns/chatstats/internal/roster"
)

// DefaultLimit caps the shortlist.
const DefaultLimit = 5

// DefaultThreshold is the score at or above which a caller may auto-pick the
// top candidate without confirmation. Chosen so that single-edit misspellings
// of a two-token name clear it while unrelated names do not.
const DefaultThreshold = 0.72

// Candidate is a thread scored against a query.
type Candidate struct {
	Thread roster.Thread
	Score  float64 // in [0,1], higher is better
}

// Resolve scores every thread against query and returns the best candidates
// in descending score order, ties broken by thread ID ascending. At most
// limit candidates are returned (DefaultLimit when limit <= 0). An empty
// thread list yields an empty result.
func Resolve(query string, threads []roster.Thread, limit int) []Candidate {
	if limit <= 0 {
		limit = DefaultLimit
	}

	candidates := make([]Candidate, 0, len(threads))
	for _, t := range threads {
		candidates = append(candidates, Candidate{Thread: t, Score: threadScore(query, t)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Thread.ID < candidates[j].Thread.ID
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// threadScore is the best similarity between the query and any of the
// thread's participant names or its title.
func threadScore(query string, t roster.Thread) float64 {
	best := Similarity(query, t.Title)
	for _, name := range t.Participants {
		if s := Similarity(query, name); s > best {
			best = s
		}
	}
	return best
}

// Similarity scores two names in [0,1]. Case-insensitive and
// whitespace-normalized; tolerant of substrings and minor misspellings. The
// score is the better of a whole-string edit-distance similarity and a
// per-token match average, so both "jane" vs "Jane Doe" and "Jon Smyth" vs
// "John Smith" land high.
func Similarity(query, name string) float64 {
	q := normalize(query)
	n := normalize(name)
	if q == "" || n == "" {
		return 0
	}
	if q == n {
		return 1
	}

	whole := editSimilarity(q, n)
	tokens := tokenSimilarity(strings.Fields(q), strings.Fields(n))
	if tokens > whole {
		return tokens
	}
	return whole
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// tokenSimilarity averages, over the query tokens, each token's best match
// against the name tokens.
func tokenSimilarity(query, name []string) float64 {
	if len(query) == 0 || len(name) == 0 {
		return 0
	}

	var sum float64
	for _, qt := range query {
		best := 0.0
		for _, nt := range name {
			s := tokenMatch(qt, nt)
			if s > best {
				best = s
			}
		}
		sum += best
	}
	return sum / float64(len(query))
}

func tokenMatch(a, b string) float64 {
	if a == b {
		return 1
	}
	// Substring credit, scaled by how much of the longer token is covered.
	if strings.Contains(b, a) || strings.Contains(a, b) {
		short, long := len(a), len(b)
		if short > long {
			short, long = long, short
		}
		s := 0.5 + 0.5*float64(short)/float64(long)
		if e := editSimilarity(a, b); e > s {
			return e
		}
		return s
	}
	return editSimilarity(a, b)
}

// editSimilarity is 1 - normalized Levenshtein distance.
func editSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein computes edit distance with a rolling single-row table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur := prev[0]
		prev[0] = i
		for j := 1; j <= len(b); j++ {
			ins := prev[j-1] + 1
			del := prev[j] + 1
			sub := cur
			if a[i-1] != b[j-1] {
				sub++
			}
			cur = prev[j]
			prev[j] = min3(ins, del, sub)
		}
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
