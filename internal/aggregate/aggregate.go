// Package aggregate folds a message stream into per-bucket statistics.
package aggregate

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/johns/chatstats/internal/emoji"
	"github.com/johns/chatstats/internal/msg"
)

// Bucketing selects the aggregation period.
type Bucketing int

const (
	// None aggregates the whole conversation into a single bucket.
	None Bucketing = iota
	// Monthly buckets by calendar (year, month).
	Monthly
	// Yearly buckets by calendar year.
	Yearly
)

// UnknownKey is the bucket for messages without a usable timestamp. It sorts
// after every chronological key.
const UnknownKey = "unknown"

// allKey is the single implicit bucket under the None policy.
const allKey = "all"

// ParseBucketing maps a CLI flag value to a policy.
func ParseBucketing(s string) (Bucketing, error) {
	switch s {
	case "none", "":
		return None, nil
	case "monthly":
		return Monthly, nil
	case "yearly":
		return Yearly, nil
	default:
		return None, fmt.Errorf("invalid bucketing %q (want none, monthly, or yearly)", s)
	}
}

func (b Bucketing) String() string {
	switch b {
	case None:
		return "none"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return fmt.Sprintf("Bucketing(%d)", int(b))
	}
}

// StatsRecord is the aggregate for one bucket. Created zero-valued when its
// bucket first appears, mutated as messages fold in, and final once the
// stream is exhausted.
type StatsRecord struct {
	Messages   int
	BySender   map[string]int
	Words      int
	Emoji      map[string]int
	EmojiTotal int
	Reactions  int
	Kinds      map[msg.Kind]int
}

func newStatsRecord() *StatsRecord {
	return &StatsRecord{
		BySender: make(map[string]int),
		Emoji:    make(map[string]int),
		Kinds:    make(map[msg.Kind]int),
	}
}

// Bucket pairs a key with its statistics.
type Bucket struct {
	Key   string
	Stats *StatsRecord
}

// Diagnostics counts the records that could not be fully processed. They are
// reported alongside the statistics so data loss is never silent.
type Diagnostics struct {
	SkippedRecords   int // malformed records dropped by the stream
	UnknownTimestamp int // messages folded into the unknown bucket
}

// Result is a completed aggregation: buckets in ascending chronological key
// order, the unknown bucket last.
type Result struct {
	Policy      Bucketing
	Buckets     []Bucket
	Diagnostics Diagnostics
}

// Total returns the message count summed over all buckets.
func (r *Result) Total() int {
	n := 0
	for _, b := range r.Buckets {
		n += b.Stats.Messages
	}
	return n
}

// Source is the message stream consumed by Aggregate. *msg.Stream satisfies
// it.
type Source interface {
	Next() (msg.Message, bool)
	Err() error
	Skipped() int
}

// Aggregate consumes the stream and produces one StatsRecord per bucket.
// Bucket keys derive from message timestamps in loc; nil loc means UTC.
// Data-shape problems never error: malformed records were already skipped by
// the stream, and messages without timestamps land in the unknown bucket.
// The only error paths are an invalid policy (a programming error) and an
// underlying read failure.
func Aggregate(s Source, policy Bucketing, loc *time.Location) (*Result, error) {
	switch policy {
	case None, Monthly, Yearly:
	default:
		return nil, fmt.Errorf("invalid bucketing policy %d", int(policy))
	}
	if loc == nil {
		loc = time.UTC
	}

	res := &Result{Policy: policy}
	records := make(map[string]*StatsRecord)

	for {
		m, ok := s.Next()
		if !ok {
			break
		}

		key := bucketKey(m, policy, loc)
		if key == UnknownKey {
			res.Diagnostics.UnknownTimestamp++
		}

		rec, ok := records[key]
		if !ok {
			rec = newStatsRecord()
			records[key] = rec
		}
		fold(rec, m)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	res.Diagnostics.SkippedRecords = s.Skipped()

	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		// Unknown sorts last; zero-padded calendar keys sort correctly as strings.
		if keys[i] == UnknownKey {
			return false
		}
		if keys[j] == UnknownKey {
			return true
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		res.Buckets = append(res.Buckets, Bucket{Key: k, Stats: records[k]})
	}
	return res, nil
}

// bucketKey derives a message's bucket. Messages with identical timestamps
// share a bucket and are both retained.
func bucketKey(m msg.Message, policy Bucketing, loc *time.Location) string {
	if policy == None {
		return allKey
	}
	if !m.HasTimestamp {
		return UnknownKey
	}

	t := m.Timestamp.In(loc)
	switch policy {
	case Monthly:
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	default: // Yearly
		return fmt.Sprintf("%04d", t.Year())
	}
}

// fold mutates rec with one message.
func fold(rec *StatsRecord, m msg.Message) {
	rec.Messages++

	sender := m.Sender
	if sender == "" {
		sender = "(unknown)"
	}
	rec.BySender[sender]++

	rec.Kinds[m.Kind]++
	rec.Reactions += len(m.Reactions)

	if m.Text != "" {
		found, residual := emoji.Extract(m.Text)
		for _, e := range found {
			rec.Emoji[e]++
		}
		rec.EmojiTotal += len(found)
		rec.Words += countWords(residual)
	}
}

// countWords tokenizes on whitespace and drops tokens with no letters or
// digits, so stray punctuation does not inflate the count. Emoji were
// already stripped from the input.
func countWords(s string) int {
	n := 0
	for _, tok := range strings.Fields(s) {
		if strings.IndexFunc(tok, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsNumber(r) }) >= 0 {
			n++
		}
	}
	return n
}
