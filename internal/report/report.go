// Package report renders aggregation results as tab-separated values, ready
// to paste into a spreadsheet.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/johns/chatstats/internal/aggregate"
	"github.com/johns/chatstats/internal/msg"
)

// Column order is fixed so downstream tooling can rely on it.
var kindColumns = []msg.Kind{
	msg.KindText,
	msg.KindPhoto,
	msg.KindVideo,
	msg.KindGIF,
	msg.KindSticker,
	msg.KindShare,
	msg.KindUnsendable,
	msg.KindOther,
}

// WriteTSV writes one header row and one row per bucket.
func WriteTSV(w io.Writer, res *aggregate.Result) error {
	header := []string{"bucket", "messages", "words", "emoji", "reactions"}
	for _, k := range kindColumns {
		header = append(header, string(k))
	}
	header = append(header, "top_emoji", "senders")

	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, b := range res.Buckets {
		row := []string{
			b.Key,
			fmt.Sprintf("%d", b.Stats.Messages),
			fmt.Sprintf("%d", b.Stats.Words),
			fmt.Sprintf("%d", b.Stats.EmojiTotal),
			fmt.Sprintf("%d", b.Stats.Reactions),
		}
		for _, k := range kindColumns {
			row = append(row, fmt.Sprintf("%d", b.Stats.Kinds[k]))
		}
		row = append(row, topEmoji(b.Stats), formatSenders(b.Stats))

		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("write bucket %s: %w", b.Key, err)
		}
	}
	return nil
}

// WriteDiagnostics reports the skipped/unknown counters. Callers send this to
// stderr so the TSV on stdout stays clean.
func WriteDiagnostics(w io.Writer, res *aggregate.Result) {
	d := res.Diagnostics
	if d.SkippedRecords == 0 && d.UnknownTimestamp == 0 {
		return
	}
	fmt.Fprintf(w, "diagnostics: %d malformed record(s) skipped, %d message(s) without a usable timestamp\n",
		d.SkippedRecords, d.UnknownTimestamp)
}

// topEmoji returns the most frequent emoji in the bucket, ties broken by
// emoji codepoint order so output is deterministic. Empty when the bucket
// has no emoji.
func topEmoji(rec *aggregate.StatsRecord) string {
	best, bestN := "", 0
	for e, n := range rec.Emoji {
		if n > bestN || (n == bestN && bestN > 0 && e < best) {
			best, bestN = e, n
		}
	}
	return best
}

// formatSenders flattens per-sender counts to "name=count;..." sorted by
// count descending, then name ascending.
func formatSenders(rec *aggregate.StatsRecord) string {
	type sc struct {
		name string
		n    int
	}
	senders := make([]sc, 0, len(rec.BySender))
	for name, n := range rec.BySender {
		senders = append(senders, sc{name, n})
	}
	sort.Slice(senders, func(i, j int) bool {
		if senders[i].n != senders[j].n {
			return senders[i].n > senders[j].n
		}
		return senders[i].name < senders[j].name
	})

	parts := make([]string, 0, len(senders))
	for _, s := range senders {
		parts = append(parts, fmt.Sprintf("%s=%d", s.name, s.n))
	}
	return strings.Join(parts, ";")
}
