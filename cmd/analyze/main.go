// Command analyze prints tab-separated statistics about one conversation in
// an exported chat archive.
//
// Usage:
//
//	analyze -p "<name>" [-n] [-t none|monthly|yearly] [-l limit] <export-dir>
//	analyze -i [-t none|monthly|yearly] <export-dir>
//
// With -p the export is searched for the best-matching conversation; -n picks
// the top candidate without asking when its score clears the configured
// confidence threshold. With -i the tool prompts for queries interactively.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/johns/chatstats/internal/aggregate"
	"github.com/johns/chatstats/internal/config"
	"github.com/johns/chatstats/internal/export"
	"github.com/johns/chatstats/internal/msg"
	"github.com/johns/chatstats/internal/report"
	"github.com/johns/chatstats/internal/resolve"
	"github.com/johns/chatstats/internal/roster"
)

const version = "0.1.0"

func main() {
	person := flag.String("p", "", "person or conversation to search for")
	interactive := flag.Bool("i", false, "interactive mode")
	auto := flag.Bool("n", false, "pick the best match without asking")
	interval := flag.String("t", "", "bucketing interval: none, monthly, or yearly")
	limit := flag.Int("l", 0, "shortlist size (default from config)")
	showVersion := flag.Bool("version", false, "print version")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("analyze v%s (chatstats)\n", version)
		return
	}

	if flag.NArg() != 1 || (*person == "" && !*interactive) {
		usage()
		os.Exit(2)
	}
	exportDir := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}
	if *limit <= 0 {
		*limit = cfg.ShortlistLimit
	}

	bucketing := cfg.Bucketing
	if *interval != "" {
		bucketing = *interval
	}
	policy, err := aggregate.ParseBucketing(bucketing)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(2)
	}

	loc, err := cfg.Location()
	if err != nil {
		fatal("%v", err)
	}

	threads, err := export.ListThreads(exportDir)
	if err != nil {
		fatal("%v", err)
	}

	idx, err := roster.New()
	if err != nil {
		fatal("%v", err)
	}
	defer idx.Close()
	for _, t := range threads {
		if err := idx.Add(t); err != nil {
			fatal("index threads: %v", err)
		}
	}

	all, err := idx.Threads()
	if err != nil {
		fatal("%v", err)
	}

	// One scanner for all prompting; per-call scanners would lose
	// buffered read-ahead between prompts.
	stdin := bufio.NewScanner(os.Stdin)

	var chosen *roster.Thread
	switch {
	case *person != "":
		chosen = resolveOnce(stdin, *person, all, cfg, *auto, *limit)
	case *interactive:
		chosen = resolveLoop(stdin, all, *limit)
	}
	if chosen == nil {
		return // shortlist printed, nothing selected
	}

	stream, err := msg.Open(*chosen)
	if err != nil {
		fatal("%v", err)
	}
	defer stream.Close()

	res, err := aggregate.Aggregate(stream, policy, loc)
	if err != nil {
		fatal("%v", err)
	}

	if err := report.WriteTSV(os.Stdout, res); err != nil {
		fatal("%v", err)
	}
	report.WriteDiagnostics(os.Stderr, res)
}

// resolveOnce handles the -p path: rank, then auto-pick or prompt.
func resolveOnce(stdin *bufio.Scanner, query string, threads []roster.Thread, cfg config.Config, auto bool, limit int) *roster.Thread {
	candidates := resolve.Resolve(query, threads, limit)
	if len(candidates) == 0 {
		fmt.Fprintf(os.Stderr, "no conversation matched %q\n", query)
		return nil
	}

	if auto {
		if candidates[0].Score >= cfg.ConfidenceThreshold {
			return &candidates[0].Thread
		}
		fmt.Fprintf(os.Stderr, "no confident match for %q; candidates:\n", query)
		printShortlist(os.Stderr, candidates)
		return nil
	}

	return selectCandidate(stdin, candidates)
}

// resolveLoop handles -i: prompt for queries until something is selected or
// input ends.
func resolveLoop(stdin *bufio.Scanner, threads []roster.Thread, limit int) *roster.Thread {
	for {
		fmt.Print("What conversation do you want to search for?\n> ")
		if !stdin.Scan() {
			return nil
		}
		query := strings.TrimSpace(stdin.Text())
		if query == "" {
			continue
		}

		candidates := resolve.Resolve(query, threads, limit)
		if len(candidates) == 0 {
			fmt.Printf("could not find %q, please try again\n", query)
			continue
		}
		if chosen := selectCandidate(stdin, candidates); chosen != nil {
			return chosen
		}
	}
}

// selectCandidate prints the shortlist and reads an index from stdin.
// Returns nil when the user declines or input is invalid.
func selectCandidate(stdin *bufio.Scanner, candidates []resolve.Candidate) *roster.Thread {
	printShortlist(os.Stdout, candidates)
	fmt.Printf("Enter index [0-%d]: ", len(candidates)-1)

	if !stdin.Scan() {
		return nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(stdin.Text()))
	if err != nil || i < 0 || i >= len(candidates) {
		return nil
	}
	return &candidates[i].Thread
}

func printShortlist(w *os.File, candidates []resolve.Candidate) {
	for i, c := range candidates {
		label := c.Thread.Title
		if label == "" {
			label = c.Thread.ID
		}
		fmt.Fprintf(w, "[%d]\t%s\t(%s)\t%.2f\n", i, label, strings.Join(c.Thread.Participants, ", "), c.Score)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `analyze v%s: conversation statistics from a chat export

Usage:
  analyze -p "<name>" [-n] [-t none|monthly|yearly] [-l limit] <export-dir>
  analyze -i [-t none|monthly|yearly] <export-dir>

Flags:
  -p name    Person or conversation to search for
  -i         Interactive mode: prompt for queries
  -n         Pick the best match without asking (above the confidence threshold)
  -t value   Bucketing interval: none (default), monthly, yearly
  -l n       Shortlist size
  -version   Print version

Output is tab-separated: one header row, one row per bucket.
Configuration: ~/.config/chatstats/config.toml
`, version)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "analyze: "+format+"\n", args...)
	os.Exit(1)
}
