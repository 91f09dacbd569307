// Package export reads a chat-export archive from disk: it discovers the
// conversation threads under the export root and gives low-level access to
// their message files. JSON decode of individual messages lives in msg.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/johns/chatstats/internal/roster"
)

// Thread folders live under messages/<box>/<thread>/message_<n>.json.
var boxes = []string{"inbox", "archived_threads", "filtered_threads"}

var messageFile = regexp.MustCompile(`^message_(\d+)\.json(\.zst)?$`)

// ListThreads walks the export root and returns every discovered thread.
// An unreadable root, a root with no messages directory, or an export with
// zero readable threads is a fatal input error; individual unreadable thread
// folders are skipped with a log line.
func ListThreads(root string) ([]roster.Thread, error) {
	msgRoot := filepath.Join(root, "messages")
	if _, err := os.Stat(msgRoot); err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}

	var threads []roster.Thread
	for _, box := range boxes {
		boxDir := filepath.Join(msgRoot, box)
		entries, err := os.ReadDir(boxDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", boxDir, err)
		}

		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			t, err := readThread(filepath.Join(boxDir, e.Name()), e.Name())
			if err != nil {
				log.Printf("export: skip %s: %v", e.Name(), err)
				continue
			}
			threads = append(threads, t)
		}
	}

	if len(threads) == 0 {
		return nil, fmt.Errorf("no conversation threads in %s", msgRoot)
	}

	sort.Slice(threads, func(i, j int) bool { return threads[i].ID < threads[j].ID })
	return threads, nil
}

// readThread collects a thread's message files and reads its metadata from
// the first one.
func readThread(dir, id string) (roster.Thread, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return roster.Thread{}, err
	}

	type part struct {
		n    int
		path string
	}
	var parts []part
	for _, e := range entries {
		m := messageFile.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n := 0
		fmt.Sscanf(m[1], "%d", &n)
		parts = append(parts, part{n: n, path: filepath.Join(dir, e.Name())})
	}
	if len(parts) == 0 {
		return roster.Thread{}, fmt.Errorf("no message files")
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].n < parts[j].n })

	t := roster.Thread{ID: id}
	for _, p := range parts {
		t.Paths = append(t.Paths, p.path)
	}

	title, participants, err := readMeta(t.Paths[0])
	if err != nil {
		return roster.Thread{}, err
	}
	t.Title = title
	t.Participants = participants
	return t, nil
}

// readMeta shallow-decodes title and participants from a message file,
// skipping the messages array so roster building stays cheap on huge threads.
func readMeta(path string) (string, []string, error) {
	r, err := Open(path)
	if err != nil {
		return "", nil, err
	}
	defer r.Close()

	dec := json.NewDecoder(r)
	if tok, err := dec.Token(); err != nil {
		return "", nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	} else if tok != json.Delim('{') {
		return "", nil, fmt.Errorf("decode %s: not a JSON object", filepath.Base(path))
	}

	var title string
	var participants []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
		}
		key, _ := tok.(string)

		switch key {
		case "title":
			if err := dec.Decode(&title); err != nil {
				return "", nil, fmt.Errorf("decode title: %w", err)
			}
		case "participants":
			var raw []struct {
				Name string `json:"name"`
			}
			if err := dec.Decode(&raw); err != nil {
				return "", nil, fmt.Errorf("decode participants: %w", err)
			}
			for _, p := range raw {
				participants = append(participants, FixEncoding(p.Name))
			}
		default:
			if err := SkipValue(dec); err != nil {
				return "", nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
			}
		}
	}

	return FixEncoding(title), participants, nil
}

// Open opens a message file for reading, decompressing transparently when
// the file carries a .zst suffix. The caller owns the returned handle.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open message file: %w", err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &zstReader{dec: dec, f: f}, nil
}

type zstReader struct {
	dec *zstd.Decoder
	f   *os.File
}

func (z *zstReader) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z *zstReader) Close() error {
	z.dec.Close()
	return z.f.Close()
}

// SkipValue consumes exactly one JSON value from dec, descending into nested
// objects and arrays.
func SkipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch tok {
	case json.Delim('{'), json.Delim('['):
		depth := 1
		for depth > 0 {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			switch tok {
			case json.Delim('{'), json.Delim('['):
				depth++
			case json.Delim('}'), json.Delim(']'):
				depth--
			}
		}
	}
	return nil
}
