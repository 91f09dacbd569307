// Package roster indexes the conversation threads discovered in an export.
// The index is rebuilt fresh on every invocation and lives in an in-memory
// SQLite database, so no state survives the process.
package roster

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Thread is one conversation in the export. Immutable after discovery.
type Thread struct {
	ID           string   // stable, derived from the export layout (directory name)
	Title        string
	Participants []string // display names, repaired to UTF-8
	Paths        []string // message files, in ascending part order
}

// Index is the searchable thread index.
type Index struct {
	db *sql.DB
}

const schema = `
CREATE TABLE threads (
	id    TEXT PRIMARY KEY,
	title TEXT NOT NULL
);
CREATE TABLE participants (
	thread_id TEXT NOT NULL REFERENCES threads(id),
	name      TEXT NOT NULL
);
CREATE TABLE files (
	thread_id TEXT NOT NULL REFERENCES threads(id),
	seq       INTEGER NOT NULL,
	path      TEXT NOT NULL
);
CREATE INDEX participants_name ON participants(name);
`

// New creates an empty in-memory index.
func New() (*Index, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open index db: %w", err)
	}

	// Every connection to :memory: is a distinct database; pin to one.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index schema: %w", err)
	}

	return &Index{db: db}, nil
}

// Close releases the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Add inserts a thread. A thread ID may only be added once.
func (ix *Index) Add(t Thread) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO threads (id, title) VALUES (?, ?)`, t.ID, t.Title); err != nil {
		return fmt.Errorf("insert thread %s: %w", t.ID, err)
	}
	for _, name := range t.Participants {
		if _, err := tx.Exec(`INSERT INTO participants (thread_id, name) VALUES (?, ?)`, t.ID, name); err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
	}
	for i, path := range t.Paths {
		if _, err := tx.Exec(`INSERT INTO files (thread_id, seq, path) VALUES (?, ?, ?)`, t.ID, i, path); err != nil {
			return fmt.Errorf("insert file: %w", err)
		}
	}

	return tx.Commit()
}

// Threads returns all indexed threads in ID-ascending order.
func (ix *Index) Threads() ([]Thread, error) {
	return ix.query(`SELECT id, title FROM threads ORDER BY id`)
}

// Search returns threads whose title or any participant name contains the
// given substring, case-insensitively, in ID-ascending order. It is a cheap
// prefilter; ranking is the resolver's job.
func (ix *Index) Search(substr string) ([]Thread, error) {
	pat := "%" + escapeLike(strings.ToLower(substr)) + "%"
	return ix.query(`
		SELECT DISTINCT t.id, t.title
		FROM threads t
		LEFT JOIN participants p ON p.thread_id = t.id
		WHERE lower(t.title) LIKE ?1 ESCAPE '\' OR lower(p.name) LIKE ?1 ESCAPE '\'
		ORDER BY t.id`, pat)
}

// Len returns the number of indexed threads.
func (ix *Index) Len() (int, error) {
	var n int
	if err := ix.db.QueryRow(`SELECT COUNT(*) FROM threads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count threads: %w", err)
	}
	return n, nil
}

func (ix *Index) query(q string, args ...any) ([]Thread, error) {
	rows, err := ix.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query threads: %w", err)
	}
	defer rows.Close()

	var threads []Thread
	for rows.Next() {
		var t Thread
		if err := rows.Scan(&t.ID, &t.Title); err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate threads: %w", err)
	}

	for i := range threads {
		if err := ix.fill(&threads[i]); err != nil {
			return nil, err
		}
	}
	return threads, nil
}

func (ix *Index) fill(t *Thread) error {
	rows, err := ix.db.Query(`SELECT name FROM participants WHERE thread_id = ? ORDER BY rowid`, t.ID)
	if err != nil {
		return fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan participant: %w", err)
		}
		t.Participants = append(t.Participants, name)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate participants: %w", err)
	}

	frows, err := ix.db.Query(`SELECT path FROM files WHERE thread_id = ? ORDER BY seq`, t.ID)
	if err != nil {
		return fmt.Errorf("query files: %w", err)
	}
	defer frows.Close()
	for frows.Next() {
		var path string
		if err := frows.Scan(&path); err != nil {
			return fmt.Errorf("scan file: %w", err)
		}
		t.Paths = append(t.Paths, path)
	}
	return frows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
