package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one row in the runs index.
type Run struct {
	ID        string
	Structure string
	Theme     string
	Style     string
	Seed      int64
	SiteX     int
	SiteY     int
	SiteZ     int
	Width     int
	Length    int
	Height    int
	Placed    int
	LogPath   string
	StartedAt string
	FinishedAt string
}

// Index is the sqlite catalog of build runs. Writes are synchronous; a
// build run issues only a handful of index statements.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (creating if needed) the runs database at path.
func OpenIndex(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("journal: empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		structure TEXT NOT NULL,
		theme TEXT NOT NULL DEFAULT '',
		style TEXT NOT NULL DEFAULT '',
		seed INTEGER NOT NULL,
		site_x INTEGER NOT NULL DEFAULT 0,
		site_y INTEGER NOT NULL DEFAULT 0,
		site_z INTEGER NOT NULL DEFAULT 0,
		width INTEGER NOT NULL DEFAULT 0,
		length INTEGER NOT NULL DEFAULT 0,
		height INTEGER NOT NULL DEFAULT 0,
		placed INTEGER NOT NULL DEFAULT 0,
		log_path TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL DEFAULT ''
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

func (ix *Index) Close() error { return ix.db.Close() }

// StartRun inserts the run row at build start.
func (ix *Index) StartRun(ctx context.Context, r Run) error {
	if r.StartedAt == "" {
		r.StartedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := ix.db.ExecContext(ctx,
		`INSERT INTO runs (id, structure, theme, style, seed, log_path, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Structure, r.Theme, r.Style, r.Seed, r.LogPath, r.StartedAt)
	return err
}

// FinishRun records the outcome of a completed run.
func (ix *Index) FinishRun(ctx context.Context, r Run) error {
	if r.FinishedAt == "" {
		r.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	}
	res, err := ix.db.ExecContext(ctx,
		`UPDATE runs SET theme = ?, style = ?, site_x = ?, site_y = ?, site_z = ?,
		 width = ?, length = ?, height = ?, placed = ?, finished_at = ?
		 WHERE id = ?`,
		r.Theme, r.Style, r.SiteX, r.SiteY, r.SiteZ,
		r.Width, r.Length, r.Height, r.Placed, r.FinishedAt, r.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("journal: unknown run %s", r.ID)
	}
	return nil
}

// LatestRuns returns up to n runs, newest first.
func (ix *Index) LatestRuns(ctx context.Context, n int) ([]Run, error) {
	rows, err := ix.db.QueryContext(ctx,
		`SELECT id, structure, theme, style, seed, site_x, site_y, site_z,
		 width, length, height, placed, log_path, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Structure, &r.Theme, &r.Style, &r.Seed,
			&r.SiteX, &r.SiteY, &r.SiteZ, &r.Width, &r.Length, &r.Height,
			&r.Placed, &r.LogPath, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Run fetches one run by id.
func (ix *Index) Run(ctx context.Context, id string) (Run, error) {
	var r Run
	err := ix.db.QueryRowContext(ctx,
		`SELECT id, structure, theme, style, seed, site_x, site_y, site_z,
		 width, length, height, placed, log_path, started_at, finished_at
		 FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.Structure, &r.Theme, &r.Style, &r.Seed,
			&r.SiteX, &r.SiteY, &r.SiteZ, &r.Width, &r.Length, &r.Height,
			&r.Placed, &r.LogPath, &r.StartedAt, &r.FinishedAt)
	if err != nil {
		return Run{}, err
	}
	return r, nil
}
