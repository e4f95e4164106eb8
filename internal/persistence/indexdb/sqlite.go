// Package indexdb keeps a SQLite read-model of every generated field:
// parameters, digest and snapshot path. It is a secondary index; losing it
// never loses terrain, which can always be regenerated from parameters.
package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteIndex struct {
	mu sync.Mutex
	db *sql.DB
}

type FieldRow struct {
	LevelID      string
	Seed         uint32
	WalkLength   int
	TerrainRaise int
	StartX       int
	StartY       int
	SmoothPasses int
	Digest       string
	SnapshotPath string
	CreatedAt    string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
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

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	// NORMAL is a decent durability/perf tradeoff for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fields (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			walk_length INTEGER NOT NULL,
			terrain_raise INTEGER NOT NULL,
			start_x INTEGER NOT NULL,
			start_y INTEGER NOT NULL,
			smooth_passes INTEGER NOT NULL,
			digest TEXT NOT NULL,
			snapshot_path TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_fields_level ON fields(level_id, id);`,
		`CREATE INDEX IF NOT EXISTS idx_fields_digest ON fields(digest);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// RecordField appends one generation to the index. CreatedAt is stamped here
// if the row leaves it empty.
func (s *SQLiteIndex) RecordField(row FieldRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row.CreatedAt == "" {
		row.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	_, err := s.db.Exec(
		`INSERT INTO fields
			(level_id, seed, walk_length, terrain_raise, start_x, start_y, smooth_passes, digest, snapshot_path, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		row.LevelID, int64(row.Seed), row.WalkLength, row.TerrainRaise,
		row.StartX, row.StartY, row.SmoothPasses,
		row.Digest, row.SnapshotPath, row.CreatedAt,
	)
	return err
}

// LatestByLevel returns the most recently recorded generation for a level.
func (s *SQLiteIndex) LatestByLevel(levelID string) (FieldRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		row  FieldRow
		seed int64
	)
	r := s.db.QueryRow(
		`SELECT level_id, seed, walk_length, terrain_raise, start_x, start_y, smooth_passes, digest, snapshot_path, created_at
		 FROM fields WHERE level_id = ? ORDER BY id DESC LIMIT 1`, levelID)
	if err := r.Scan(&row.LevelID, &seed, &row.WalkLength, &row.TerrainRaise,
		&row.StartX, &row.StartY, &row.SmoothPasses,
		&row.Digest, &row.SnapshotPath, &row.CreatedAt); err != nil {
		return row, err
	}
	row.Seed = uint32(seed)
	return row, nil
}

// CountByLevel reports how many generations were recorded for a level.
func (s *SQLiteIndex) CountByLevel(levelID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM fields WHERE level_id = ?`, levelID).Scan(&n)
	return n, err
}

func (s *SQLiteIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
