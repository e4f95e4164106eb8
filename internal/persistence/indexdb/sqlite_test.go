package indexdb

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestSQLiteIndex_RecordField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")

	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	row := FieldRow{
		LevelID:      "level_1",
		Seed:         0x1e19,
		WalkLength:   0x0750,
		TerrainRaise: 8,
		StartX:       35,
		StartY:       49,
		SmoothPasses: 4,
		Digest:       "a0f86e29946ae306f5b16f38b4614758a31935209c9fb37b6e64487c6906ed66",
		SnapshotPath: "/abs/path/level_1.field.zst",
	}
	if err := idx.RecordField(row); err != nil {
		t.Fatalf("RecordField: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var (
		seed   int64
		walk   int
		digest string
		snap   string
	)
	r := db.QueryRow(`SELECT seed,walk_length,digest,snapshot_path FROM fields WHERE level_id='level_1'`)
	if err := r.Scan(&seed, &walk, &digest, &snap); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if seed != 0x1e19 || walk != 0x0750 || digest != row.Digest || snap != row.SnapshotPath {
		t.Fatalf("row mismatch: seed=%d walk=%d digest=%q snap=%q", seed, walk, digest, snap)
	}
}

func TestSQLiteIndex_LatestByLevel(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer idx.Close()

	first := FieldRow{LevelID: "level_1", Digest: "d1", SnapshotPath: "/p1"}
	second := FieldRow{LevelID: "level_1", Digest: "d2", SnapshotPath: "/p2"}
	other := FieldRow{LevelID: "level_2", Digest: "d3", SnapshotPath: "/p3"}
	for _, r := range []FieldRow{first, second, other} {
		if err := idx.RecordField(r); err != nil {
			t.Fatalf("RecordField: %v", err)
		}
	}

	got, err := idx.LatestByLevel("level_1")
	if err != nil {
		t.Fatalf("LatestByLevel: %v", err)
	}
	if got.Digest != "d2" || got.SnapshotPath != "/p2" {
		t.Fatalf("latest row: %+v", got)
	}
	if got.CreatedAt == "" {
		t.Fatal("created_at not stamped")
	}

	n, err := idx.CountByLevel("level_1")
	if err != nil {
		t.Fatalf("CountByLevel: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}
