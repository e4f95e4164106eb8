// genlevel generates one configured level, writes its snapshot and records it
// in the field index. Intended for batch pre-generation and debugging.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"terrafield.ai/internal/levels"
	"terrafield.ai/internal/persistence/indexdb"
	"terrafield.ai/internal/persistence/snapshot"
	"terrafield.ai/internal/terrain"
)

func main() {
	var (
		levelsPath = flag.String("levels", "./configs/levels.yaml", "level parameter records (empty for built-in defaults)")
		levelID    = flag.String("level", "", "level id to generate (default: config's default level)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		disableDB  = flag.Bool("disable_db", false, "skip recording the generation in the sqlite index")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[genlevel] ", log.LstdFlags)

	path := *levelsPath
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			logger.Printf("levels config not found (%s); using defaults", path)
			path = ""
		}
	}
	cfg, err := levels.Load(path)
	if err != nil {
		logger.Fatalf("load levels: %v", err)
	}

	id := *levelID
	if id == "" {
		id = cfg.DefaultLevelID
	}
	spec, ok := cfg.Level(id)
	if !ok {
		logger.Fatalf("no such level: %q", id)
	}

	p := spec.Params()
	f, err := terrain.Generate(p)
	if err != nil {
		logger.Fatalf("generate %s: %v", id, err)
	}
	digest := f.Digest()

	snapPath := filepath.Join(*dataDir, "fields", fmt.Sprintf("%s.field.zst", id))
	err = snapshot.WriteSnapshot(snapPath, snapshot.FieldSnapshotV1{
		Header: snapshot.Header{Version: 1, LevelID: id, Digest: digest},
		Params: snapshot.ParamsV1{
			Seed:         p.Seed,
			WalkLength:   p.WalkLength,
			TerrainRaise: p.TerrainRaise,
			StartX:       p.StartX,
			StartY:       p.StartY,
			SmoothPasses: p.SmoothPasses,
		},
		Width:  terrain.Width,
		Height: terrain.Height,
		Cells:  f.Cells(),
	})
	if err != nil {
		logger.Fatalf("write snapshot: %v", err)
	}

	if !*disableDB {
		idx, err := indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		err = idx.RecordField(indexdb.FieldRow{
			LevelID:      id,
			Seed:         p.Seed,
			WalkLength:   int(p.WalkLength),
			TerrainRaise: int(p.TerrainRaise),
			StartX:       p.StartX,
			StartY:       p.StartY,
			SmoothPasses: p.SmoothPasses,
			Digest:       digest,
			SnapshotPath: snapPath,
		})
		if err != nil {
			logger.Fatalf("record field: %v", err)
		}
	}

	logger.Printf("level %s: digest %s -> %s", id, digest, snapPath)
}
