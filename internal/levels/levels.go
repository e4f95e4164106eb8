// Package levels loads the per-level generation parameter records. The
// records arrive pre-parsed as YAML; reading the original packed level-data
// container is someone else's job.
package levels

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"terrafield.ai/internal/terrain"
)

type Config struct {
	DefaultLevelID string      `yaml:"default_level_id"`
	Levels         []LevelSpec `yaml:"levels"`
}

type LevelSpec struct {
	ID           string `yaml:"id"`
	Seed         uint32 `yaml:"seed"`
	WalkLength   int    `yaml:"walk_length"`
	TerrainRaise int    `yaml:"terrain_raise"`
	StartX       int    `yaml:"start_x"`
	StartY       int    `yaml:"start_y"`
	SmoothPasses int    `yaml:"smooth_passes"`
}

// Params converts the record into generator inputs.
func (s LevelSpec) Params() terrain.Params {
	return terrain.Params{
		Seed:         s.Seed,
		WalkLength:   int16(s.WalkLength),
		TerrainRaise: uint8(s.TerrainRaise),
		StartX:       s.StartX,
		StartY:       s.StartY,
		SmoothPasses: s.SmoothPasses,
	}
}

// Load reads levels.yaml. An empty path yields the built-in defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	cfg = Config{}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("levels.yaml: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("levels.yaml: %w", err)
	}
	return cfg, nil
}

// Defaults returns a single-level config matching the captured reference
// scenario, so a bare server still serves something reproducible.
func Defaults() Config {
	return Config{
		DefaultLevelID: "level_1",
		Levels: []LevelSpec{
			{
				ID:           "level_1",
				Seed:         0x1e19,
				WalkLength:   0x0750,
				TerrainRaise: 8,
				StartX:       35,
				StartY:       49,
				SmoothPasses: 4,
			},
		},
	}
}

func (c *Config) normalize() {
	if c.DefaultLevelID == "" && len(c.Levels) > 0 {
		c.DefaultLevelID = c.Levels[0].ID
	}
}

func (c Config) Validate() error {
	if len(c.Levels) == 0 {
		return fmt.Errorf("no levels defined")
	}
	seen := map[string]struct{}{}
	for i, l := range c.Levels {
		if strings.TrimSpace(l.ID) == "" {
			return fmt.Errorf("level %d: empty id", i)
		}
		if _, dup := seen[l.ID]; dup {
			return fmt.Errorf("level %q: duplicate id", l.ID)
		}
		seen[l.ID] = struct{}{}
		if l.WalkLength < 0 || l.WalkLength > 0x7fff {
			return fmt.Errorf("level %q: walk_length %d outside [0, 32767]", l.ID, l.WalkLength)
		}
		if l.TerrainRaise < 0 || l.TerrainRaise > 0xff {
			return fmt.Errorf("level %q: terrain_raise %d outside [0, 255]", l.ID, l.TerrainRaise)
		}
		if l.SmoothPasses < 0 {
			return fmt.Errorf("level %q: smooth_passes %d is negative", l.ID, l.SmoothPasses)
		}
	}
	if _, ok := c.level(c.DefaultLevelID); !ok {
		return fmt.Errorf("default_level_id %q: no such level", c.DefaultLevelID)
	}
	return nil
}

// Level looks a record up by id.
func (c Config) Level(id string) (LevelSpec, bool) {
	return c.level(id)
}

func (c Config) level(id string) (LevelSpec, bool) {
	for _, l := range c.Levels {
		if l.ID == id {
			return l, true
		}
	}
	return LevelSpec{}, false
}

// IDs lists the level ids in file order.
func (c Config) IDs() []string {
	out := make([]string, 0, len(c.Levels))
	for _, l := range c.Levels {
		out = append(out, l.ID)
	}
	return out
}
