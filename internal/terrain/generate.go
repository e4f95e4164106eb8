// Package terrain reconstructs a fixed 64×128 heightfield generator:
// a seeded pseudo-random walk deposits height onto the grid, a sea-level
// clamp zeroes apparent negatives, then a configured number of in-place
// box-blur passes smooth the interior. All arithmetic is fixed-width with
// wraparound on purpose; the wrapping is the behavior being reproduced.
package terrain

import (
	"errors"
	"fmt"
)

// ErrInvalidParams reports parameter validation failures. Use errors.Is to
// test for it on Generate errors.
var ErrInvalidParams = errors.New("invalid level parameters")

// Params holds one level's generation inputs. Produced once by the parameter
// loader, read-only afterward.
type Params struct {
	Seed         uint32
	WalkLength   int16
	TerrainRaise uint8
	StartX       int
	StartY       int
	SmoothPasses int
}

// Validate rejects parameter combinations the generator cannot honor.
func (p Params) Validate() error {
	if p.WalkLength < 0 {
		return fmt.Errorf("%w: walk length %d is negative", ErrInvalidParams, p.WalkLength)
	}
	if p.SmoothPasses < 0 {
		return fmt.Errorf("%w: smoothing pass count %d is negative", ErrInvalidParams, p.SmoothPasses)
	}
	return nil
}

// Generate runs the full pipeline on a fresh zeroed field: walk, clamp,
// SmoothPasses smoothing passes. Deterministic: equal params always yield
// byte-identical fields. Independent calls never share state, so levels can
// be generated concurrently.
func Generate(p Params) (*Field, error) {
	return GenerateMasked(p, nil)
}

// GenerateMasked is Generate with an overlay hook: cells the mask reports as
// exempt receive no deposits and are skipped by smoothing. A nil mask exempts
// nothing, which is the documented core behavior.
func GenerateMasked(p Params, mask Mask) (*Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	f := NewField()
	rng := NewPRNG(p.Seed)
	randomWalk(f, rng, p, mask)
	clampSeaLevel(f)
	for i := 0; i < p.SmoothPasses; i++ {
		smoothPass(f, mask)
	}
	return f, nil
}
