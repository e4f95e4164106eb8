package terrain

// Mask lets callers exempt individual cells from the walk's deposits and from
// smoothing rewrites. The zero behavior (nil mask) exempts nothing; the core
// algorithm never exempts on its own.
type Mask interface {
	Exempt(x, y int) bool
}

// randomWalk runs walkLength+1 deposit steps. The original counter
// predecrements down to -1, so a walk length of N deposits N+1 times; callers
// rely on that extra step for reproducibility.
//
// Each step draws dx before dy (the draw order is part of the output
// contract), moves the cursor, mask-wraps it, and adds raise to the landed
// cell with uint8 wraparound. No saturation: 255+raise wraps past zero.
func randomWalk(f *Field, rng *PRNG, p Params, mask Mask) {
	x, y := Wrap(p.StartX, p.StartY)
	raise := p.TerrainRaise
	for step := int(p.WalkLength); step >= 0; step-- {
		dx := int(rng.Next()%3) - 1
		dy := int(rng.Next()%3) - 1
		x = (x + dx) & maskX
		y = (y + dy) & maskY
		if mask != nil && mask.Exempt(x, y) {
			continue
		}
		f.cells[y*Width+x] += raise
	}
}

// clampSeaLevel zeroes every cell whose signed-byte interpretation is
// negative. Runs exactly once, between the walk and smoothing.
func clampSeaLevel(f *Field) {
	for i, v := range f.cells {
		if int8(v) < 0 {
			f.cells[i] = 0
		}
	}
}
