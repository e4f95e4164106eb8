package terrain

// smoothPass box-blurs the interior in place: x in [1, Width-2] outer
// ascending, y in [1, Height-2] inner ascending, border ring untouched.
// Because the buffer is single and mutation is immediate, the up and left
// neighbors read here may already hold this pass's values while right and
// down are still pre-pass. That asymmetry is the reference behavior; do not
// double-buffer it away.
func smoothPass(f *Field, mask Mask) {
	c := f.cells
	for x := 1; x < Width-1; x++ {
		for y := 1; y < Height-1; y++ {
			if mask != nil && mask.Exempt(x, y) {
				continue
			}
			i := y*Width + x
			sum := uint16(c[i-Width]) + uint16(c[i-1]) + uint16(c[i+1]) + uint16(c[i+Width])
			c[i] = uint8((sum/4 + uint16(c[i])) / 2)
		}
	}
}
