package terrain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Grid dimensions. Both are powers of two: coordinate wrap is a bitmask, and
// the rest of the package relies on that.
const (
	Width  = 64
	Height = 128

	maskX = Width - 1
	maskY = Height - 1
)

// Field is a Width×Height grid of uint8 heights in row-major order. It is
// mutated in place during generation and treated as read-only output after.
type Field struct {
	cells []uint8
}

// NewField allocates a zero-filled field.
func NewField() *Field {
	return &Field{cells: make([]uint8, Width*Height)}
}

// Cells exposes the backing slice (len Width*Height, row-major).
func (f *Field) Cells() []uint8 { return f.cells }

// Wrap masks coordinates into [0, Width) × [0, Height).
func Wrap(x, y int) (int, int) {
	return x & maskX, y & maskY
}

// Index returns the linear index for already-wrapped coordinates.
func (f *Field) Index(x, y int) int { return y*Width + x }

// Get returns the cell at (x, y), wrapping out-of-range coordinates.
func (f *Field) Get(x, y int) uint8 {
	x, y = Wrap(x, y)
	return f.cells[y*Width+x]
}

// Set writes the cell at (x, y), wrapping out-of-range coordinates.
func (f *Field) Set(x, y int, v uint8) {
	x, y = Wrap(x, y)
	f.cells[y*Width+x] = v
}

// Digest returns the hex sha256 of the cell contents. Two fields generated
// from the same parameters always share a digest.
func (f *Field) Digest() string {
	h := sha256.Sum256(f.cells)
	return hex.EncodeToString(h[:])
}
