package quantization

import (
	"fmt"
	"math"
)

const (
	// DirectionLevels is the number of distinct direction codes per axis.
	DirectionLevels = 1 << 16
	// directionOffset maps a zero direction cosine onto the middle code.
	directionOffset = 1 << 15
)

// Code is the result of quantizing one direction cosine.
//
// The raw value is kept even when it does not fit into 16 bits, so an
// out-of-range direction is a value the caller inspects, not an error.
type Code struct {
	raw int64
}

// CodeOf wraps a raw direction code.
func CodeOf(raw int64) Code {
	return Code{raw: raw}
}

// Raw returns the unclamped code.
func (c Code) Raw() int64 {
	return c.raw
}

// Valid reports whether the code fits into [0, 65535].
func (c Code) Valid() bool {
	return c.raw >= 0 && c.raw < DirectionLevels
}

// Value returns the 16-bit code and whether it is valid.
func (c Code) Value() (uint16, bool) {
	if !c.Valid() {
		return 0, false
	}
	return uint16(c.raw), true
}

func (c Code) String() string {
	if c.Valid() {
		return fmt.Sprintf("Valid(%d)", c.raw)
	}
	return fmt.Sprintf("OutOfRange(%d)", c.raw)
}

// DirectionScale returns the direction cosine covered by one code step.
func DirectionScale(fovRadius float64) float64 {
	return 2 * fovRadius / (DirectionLevels - 1)
}

// CompressDirection quantizes the direction cosines (cx, cy) for a field of
// view of the given radius. Directions with |c| > fovRadius yield codes that
// are not Valid.
func CompressDirection(cx, cy, fovRadius float64) (Code, Code) {
	scale := DirectionScale(fovRadius)
	return compressCosine(cx, scale), compressCosine(cy, scale)
}

// DecompressDirection reconstructs the direction cosines from their codes.
func DecompressDirection(cxBin, cyBin uint16, fovRadius float64) (cx, cy float64) {
	scale := DirectionScale(fovRadius)
	return decompressCosine(cxBin, scale), decompressCosine(cyBin, scale)
}

// DirectionErrorBound returns the maximum absolute reconstruction error of the
// direction codec.
func DirectionErrorBound(fovRadius float64) float64 {
	return fovRadius / directionOffset
}

func compressCosine(c, scale float64) Code {
	return Code{raw: int64(saturate(math.Round(c/scale))) + directionOffset}
}

func decompressCosine(code uint16, scale float64) float64 {
	return float64(int64(code)-directionOffset) * scale
}
