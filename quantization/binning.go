package quantization

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidBinning is returned when a Binning cannot describe a grid.
var ErrInvalidBinning = errors.New("invalid aperture binning")

// RestLevels is the number of sub-bin offset levels stored per axis.
const RestLevels = 256

// MaxNumBinsRadius keeps every bucket id of a grid within uint32.
const MaxNumBinsRadius = 1 << 15

// Binning describes the square grid over the aperture plane.
//
// The grid spans [-NumBinsRadius*BinEdgeWidth, NumBinsRadius*BinEdgeWidth) on
// both axes. A Binning is a plain value and must match between writing and
// reading a store.
type Binning struct {
	// BinEdgeWidth is the side length of one bin in meters.
	BinEdgeWidth float64 `json:"bin_edge_width"`
	// NumBinsRadius is the half-extent of the grid in bins.
	NumBinsRadius int `json:"num_bins_radius"`
}

// Validate reports whether the binning describes a usable grid.
func (b Binning) Validate() error {
	if !(b.BinEdgeWidth > 0) || math.IsInf(b.BinEdgeWidth, 0) {
		return fmt.Errorf("%w: bin edge width must be positive and finite, got %v", ErrInvalidBinning, b.BinEdgeWidth)
	}
	if b.NumBinsRadius <= 0 {
		return fmt.Errorf("%w: num bins radius must be positive, got %d", ErrInvalidBinning, b.NumBinsRadius)
	}
	if b.NumBinsRadius > MaxNumBinsRadius {
		return fmt.Errorf("%w: num bins radius %d exceeds %d", ErrInvalidBinning, b.NumBinsRadius, MaxNumBinsRadius)
	}
	return nil
}

// NumBinsDiameter returns the number of bins along one axis.
func (b Binning) NumBinsDiameter() int {
	return 2 * b.NumBinsRadius
}

// NumBins returns the total number of grid cells.
func (b Binning) NumBins() int {
	d := b.NumBinsDiameter()
	return d * d
}

// Extent returns the half-width of the grid in meters.
func (b Binning) Extent() float64 {
	return float64(b.NumBinsRadius) * b.BinEdgeWidth
}

// Contains reports whether bin lies inside the grid.
func (b Binning) Contains(bin BinCoordinate) bool {
	d := b.NumBinsDiameter()
	return bin.X >= 0 && bin.X < d && bin.Y >= 0 && bin.Y < d
}

// LowerEdge returns the lower edge in meters of the bin with index i on one axis.
func (b Binning) LowerEdge(i int) float64 {
	return float64(i-b.NumBinsRadius) * b.BinEdgeWidth
}

// CellBounds returns the closed extent [xMin, xMax] x [yMin, yMax] of bin.
func (b Binning) CellBounds(bin BinCoordinate) (xMin, xMax, yMin, yMax float64) {
	xMin = b.LowerEdge(bin.X)
	yMin = b.LowerEdge(bin.Y)
	return xMin, xMin + b.BinEdgeWidth, yMin, yMin + b.BinEdgeWidth
}

// BinOf returns the bin index on one axis for the position v.
// The result is not range checked.
func (b Binning) BinOf(v float64) int {
	return int(saturate(math.Floor(v/b.BinEdgeWidth))) + b.NumBinsRadius
}

// BinCoordinate addresses one grid cell. Valid coordinates satisfy
// 0 <= X, Y < 2*NumBinsRadius; anything else marks an out-of-grid position.
type BinCoordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c BinCoordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// saturate keeps a floored value representable as an int32 so that
// non-finite or huge inputs stay far outside any grid instead of wrapping.
func saturate(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return math.MinInt32
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return v
}
