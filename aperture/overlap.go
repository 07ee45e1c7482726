package aperture

import (
	"math"

	"github.com/hupe1980/elut/quantization"
)

// CellTouchesDisk reports whether the closed square cell of bin intersects the
// closed disk of radius r around (cx, cy). The squared distance from the
// center to the closest point of the cell is compared inclusively, so a cell
// touching the boundary is reported as overlapping.
//
// This is the only overlap predicate; the query path and tests share it.
func CellTouchesDisk(b quantization.Binning, bin quantization.BinCoordinate, cx, cy, r float64) bool {
	xMin, xMax, yMin, yMax := b.CellBounds(bin)
	dx := cx - clamp(cx, xMin, xMax)
	dy := cy - clamp(cy, yMin, yMax)
	return dx*dx+dy*dy <= r*r
}

// OverlappingCircle returns the ids of all grid cells that intersect the
// closed disk of radius r around (cx, cy). Cells outside the grid are never
// returned. A negative or NaN radius yields an empty set.
func OverlappingCircle(b quantization.Binning, cx, cy, r float64) *BucketSet {
	set := NewBucketSet()
	if !(r >= 0) || math.IsNaN(cx) || math.IsNaN(cy) {
		return set
	}

	d := b.NumBinsDiameter()
	reach := int(saturatedCeil(r/b.BinEdgeWidth)) + 1
	x0, x1 := window(b.BinOf(cx), reach, d)
	y0, y1 := window(b.BinOf(cy), reach, d)

	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			bin := quantization.BinCoordinate{X: x, Y: y}
			if CellTouchesDisk(b, bin, cx, cy, r) {
				set.Add(uint32(x*d + y))
			}
		}
	}
	return set
}

// Index couples an Addressing with its overlap queries.
type Index struct {
	*Addressing
}

// NewIndex builds the addressing tables for b.
func NewIndex(b quantization.Binning) *Index {
	return &Index{Addressing: NewAddressing(b)}
}

// Overlapping returns the bucket ids overlapping the disk around (cx, cy).
func (ix *Index) Overlapping(cx, cy, r float64) *BucketSet {
	return OverlappingCircle(ix.binning, cx, cy, r)
}

// Cell returns the bucket id of the cell containing (x, y).
func (ix *Index) Cell(x, y float64) (uint32, bool) {
	bin, _, _ := quantization.CompressXY(x, y, ix.binning)
	return ix.CoordToID(bin)
}

// window returns the candidate range [center-reach, center+reach] clipped to
// [0, d). The range is empty (lo > hi) when it misses the grid.
func window(center, reach, d int) (lo, hi int) {
	lo = max(center-reach, 0)
	hi = min(center+reach, d-1)
	return lo, hi
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func saturatedCeil(v float64) float64 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return math.Ceil(v)
}
