package aperture

import (
	"github.com/hupe1980/elut/quantization"
)

// Addressing is the bijection between bin coordinates and linear bucket ids
// for one binning. It is immutable after construction and safe for
// concurrent use.
type Addressing struct {
	binning   quantization.Binning
	diameter  int
	idToCoord []quantization.BinCoordinate
	coordToID [][]uint32 // [xbin][ybin]
}

// NewAddressing materializes both lookup tables for b.
// b must be valid (see quantization.Binning.Validate).
func NewAddressing(b quantization.Binning) *Addressing {
	d := b.NumBinsDiameter()
	a := &Addressing{
		binning:   b,
		diameter:  d,
		idToCoord: make([]quantization.BinCoordinate, d*d),
		coordToID: make([][]uint32, d),
	}
	for x := 0; x < d; x++ {
		a.coordToID[x] = make([]uint32, d)
		for y := 0; y < d; y++ {
			id := uint32(x*d + y)
			a.idToCoord[id] = quantization.BinCoordinate{X: x, Y: y}
			a.coordToID[x][y] = id
		}
	}
	return a
}

// Binning returns the binning the tables were built for.
func (a *Addressing) Binning() quantization.Binning {
	return a.binning
}

// NumBins returns the number of bucket ids.
func (a *Addressing) NumBins() int {
	return len(a.idToCoord)
}

// IDToCoord returns the bin coordinate of a bucket id.
// ok is false if id is not a bucket of this grid.
func (a *Addressing) IDToCoord(id uint32) (coord quantization.BinCoordinate, ok bool) {
	if int64(id) >= int64(len(a.idToCoord)) {
		return quantization.BinCoordinate{}, false
	}
	return a.idToCoord[id], true
}

// CoordToID returns the bucket id of a bin coordinate.
// ok is false for coordinates outside the grid.
func (a *Addressing) CoordToID(c quantization.BinCoordinate) (id uint32, ok bool) {
	if !a.binning.Contains(c) {
		return 0, false
	}
	return a.coordToID[c.X][c.Y], true
}
