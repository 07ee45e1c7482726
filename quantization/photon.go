package quantization

import (
	"errors"
	"fmt"
)

// ErrColumnLength is returned when photon columns differ in length.
var ErrColumnLength = errors.New("photon columns differ in length")

// Photon is one photon bunch on the aperture plane.
// X and Y are in meters, CX and CY are direction cosines.
type Photon struct {
	X  float64
	Y  float64
	CX float64
	CY float64
}

// Compressed is the candidate storage form of one photon: the bucket it
// belongs to and its record. CX and CY keep the raw direction codes so that
// out-of-range photons remain inspectable; for those the Record holds zero
// direction codes and must not be stored.
type Compressed struct {
	Bin    BinCoordinate
	Record Record
	CX     Code
	CY     Code
}

// Valid reports whether c can be stored for the given binning.
func (c Compressed) Valid(b Binning) bool {
	return b.Contains(c.Bin) && c.CX.Valid() && c.CY.Valid()
}

// Compress quantizes a single photon.
func Compress(p Photon, b Binning, fovRadius float64) Compressed {
	bin, xRest, yRest := CompressXY(p.X, p.Y, b)
	cx, cy := CompressDirection(p.CX, p.CY, fovRadius)
	cxBin, _ := cx.Value()
	cyBin, _ := cy.Value()
	return Compressed{
		Bin: bin,
		Record: Record{
			XRest: xRest,
			YRest: yRest,
			CXBin: cxBin,
			CYBin: cyBin,
		},
		CX: cx,
		CY: cy,
	}
}

// CompressPhotons quantizes every photon and returns, index aligned, the
// candidate records and a validity mask. A photon is valid only if its bin
// lies inside the grid and both direction codes fit into 16 bits. Invalid
// photons are kept in the output so the caller can account for them.
func CompressPhotons(photons []Photon, b Binning, fovRadius float64) ([]Compressed, []bool) {
	out := make([]Compressed, len(photons))
	valid := make([]bool, len(photons))
	for i, p := range photons {
		out[i] = Compress(p, b, fovRadius)
		valid[i] = out[i].Valid(b)
	}
	return out, valid
}

// CompressColumns is CompressPhotons for column-oriented input.
func CompressColumns(xs, ys, cxs, cys []float64, b Binning, fovRadius float64) ([]Compressed, []bool, error) {
	n := len(xs)
	if len(ys) != n || len(cxs) != n || len(cys) != n {
		return nil, nil, fmt.Errorf("%w: x=%d y=%d cx=%d cy=%d", ErrColumnLength, len(xs), len(ys), len(cxs), len(cys))
	}
	photons := make([]Photon, n)
	for i := range photons {
		photons[i] = Photon{X: xs[i], Y: ys[i], CX: cxs[i], CY: cys[i]}
	}
	out, valid := CompressPhotons(photons, b, fovRadius)
	return out, valid, nil
}

// SelectValid returns the entries of batch whose mask is true, in order.
func SelectValid(batch []Compressed, valid []bool) []Compressed {
	out := make([]Compressed, 0, len(batch))
	for i, c := range batch {
		if i < len(valid) && valid[i] {
			out = append(out, c)
		}
	}
	return out
}

// Decode reconstructs a photon from a record and the coordinate of the
// bucket that owns it. The bucket coordinate is the only source of the
// record's bin.
func Decode(bucket BinCoordinate, rec Record, b Binning, fovRadius float64) Photon {
	x, y := DecompressXY(bucket, rec.XRest, rec.YRest, b)
	cx, cy := DecompressDirection(rec.CXBin, rec.CYBin, fovRadius)
	return Photon{X: x, Y: y, CX: cx, CY: cy}
}

// Overflow counts how a batch of photons falls relative to the representable
// domain. A photon may be counted on several axes.
type Overflow struct {
	Accepted   int
	UnderflowX int
	OverflowX  int
	UnderflowY int
	OverflowY  int
	// Direction counts photons with at least one out-of-range direction code.
	Direction int
}

// Rejected returns the number of photons that were not accepted.
func (o Overflow) Rejected(total int) int {
	return total - o.Accepted
}

// Tally accounts a compressed batch against the binning.
func Tally(batch []Compressed, b Binning) Overflow {
	var o Overflow
	d := b.NumBinsDiameter()
	for _, c := range batch {
		if c.Valid(b) {
			o.Accepted++
			continue
		}
		switch {
		case c.Bin.X < 0:
			o.UnderflowX++
		case c.Bin.X >= d:
			o.OverflowX++
		}
		switch {
		case c.Bin.Y < 0:
			o.UnderflowY++
		case c.Bin.Y >= d:
			o.OverflowY++
		}
		if !c.CX.Valid() || !c.CY.Valid() {
			o.Direction++
		}
	}
	return o
}
