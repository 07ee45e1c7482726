package quantization

import "math"

// CompressXY assigns the aperture position (x, y) to its bin and the 8-bit
// offset inside that bin.
//
// No range check is performed: positions outside the grid produce bin indices
// outside [0, 2*NumBinsRadius). Use Binning.Contains to filter them.
func CompressXY(x, y float64, b Binning) (bin BinCoordinate, xRest, yRest uint8) {
	bin.X = b.BinOf(x)
	bin.Y = b.BinOf(y)
	xRest = compressRest(x, b.LowerEdge(bin.X), b.BinEdgeWidth)
	yRest = compressRest(y, b.LowerEdge(bin.Y), b.BinEdgeWidth)
	return bin, xRest, yRest
}

// DecompressXY reconstructs the position from a bin and its offsets.
// The result lies within BinEdgeWidth/256 of the compressed position.
func DecompressXY(bin BinCoordinate, xRest, yRest uint8, b Binning) (x, y float64) {
	x = b.LowerEdge(bin.X) + decompressRest(xRest, b.BinEdgeWidth)
	y = b.LowerEdge(bin.Y) + decompressRest(yRest, b.BinEdgeWidth)
	return x, y
}

// PositionErrorBound returns the maximum absolute reconstruction error of the
// position codec.
func PositionErrorBound(b Binning) float64 {
	return b.BinEdgeWidth / RestLevels
}

func compressRest(v, lower, width float64) uint8 {
	r := math.Floor((v - lower) / width * RestLevels)
	// Float rounding can push the fraction onto the upper bin edge.
	switch {
	case !(r >= 0):
		return 0
	case r > RestLevels-1:
		return RestLevels - 1
	}
	return uint8(r)
}

func decompressRest(rest uint8, width float64) float64 {
	return float64(rest) / RestLevels * width
}
