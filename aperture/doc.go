// Package aperture indexes the square grid over the aperture plane.
//
// Buckets are addressed by a dense linear id assigned column-major:
//
//	id = xbin * (2*NumBinsRadius) + ybin
//
// For a 4x4 grid (NumBinsRadius = 2) the ids are laid out as
//
//	        y
//	        |
//	+---+---+---+---+
//	| 0 | 4 | 8 |12 |
//	+---+---+---+---+
//	| 1 | 5 | 9 |13 |
//	+---+---X---+---+---> x
//	| 2 | 6 |10 |14 |
//	+---+---+---+---+
//	| 3 | 7 |11 |15 |
//	+---+---+---+---+
//
// OverlappingCircle answers which cells intersect a closed disk. A cell that
// only touches the disk boundary is included.
package aperture
