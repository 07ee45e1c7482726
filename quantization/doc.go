// Package quantization maps continuous photon coordinates to fixed-width codes.
//
// Two codecs are provided:
//
//   - Aperture position: a point (x, y) on the aperture plane is assigned to a
//     square grid cell (BinCoordinate) and an 8-bit fixed-point offset inside
//     that cell. The reconstruction error is at most BinEdgeWidth/256.
//   - Incidence direction: each direction cosine (cx, cy) is mapped to a 16-bit
//     code spanning [-R, R] where R is the field-of-view radius. The
//     reconstruction error is at most R/2^15.
//
// Both codecs are deliberately lossy and never clamp. A position outside the
// grid yields a BinCoordinate outside [0, 2*NumBinsRadius) and a direction
// outside the field of view yields a Code that is not Valid. Callers filter on
// these signals; they are not errors.
//
// # Records
//
// A quantized photon is stored as an 8-byte Record:
//
//	| x_rest u8 | y_rest u8 | cx_bin u16 LE | cy_bin u16 LE |
//
// The owning BinCoordinate is not part of the record. It is implied by the
// bucket the record is stored in, which is why Decode takes the bucket
// coordinate and the record together.
//
// # Usage
//
//	b := quantization.Binning{BinEdgeWidth: 64, NumBinsRadius: 16}
//	batch, valid := quantization.CompressPhotons(photons, b, fov)
//	for i, c := range batch {
//	    if !valid[i] {
//	        continue
//	    }
//	    p := quantization.Decode(c.Bin, c.Record, b, fov)
//	    _ = p
//	}
package quantization
