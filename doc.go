// Package elut provides an event look-up table for simulated Cherenkov photons.
//
// Photon bunches arriving on an aperture plane are quantized into 8-byte
// records, grouped by the grid cell they hit and appended to one file per
// cell. A query for a circular patch of the aperture reads back every cell
// the circle touches.
//
//   - quantization: fixed-width position and direction codes
//   - aperture: cell addressing and circle overlap
//   - store: the append-only bucket directory
//   - archive: compressed snapshots of a store in a blob store (local, S3, MinIO)
//
// # Quick Start
//
//	ctx := context.Background()
//	binning := quantization.Binning{BinEdgeWidth: 64, NumBinsRadius: 16}
//	fov := 4 * math.Pi / 180
//
//	t, err := elut.Create("./lut", binning, fov)
//	if err != nil {
//	    panic(err)
//	}
//	defer t.Close()
//
//	overflow, err := t.Append(ctx, photons)
//	fmt.Println("dropped:", overflow.Rejected(len(photons)))
//
//	hits, err := t.Query(ctx, 100, -50, 150)
//
// Query works at cell granularity: it returns every photon of every cell
// that overlaps the circle, including photons of those cells that lie outside it.
//
// # Reduce
//
// Jobs typically write one table each. Merge concatenates tables bucket by
// bucket; Pack and Unpack move a table through object storage:
//
//	s3Store, _ := s3.New(ctx, "lut-bucket", s3.WithPrefix("runs/0042/"))
//	_, err = t.Pack(ctx, s3Store, archive.WithCompression(archive.CompressionZSTD))
//	...
//	_, err = merged.Unpack(ctx, s3Store)
//
// # Precision
//
// Positions are exact to within BinEdgeWidth/256, direction cosines to
// within fovRadius/32768. Photons outside the grid or the field of view are
// dropped on append and reported through quantization.Overflow.
package elut
