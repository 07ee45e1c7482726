package elut_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/elut"
	"github.com/hupe1980/elut/archive"
	"github.com/hupe1980/elut/blobstore"
	"github.com/hupe1980/elut/quantization"
)

func Example() {
	dir, err := os.MkdirTemp("", "elut-example")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	ctx := context.Background()
	binning := quantization.Binning{BinEdgeWidth: 32, NumBinsRadius: 4}

	t, err := elut.Create(filepath.Join(dir, "lut"), binning, 0.07)
	if err != nil {
		panic(err)
	}
	defer t.Close()

	photons := []quantization.Photon{
		{X: 50, Y: -80, CX: 0.01, CY: -0.02},
		{X: 60, Y: -70},
		{X: -100, Y: 100},
		{X: 5000, Y: 0},
	}
	overflow, err := t.Append(ctx, photons)
	if err != nil {
		panic(err)
	}
	fmt.Println("accepted:", overflow.Accepted, "dropped:", overflow.Rejected(len(photons)))

	hits, err := t.Query(ctx, 50, -80, 1)
	if err != nil {
		panic(err)
	}
	fmt.Println("photons near (50, -80):", len(hits))

	// Output:
	// accepted: 3 dropped: 1
	// photons near (50, -80): 2
}

func ExampleTable_Pack() {
	dir, err := os.MkdirTemp("", "elut-example")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	ctx := context.Background()
	binning := quantization.Binning{BinEdgeWidth: 32, NumBinsRadius: 4}

	job, err := elut.Create(filepath.Join(dir, "job-1"), binning, 0.07)
	if err != nil {
		panic(err)
	}
	if _, err := job.Append(ctx, []quantization.Photon{{X: 1, Y: 2}, {X: 100, Y: -100}}); err != nil {
		panic(err)
	}

	blobs := blobstore.NewMemoryStore()
	m, err := job.Pack(ctx, blobs, archive.WithCompression(archive.CompressionZSTD))
	if err != nil {
		panic(err)
	}
	fmt.Println("archived buckets:", len(m.Buckets), "records:", m.Records())

	reduced, err := elut.Create(filepath.Join(dir, "reduced"), binning, 0.07)
	if err != nil {
		panic(err)
	}
	if _, err := reduced.Unpack(ctx, blobs); err != nil {
		panic(err)
	}
	h, err := reduced.Histogram()
	if err != nil {
		panic(err)
	}
	total := 0
	for _, n := range h {
		total += n
	}
	fmt.Println("restored records:", total)

	// Output:
	// archived buckets: 2 records: 2
	// restored records: 2
}
