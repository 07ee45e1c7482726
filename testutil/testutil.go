package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/elut/quantization"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Normal returns a normally distributed number with the given mean and
// standard deviation.
func (r *RNG) Normal(mean, std float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return mean + std*r.rand.NormFloat64()
}

// Uniform returns a number in [lo, hi).
func (r *RNG) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Normal2 describes an axis-aligned normal distribution in a plane.
type Normal2 struct {
	MeanX, MeanY float64
	StdX, StdY   float64
}

// PhotonPopulation describes a population of photons with independent
// normally distributed position and direction.
type PhotonPopulation struct {
	Position  Normal2
	Direction Normal2
}

// Photons draws n photons from pop.
func (r *RNG) Photons(n int, pop PhotonPopulation) []quantization.Photon {
	out := make([]quantization.Photon, n)
	for i := range out {
		out[i] = quantization.Photon{
			X:  r.Normal(pop.Position.MeanX, pop.Position.StdX),
			Y:  r.Normal(pop.Position.MeanY, pop.Position.StdY),
			CX: r.Normal(pop.Direction.MeanX, pop.Direction.StdX),
			CY: r.Normal(pop.Direction.MeanY, pop.Direction.StdY),
		}
	}
	return out
}

// UniformPhotons draws n photons uniformly from the representable domain of
// b and fovRadius. Every photon compresses to a valid record.
func (r *RNG) UniformPhotons(n int, b quantization.Binning, fovRadius float64) []quantization.Photon {
	ext := b.Extent()
	out := make([]quantization.Photon, n)
	for i := range out {
		out[i] = quantization.Photon{
			X:  r.Uniform(-ext, ext),
			Y:  r.Uniform(-ext, ext),
			CX: r.Uniform(-fovRadius, fovRadius),
			CY: r.Uniform(-fovRadius, fovRadius),
		}
	}
	return out
}

// Moments holds the mean and standard deviation of one photon column.
type Moments struct {
	Mean float64
	Std  float64
}

// MomentsOf returns the population mean and standard deviation of
// col(p) over photons.
func MomentsOf(photons []quantization.Photon, col func(quantization.Photon) float64) Moments {
	if len(photons) == 0 {
		return Moments{Mean: math.NaN(), Std: math.NaN()}
	}
	var sum float64
	for _, p := range photons {
		sum += col(p)
	}
	mean := sum / float64(len(photons))

	var ss float64
	for _, p := range photons {
		d := col(p) - mean
		ss += d * d
	}
	return Moments{Mean: mean, Std: math.Sqrt(ss / float64(len(photons)))}
}

// Column accessors for MomentsOf.
var (
	ColX  = func(p quantization.Photon) float64 { return p.X }
	ColY  = func(p quantization.Photon) float64 { return p.Y }
	ColCX = func(p quantization.Photon) float64 { return p.CX }
	ColCY = func(p quantization.Photon) float64 { return p.CY }
)

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}
