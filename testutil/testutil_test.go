package testutil

import (
	"testing"

	"github.com/hupe1980/elut/quantization"
	"github.com/stretchr/testify/assert"
)

func TestPhotons(t *testing.T) {
	rng := NewRNG(4711)

	pop := PhotonPopulation{
		Position:  Normal2{MeanX: 50, MeanY: -125, StdX: 100, StdY: 150},
		Direction: Normal2{MeanX: 0.01, MeanY: -0.02, StdX: 0.001, StdY: 0.002},
	}
	photons := rng.Photons(20_000, pop)
	assert.Len(t, photons, 20_000)

	x := MomentsOf(photons, ColX)
	assert.InDelta(t, 50, x.Mean, 5)
	assert.InDelta(t, 100, x.Std, 5)

	y := MomentsOf(photons, ColY)
	assert.InDelta(t, -125, y.Mean, 7.5)
	assert.InDelta(t, 150, y.Std, 7.5)

	cx := MomentsOf(photons, ColCX)
	assert.InDelta(t, 0.01, cx.Mean, 1e-4)
	cy := MomentsOf(photons, ColCY)
	assert.InDelta(t, 0.002, cy.Std, 1e-4)
}

func TestUniformPhotons(t *testing.T) {
	rng := NewRNG(4711)
	b := quantization.Binning{BinEdgeWidth: 32, NumBinsRadius: 4}
	fov := Deg2Rad(4)

	photons := rng.UniformPhotons(1000, b, fov)
	_, valid := quantization.CompressPhotons(photons, b, fov)
	for i, ok := range valid {
		assert.True(t, ok, "photon %d: %+v", i, photons[i])
	}
}

func TestMomentsOf(t *testing.T) {
	photons := []quantization.Photon{{X: 1}, {X: 3}}
	m := MomentsOf(photons, ColX)
	assert.Equal(t, 2.0, m.Mean)
	assert.Equal(t, 1.0, m.Std)

	empty := MomentsOf(nil, ColX)
	assert.True(t, empty.Mean != empty.Mean)
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.Normal(0, 1)

	rng.Reset()
	v2 := rng.Normal(0, 1)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int64(4711), rng.Seed())
}
