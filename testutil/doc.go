// Package testutil provides testing utilities for elut.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded generator for photon populations and helpers to
// compare population moments before and after a store round trip.
//
// # Photon Generation
//
//	rng := testutil.NewRNG(seed)
//	photons := rng.Photons(100_000, testutil.PhotonPopulation{
//	    Position:  testutil.Normal2{MeanX: 50, MeanY: -125, StdX: 100, StdY: 150},
//	    Direction: testutil.Normal2{MeanX: testutil.Deg2Rad(-0.25), StdX: testutil.Deg2Rad(2), ...},
//	})
//
// # Moments
//
//	m := testutil.MomentsOf(photons, testutil.ColX)
package testutil
