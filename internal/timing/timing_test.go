// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package timing

import (
	"math"
	"math/rand"
	"testing"
)

func TestFactorSaturatesToUnitRange(t *testing.T) {
	cases := []struct {
		target, emit, period, want float64
	}{
		{100, 100, 50, 0},
		{125, 100, 50, 0.5},
		{200, 100, 50, 1}, // beyond one period clamps to 1.
		{50, 100, 50, 0},  // target before emit clamps to 0.
	}
	for _, c := range cases {
		if got := Factor(c.target, c.emit, c.period); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Factor(%v,%v,%v) = %v, want %v", c.target, c.emit, c.period, got, c.want)
		}
	}
}

// TestJitterStability mirrors spec scenario 6: Gaussian jitter sigma=2ms
// around a 50ms period for 10000 iterations. interpolationFactor must
// never leave [0,1] and its sample standard deviation must stay below
// 0.15.
func TestJitterStability(t *testing.T) {
	const period = 50.0 // milliseconds.
	const iterations = 10000
	rng := rand.New(rand.NewSource(1))

	c := New()
	dispatch := 0.0
	emit := 0.0

	factors := make([]float64, 0, iterations)
	for i := 0; i < iterations; i++ {
		emit += period
		jitter := rng.NormFloat64() * 2.0 // sigma = 2ms.
		dispatch = emit + jitter

		target := c.Target(emit, dispatch, period)
		factor := Factor(target, emit, period)
		if factor < 0 || factor > 1 {
			t.Fatalf("iteration %d: factor %v left [0,1]", i, factor)
		}
		factors = append(factors, factor)
	}

	var sum float64
	for _, f := range factors {
		sum += f
	}
	mean := sum / float64(len(factors))
	var variance float64
	for _, f := range factors {
		variance += (f - mean) * (f - mean)
	}
	variance /= float64(len(factors))
	stddev := math.Sqrt(variance)
	if stddev >= 0.15 {
		t.Errorf("interpolation factor stddev %v, want < 0.15", stddev)
	}
}
