// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package timing implements the interpolation timing corrector (§4.3):
// given the emit timestamp of a snapshot, the dispatch wall-clock time,
// and the control update period, it produces a smoothed target time that
// keeps the interpolation factor inside [0,1] under jitter.
package timing

// smoothWindow bounds the moving-average window to roughly 100 samples,
// per §4.3.
const smoothWindow = 100

// Corrector holds the running moving average of emit-to-dispatch delta.
// The zero value starts with a zero correction and warms up over the
// first smoothWindow samples.
type Corrector struct {
	avg  float64
	n    int
}

// New returns a ready Corrector.
func New() *Corrector { return &Corrector{} }

// observe folds one new delta sample into the running average using an
// exponentially-weighted update that converges to a simple average over
// roughly smoothWindow samples.
func (c *Corrector) observe(delta float64) float64 {
	if c.n < smoothWindow {
		c.n++
	}
	weight := 1.0 / float64(c.n)
	c.avg += (delta - c.avg) * weight
	return c.avg
}

// Target computes the target interpolation time given the emit
// timestamp, the current dispatch wall-clock time, and the control
// update period (§4.3):
//
//	delta_i    = emit_i − dispatch_i
//	correction = smoothed_average(delta, window ≈ 100 samples)
//	target     = max(emit_i, dispatch_i + correction + period/2)
func (c *Corrector) Target(emit, dispatch, period float64) float64 {
	delta := emit - dispatch
	correction := c.observe(delta)
	target := dispatch + correction + period/2
	if emit > target {
		target = emit
	}
	return target
}

// Factor saturates (target-emit)/period into [0,1], the value callers
// use to interpolate between the previous and current snapshot pose.
func Factor(target, emit, period float64) float64 {
	if period <= 0 {
		return 0
	}
	f := (target - emit) / period
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
