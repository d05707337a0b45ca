// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"fmt"
	"math"

	"github.com/cpmech/gosl/utl"
)

// Sample is one (t, state) pair handed to an Observer.
type Sample struct {
	T     float64
	State []float64
}

// ObserverFunc is called once per fixed-grid output point, in increasing t.
type ObserverFunc func(Sample) error

// EventsFunc mutates state in place at time t (system.Builder.HandleEvents or
// ApplyAssignmentRules, composed by the caller).
type EventsFunc func(state []float64, t float64) error

// Config bundles the numerical knobs the Driver needs beyond the Stepper
// itself (spec.md §4.6).
type Config struct {
	Start             float64
	Duration          float64
	StepInterval      float64
	AbsoluteTolerance float64
	RelativeTolerance float64
}

// Driver runs a Stepper over [Start, Start+Duration], sampling Observe at
// every multiple of StepInterval (inclusive of both ends) while internally
// taking as many adaptive steps as needed between grid points. Rules (the
// continuous assignment-rule policy) is applied at t=Start and after every
// accepted internal step; Events (discrete-event handling) is applied only
// after an internal step has actually been taken, never at t=Start itself —
// a trigger already true at t=Start must fire on the first post-start step,
// not retroactively at the start point (spec.md §4.6).
type Driver struct {
	Stepper Stepper
	Rules   EventsFunc
	Events  EventsFunc
	Observe ObserverFunc
	Cfg     Config

	// safety, minScale and maxScale are PI step-control tuning constants,
	// conventional values for embedded-pair step control (Hairer & Wanner,
	// "Solving ODEs I", II.4).
	safety, minScale, maxScale float64
	// piAlpha, piBeta are the PI-controller exponents; prevErrNorm carries
	// the previous accepted step's error norm across calls to nextH.
	piAlpha, piBeta float64
	prevErrNorm     float64
}

// NewDriver returns a Driver with conventional PI step-control constants.
// rules is applied at t=Start and after every accepted step; events is
// applied only after an accepted step (see Driver's doc comment).
func NewDriver(stepper Stepper, rules, events EventsFunc, observe ObserverFunc, cfg Config) *Driver {
	return &Driver{
		Stepper:     stepper,
		Rules:       rules,
		Events:      events,
		Observe:     observe,
		Cfg:         cfg,
		safety:      0.9,
		minScale:    0.2,
		maxScale:    5.0,
		piAlpha:     0.7,
		piBeta:      0.4,
		prevErrNorm: 1.0,
	}
}

// errorNorm computes the weighted RMS norm of errEst against y/yNext, per
// spec.md §4.6: atol + rtol*max(|y|,|yNext|) per component.
func (d *Driver) errorNorm(y, yNext, errEst []float64) float64 {
	n := len(errEst)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		scale := d.Cfg.AbsoluteTolerance
		mx := utl.Max(math.Abs(y[i]), math.Abs(yNext[i]))
		scale += d.Cfg.RelativeTolerance * mx
		if scale <= 0 {
			scale = d.Cfg.AbsoluteTolerance
			if scale <= 0 {
				scale = 1e-12
			}
		}
		r := errEst[i] / scale
		sum += r * r
	}
	return math.Sqrt(sum / float64(n))
}

// nextH applies PI step-size control (Hairer & Wanner's "PI.4.2" rule) to
// the step just taken, given its error norm; a norm of at most 1 marks an
// accepted step, and only such a norm is carried into prevErrNorm.
func (d *Driver) nextH(h, norm float64, order int) float64 {
	if norm <= 0 {
		norm = 1e-12
	}
	expA := d.piAlpha / float64(order+1)
	expB := d.piBeta / float64(order+1)
	scale := d.safety * math.Pow(1.0/norm, expA) * math.Pow(d.prevErrNorm, expB)
	scale = utl.Max(scale, d.minScale)
	scale = utl.Min(scale, d.maxScale)
	if norm <= 1.0 {
		d.prevErrNorm = norm
	}
	return h * scale
}

// Run integrates f starting from initial state y0 (not mutated) over the
// configured grid, invoking Rules at t=Start and after every accepted
// internal step, Events only after an accepted internal step, and Observe
// at every output grid point (spec.md §4.6, §8 "output grid includes both
// endpoints").
func (d *Driver) Run(f DxdtFunc, y0 []float64) error {
	n := len(y0)
	y := make([]float64, n)
	copy(y, y0)
	t := d.Cfg.Start

	emit := func() error {
		if d.Observe == nil {
			return nil
		}
		return d.Observe(Sample{T: t, State: append([]float64(nil), y...)})
	}

	if d.Rules != nil {
		if err := d.Rules(y, t); err != nil {
			return err
		}
	}
	if err := emit(); err != nil {
		return err
	}

	grid := d.Cfg.StepInterval
	if grid <= 0 {
		return fmt.Errorf("integrate: StepInterval must be positive")
	}
	nGrid := int(math.Round(d.Cfg.Duration / grid))

	h := grid
	yNext := make([]float64, n)
	errEst := make([]float64, n)
	order := d.Stepper.Order()

	for g := 1; g <= nGrid; g++ {
		targetT := d.Cfg.Start + float64(g)*grid
		eps := 1e-12 * utl.Max(1, math.Abs(targetT))
		for t < targetT-eps {
			step := utl.Min(h, targetT-t)
			accepted := false
			for !accepted {
				if err := d.Stepper.Step(f, t, step, y, yNext, errEst); err != nil {
					return err
				}
				if !d.Stepper.Adaptive() {
					accepted = true
					break
				}
				norm := d.errorNorm(y, yNext, errEst)
				if norm <= 1.0 {
					accepted = true
					h = d.nextH(step, norm, order)
				} else {
					step = d.nextH(step, norm, order)
					if step < 1e-14 {
						return fmt.Errorf("integrate: step size underflow at t=%g", t)
					}
				}
			}
			t += step
			copy(y, yNext)
			if d.Rules != nil {
				if err := d.Rules(y, t); err != nil {
					return err
				}
			}
			if d.Events != nil {
				if err := d.Events(y, t); err != nil {
					return err
				}
			}
		}
		t = targetT
		if err := emit(); err != nil {
			return err
		}
	}
	return nil
}
