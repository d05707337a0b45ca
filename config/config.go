// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the run configuration consumed by cmd/sbmlsim:
// the knob set spec.md §6 names plus two additions, StrictNames and
// Method. It follows the
// teacher's two-phase SetDefault/PostProcess convention (inp/sim.go) rather
// than validating inline in json.Unmarshal.
package config

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cpmech/gosl/chk"
)

// FieldKind names the namespace an output field is resolved against.
type FieldKind string

const (
	Species     FieldKind = "species"
	Compartment FieldKind = "compartment"
	Parameter   FieldKind = "parameter"
)

// OutputField names one column of the observer's CSV output.
type OutputField struct {
	Kind FieldKind `json:"kind"`
	ID   string    `json:"id"`
}

// Stepper names one of the four selectable integration methods.
type Stepper string

const (
	RK4         Stepper = "rk4"
	Dopri5      Stepper = "dopri5"
	Fehlberg78  Stepper = "fehlberg78"
	Rosenbrock4 Stepper = "rosenbrock4"
)

// RunConfiguration bundles every knob spec.md §6 recognizes, plus the
// StrictNames and Method options below.
type RunConfiguration struct {
	Start             float64       `json:"start"`
	Duration          float64       `json:"duration"`
	StepInterval      float64       `json:"stepInterval"`
	AbsoluteTolerance float64       `json:"absoluteTolerance"`
	RelativeTolerance float64       `json:"relativeTolerance"`
	OutputFields      []OutputField `json:"outputFields"`

	// StrictNames governs undefined-symbol resolution (SPEC_FULL.md §3,
	// resolving spec.md §9's Open Question): when true, an AST Name node
	// that resolves to none of species/compartment/parameter is a
	// reported error; when false (the default, matching the original's
	// silent-zero behavior) it evaluates to 0.
	StrictNames bool `json:"strictNames"`

	// Method selects the stepper; it is not part of spec.md's run
	// configuration struct proper but is the build/CLI-level knob that
	// chooses among the four Run* entry points (SPEC_FULL.md §3).
	Method Stepper `json:"method"`
}

// SetDefault fills every field that was left at its zero value with the
// conventional default, mirroring inp/sim.go's Data.SetDefault: called
// once, before PostProcess, never overwriting an explicitly-set value.
func (c *RunConfiguration) SetDefault() {
	if c.StepInterval == 0 {
		c.StepInterval = 0.1
	}
	if c.AbsoluteTolerance == 0 {
		c.AbsoluteTolerance = 1e-9
	}
	if c.RelativeTolerance == 0 {
		c.RelativeTolerance = 1e-6
	}
	if c.Method == "" {
		c.Method = Dopri5
	}
}

// PostProcess validates the configuration is internally consistent,
// panicking via gosl/chk on conditions that indicate a malformed input
// file rather than a recoverable runtime error, per the teacher's
// SolverData.PostProcess convention.
func (c *RunConfiguration) PostProcess() {
	if c.Duration < 0 {
		chk.Panic("config: duration must be non-negative, got %g", c.Duration)
	}
	if c.StepInterval <= 0 {
		chk.Panic("config: stepInterval must be positive, got %g", c.StepInterval)
	}
	switch c.Method {
	case RK4, Dopri5, Fehlberg78, Rosenbrock4:
	default:
		chk.Panic("config: unrecognized stepper method %q", c.Method)
	}
}

// Load reads a RunConfiguration as JSON from r, applies SetDefault, then
// PostProcess, and returns the ready-to-run configuration.
func Load(r io.Reader) (*RunConfiguration, error) {
	var c RunConfiguration
	dec := json.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("config: failed to decode run configuration: %w", err)
	}
	c.SetDefault()
	c.PostProcess()
	return &c, nil
}
