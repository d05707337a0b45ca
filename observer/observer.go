// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package observer streams (t, selected-fields) rows to an output sink, the
// one program output that is not a diagnostic (spec.md §4.8). It mirrors
// the original's StdoutCsvObserver: a header line written once, then one
// delimited row per sample, with no state carried between calls beyond the
// header-written flag.
package observer

import (
	"fmt"
	"io"

	"github.com/gosbml/sbmlsim/config"
	"github.com/gosbml/sbmlsim/modelview"
)

// resolved is a config.OutputField bound to a concrete index into a
// ModelView/RunState.
type resolved struct {
	label string
	kind  config.FieldKind
	index int
}

// CSV writes a header row once, then one row per Write call, to Sink.
// It is stateless between calls other than the one-shot header flag,
// exactly as spec.md §4.8 requires.
type CSV struct {
	Sink   io.Writer
	fields []resolved
	wrote  bool
}

// NewCSV resolves the requested fields against mv once, at construction
// time, and returns a CSV observer ready to stream rows.
func NewCSV(sink io.Writer, mv *modelview.ModelView, fields []config.OutputField) (*CSV, error) {
	c := &CSV{Sink: sink}
	for _, f := range fields {
		r, err := resolve(mv, f)
		if err != nil {
			return nil, err
		}
		c.fields = append(c.fields, r)
	}
	return c, nil
}

func resolve(mv *modelview.ModelView, f config.OutputField) (resolved, error) {
	switch f.Kind {
	case config.Species:
		i, ok := mv.SpeciesIndex(f.ID)
		if !ok {
			return resolved{}, fmt.Errorf("observer: unknown species field %q", f.ID)
		}
		return resolved{label: f.ID, kind: f.Kind, index: i}, nil
	case config.Compartment:
		i, ok := mv.CompartmentIndex(f.ID)
		if !ok {
			return resolved{}, fmt.Errorf("observer: unknown compartment field %q", f.ID)
		}
		return resolved{label: f.ID, kind: f.Kind, index: i}, nil
	case config.Parameter:
		for i, p := range mv.Parameters {
			if p.ID == f.ID {
				return resolved{label: f.ID, kind: f.Kind, index: i}, nil
			}
		}
		return resolved{}, fmt.Errorf("observer: unknown parameter field %q", f.ID)
	default:
		return resolved{}, fmt.Errorf("observer: unrecognized field kind %q", f.Kind)
	}
}

// Write emits the header (first call only) then one row projecting state
// at time t onto the configured fields. Species and parameter values come
// straight from state/ParameterValues; compartment values come from
// RunState.CompartmentSizes since compartment size can itself be assigned.
func (c *CSV) Write(rs *modelview.RunState, state []float64, t float64) error {
	if !c.wrote {
		if err := c.writeHeader(); err != nil {
			return err
		}
		c.wrote = true
	}
	if _, err := fmt.Fprintf(c.Sink, "%g", t); err != nil {
		return err
	}
	for _, f := range c.fields {
		var v float64
		switch f.kind {
		case config.Species:
			v = state[f.index]
		case config.Compartment:
			v = rs.CompartmentSizes[f.index]
		case config.Parameter:
			v = rs.ParameterValues[f.index]
		}
		if _, err := fmt.Fprintf(c.Sink, ",%g", v); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(c.Sink, "\n")
	return err
}

func (c *CSV) writeHeader() error {
	if _, err := fmt.Fprint(c.Sink, "t"); err != nil {
		return err
	}
	for _, f := range c.fields {
		if _, err := fmt.Fprintf(c.Sink, ",%s", f.label); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(c.Sink, "\n")
	return err
}
