// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modelview

// RunState is the per-simulation mutable companion to a ModelView: event
// trigger latches, and compartment sizes / parameter values as they may be
// rebound by initial assignments and assignment rules (spec.md §3
// InitialAssignment/AssignmentRule, §5 "Shared mutable state within a
// run"). Keeping this out of ModelView is what lets one ModelView safely
// back several concurrent runs (§9 REDESIGN FLAGS, "Global mutable event
// state").
type RunState struct {
	CompartmentSizes  []float64
	ParameterValues   []float64
	eventTriggerState []bool
}

// NewRunState returns a RunState seeded from mv's immutable defaults.
func NewRunState(mv *ModelView) *RunState {
	rs := &RunState{
		CompartmentSizes:  make([]float64, len(mv.Compartments)),
		ParameterValues:   make([]float64, len(mv.Parameters)),
		eventTriggerState: make([]bool, len(mv.Events)),
	}
	for i, c := range mv.Compartments {
		rs.CompartmentSizes[i] = c.Size
	}
	for i, p := range mv.Parameters {
		rs.ParameterValues[i] = p.Value
	}
	return rs
}

// TriggerState reports whether event i last evaluated to true (the rising-
// edge latch described in spec.md §3 Event invariant).
func (rs *RunState) TriggerState(i int) bool { return rs.eventTriggerState[i] }

// SetTriggerState updates the latch for event i.
func (rs *RunState) SetTriggerState(i int, v bool) { rs.eventTriggerState[i] = v }
