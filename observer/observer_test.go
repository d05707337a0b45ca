// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package observer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/gosbml/sbmlsim/config"
	"github.com/gosbml/sbmlsim/modelview"
	"github.com/gosbml/sbmlsim/sbml"
)

func buildView(tst *testing.T) *modelview.ModelView {
	model := &sbml.Model{
		Compartments: []sbml.Compartment{{ID: "c", Size: 1, Constant: true}},
		Species:      []sbml.Species{{ID: "A", CompartmentID: "c", InitialAmount: 1.0, HasOnlySubstanceUnits: true}},
		Parameters:   []sbml.Parameter{{ID: "k", Value: 0.5, Scope: sbml.Global}},
	}
	mv, err := modelview.Build(model)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	return mv
}

func Test_csvHeaderWrittenOnce01(tst *testing.T) {

	chk.PrintTitle("csvHeaderWrittenOnce01")

	mv := buildView(tst)
	rs := modelview.NewRunState(mv)
	var buf bytes.Buffer
	obs, err := NewCSV(&buf, mv, []config.OutputField{
		{Kind: config.Species, ID: "A"},
		{Kind: config.Parameter, ID: "k"},
	})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	if err := obs.Write(rs, []float64{1.0}, 0.0); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if err := obs.Write(rs, []float64{0.5}, 0.1); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	chk.IntAssert(len(lines), 3) // header + 2 rows
	if lines[0] != "t,A,k" {
		tst.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "0,1,0.5" {
		tst.Fatalf("unexpected first row: %q", lines[1])
	}
}

func Test_csvUnknownFieldErrors01(tst *testing.T) {

	chk.PrintTitle("csvUnknownFieldErrors01")

	mv := buildView(tst)
	var buf bytes.Buffer
	_, err := NewCSV(&buf, mv, []config.OutputField{{Kind: config.Species, ID: "nope"}})
	if err == nil {
		tst.Fatalf("expected an error for an unknown species field")
	}
}
