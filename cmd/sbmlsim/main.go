// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	sbmlsim "github.com/gosbml/sbmlsim"
	"github.com/gosbml/sbmlsim/config"
	"github.com/gosbml/sbmlsim/sbml"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	modelPath, _ := io.ArgToFilename(0, "", ".json", true)
	configPath, _ := io.ArgToFilename(1, "", ".json", true)
	verbose := io.ArgToBool(2, true)

	if verbose {
		io.PfWhite("\nsbmlsim -- biochemical reaction network simulator\n\n")
		io.Pf("\n%v\n", io.ArgsTable(
			"model file (JSON-serialized sbml.Document)", "modelPath", modelPath,
			"run configuration file", "configPath", configPath,
			"show messages", "verbose", verbose,
		))
	}

	doc, err := loadModel(modelPath)
	if err != nil {
		chk.Panic("failed to load model: %v", err)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		chk.Panic("failed to load run configuration: %v", err)
	}

	if verbose {
		io.Pf("running with stepper=%v start=%v duration=%v stepInterval=%v\n",
			cfg.Method, cfg.Start, cfg.Duration, cfg.StepInterval)
	}

	if err := sbmlsim.RunWithConfig(doc, cfg, os.Stdout); err != nil {
		chk.Panic("run failed: %v", err)
	}
}

func loadModel(path string) (*sbml.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var doc sbml.Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func loadConfig(path string) (*config.RunConfiguration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return config.Load(f)
}
