// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.21
//

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	m "github.com/mkhts/gorinex"
	"gopkg.in/yaml.v3"
)

// Settings that can be given in a YAML file instead of command line options
type fileConfig struct {
	Obs      string   `yaml:"obs"`
	Nav      string   `yaml:"nav"`
	Out      string   `yaml:"out"`
	Log      string   `yaml:"log"`
	Metrics  string   `yaml:"metrics"`
	Codes    []string `yaml:"codes"`
	Sys      []string `yaml:"sys"`
	Interval int      `yaml:"interval"`
	Debug    int      `yaml:"debug"`
}

// Read a YAML config file. Unknown keys are an error.
func loadConfig(fn string) (*fileConfig, error) {
	b, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	return parseConfig(b)
}

func parseConfig(b []byte) (*fileConfig, error) {
	var c fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}

// Apply the file settings to the options that were not given on the command line
func (c *fileConfig) applyTo(a *cmdOpt, set map[string]bool) error {
	if a.obsFn == "" {
		a.obsFn = c.Obs
	}
	if a.navFn == "" {
		a.navFn = c.Nav
	}
	if !set["o"] && c.Out != "" {
		a.outFn = c.Out
	}
	if !set["log"] && c.Log != "" {
		a.logFn = c.Log
	}
	if !set["metrics"] && c.Metrics != "" {
		a.metricsFn = c.Metrics
	}
	if !set["ti"] && c.Interval != 0 {
		a.ti = c.Interval
	}
	if !set["x"] && c.Debug != 0 {
		a.dbg = c.Debug
	}
	if !set["codes"] && len(c.Codes) > 0 {
		a.codes = a.codes[:0]
		for _, s := range c.Codes {
			a.codes = append(a.codes, m.CodeType(s))
		}
	}
	if !set["sys"] && len(c.Sys) > 0 {
		a.sys = a.sys[:0]
		for _, s := range c.Sys {
			var sv m.SysVar
			if err := sv.Set(s); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			a.sys = append(a.sys, sv...)
		}
	}
	return nil
}
