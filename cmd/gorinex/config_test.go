// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.27
//

package main

import (
	"os"
	"path/filepath"
	"testing"

	m "github.com/mkhts/gorinex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	assert := assert.New(t)

	c, err := parseConfig([]byte(`
obs: site0740.19o
nav: brdc0740.19n
out: out.txt
codes: [C1, P2]
sys: [G, R]
interval: 30
debug: 1
`))
	require.NoError(t, err)
	assert.Equal("site0740.19o", c.Obs)
	assert.Equal([]string{"C1", "P2"}, c.Codes)
	assert.Equal(30, c.Interval)

	_, err = parseConfig([]byte("unknown: 1\n"))
	assert.Error(err)

	c, err = parseConfig(nil)
	assert.NoError(err)
	assert.Equal("", c.Obs)
}

func TestApplyConfig(t *testing.T) {
	assert := assert.New(t)

	c := &fileConfig{Obs: "a.obs", Nav: "a.nav", Out: "cfg.txt", Codes: []string{"C1C"}, Sys: []string{"G", "E"}, Interval: 30}
	a := cmdOpt{outFn: "cli.txt", ti: 5}
	require.NoError(t, c.applyTo(&a, map[string]bool{"o": true, "ti": true}))
	assert.Equal("a.obs", a.obsFn)
	assert.Equal("a.nav", a.navFn)
	assert.Equal("cli.txt", a.outFn) // Command line wins
	assert.Equal(5, a.ti)
	assert.Equal(m.CodeVar{"C1C"}, a.codes)
	assert.Equal(m.SysVar{'G', 'E'}, a.sys)

	c = &fileConfig{Sys: []string{"X"}}
	assert.Error(c.applyTo(&a, map[string]bool{}))
}

func TestParseArgsWithConfig(t *testing.T) {
	assert := assert.New(t)

	fn := filepath.Join(t.TempDir(), "gorinex.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("obs: x.obs\nnav: x.nav\ncodes: [C1C, L1C]\n"), 0o644))

	a, err := parseArgs([]string{"-c", fn, "-codes", "S1C"})
	require.NoError(t, err)
	assert.Equal("x.obs", a.obsFn)
	assert.Equal("x.nav", a.navFn)
	assert.Equal(m.CodeVar{"S1C"}, a.codes)

	a, err = parseArgs([]string{"-ti", "30", "y.obs", "y.nav"})
	require.NoError(t, err)
	assert.Equal("y.obs", a.obsFn)
	assert.Equal(30, a.ti)

	_, err = parseArgs([]string{"only.obs"})
	assert.Error(err)
	_, err = parseArgs([]string{})
	assert.Error(err)
}
