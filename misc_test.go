// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.27
//

package gorinex

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSysVar(t *testing.T) {
	assert := assert.New(t)

	var v SysVar
	assert.True(v.Contains('R')) // Empty means all

	assert.NoError(v.Set("G,E"))
	assert.Equal("G,E", v.String())
	assert.True(v.Contains('G'))
	assert.False(v.Contains('R'))

	assert.Error(v.Set("G,X"))
}

func TestCodeVar(t *testing.T) {
	assert := assert.New(t)

	var v CodeVar
	assert.NoError(v.Set("C1C, L1C,,"))
	assert.Equal(CodeVar{"C1C", "L1C"}, v)
	assert.Equal("C1C,L1C", v.String())
}

func TestNewLogger(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	ctx := context.Background()
	assert.False(NewLogger(&buf, 0).Enabled(ctx, slog.LevelInfo))
	assert.True(NewLogger(&buf, 0).Enabled(ctx, slog.LevelWarn))
	assert.True(NewLogger(&buf, 1).Enabled(ctx, slog.LevelInfo))
	assert.False(NewLogger(&buf, 1).Enabled(ctx, slog.LevelDebug))
	assert.True(NewLogger(&buf, 2).Enabled(ctx, slog.LevelDebug))

	NewLogger(&buf, 0).Warn("discarding epoch", "epoch", fmtEpoch([]float64{19, 3, 15, 12, 0, 0.5}))
	assert.Contains(buf.String(), "epoch=\"19 3 15 12 0 0.5\"")
}
