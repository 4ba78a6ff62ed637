// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.27
//

package gorinex

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosConversion(t *testing.T) {
	assert := assert.New(t)

	llh := PosLLH{Lat: 35.71 * PI / 180, Lon: 139.81 * PI / 180, Hei: 40}
	xyz := llh.ToXYZ()
	assert.True(xyz.NearSurface())
	assert.InDelta(6.37e6, xyz.Norm(), 2e4)

	back := xyz.ToLLH()
	assert.InDelta(llh.Lat, back.Lat, 1e-9)
	assert.InDelta(llh.Lon, back.Lon, 1e-9)
	assert.InDelta(llh.Hei, back.Hei, 1e-3)
	assert.Contains(back.String(), "35.71")

	origin := PosXYZ{}
	assert.True(origin.IsZero())
	assert.Equal(-Re, origin.ToLLH().Hei)
	assert.False((PosXYZ{X: 4e7}).NearSurface())
}

func TestPosENU(t *testing.T) {
	assert := assert.New(t)

	base := (&PosLLH{Lat: 0, Lon: 0, Hei: 0}).ToXYZ()
	up := (&PosENU{U: 10}).ToXYZ(base)
	assert.InDelta(Re+10, up.X, 1e-6)
	east := (&PosENU{E: 5}).ToXYZ(base)
	assert.InDelta(5, east.Y, 1e-6)
	north := (&PosENU{N: 3}).ToXYZ(base)
	assert.InDelta(3, north.Z, 1e-6)
}

func TestAntennaPos(t *testing.T) {
	assert := assert.New(t)

	h, err := ReadObsHeader(NewLineReader(strings.NewReader(obsHeaderV2("C1", "L1"))))
	require.NoError(t, err)

	arp := h.AntennaPos()
	d := math.Sqrt(math.Pow(arp.X-h.ApproxPos.X, 2) + math.Pow(arp.Y-h.ApproxPos.Y, 2) + math.Pow(arp.Z-h.ApproxPos.Z, 2))
	assert.InDelta(1.234, d, 1e-6)
	assert.Greater(arp.Norm(), h.ApproxPos.Norm())

	h.ApproxPos = PosXYZ{}
	assert.True(h.AntennaPos().IsZero())
}
