// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.27
//

package gorinex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ephemeridesAt(times ...float64) []Ephemeris {
	a := make([]Ephemeris, len(times))
	for i, t := range times {
		a[i] = &GPSEphemeris{ephemerisHeader: ephemerisHeader{Sat: "G01", Time: t, Available: true}}
	}
	return a
}

func TestMatchEpoch(t *testing.T) {
	assert := assert.New(t)

	records := ephemeridesAt(100, 200, 350)
	tests := []struct {
		t    float64
		want int
	}{
		{260, 1},
		{0, 0},
		{100, 0},
		{349, 2},
		{1000, 2},
		{275, 1}, // Equally close to 200 and 350
		{150, 0}, // Equally close to 100 and 200
	}
	for _, tt := range tests {
		i, err := MatchEpoch(tt.t, records)
		assert.NoError(err)
		assert.Equal(tt.want, i, "t=%v", tt.t)
	}

	// Equal times: the first one in the list
	i, err := MatchEpoch(300, ephemeridesAt(500, 300, 300))
	assert.NoError(err)
	assert.Equal(1, i)
}

func TestMatchEpochEmpty(t *testing.T) {
	assert := assert.New(t)

	_, err := MatchEpoch(100, nil)
	assert.ErrorIs(err, ErrNoEphemeris)
	_, err = MatchEpoch(100, []Ephemeris{})
	assert.ErrorIs(err, ErrNoEphemeris)
}
