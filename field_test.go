// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.27
//

package gorinex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloat(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{strings.Repeat(" ", 19), 0},
		{" -1.234567890123D-04", -1.234567890123e-04},
		{"  .1676D-07", 0.1676e-07},
		{"1.5d+02", 150},
		{"  23629347.915", 23629347.915},
		{"1.0E+03", 1000},
	}
	for _, tt := range tests {
		v, err := ParseFloat(tt.in)
		assert.NoError(err, tt.in)
		assert.InDelta(tt.want, v, 1e-15, tt.in)
	}

	_, err := ParseFloat("1.2.3")
	assert.ErrorIs(err, ErrMalformedField)
	_, err = ParseFloat("abc")
	assert.ErrorIs(err, ErrMalformedField)
}

func TestParseInt(t *testing.T) {
	assert := assert.New(t)

	v, err := ParseInt("  12")
	assert.NoError(err)
	assert.Equal(12, v)

	v, err = ParseInt("   ")
	assert.NoError(err)
	assert.Equal(0, v)

	_, err = ParseInt("1x")
	assert.ErrorIs(err, ErrMalformedField)
}

func TestField(t *testing.T) {
	assert := assert.New(t)

	line := "G01 2019 03 15 12 00 00"
	assert.Equal("G01", Field(line, 0, 3))
	assert.Equal("2019 03 15 12 00 00", Field(line, 3, 20))
	assert.Equal("00", Field(line, 21, 10)) // Cut at the end of the line
	assert.Equal("", Field(line, 30, 5))
	assert.Equal("", Field(line, 0, 0))

	f, err := FieldFloat("   .133179128170D-06", 3, 19)
	assert.NoError(err)
	assert.InDelta(0.133179128170e-06, f, 1e-20)

	n, err := FieldInt("     4    C1    L1", 0, 6)
	assert.NoError(err)
	assert.Equal(4, n)
}

func TestSplitSlots(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]string{"abc", "def", "g"}, SplitSlots("abcdefg", 3))
	assert.Empty(SplitSlots("", 3))
	assert.Nil(SplitSlots("abc", 0))

	// Concatenated 19 column parameters with a blank slot in the middle
	s := navSlot(1.5) + navSlot(blank) + navSlot(-2)
	slots := SplitSlots(s, 19)
	assert.Len(slots, 3)
	assert.True(isBlank(slots[1]))
	v, err := ParseFloat(slots[2])
	assert.NoError(err)
	assert.Equal(-2.0, v)
}

func TestPadLine(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ab   ", PadLine("ab", 5))
	assert.Equal("abcdef", PadLine("abcdef", 5))
	assert.Len(PadLine("", LineWidth), LineWidth)
}

func TestHeaderLabel(t *testing.T) {
	assert := assert.New(t)

	line := hdrLine("     2.11", labelVersion)
	assert.Equal(labelVersion, getHeaderLabel(line))
	assert.Equal("", getHeaderLabel("short line"))
	assert.Len(headerData(line), LabelColumn)
}

func TestParseNumbers(t *testing.T) {
	assert := assert.New(t)

	v := parseNumbers("  2019     3    15    12     0    0.0000000     GPS")
	assert.Equal([]float64{2019, 3, 15, 12, 0, 0}, v)
	assert.Empty(parseNumbers("GPS"))
}
