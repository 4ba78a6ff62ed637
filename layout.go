// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.21
//

package gorinex

// Column layouts of the record bodies. All offsets are 0-based.

// Layout of a navigation message record
type navLayout struct {
	satOff, satWidth     int // Satellite identifier on the first line
	epochOff, epochWidth int // Epoch [year month day hour minute second] on the first line
	paramOff             int // First parameter on the first line
	contOff              int // First parameter on the continuation lines
	slotWidth            int // Width of one parameter
}

var navLayouts = map[int]navLayout{
	2: {satOff: 0, satWidth: 2, epochOff: 2, epochWidth: 20, paramOff: 22, contOff: 3, slotWidth: 19},
	3: {satOff: 0, satWidth: 3, epochOff: 3, epochWidth: 20, paramOff: 23, contOff: 4, slotWidth: 19},
}

// Block size and parameter mapping of one satellite system
type navBlock struct {
	lines     int // Physical lines per record
	minParams int // Mandatory parameters (optional trailing ones may follow)
	build     func(hdr ephemerisHeader, p []float64) Ephemeris
}

var navBlocks = map[SysType]navBlock{
	'G': {lines: 8, minParams: 27, build: newGPSEphemeris},
	'J': {lines: 8, minParams: 27, build: newGPSEphemeris},
	'C': {lines: 8, minParams: 25, build: newBeidouEphemeris},
	'E': {lines: 8, minParams: 26, build: newGalileoEphemeris},
	'R': {lines: 4, minParams: 15, build: newGlonassEphemeris},
}

// Layout of an observation epoch
type obsLayout struct {
	marker         string // Leading characters of an epoch line ("" for RINEX 2)
	epochOff       int    // Epoch fields start
	epochWidth     int
	flagOff        int // Epoch flag
	countOff       int // Number of satellites (or special records)
	countWidth     int
	satListOff     int // Satellite list (RINEX 2 only)
	satsPerLine    int
	clockOff       int // Receiver clock offset
	clockWidth     int
	satIDWidth     int // Satellite identifier at the head of each data line (RINEX 3 only)
	typesPerLine   int // Observations per physical line (RINEX 2 only)
	slotWidth      int // One observation: value, LLI, signal strength
	valueWidth     int
	physicalLength int // Lines are padded to this length before concatenation
}

var obsLayouts = map[int]obsLayout{
	2: {
		epochOff: 0, epochWidth: 26, flagOff: 28, countOff: 29, countWidth: 3,
		satListOff: 32, satsPerLine: 12, clockOff: 68, clockWidth: 12,
		typesPerLine: 5, slotWidth: 16, valueWidth: 14, physicalLength: LineWidth,
	},
	3: {
		marker: ">", epochOff: 1, epochWidth: 28, flagOff: 31, countOff: 32, countWidth: 3,
		clockOff: 41, clockWidth: 15, satIDWidth: 3, slotWidth: 16, valueWidth: 14,
	},
}
