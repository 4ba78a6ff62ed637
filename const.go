// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.21
//

package gorinex

const (
	PI          = 3.1415926535897932  // Pi
	Re          = 6378137.0           // Earth's radius [m]
	Fe          = 1.0 / 298.257223563 // Earth's flattening
	JDGPSEpoch  = 2444244.5           // Julian date of GPS time origin (1980/1/6 00:00:00)
	SecPerWeek  = 604800.0            // Seconds in one GPS week
	SecPerDay   = 86400.0             // Seconds in one day
	LineWidth   = 80                  // Physical width of a RINEX record
	LabelColumn = 60                  // Start column of HEADER LABEL
)

// Header labels
const (
	labelVersion   = "RINEX VERSION / TYPE"
	labelComment   = "COMMENT"
	labelMarker    = "MARKER NAME"
	labelPosition  = "APPROX POSITION XYZ"
	labelAntDelta  = "ANTENNA: DELTA H/E/N"
	labelTypesV2   = "# / TYPES OF OBSERV"
	labelTypesV3   = "SYS / # / OBS TYPES"
	labelInterval  = "INTERVAL"
	labelFirstObs  = "TIME OF FIRST OBS"
	labelLastObs   = "TIME OF LAST OBS"
	labelLeap      = "LEAP SECONDS"
	labelIonAlpha  = "ION ALPHA"
	labelIonBeta   = "ION BETA"
	labelDeltaUTC  = "DELTA-UTC: A0,A1,T,W"
	labelIonoCorr  = "IONOSPHERIC CORR"
	labelTimeCorr  = "TIME SYSTEM CORR"
	labelGloCorr   = "CORR TO SYSTEM TIME"
	labelEndHeader = "END OF HEADER"
)
