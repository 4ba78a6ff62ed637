// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.21
//

package gorinex

import "math"

// Return the index of the record closest in time to t.
// The first record wins when two are equally close.
func MatchEpoch(t float64, records []Ephemeris) (int, error) {
	if len(records) == 0 {
		return 0, ErrNoEphemeris
	}
	j := 0
	diff := math.Abs(t - records[0].GPSTime())
	for i := 1; i < len(records); i++ {
		if d := math.Abs(t - records[i].GPSTime()); d < diff {
			diff = d
			j = i
		}
	}
	return j, nil
}
