// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.21
//

package gorinex

import (
	"fmt"
	"math"
	"time"
)

type GTime struct {
	Week int
	Sec  float64
}

func NewGTime(dt time.Time) *GTime {
	t := dt.Unix()
	t -= time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC).Unix() // Elapsed seconds since 1980/1/6 00:00:00
	return &GTime{
		Week: int(t / (3600 * 24 * 7)),
		Sec:  float64(t%(3600*24*7)) + float64(dt.Nanosecond())/1000000000,
	}
}

func (p *GTime) ToTime() time.Time {
	o := time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC).Unix() // GPS time starts from 1980/1/6 00:00:00
	i := int64(math.Trunc(p.Sec))
	t := int64(3600*24*7*p.Week) + i + o
	n := int64((p.Sec - float64(i)) * 1e9)
	return time.Unix(t, n) // Unix time is the elapsed seconds since 1970/1/1 00:00:00
}

func (p *GTime) Less(b GTime, roundSec bool) bool {
	if p.Week == b.Week {
		if roundSec {
			return math.Round(p.Sec) < math.Round(b.Sec)
		}
		return p.Sec < b.Sec
	}
	return p.Week < b.Week
}

func (p *GTime) Divisible(sec int) bool {
	return int(math.Round(p.Sec))%sec == 0
}

// Expand a RINEX year to four digits. Two digit years 80-99 are 19xx, 00-79 are 20xx.
func FullYear(y int) int {
	switch {
	case y >= 100:
		return y
	case y >= 80:
		return y + 1900
	default:
		return y + 2000
	}
}

// Julian date of an epoch vector [year, month, day, hour, minute, second]
func JulianDate(epoch []float64) (float64, error) {
	if len(epoch) < 6 {
		return 0, fmt.Errorf("%w: %d of 6 components", ErrIncompleteEpoch, len(epoch))
	}
	y := FullYear(int(epoch[0]))
	m := int(epoch[1])
	d := epoch[2]
	utc := epoch[3] + epoch[4]/60 + epoch[5]/3600
	// January and February are months 13 and 14 of the previous year
	if m <= 2 {
		y -= 1
		m += 12
	}
	jd := math.Floor(365.25*float64(y)) + math.Floor(30.6001*float64(m+1)) + d + utc/24 + 1720981.5
	return jd, nil
}

// Convert an epoch vector to GPS week and seconds of week (rounded to 0.01 s)
func GPSWeekTime(epoch []float64) (GTime, error) {
	jd, err := JulianDate(epoch)
	if err != nil {
		return GTime{}, err
	}
	w := (jd - JDGPSEpoch) / 7
	week := math.Floor(w)
	tow := math.Round((w-week)*SecPerWeek*100) / 100
	return GTime{Week: int(week), Sec: tow}, nil
}

// Convert an epoch vector to GPS seconds of week
func GPSTime(epoch []float64) (float64, error) {
	gt, err := GPSWeekTime(epoch)
	if err != nil {
		return 0, err
	}
	return gt.Sec, nil
}

// Format the time of day of an epoch vector as HH:MM:SS
func EpochClock(epoch []float64) string {
	if len(epoch) < 6 {
		return "--:--:--"
	}
	return fmt.Sprintf("%02d:%02d:%02d", int(epoch[3]), int(epoch[4]), int(epoch[5]))
}
