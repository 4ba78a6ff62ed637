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

	"gonum.org/v1/gonum/spatial/r3"
)

//-------------------------------------------------------------------
// PosLLH
//-------------------------------------------------------------------

// Geodetic position [rad, rad, m]
type PosLLH struct {
	Lat float64
	Lon float64
	Hei float64
}

func (llh *PosLLH) ToXYZ() PosXYZ {
	// Ellipsoid parameters
	f := Fe                     // Flattening
	a := Re                     // Semi-major axis
	e := math.Sqrt(f * (2 - f)) // Eccentricity

	// Conversion to Cartesian coordinates
	n := a / math.Sqrt(1-e*e*math.Sin(llh.Lat)*math.Sin(llh.Lat))
	return PosXYZ{
		X: (n + llh.Hei) * math.Cos(llh.Lat) * math.Cos(llh.Lon),
		Y: (n + llh.Hei) * math.Cos(llh.Lat) * math.Sin(llh.Lon),
		Z: (n*(1-e*e) + llh.Hei) * math.Sin(llh.Lat),
	}
}

// Convert to string in degrees
func (llh *PosLLH) String() string {
	return fmt.Sprintf("%.8f %.8f %.4f", ToDeg(llh.Lat), ToDeg(llh.Lon), llh.Hei)
}

//-------------------------------------------------------------------
// PosXYZ
//-------------------------------------------------------------------

// ECEF position [m]
type PosXYZ struct {
	X float64
	Y float64
	Z float64
}

func (pos PosXYZ) Vec() r3.Vec {
	return r3.Vec{X: pos.X, Y: pos.Y, Z: pos.Z}
}

func fromVec(v r3.Vec) PosXYZ {
	return PosXYZ{X: v.X, Y: v.Y, Z: v.Z}
}

// Distance from the geocenter
func (pos PosXYZ) Norm() float64 {
	return r3.Norm(pos.Vec())
}

func (pos PosXYZ) IsZero() bool {
	return pos.X == 0 && pos.Y == 0 && pos.Z == 0
}

// True if the position is within 100 km of the ellipsoid surface
func (pos PosXYZ) NearSurface() bool {
	llh := pos.ToLLH()
	return math.Abs(llh.Hei) < 100e3
}

func (pos *PosXYZ) ToLLH() PosLLH {
	// In case of origin
	if pos.X == 0 && pos.Y == 0 && pos.Z == 0 {
		return PosLLH{Lat: 0, Lon: 0, Hei: -Re}
	}

	// Ellipsoid parameters
	f := Fe                     // Flattening
	a := Re                     // Semi-major axis
	b := a * (1 - f)            // Semi-minor axis
	e := math.Sqrt(f * (2 - f)) // Eccentricity

	// Parameters for coordinate transformation
	h := a*a - b*b
	p := math.Hypot(pos.X, pos.Y)
	t := math.Atan2(pos.Z*a, p*b)
	sint := math.Sin(t)
	cost := math.Cos(t)

	// Conversion to latitude and longitude
	lat := math.Atan2(pos.Z+h/b*sint*sint*sint, p-h/a*cost*cost*cost)
	lon := math.Atan2(pos.Y, pos.X)
	n := a / math.Sqrt(1-e*e*math.Sin(lat)*math.Sin(lat)) // Radius of curvature in the prime vertical
	hei := p/math.Cos(lat) - n
	return PosLLH{Lat: lat, Lon: lon, Hei: hei}
}

//-------------------------------------------------------------------
// PosENU
//-------------------------------------------------------------------

// Local east/north/up offset [m]
type PosENU struct {
	E float64
	N float64
	U float64
}

// Position of the offset from the reference location
func (enu *PosENU) ToXYZ(base PosXYZ) PosXYZ {
	// Latitude and longitude of the reference location
	llh := base.ToLLH()
	s1 := math.Sin(llh.Lon)
	c1 := math.Cos(llh.Lon)
	s2 := math.Sin(llh.Lat)
	c2 := math.Cos(llh.Lat)

	// Unit vectors of the local frame
	east := r3.Vec{X: -s1, Y: c1, Z: 0}
	north := r3.Vec{X: -c1 * s2, Y: -s1 * s2, Z: c2}
	up := r3.Vec{X: c1 * c2, Y: s1 * c2, Z: s2}

	d := r3.Add(r3.Add(r3.Scale(enu.E, east), r3.Scale(enu.N, north)), r3.Scale(enu.U, up))
	return fromVec(r3.Add(base.Vec(), d))
}

// Antenna reference point: the approximate marker position shifted by the antenna delta H/E/N
func (h *ObsHeader) AntennaPos() PosXYZ {
	if h.ApproxPos.IsZero() {
		return h.ApproxPos
	}
	enu := PosENU{E: h.AntDelta.E, N: h.AntDelta.N, U: h.AntDelta.H}
	return enu.ToXYZ(h.ApproxPos)
}
