// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.21
//

package gorinex

import (
	"fmt"
	"strings"
)

// Ephemeris is one broadcast navigation message of one satellite.
// The concrete type is *GPSEphemeris, *GlonassEphemeris, *GalileoEphemeris or *BeidouEphemeris.
type Ephemeris interface {
	SatID() SatType
	GPSTime() float64 // Time of clock as GPS seconds of week
	IsAvailable() bool
	String() string
	ephemeris()
}

// Fields common to all systems
type ephemerisHeader struct {
	Sat       SatType
	Epoch     []float64 // Time of clock [year month day hour minute second]
	Time      float64   // Time of clock as GPS seconds of week
	Available bool
}

func (e *ephemerisHeader) SatID() SatType    { return e.Sat }
func (e *ephemerisHeader) GPSTime() float64  { return e.Time }
func (e *ephemerisHeader) IsAvailable() bool { return e.Available }
func (e *ephemerisHeader) ephemeris()        {}

func (e *ephemerisHeader) title(sb *strings.Builder) {
	sb.WriteString(fmt.Sprintf("### Nav. for %s (%c, %d)\n", e.Sat, e.Sat.Sys(), e.Sat.Num()))
	sb.WriteString(fmt.Sprintf("    Toc: %s (%.2f)\n", fmtEpoch(e.Epoch), e.Time))
}

// GPS, QZSS and BeiDou Keplerian ephemeris
type GPSEphemeris struct {
	ephemerisHeader
	ClockBias      float64 // af0 [s]
	ClockDrift     float64 // af1 [s/s]
	ClockDriftRate float64 // af2 [s/s^2]
	IODE           float64
	Crs            float64
	DeltaN         float64
	M0             float64
	Cuc            float64
	Ecc            float64
	Cus            float64
	SqrtA          float64
	Toe            float64
	Cic            float64
	Omega0         float64
	Cis            float64
	I0             float64
	Crc            float64
	Omega          float64
	OmegaDot       float64
	IDOT           float64
	L2Codes        float64
	Week           float64
	L2PFlag        float64
	SVAccuracy     float64
	SVHealth       float64
	TGD            float64
	IODC           float64
	TransTime      float64 // Transmission time of message (optional)
	FitInterval    float64 // Fit interval (optional)
}

// Keplerian parameters shared by GPS, Galileo and BeiDou, p[0:20]
func keplerian(p []float64) (k [20]float64) {
	copy(k[:], p)
	return
}

func newGPSEphemeris(hdr ephemerisHeader, p []float64) Ephemeris {
	k := keplerian(p)
	e := &GPSEphemeris{
		ephemerisHeader: hdr,
		ClockBias:       k[0],
		ClockDrift:      k[1],
		ClockDriftRate:  k[2],
		IODE:            k[3],
		Crs:             k[4],
		DeltaN:          k[5],
		M0:              k[6],
		Cuc:             k[7],
		Ecc:             k[8],
		Cus:             k[9],
		SqrtA:           k[10],
		Toe:             k[11],
		Cic:             k[12],
		Omega0:          k[13],
		Cis:             k[14],
		I0:              k[15],
		Crc:             k[16],
		Omega:           k[17],
		OmegaDot:        k[18],
		IDOT:            k[19],
		L2Codes:         p[20],
		Week:            p[21],
		L2PFlag:         p[22],
		SVAccuracy:      p[23],
		SVHealth:        p[24],
		TGD:             p[25],
		IODC:            p[26],
	}
	if len(p) > 27 {
		e.TransTime = p[27]
	}
	if len(p) > 28 {
		e.FitInterval = p[28]
	}
	return e
}

func (e *GPSEphemeris) String() string {
	var sb strings.Builder
	e.title(&sb)
	sb.WriteString(fmt.Sprintf("    Af0: %v\n    Af1: %v\n    Af2: %v\n", e.ClockBias, e.ClockDrift, e.ClockDriftRate))
	sb.WriteString(fmt.Sprintf("   IODE: %v\n    Crs: %v\n DeltaN: %v\n     M0: %v\n", e.IODE, e.Crs, e.DeltaN, e.M0))
	sb.WriteString(fmt.Sprintf("    Cuc: %v\n    Ecc: %v\n    Cus: %v\n  SqrtA: %v\n", e.Cuc, e.Ecc, e.Cus, e.SqrtA))
	sb.WriteString(fmt.Sprintf("    Toe: %v\n    Cic: %v\n Omega0: %v\n    Cis: %v\n", e.Toe, e.Cic, e.Omega0, e.Cis))
	sb.WriteString(fmt.Sprintf("     I0: %v\n    Crc: %v\n  Omega: %v\n OmegaD: %v\n", e.I0, e.Crc, e.Omega, e.OmegaDot))
	sb.WriteString(fmt.Sprintf("   Idot: %v\n   Code: %v\n   Week: %v\n   Flag: %v\n", e.IDOT, e.L2Codes, e.Week, e.L2PFlag))
	sb.WriteString(fmt.Sprintf("    Sva: %v\n    Svh: %v\n    Tgd: %v\n   Iodc: %v\n", e.SVAccuracy, e.SVHealth, e.TGD, e.IODC))
	sb.WriteString(fmt.Sprintf("    Tot: %v\n    Fit: %v\n", e.TransTime, e.FitInterval))
	return sb.String()
}

// GLONASS state vector ephemeris (PZ-90, km)
type GlonassEphemeris struct {
	ephemerisHeader
	ClockBias   float64 // -TauN [s]
	RelFreqBias float64 // +GammaN
	FrameTime   float64 // Message frame time [s of UTC week]
	X, Vx, Ax   float64
	Health      float64
	Y, Vy, Ay   float64
	FreqNum     float64 // Frequency number (-7...+13)
	Z, Vz, Az   float64
	InfoAge     float64 // Age of operation information [days]
}

func newGlonassEphemeris(hdr ephemerisHeader, p []float64) Ephemeris {
	return &GlonassEphemeris{
		ephemerisHeader: hdr,
		ClockBias:       p[0],
		RelFreqBias:     p[1],
		FrameTime:       p[2],
		X:               p[3],
		Vx:              p[4],
		Ax:              p[5],
		Health:          p[6],
		Y:               p[7],
		Vy:              p[8],
		Ay:              p[9],
		FreqNum:         p[10],
		Z:               p[11],
		Vz:              p[12],
		Az:              p[13],
		InfoAge:         p[14],
	}
}

func (e *GlonassEphemeris) String() string {
	var sb strings.Builder
	e.title(&sb)
	sb.WriteString(fmt.Sprintf("   TauN: %v\n GammaN: %v\n    Tot: %v\n", -e.ClockBias, e.RelFreqBias, e.FrameTime))
	sb.WriteString(fmt.Sprintf("   PosX: %v\n   VecX: %v\n   AccX: %v\n    Svh: %v\n", e.X, e.Vx, e.Ax, e.Health))
	sb.WriteString(fmt.Sprintf("   PosY: %v\n   VecY: %v\n   AccY: %v\n  FreqN: %v\n", e.Y, e.Vy, e.Ay, e.FreqNum))
	sb.WriteString(fmt.Sprintf("   PosZ: %v\n   VecZ: %v\n   AccZ: %v\n    Age: %v\n", e.Z, e.Vz, e.Az, e.InfoAge))
	return sb.String()
}

// Galileo Keplerian ephemeris
type GalileoEphemeris struct {
	ephemerisHeader
	ClockBias      float64
	ClockDrift     float64
	ClockDriftRate float64
	IODnav         float64
	Crs            float64
	DeltaN         float64
	M0             float64
	Cuc            float64
	Ecc            float64
	Cus            float64
	SqrtA          float64
	Toe            float64
	Cic            float64
	Omega0         float64
	Cis            float64
	I0             float64
	Crc            float64
	Omega          float64
	OmegaDot       float64
	IDOT           float64
	DataSources    float64
	Week           float64 // GAL week (continuous with GPS week)
	SISA           float64 // Signal in space accuracy [m]
	SVHealth       float64
	BGDE5a         float64 // BGD E5a/E1 [s]
	BGDE5b         float64 // BGD E5b/E1 [s]
	TransTime      float64 // Transmission time of message (optional)
}

func newGalileoEphemeris(hdr ephemerisHeader, p []float64) Ephemeris {
	k := keplerian(p)
	e := &GalileoEphemeris{
		ephemerisHeader: hdr,
		ClockBias:       k[0],
		ClockDrift:      k[1],
		ClockDriftRate:  k[2],
		IODnav:          k[3],
		Crs:             k[4],
		DeltaN:          k[5],
		M0:              k[6],
		Cuc:             k[7],
		Ecc:             k[8],
		Cus:             k[9],
		SqrtA:           k[10],
		Toe:             k[11],
		Cic:             k[12],
		Omega0:          k[13],
		Cis:             k[14],
		I0:              k[15],
		Crc:             k[16],
		Omega:           k[17],
		OmegaDot:        k[18],
		IDOT:            k[19],
		DataSources:     p[20],
		Week:            p[21],
		SISA:            p[22],
		SVHealth:        p[23],
		BGDE5a:          p[24],
		BGDE5b:          p[25],
	}
	if len(p) > 26 {
		e.TransTime = p[26]
	}
	return e
}

func (e *GalileoEphemeris) String() string {
	var sb strings.Builder
	e.title(&sb)
	sb.WriteString(fmt.Sprintf("    Af0: %v\n    Af1: %v\n    Af2: %v\n", e.ClockBias, e.ClockDrift, e.ClockDriftRate))
	sb.WriteString(fmt.Sprintf(" IODnav: %v\n    Crs: %v\n DeltaN: %v\n     M0: %v\n", e.IODnav, e.Crs, e.DeltaN, e.M0))
	sb.WriteString(fmt.Sprintf("    Cuc: %v\n    Ecc: %v\n    Cus: %v\n  SqrtA: %v\n", e.Cuc, e.Ecc, e.Cus, e.SqrtA))
	sb.WriteString(fmt.Sprintf("    Toe: %v\n    Cic: %v\n Omega0: %v\n    Cis: %v\n", e.Toe, e.Cic, e.Omega0, e.Cis))
	sb.WriteString(fmt.Sprintf("     I0: %v\n    Crc: %v\n  Omega: %v\n OmegaD: %v\n", e.I0, e.Crc, e.Omega, e.OmegaDot))
	sb.WriteString(fmt.Sprintf("   Idot: %v\n    Src: %v\n   Week: %v\n   SISA: %v\n", e.IDOT, e.DataSources, e.Week, e.SISA))
	sb.WriteString(fmt.Sprintf("    Svh: %v\n BGDE5a: %v\n BGDE5b: %v\n    Tot: %v\n", e.SVHealth, e.BGDE5a, e.BGDE5b, e.TransTime))
	return sb.String()
}

// BeiDou Keplerian ephemeris
type BeidouEphemeris struct {
	ephemerisHeader
	ClockBias      float64
	ClockDrift     float64
	ClockDriftRate float64
	AODE           float64 // Age of data, ephemeris
	Crs            float64
	DeltaN         float64
	M0             float64
	Cuc            float64
	Ecc            float64
	Cus            float64
	SqrtA          float64
	Toe            float64 // BDT seconds of week
	Cic            float64
	Omega0         float64
	Cis            float64
	I0             float64
	Crc            float64
	Omega          float64
	OmegaDot       float64
	IDOT           float64
	Week           float64 // BDT week
	SVAccuracy     float64 // [m]
	SatH1          float64
	TGD1           float64 // B1/B3 [s]
	TGD2           float64 // B2/B3 [s]
	TransTime      float64 // Transmission time of message (optional)
	AODC           float64 // Age of data, clock (optional)
}

// Parameters after IDOT are week, accuracy, SatH1, TGD1, TGD2, transmission time and AODC.
// Writers that fill the two spare slots of the sixth line give 29 values, the spares at p[20] and p[22].
func newBeidouEphemeris(hdr ephemerisHeader, p []float64) Ephemeris {
	if len(p) >= 29 {
		q := append([]float64{}, p[:20]...)
		q = append(q, p[21])
		p = append(q, p[23:]...)
	}
	k := keplerian(p)
	e := &BeidouEphemeris{
		ephemerisHeader: hdr,
		ClockBias:       k[0],
		ClockDrift:      k[1],
		ClockDriftRate:  k[2],
		AODE:            k[3],
		Crs:             k[4],
		DeltaN:          k[5],
		M0:              k[6],
		Cuc:             k[7],
		Ecc:             k[8],
		Cus:             k[9],
		SqrtA:           k[10],
		Toe:             k[11],
		Cic:             k[12],
		Omega0:          k[13],
		Cis:             k[14],
		I0:              k[15],
		Crc:             k[16],
		Omega:           k[17],
		OmegaDot:        k[18],
		IDOT:            k[19],
		Week:            p[20],
		SVAccuracy:      p[21],
		SatH1:           p[22],
		TGD1:            p[23],
		TGD2:            p[24],
	}
	if len(p) > 25 {
		e.TransTime = p[25]
	}
	if len(p) > 26 {
		e.AODC = p[26]
	}
	return e
}

func (e *BeidouEphemeris) String() string {
	var sb strings.Builder
	e.title(&sb)
	sb.WriteString(fmt.Sprintf("    Af0: %v\n    Af1: %v\n    Af2: %v\n", e.ClockBias, e.ClockDrift, e.ClockDriftRate))
	sb.WriteString(fmt.Sprintf("   AODE: %v\n    Crs: %v\n DeltaN: %v\n     M0: %v\n", e.AODE, e.Crs, e.DeltaN, e.M0))
	sb.WriteString(fmt.Sprintf("    Cuc: %v\n    Ecc: %v\n    Cus: %v\n  SqrtA: %v\n", e.Cuc, e.Ecc, e.Cus, e.SqrtA))
	sb.WriteString(fmt.Sprintf("    Toe: %v\n    Cic: %v\n Omega0: %v\n    Cis: %v\n", e.Toe, e.Cic, e.Omega0, e.Cis))
	sb.WriteString(fmt.Sprintf("     I0: %v\n    Crc: %v\n  Omega: %v\n OmegaD: %v\n", e.I0, e.Crc, e.Omega, e.OmegaDot))
	sb.WriteString(fmt.Sprintf("   Idot: %v\n   Week: %v\n  SVAcc: %v\n  SatH1: %v\n", e.IDOT, e.Week, e.SVAccuracy, e.SatH1))
	sb.WriteString(fmt.Sprintf("   TGD1: %v\n   TGD2: %v\n    Tot: %v\n   AODC: %v\n", e.TGD1, e.TGD2, e.TransTime, e.AODC))
	return sb.String()
}
