// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.27
//

package gorinex

import (
	"fmt"
	"math"
	"strings"
)

// Builders of fixed-width RINEX text for the tests

var blank = math.NaN() // Blank parameter or observation slot

func hdrLine(data, label string) string {
	return fmt.Sprintf("%-60s%s\n", data, label)
}

func versionLine(ver float64, typ, sys string) string {
	return hdrLine(fmt.Sprintf("%9.2f           %-20s%-20s", ver, typ, sys), labelVersion)
}

func endHeader() string {
	return hdrLine("", labelEndHeader)
}

// One 19 column navigation parameter in FORTRAN notation
func navSlot(v float64) string {
	if math.IsNaN(v) {
		return strings.Repeat(" ", 19)
	}
	return strings.Replace(fmt.Sprintf("%19.12E", v), "E", "D", 1)
}

// Navigation record: three parameters after the first line prefix, then four per line
func navRecord(first string, indent int, p []float64) string {
	var sb strings.Builder
	sb.WriteString(first)
	i := 0
	for ; i < 3 && i < len(p); i++ {
		sb.WriteString(navSlot(p[i]))
	}
	sb.WriteString("\n")
	for i < len(p) {
		sb.WriteString(strings.Repeat(" ", indent))
		for j := 0; j < 4 && i < len(p); j, i = j+1, i+1 {
			sb.WriteString(navSlot(p[i]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Parameters 1, 2, 3, ... n
func seqParams(n int) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = float64(i + 1)
	}
	return p
}

// One 16 column observation slot
func obsSlot(v float64, lli, ss int) string {
	if math.IsNaN(v) {
		return strings.Repeat(" ", 16)
	}
	return fmt.Sprintf("%14.3f%d%d", v, lli, ss)
}

// RINEX 2 epoch line with the satellite list continued over as many lines as needed
func epochLineV2(ep [6]float64, flag int, sats []string, clock float64) string {
	var sb strings.Builder
	head := fmt.Sprintf(" %02d %2d %2d %2d %2d%11.7f  %d%3d", int(ep[0]), int(ep[1]), int(ep[2]), int(ep[3]), int(ep[4]), ep[5], flag, len(sats))
	for i := 0; i < len(sats) || i == 0; i += 12 {
		if i == 0 {
			sb.WriteString(head)
		} else {
			sb.WriteString(strings.Repeat(" ", 32))
		}
		j := min(i+12, len(sats))
		sb.WriteString(fmt.Sprintf("%-36s", strings.Join(sats[i:j], "")))
		if i == 0 && clock != 0 {
			sb.WriteString(fmt.Sprintf("%12.9f", clock))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RINEX 2 observation lines of one satellite, five slots per line
func obsLinesV2(slots []string) string {
	var sb strings.Builder
	for i := 0; i < len(slots); i += 5 {
		j := min(i+5, len(slots))
		sb.WriteString(strings.TrimRight(strings.Join(slots[i:j], ""), " "))
		sb.WriteString("\n")
	}
	return sb.String()
}

func epochLineV3(ep [6]float64, flag, n int, clock float64) string {
	s := fmt.Sprintf("> %4d %02d %02d %02d %02d%11.7f  %d%3d", int(ep[0]), int(ep[1]), int(ep[2]), int(ep[3]), int(ep[4]), ep[5], flag, n)
	if clock != 0 {
		s += fmt.Sprintf("      %15.12f", clock)
	}
	return s + "\n"
}

func obsLineV3(sat string, slots ...string) string {
	return strings.TrimRight(sat+strings.Join(slots, ""), " ") + "\n"
}

// "# / TYPES OF OBSERV" lines, nine codes per line
func typesLinesV2(codes ...string) string {
	var sb strings.Builder
	for i := 0; i < len(codes); i += 9 {
		j := min(i+9, len(codes))
		head := "      "
		if i == 0 {
			head = fmt.Sprintf("%6d", len(codes))
		}
		var cs strings.Builder
		for _, c := range codes[i:j] {
			cs.WriteString(fmt.Sprintf("%6s", c))
		}
		sb.WriteString(hdrLine(head+cs.String(), labelTypesV2))
	}
	return sb.String()
}

// "SYS / # / OBS TYPES" lines, thirteen codes per line
func typesLinesV3(sys string, codes ...string) string {
	var sb strings.Builder
	for i := 0; i < len(codes); i += 13 {
		j := min(i+13, len(codes))
		head := "      "
		if i == 0 {
			head = fmt.Sprintf("%-1s  %3d", sys, len(codes))
		}
		var cs strings.Builder
		for _, c := range codes[i:j] {
			cs.WriteString(" " + c)
		}
		sb.WriteString(hdrLine(head+cs.String(), labelTypesV3))
	}
	return sb.String()
}

// Minimal RINEX 2.11 GPS observation header
func obsHeaderV2(codes ...string) string {
	return versionLine(2.11, "OBSERVATION DATA", "G (GPS)") +
		hdrLine("TEST", labelMarker) +
		hdrLine(fmt.Sprintf("%14.4f%14.4f%14.4f", -3947762.7496, 3364399.8789, 3699428.5111), labelPosition) +
		hdrLine(fmt.Sprintf("%14.4f%14.4f%14.4f", 1.234, 0.0, 0.0), labelAntDelta) +
		typesLinesV2(codes...) +
		hdrLine(fmt.Sprintf("%10.3f", 30.0), labelInterval) +
		hdrLine("  2019     3    15    12     0    0.0000000     GPS", labelFirstObs) +
		endHeader()
}

// Minimal RINEX 3.04 mixed observation header
func obsHeaderV3(types map[string][]string) string {
	var sb strings.Builder
	sb.WriteString(versionLine(3.04, "OBSERVATION DATA", "M (MIXED)"))
	sb.WriteString(hdrLine("TEST", labelMarker))
	for _, sys := range []string{"G", "R", "E", "C", "J"} {
		if codes, ok := types[sys]; ok {
			sb.WriteString(typesLinesV3(sys, codes...))
		}
	}
	sb.WriteString(endHeader())
	return sb.String()
}
