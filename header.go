// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.21
//

package gorinex

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// RINEX 2.11 / 3.04 format documents
// https://files.igs.org/pub/data/format/rinex211.txt
// https://files.igs.org/pub/data/format/rinex304.pdf
//

// Type representing observation codes like C1C (3 or 2 characters)
type CodeType string

// Returns observation type (C,L,D,S)
func (p CodeType) T() byte {
	if len(p) == 0 {
		return 0
	}
	return p[0]
}

// Returns frequency band and attributes of observation (1C,2P,5I etc.)
func (p CodeType) NA() CodeType {
	if len(p) == 0 {
		return p
	}
	return p[1:]
}

// Kind of RINEX file
type FileKind byte

const (
	ObservationFile FileKind = 'O'
	NavigationFile  FileKind = 'N'
)

func (k FileKind) String() string {
	switch k {
	case ObservationFile:
		return "observation"
	case NavigationFile:
		return "navigation"
	default:
		return fmt.Sprintf("unknown(%c)", byte(k))
	}
}

// Version and type of a RINEX file, read from its first line
type FormatDescriptor struct {
	Version float64  // e.g. 2.11, 3.04
	Major   int      // 2 or 3
	Kind    FileKind // Observation or navigation
	Scope   SysType  // Single satellite system tag, or 'M' for mixed files
}

// Mixed file scope
const SysMixed SysType = 'M'

func (f FormatDescriptor) Mixed() bool {
	return f.Scope == SysMixed
}

func (f FormatDescriptor) String() string {
	return fmt.Sprintf("%.2f %s %c", f.Version, f.Kind, byte(f.Scope))
}

// Parse the "RINEX VERSION / TYPE" line
func ParseVersionLine(line string) (FormatDescriptor, error) {
	var fd FormatDescriptor
	if getHeaderLabel(line) != labelVersion {
		return fd, fmt.Errorf("%w: first line is not %q", ErrMalformedHeader, labelVersion)
	}
	ver, err := FieldFloat(line, 0, 9)
	if err != nil || ver == 0 {
		return fd, fmt.Errorf("%w: bad version %q", ErrMalformedHeader, Field(line, 0, 9))
	}
	fd.Version = ver
	fd.Major = int(ver)
	typ := Field(line, 20, 1)
	if typ == "" {
		return fd, fmt.Errorf("%w: file type is missing", ErrMalformedHeader)
	}
	fd.Kind = FileKind(typ[0])
	sys := Field(line, 40, 1)
	if sys == "" {
		fd.Scope = 'G' // Blank means GPS
	} else {
		fd.Scope = SysType(sys[0])
	}
	if fd.Major == 2 && fd.Kind == NavigationFile {
		fd.Scope = 'G' // RINEX 2 'N' files are GPS only, column 41 is unused
	}
	if !fd.supported() {
		return fd, fmt.Errorf("%w: %s", ErrUnsupportedVersion, fd)
	}
	return fd, nil
}

// Supported combinations of version, kind and scope
func (f FormatDescriptor) supported() bool {
	switch f.Major {
	case 2:
		return f.Kind == ObservationFile && (f.Scope == 'G' || f.Scope == SysMixed) ||
			f.Kind == NavigationFile && f.Scope == 'G'
	case 3:
		switch f.Kind {
		case ObservationFile:
			return f.Scope == 'G' || f.Scope == SysMixed
		case NavigationFile:
			return slices.Contains([]SysType{'G', 'R', 'E', SysMixed}, f.Scope)
		}
	}
	return false
}

// Read the first non-empty line of the stream and return its version and type
func ProbeFormat(lr *LineReader) (FormatDescriptor, error) {
	for {
		line, err := lr.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return FormatDescriptor{}, fmt.Errorf("%w: empty file", ErrMalformedHeader)
			}
			return FormatDescriptor{}, err
		}
		if isBlank(line) {
			continue
		}
		return ParseVersionLine(line)
	}
}

// Walk the header lines after the version line until END OF HEADER.
// Comment lines are not passed to fn.
func walkHeader(lr *LineReader, comments *[]string, fn func(label, line string) error) error {
	for {
		line, err := lr.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: %q not found", ErrMalformedHeader, labelEndHeader)
			}
			return err
		}
		label := getHeaderLabel(line)
		switch label {
		case labelEndHeader:
			return nil
		case labelComment:
			*comments = append(*comments, strings.TrimRight(headerData(line), " "))
			continue
		}
		if err := fn(label, line); err != nil {
			return err
		}
	}
}

// ------------------------------------
// Observation header
// ------------------------------------

// Antenna height and horizontal eccentricity [m]
type PosHEN struct {
	H float64
	E float64
	N float64
}

// Header information of an observation file
type ObsHeader struct {
	Format      FormatDescriptor
	MarkerName  string
	ApproxPos   PosXYZ                 // Approximate marker position (WGS84)
	ClockOffset float64                // Receiver clock offset placeholder for the approximate position, always 0
	AntDelta    PosHEN                 // Antenna delta H/E/N
	FirstObs    []float64              // Time of first observation [year month day hour minute second]
	LastObs     []float64              // Time of last observation
	Interval    float64                // Observation interval [s]
	LeapSeconds int                    // Leap seconds (0 if not given)
	ObsTypes    map[SysType][]CodeType // Observation codes per system, in column order. RINEX 2 files have one list under the file scope.
	Comments    []string
}

// Return the ordered observation codes for satellites of system sys
func (h *ObsHeader) TypesFor(sys SysType) []CodeType {
	if a, ok := h.ObsTypes[sys]; ok {
		return a
	}
	if h.Format.Major == 2 {
		return h.ObsTypes[h.Format.Scope]
	}
	return nil
}

// Read the header of an observation file
func ReadObsHeader(lr *LineReader) (*ObsHeader, error) {
	fd, err := ProbeFormat(lr)
	if err != nil {
		return nil, err
	}
	if fd.Kind != ObservationFile {
		return nil, fmt.Errorf("%w: not an observation data file (%s)", ErrUnsupportedVersion, fd)
	}
	h := &ObsHeader{
		Format:   fd,
		ObsTypes: map[SysType][]CodeType{},
	}
	nTypesV2 := -1 // Declared count of the RINEX 2 list
	err = walkHeader(lr, &h.Comments, func(label, line string) error {
		switch label {
		case labelMarker:
			h.MarkerName = Field(line, 0, 60)
		case labelPosition:
			v, err := threeFloats(line, 14)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrMalformedHeader, label, err)
			}
			h.ApproxPos = PosXYZ{X: v[0], Y: v[1], Z: v[2]}
		case labelAntDelta:
			v, err := threeFloats(line, 14)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrMalformedHeader, label, err)
			}
			h.AntDelta = PosHEN{H: v[0], E: v[1], N: v[2]}
		case labelTypesV2:
			if fd.Major != 2 {
				return nil
			}
			if Field(line, 0, 6) != "" {
				n, err := FieldInt(line, 0, 6)
				if err != nil {
					return fmt.Errorf("%w: %s: %v", ErrMalformedHeader, label, err)
				}
				nTypesV2 = n
				h.ObsTypes[fd.Scope] = nil
			}
			for _, c := range strings.Fields(Field(headerData(line), 6, 54)) {
				h.ObsTypes[fd.Scope] = append(h.ObsTypes[fd.Scope], CodeType(c))
			}
		case labelTypesV3:
			if fd.Major != 3 {
				return nil
			}
			sys, codes, err := readObsTypesV3(lr, line, fd.Version)
			if err != nil {
				return err
			}
			h.ObsTypes[sys] = codes
		case labelInterval:
			v, err := FieldFloat(line, 0, 10)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrMalformedHeader, label, err)
			}
			h.Interval = v
		case labelFirstObs:
			h.FirstObs = epochNumbers(headerData(line))
		case labelLastObs:
			h.LastObs = epochNumbers(headerData(line))
		case labelLeap:
			v, err := FieldInt(line, 0, 6)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrMalformedHeader, label, err)
			}
			h.LeapSeconds = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if fd.Major == 2 {
		if nTypesV2 < 0 {
			return nil, fmt.Errorf("%w: %q not found", ErrMalformedHeader, labelTypesV2)
		}
		if len(h.ObsTypes[fd.Scope]) < nTypesV2 {
			return nil, fmt.Errorf("%w: %d of %d observation types", ErrMalformedHeader, len(h.ObsTypes[fd.Scope]), nTypesV2)
		}
		h.ObsTypes[fd.Scope] = h.ObsTypes[fd.Scope][:nTypesV2]
	}
	if len(h.ObsTypes) == 0 {
		return nil, fmt.Errorf("%w: no observation types", ErrMalformedHeader)
	}
	return h, nil
}

// Number of codes on one "SYS / # / OBS TYPES" line
const typesPerLineV3 = 13

// Read one "SYS / # / OBS TYPES" record. Codes beyond 13 continue on the following lines,
// which are concatenated before the codes are extracted.
func readObsTypesV3(lr *LineReader, line string, ver float64) (SysType, []CodeType, error) {
	s := Field(line, 0, 1)
	if s == "" {
		return 0, nil, fmt.Errorf("%w: %s without satellite system", ErrMalformedHeader, labelTypesV3)
	}
	sys := SysType(s[0])
	n, err := FieldInt(line, 3, 3)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s: %v", ErrMalformedHeader, labelTypesV3, err)
	}
	data := tail(headerData(line), 7)
	for i := typesPerLineV3; i < n; i += typesPerLineV3 {
		l, err := lr.Next()
		if err != nil {
			return 0, nil, fmt.Errorf("%w: continuation of %c observation types: %v", ErrMalformedHeader, sys, err)
		}
		data += " " + tail(headerData(l), 7)
	}
	la := strings.Fields(data)
	if len(la) < n {
		return 0, nil, fmt.Errorf("%w: %c has %d of %d observation types", ErrMalformedHeader, sys, len(la), n)
	}
	la = la[:n]
	if sys == 'C' && strconv.FormatFloat(ver, 'f', 2, 64) == "3.02" {
		la = fixRnx302BeidouCode(la)
	}
	codes := make([]CodeType, len(la))
	for i, c := range la {
		codes[i] = CodeType(c)
	}
	return sys, codes, nil
}

// Fix Beidou B1 observation codes in RINEX 3.02
func fixRnx302BeidouCode(la []string) []string {
	la2 := make([]string, 0, len(la))
	for _, a := range la {
		if len(a) == 3 && (a[1:3] == "1I" || a[1:3] == "1Q" || a[1:3] == "1X") {
			// In RINEX 3.04, B1(1561.098 MHz) observation codes {C|L|D|S}1{I|Q|X} have been changed to {C|L|D|S}2{I|Q|X}. Match 3.04.
			la2 = append(la2, a[:1]+"2"+a[2:3])
		} else {
			la2 = append(la2, a)
		}
	}
	return la2
}

// Read three consecutive fields of the given width
func threeFloats(line string, width int) ([3]float64, error) {
	var v [3]float64
	for i := range v {
		f, err := FieldFloat(line, i*width, width)
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

// First six numbers of a TIME OF FIRST/LAST OBS line
func epochNumbers(s string) []float64 {
	v := parseNumbers(s)
	if len(v) > 6 {
		v = v[:6]
	}
	return v
}

// ------------------------------------
// Navigation header
// ------------------------------------

// Header information of a navigation file
type NavHeader struct {
	Format      FormatDescriptor
	IonAlpha    []float64            // GPS ionosphere parameters A0-A3
	IonBeta     []float64            // GPS ionosphere parameters B0-B3
	IonGal      []float64            // Galileo ionosphere parameters ai0-ai2
	DeltaUTC    []float64            // GPS to UTC: A0, A1, T, W
	TimeCorr    map[string][]float64 // Time system corrections by type (GPUT, GAUT, GLUT...): a0, a1, T, W
	LeapSeconds int
	Comments    []string
}

// Read the header of a navigation file
func ReadNavHeader(lr *LineReader) (*NavHeader, error) {
	fd, err := ProbeFormat(lr)
	if err != nil {
		return nil, err
	}
	if fd.Kind != NavigationFile {
		return nil, fmt.Errorf("%w: not a navigation message file (%s)", ErrUnsupportedVersion, fd)
	}
	h := &NavHeader{
		Format:   fd,
		TimeCorr: map[string][]float64{},
	}
	err = walkHeader(lr, &h.Comments, func(label, line string) error {
		var err error
		switch label {
		case labelIonAlpha:
			h.IonAlpha, err = headerSlots(line, 2, 12, 4)
		case labelIonBeta:
			h.IonBeta, err = headerSlots(line, 2, 12, 4)
		case labelDeltaUTC:
			h.DeltaUTC, err = deltaUTC(line, 3, 19, 19)
		case labelIonoCorr:
			var v []float64
			v, err = headerSlots(line, 5, 12, 4)
			switch Field(line, 0, 4) {
			case "GPSA":
				h.IonAlpha = v
			case "GPSB":
				h.IonBeta = v
			case "GAL":
				h.IonGal = v
			}
		case labelTimeCorr:
			var v []float64
			v, err = deltaUTC(line, 5, 17, 16)
			if err == nil {
				h.TimeCorr[Field(line, 0, 4)] = v
				if Field(line, 0, 4) == "GPUT" {
					h.DeltaUTC = v
				}
			}
		case labelGloCorr:
			// Reference date and -TauC of RINEX 2 GLONASS files
			h.TimeCorr["TAUC"] = parseNumbers(headerData(line))
		case labelLeap:
			h.LeapSeconds, err = FieldInt(line, 0, 6)
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedHeader, label, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Read n slots of the given width from column off. Blank slots are skipped.
func headerSlots(line string, off, width, n int) ([]float64, error) {
	var v []float64
	for i := 0; i < n; i++ {
		s := Field(line, off+i*width, width)
		if s == "" {
			continue
		}
		f, err := ParseFloat(s)
		if err != nil {
			return nil, err
		}
		v = append(v, f)
	}
	return v, nil
}

// Read A0, A1 (widths w0, w1 from column off) followed by reference time T and week W
func deltaUTC(line string, off, w0, w1 int) ([]float64, error) {
	a0, err := FieldFloat(line, off, w0)
	if err != nil {
		return nil, err
	}
	a1, err := FieldFloat(line, off+w0, w1)
	if err != nil {
		return nil, err
	}
	rest := parseNumbers(tail(headerData(line), off+w0+w1))
	if len(rest) > 2 {
		rest = rest[:2] // Time source and UTC identifier follow in RINEX 3
	}
	return append([]float64{a0, a1}, rest...), nil
}
