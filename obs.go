// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.27
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

// Type representing satellite name like "G10"
type SatType string

// Type representing satellite system like 'G'
type SysType byte

func NewSatType(sys SysType, num int) SatType {
	return SatType(fmt.Sprintf("%c%02d", sys, num))
}

// Parse a 3 column satellite token like "G05", " 5" or "R12". A blank system letter means def.
func ParseSat(tok string, def SysType) (SatType, error) {
	if len(tok) < 2 {
		return "", fmt.Errorf("%w: satellite %q", ErrMalformedField, tok)
	}
	sys := def
	if tok[0] != ' ' {
		sys = SysType(tok[0])
	}
	if !sys.IsValid() {
		return "", fmt.Errorf("%w: unknown satellite system, '%c'", ErrMalformedField, sys)
	}
	num, err := strconv.Atoi(strings.TrimSpace(tok[1:]))
	if err != nil {
		return "", fmt.Errorf("%w: satellite %q", ErrMalformedField, tok)
	}
	return NewSatType(sys, num), nil
}

// Extract satellite system from satellite name
func (p SatType) Sys() SysType {
	if len(p) == 0 {
		return 0
	}
	return SysType(p[0])
}

// Extract satellite number from satellite name
func (p SatType) Num() int {
	if len(p) < 3 {
		return 0
	}
	i, err := strconv.Atoi(string(p[1:3]))
	if err != nil {
		return 0
	}
	return i
}

// Check validity of satellite system
func (p SysType) IsValid() bool {
	return p == 'G' || p == 'J' || p == 'E' || p == 'R' || p == 'C' || p == 'S' || p == 'I'
}

// Observation data for all satellites in one epoch
type ObsEpoch struct {
	Epoch       []float64             // [year month day hour minute second]
	Time        float64               // GPS seconds of week
	Flag        int                   // Epoch flag (0: OK, 1: power failure since previous epoch)
	ClockOffset float64               // Receiver clock offset [s] (0 if not given)
	Sats        []SatType             // Satellites in the order of the epoch record
	Obs         map[SatType][]float64 // Observation values in the order of the header's observation types
	LLI         map[SatType][]int     // Loss of lock indicators
	SS          map[SatType][]int     // Signal strength indicators
}

func newObsEpoch(n int) *ObsEpoch {
	return &ObsEpoch{
		Sats: make([]SatType, 0, n),
		Obs:  make(map[SatType][]float64, n),
		LLI:  make(map[SatType][]int, n),
		SS:   make(map[SatType][]int, n),
	}
}

// Return the satellites of the given system, in record order
func (p *ObsEpoch) SatsOf(sys SysType) []SatType {
	var a []SatType
	for _, s := range p.Sats {
		if s.Sys() == sys {
			a = append(a, s)
		}
	}
	return a
}

// Observation values of the satellites of one system
func (p *ObsEpoch) ObsOf(sys SysType) map[SatType][]float64 {
	m := map[SatType][]float64{}
	for sat, v := range p.Obs {
		if sat.Sys() == sys {
			m[sat] = v
		}
	}
	return m
}

func (p *ObsEpoch) String() string {
	return fmt.Sprintf("%s (%.2f) flag=%d clk=%g sats=%d", fmtEpoch(p.Epoch), p.Time, p.Flag, p.ClockOffset, len(p.Sats))
}

// Project the observation vectors down to the one named by code.
// If code is not in types, an empty map is returned with ErrObsTypeUnavailable.
func SelectObs(obs map[SatType][]float64, types []CodeType, code CodeType) (map[SatType]float64, error) {
	out := map[SatType]float64{}
	i := slices.Index(types, code)
	if i < 0 {
		return out, fmt.Errorf("%w: %s", ErrObsTypeUnavailable, code)
	}
	for sat, v := range obs {
		if i < len(v) {
			out[sat] = v[i]
		}
	}
	return out, nil
}

// Streaming decoder of observation epochs
type ObsDecoder struct {
	Header *ObsHeader
	lr     *LineReader
	opt    *ReadOpt
	lay    obsLayout
}

// Read the header and return a decoder positioned at the first epoch
func NewObsDecoder(r io.Reader, opt *ReadOpt) (*ObsDecoder, error) {
	lr := NewLineReader(r)
	hdr, err := ReadObsHeader(lr)
	if err != nil {
		return nil, err
	}
	dec := &ObsDecoder{
		Header: hdr,
		lr:     lr,
		opt:    opt.orDefault(),
		lay:    obsLayouts[hdr.Format.Major],
	}
	if !hdr.ApproxPos.IsZero() && !hdr.ApproxPos.NearSurface() {
		dec.opt.Logger.Warn("approximate position is far from the earth surface", "norm", hdr.ApproxPos.Norm())
	}
	dec.opt.Logger.Info("observation header read", "format", hdr.Format.String(), "marker", hdr.MarkerName)
	return dec, nil
}

// Decode the next epoch. A new *ObsEpoch is returned on every call.
// It returns io.EOF at the end of the stream.
// An error wrapping ErrMalformedField or ErrIncompleteEpoch means only that epoch was skipped,
// and Next may be called again. ErrUnexpectedEOF means the last epoch was cut off.
func (p *ObsDecoder) Next() (*ObsEpoch, error) {
	var (
		e   *ObsEpoch
		err error
	)
	if p.Header.Format.Major == 2 {
		e, err = p.nextV2()
	} else {
		e, err = p.nextV3()
	}
	if err != nil {
		if !errors.Is(err, io.EOF) {
			p.opt.discard("epoch", nil, "", err)
		}
		return nil, err
	}
	return e, nil
}

// Return the next line that is neither blank nor a comment
func (p *ObsDecoder) nextContent() (string, error) {
	for {
		line, err := p.lr.Next()
		if err != nil {
			return "", err
		}
		if isBlank(line) || getHeaderLabel(line) == labelComment {
			continue
		}
		return line, nil
	}
}

// Read n lines of an epoch block. Blank lines count as lines.
func (p *ObsDecoder) readBlock(n int) ([]string, error) {
	block := make([]string, 0, n)
	for len(block) < n {
		l, err := p.lr.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return block, fmt.Errorf("%w: epoch block has %d of %d lines", ErrUnexpectedEOF, len(block), n)
			}
			return block, err
		}
		block = append(block, l)
	}
	return block, nil
}

// Read the epoch time, flag, count and clock offset from an epoch line
func (p *ObsDecoder) epochLine(line string) (e *ObsEpoch, flag, n int, err error) {
	lay := p.lay
	n, err = FieldInt(line, lay.countOff, lay.countWidth)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("number of satellites: %w", err)
	}
	flag, err = FieldInt(line, lay.flagOff, 1)
	if err != nil {
		return nil, 0, n, fmt.Errorf("epoch flag: %w", err)
	}
	e = newObsEpoch(n)
	e.Flag = flag
	if flag > 1 {
		return e, flag, n, nil // Event records carry no time of their own
	}
	e.Epoch, err = epochFields(Field(line, lay.epochOff, lay.epochWidth))
	if err != nil {
		return nil, flag, n, err
	}
	e.Time, err = GPSTime(e.Epoch)
	if err != nil {
		return nil, flag, n, err
	}
	e.ClockOffset, err = FieldFloat(line, lay.clockOff, lay.clockWidth)
	if err != nil {
		return nil, flag, n, fmt.Errorf("receiver clock offset: %w", err)
	}
	return e, flag, n, nil
}

// ------------------------------------
// RINEX 2
// ------------------------------------

// Observation lines per satellite
func (p *ObsDecoder) linesPerSatV2() int {
	n := len(p.Header.TypesFor(p.Header.Format.Scope))
	return max(1, (n+p.lay.typesPerLine-1)/p.lay.typesPerLine)
}

// An epoch line has six epoch fields (none for an event record) and a flag from 0 to 6
func (p *ObsDecoder) isEpochLineV2(line string) bool {
	lay := p.lay
	flag := Field(line, lay.flagOff, 1)
	if len(flag) == 1 && (flag[0] < '0' || flag[0] > '6') {
		return false
	}
	n := len(strings.Fields(Field(line, lay.epochOff, lay.epochWidth)))
	return n == 6 || n == 0 && flag > "1"
}

func (p *ObsDecoder) nextV2() (*ObsEpoch, error) {
	lay := p.lay
	for {
		line, err := p.nextContent()
		if err != nil {
			return nil, err
		}
		if !p.isEpochLineV2(line) {
			p.opt.Logger.Debug("skipping stray line", "line", p.lr.LineNum())
			continue
		}
		e, flag, n, err := p.epochLine(line)
		if err != nil {
			// The block size is known only when the count parsed
			if n > 0 {
				if _, err2 := p.readBlock(p.satListLinesV2(n) - 1 + n*p.linesPerSatV2()); err2 != nil {
					return nil, err2
				}
			}
			return nil, err
		}

		// Event records: header lines or cycle slip records follow
		if flag > 1 {
			skip := n
			if flag == 6 {
				skip = p.satListLinesV2(n) - 1 + n*p.linesPerSatV2()
			}
			p.opt.Logger.Debug("skipping event records", "flag", flag, "lines", skip)
			if _, err := p.readBlock(skip); err != nil {
				return nil, err
			}
			continue
		}

		// Satellite list, continued on following lines when more than 12
		list := paramArea(line, lay.satListOff, lay.satsPerLine, 3)
		cont, err := p.readBlock(p.satListLinesV2(n) - 1)
		if err != nil {
			return nil, err
		}
		for _, l := range cont {
			list += paramArea(l, lay.satListOff, lay.satsPerLine, 3)
		}
		toks := SplitSlots(list, 3)
		if len(toks) > n {
			toks = toks[:n]
		}
		for _, tok := range toks {
			sat, err := ParseSat(tok, 'G')
			if err != nil {
				if _, err2 := p.readBlock(n * p.linesPerSatV2()); err2 != nil {
					return nil, err2
				}
				return nil, fmt.Errorf("%s: %w", fmtEpoch(e.Epoch), err)
			}
			e.Sats = append(e.Sats, sat)
		}

		// Observation lines of each satellite
		lps := p.linesPerSatV2()
		block, err := p.readBlock(n * lps)
		if err != nil {
			return nil, err
		}
		for i, sat := range e.Sats {
			var sb strings.Builder
			for _, l := range block[i*lps : (i+1)*lps] {
				sb.WriteString(PadLine(l, lay.physicalLength))
			}
			rec := sb.String()
			if isBlank(rec) {
				p.opt.note(e.Epoch, sat, "MISSING OBSERVATION")
			}
			p.setSatObs(e, sat, rec)
		}
		p.opt.Metrics.record("epoch", p.Header.Format.Scope)
		return e, nil
	}
}

// Number of lines holding the satellite list
func (p *ObsDecoder) satListLinesV2(n int) int {
	return max(1, (n+p.lay.satsPerLine-1)/p.lay.satsPerLine)
}

// ------------------------------------
// RINEX 3
// ------------------------------------

func (p *ObsDecoder) nextV3() (*ObsEpoch, error) {
	lay := p.lay
	for {
		line, err := p.nextContent()
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(line, lay.marker) {
			p.opt.Logger.Debug("skipping stray line", "line", p.lr.LineNum())
			continue
		}
		e, flag, n, err := p.epochLine(line)
		if err != nil {
			if n > 0 {
				if err2 := p.skipV3(n); err2 != nil {
					return nil, err2
				}
			}
			return nil, err
		}
		if flag > 1 {
			p.opt.Logger.Debug("skipping event records", "flag", flag, "lines", n)
			if err := p.skipV3(n); err != nil {
				return nil, err
			}
			continue
		}

		// One line per satellite, until the count is reached or the next epoch starts
		for i := 0; i < n; i++ {
			l, err := p.lr.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil, fmt.Errorf("%w: epoch %s has %d of %d satellites", ErrUnexpectedEOF, fmtEpoch(e.Epoch), i, n)
				}
				return nil, err
			}
			if strings.HasPrefix(l, lay.marker) {
				p.lr.Unread()
				p.opt.note(e.Epoch, "", fmt.Sprintf("EPOCH ENDED AFTER %d OF %d SATELLITES", i, n))
				break
			}
			if isBlank(l) {
				p.opt.note(e.Epoch, "", "BLANK OBSERVATION LINE")
				continue
			}
			sat, err := ParseSat(Field(l, 0, lay.satIDWidth), 'G')
			if err != nil {
				p.opt.discard("satellite", e.Epoch, "", err)
				continue
			}
			if len(p.Header.TypesFor(sat.Sys())) == 0 {
				p.opt.note(e.Epoch, sat, "NO OBSERVATION TYPES FOR SYSTEM")
				continue
			}
			e.Sats = append(e.Sats, sat)
			p.setSatObs(e, sat, tail(l, lay.satIDWidth))
		}
		p.opt.Metrics.record("epoch", p.Header.Format.Scope)
		return e, nil
	}
}

// Skip n lines of an epoch, stopping before the next epoch line
func (p *ObsDecoder) skipV3(n int) error {
	for i := 0; i < n; i++ {
		l, err := p.lr.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if strings.HasPrefix(l, p.lay.marker) {
			p.lr.Unread()
			return nil
		}
	}
	return nil
}

// ------------------------------------
// Observation record of one satellite
// ------------------------------------

// Split a record into observation slots and store the values and flags of sat.
// A slot cut short by the end of the line has zero flags. A malformed value drops the satellite's record.
func (p *ObsDecoder) setSatObs(e *ObsEpoch, sat SatType, rec string) {
	lay := p.lay
	nt := len(p.Header.TypesFor(sat.Sys()))
	obs := make([]float64, nt)
	lli := make([]int, nt)
	ss := make([]int, nt)
	slots := SplitSlots(rec, lay.slotWidth)
	for i := 0; i < nt && i < len(slots); i++ {
		s := slots[i]
		v, err := ParseFloat(Field(s, 0, lay.valueWidth))
		if err != nil {
			p.opt.discard("observation", e.Epoch, sat, err)
			return
		}
		obs[i] = v
		if len(s) < lay.slotWidth {
			continue
		}
		// Flags are single digits. Anything else is treated as not given.
		lli[i], _ = ParseInt(s[lay.valueWidth : lay.valueWidth+1])
		ss[i], _ = ParseInt(s[lay.valueWidth+1 : lay.valueWidth+2])
	}
	e.Obs[sat] = obs
	e.LLI[sat] = lli
	e.SS[sat] = ss
}
