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
	"strings"
)

// Structure to store navigation data for each satellite
// - Map with satellite name as Key and slice of ephemerides in file order as Value
type Nav map[SatType][]Ephemeris

// Append an ephemeris to the history of its satellite
func (p Nav) Add(e Ephemeris) {
	p[e.SatID()] = append(p[e.SatID()], e)
}

// Number of ephemerides of all satellites
func (p Nav) Len() int {
	n := 0
	for _, a := range p {
		n += len(a)
	}
	return n
}

// Return the ephemeris of sat closest in time to t (GPS seconds of week)
func (p Nav) Nearest(sat SatType, t float64) (Ephemeris, error) {
	i, err := MatchEpoch(t, p[sat])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sat, err)
	}
	return p[sat][i], nil
}

// Display navigation data overview
func (p Nav) String() string {
	keys := make([]SatType, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	var sb strings.Builder
	sb.WriteString("toc:\n")
	for _, sat := range Sorted(keys) {
		a := p[sat]
		sb.WriteString(fmt.Sprintf("\t%s: ", sat))
		if len(a) > 0 {
			sb.WriteString(fmt.Sprintf("%10.2f - %10.2f (%d)\n", a[0].GPSTime(), a[len(a)-1].GPSTime(), len(a)))
		} else {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Decoded navigation file
type NavFile struct {
	Header    *NavHeader
	Nav       Nav
	Discarded []error // Records that could not be decoded
}

// Read navigation data. Records that cannot be decoded are skipped and listed in Discarded.
// A record cut by the end of the stream is discarded and returned as an ErrUnexpectedEOF error
// together with the records read before it.
func ReadNav(r io.Reader, opt *ReadOpt) (*NavFile, error) {
	dec, err := NewNavDecoder(r, opt)
	if err != nil {
		return nil, err
	}
	nf := &NavFile{
		Header: dec.Header,
		Nav:    Nav{},
	}
	for {
		eph, err := dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, ErrUnexpectedEOF) {
				nf.Discarded = append(nf.Discarded, err)
				return nf, err
			}
			if recoverable(err) {
				nf.Discarded = append(nf.Discarded, err)
				continue
			}
			return nil, err
		}
		nf.Nav.Add(eph)
	}
	dec.opt.Logger.Info("navigation file read", "format", dec.Header.Format.String(), "sats", len(nf.Nav), "records", nf.Nav.Len(), "discarded", len(nf.Discarded))
	return nf, nil
}

// True for errors that discard one record or epoch only
func recoverable(err error) bool {
	return errors.Is(err, ErrMalformedField) || errors.Is(err, ErrIncompleteEpoch) || errors.Is(err, ErrUnsupportedVersion)
}

// Streaming decoder of navigation message records
type NavDecoder struct {
	Header *NavHeader
	lr     *LineReader
	opt    *ReadOpt
	lay    navLayout
}

// Read the header and return a decoder positioned at the first record
func NewNavDecoder(r io.Reader, opt *ReadOpt) (*NavDecoder, error) {
	lr := NewLineReader(r)
	hdr, err := ReadNavHeader(lr)
	if err != nil {
		return nil, err
	}
	return &NavDecoder{
		Header: hdr,
		lr:     lr,
		opt:    opt.orDefault(),
		lay:    navLayouts[hdr.Format.Major],
	}, nil
}

// Decode the next record. It returns io.EOF at the end of the stream.
// An error wrapping ErrMalformedField, ErrIncompleteEpoch or ErrUnsupportedVersion means only
// that record was skipped, and Next may be called again.
func (p *NavDecoder) Next() (Ephemeris, error) {
	for {
		line, err := p.lr.Next()
		if err != nil {
			return nil, err
		}
		if isBlank(line) {
			continue
		}
		if !p.isRecordStart(line) {
			p.opt.Logger.Debug("skipping stray line", "line", p.lr.LineNum())
			continue
		}

		// Dispatch on the satellite system
		sys := p.sysOf(line)
		blk, ok := navBlocks[sys]
		if !ok {
			p.skipRecord()
			err := fmt.Errorf("%w: satellite system '%c' at line %d", ErrUnsupportedVersion, sys, p.lr.LineNum())
			p.opt.Logger.Warn("skipping navigation record of unknown system", "sys", string(rune(sys)), "line", p.lr.LineNum())
			p.opt.Metrics.discard("ephemeris", err)
			return nil, err
		}

		// Collect the lines of the record
		block := make([]string, 1, blk.lines)
		block[0] = line
		for len(block) < blk.lines {
			l, err := p.lr.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = fmt.Errorf("%w: record at line %d has %d of %d lines", ErrUnexpectedEOF, p.lr.LineNum()-len(block)+1, len(block), blk.lines)
					p.opt.discard("ephemeris", nil, "", err)
				}
				return nil, err
			}
			block = append(block, l)
		}

		eph, err := p.decode(sys, blk, block)
		if err != nil {
			p.opt.discard("ephemeris", nil, "", err)
			return nil, err
		}
		p.opt.Metrics.record("ephemeris", sys)
		return eph, nil
	}
}

// First line of a record has the satellite identifier in its leading columns
func (p *NavDecoder) isRecordStart(line string) bool {
	if p.Header.Format.Major == 2 {
		return Field(line, 0, 2) != ""
	}
	return line[0] != ' '
}

func (p *NavDecoder) sysOf(line string) SysType {
	if p.Header.Format.Major == 2 {
		return p.Header.Format.Scope
	}
	return SysType(line[0])
}

// Consume lines up to the next record start
func (p *NavDecoder) skipRecord() {
	for {
		l, err := p.lr.Next()
		if err != nil {
			return
		}
		if !isBlank(l) && p.isRecordStart(l) {
			p.lr.Unread()
			return
		}
	}
}

// Decode one record block
func (p *NavDecoder) decode(sys SysType, blk navBlock, block []string) (Ephemeris, error) {
	first := block[0]
	lay := p.lay
	num, err := FieldInt(first, lay.satOff+lay.satWidth-2, 2)
	if err != nil {
		return nil, fmt.Errorf("satellite number: %w", err)
	}
	sat := NewSatType(sys, num)

	// Time of clock
	epoch, err := epochFields(Field(first, lay.epochOff, lay.epochWidth))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sat, err)
	}
	t, err := GPSTime(epoch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sat, err)
	}

	// Parameters of all lines as one stream of 19 column slots
	var sb strings.Builder
	sb.WriteString(paramArea(first, lay.paramOff, 3, lay.slotWidth))
	for _, l := range block[1:] {
		sb.WriteString(paramArea(l, lay.contOff, 4, lay.slotWidth))
	}
	params := make([]float64, 0, 4*len(block))
	for _, s := range SplitSlots(sb.String(), lay.slotWidth) {
		if isBlank(s) {
			continue
		}
		v, err := ParseFloat(s)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", sat, fmtEpoch(epoch), err)
		}
		params = append(params, v)
	}
	if len(params) < blk.minParams {
		return nil, fmt.Errorf("%w: %s %s has %d of %d parameters", ErrMalformedField, sat, fmtEpoch(epoch), len(params), blk.minParams)
	}

	hdr := ephemerisHeader{
		Sat:       sat,
		Epoch:     epoch,
		Time:      t,
		Available: true,
	}
	return blk.build(hdr, params), nil
}

// Return n slots of the line from column off, padded with blanks
func paramArea(line string, off, n, width int) string {
	return PadLine(line, off+n*width)[off : off+n*width]
}

// Parse the epoch fields [year month day hour minute second]
func epochFields(s string) ([]float64, error) {
	la := strings.Fields(s)
	epoch := make([]float64, 0, 6)
	for _, a := range la {
		v, err := ParseFloat(a)
		if err != nil {
			return nil, err
		}
		epoch = append(epoch, v)
	}
	if len(epoch) < 6 {
		return nil, fmt.Errorf("%w: %q", ErrIncompleteEpoch, s)
	}
	return epoch[:6], nil
}
