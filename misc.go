// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.21
//

package gorinex

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// ------------------------------------
// Mini functions
// ------------------------------------

func ToDeg(rad float64) float64 {
	return rad / PI * 180.0
}

// ------------------------------------
// Debug print function
// ------------------------------------

func PrintA(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format, a...)
}

func PrintAIf(cond bool, format string, a ...any) {
	if cond {
		PrintA(format, a...)
	}
}

// Debug display level
var DBG_ int

// Debug display
func PrintD(v int, format string, a ...any) {
	PrintAIf(DBG_ >= v, format, a...)
}

func PrintE(err error) {
	fmt.Fprintf(os.Stderr, "err=%s\n", err.Error())
}

// Structured logger for the readers. The debug display level maps to
// 0: warnings only, 1: info, 2 or more: debug.
func NewLogger(w io.Writer, dbg int) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case dbg >= 2:
		level = slog.LevelDebug
	case dbg == 1:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ------------------------------------
// Reader options
// ------------------------------------

// Options shared by the observation and navigation readers
type ReadOpt struct {
	Logger  *slog.Logger // Diagnostics of discarded records
	Metrics *Metrics     // Decode counters (nil: not counted)
	Anomaly *AnomalyLog  // Tabular anomaly sink (nil: not written)
}

// Constructor with default values
func NewReadOpt() *ReadOpt {
	return &ReadOpt{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Fill nil fields so that the readers never check them
func (p *ReadOpt) orDefault() *ReadOpt {
	if p == nil {
		return NewReadOpt()
	}
	q := *p
	if q.Logger == nil {
		q.Logger = NewReadOpt().Logger
	}
	return &q
}

// Report a discarded record to every sink
func (p *ReadOpt) discard(kind string, epoch []float64, sat SatType, err error) {
	p.Logger.Warn("discarding "+kind, "epoch", fmtEpoch(epoch), "sat", string(sat), "err", err)
	p.Metrics.discard(kind, err)
	p.note(epoch, sat, err.Error())
}

// Write one row to the anomaly log
func (p *ReadOpt) note(epoch []float64, sat SatType, desc string) {
	if p.Anomaly == nil {
		return
	}
	if err := p.Anomaly.Add(epoch, sat, desc); err != nil {
		p.Logger.Error("anomaly log write failed", "err", err)
		return
	}
	p.Metrics.anomaly()
}

// ------------------------------------
// For command argument parsing
// ------------------------------------

type SysVar []SysType

func (p *SysVar) Set(s string) error {
	*p = []SysType{}
	for _, a := range strings.Split(s, ",") {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		sys := SysType(a[0])
		if !sys.IsValid() {
			return fmt.Errorf("unknown satellite system, '%c'", sys)
		}
		*p = append(*p, sys)
	}
	return nil
}

func (p *SysVar) String() string {
	if p == nil {
		return ""
	}
	a := make([]string, 0, len(*p))
	for _, s := range *p {
		a = append(a, string(rune(s)))
	}
	return strings.Join(a, ",")
}

// Empty list means all systems
func (p *SysVar) Contains(s SysType) bool {
	if len(*p) == 0 {
		return true
	}
	for _, v := range *p {
		if s == v {
			return true
		}
	}
	return false
}

type CodeVar []CodeType

func (p *CodeVar) Set(s string) error {
	*p = []CodeType{}
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			*p = append(*p, CodeType(a))
		}
	}
	return nil
}

func (p *CodeVar) String() string {
	if p == nil {
		return ""
	}
	a := make([]string, 0, len(*p))
	for _, c := range *p {
		a = append(a, string(c))
	}
	return strings.Join(a, ",")
}

// ------------------------------------
// Others
// ------------------------------------

// Sort the list of satellite names
func Sorted(s []SatType) []SatType {
	s2 := make([]SatType, len(s))
	copy(s2, s)
	m := map[byte]int{'G': 0, 'J': 1, 'E': 2, 'R': 3, 'C': 4, 'S': 5, 'I': 6}
	sort.Slice(s2, func(i, j int) bool {
		if m[s2[i][0]] == m[s2[j][0]] {
			return s2[i] < s2[j]
		}
		return m[s2[i][0]] < m[s2[j][0]]
	})
	return s2
}

func fmtEpoch(epoch []float64) string {
	if len(epoch) == 0 {
		return "-"
	}
	a := make([]string, len(epoch))
	for i, v := range epoch {
		a[i] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.7f", v), "0"), ".")
	}
	return strings.Join(a, " ")
}
