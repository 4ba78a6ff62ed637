// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.20
//

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	m "github.com/mkhts/gorinex"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {

	// Parse command line arguments
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		m.PrintE(err)
		flag.Usage()
		os.Exit(1)
	}

	// Run the main application
	if err := runApplication(args, os.Stdout); err != nil {
		m.PrintE(err)
		os.Exit(1)
	}
}

// Main application processing
func runApplication(args cmdOpt, stdout io.Writer) error {

	// Prepare anomaly log and metrics
	anomaly, closeLog, err := prepareAnomalyLog(args)
	if err != nil {
		return fmt.Errorf("failed to prepare anomaly log: %w", err)
	}
	defer closeLog()
	metrics, err := m.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	opt := &m.ReadOpt{
		Logger:  m.NewLogger(os.Stderr, args.dbg),
		Metrics: metrics,
		Anomaly: anomaly,
	}

	// Load navigation file
	nf, err := readNav(args.navFn, opt)
	if err != nil {
		return fmt.Errorf("failed to read navigation file: %w", err)
	}
	if m.DBG_ >= 2 {
		m.PrintA("--- nav data (%s)---\n", filepath.Base(args.navFn))
		m.PrintA("%s\n", nf.Nav)
	}

	// Open observation file
	f, err := os.Open(args.obsFn)
	if err != nil {
		return fmt.Errorf("failed to open observation file: %w", err)
	}
	defer f.Close()
	dec, err := m.NewObsDecoder(f, opt)
	if err != nil {
		return fmt.Errorf("failed to read observation header: %w", err)
	}
	if m.DBG_ >= 1 {
		m.PrintA("--- obs header (%s)---\n", filepath.Base(args.obsFn))
		printObsHeader(dec.Header)
	}

	// Prepare output file
	out, err := prepareOutput(args, stdout)
	if err != nil {
		return fmt.Errorf("failed to prepare output: %w", err)
	}
	defer out.Close()

	// Process epochs
	if err := processEpochs(args, dec, nf.Nav, anomaly, out); err != nil {
		return err
	}

	if args.metricsFn != "" {
		if err := metrics.WriteFile(args.metricsFn); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// Open the anomaly log file if one is specified
func prepareAnomalyLog(args cmdOpt) (*m.AnomalyLog, func(), error) {
	if args.logFn == "" {
		return nil, func() {}, nil
	}
	lf, err := os.Create(args.logFn)
	if err != nil {
		return nil, nil, err
	}
	al, err := m.NewAnomalyLog(lf, filepath.Base(args.obsFn))
	if err != nil {
		lf.Close()
		return nil, nil, err
	}
	return al, func() { lf.Close() }, nil
}

// Prepare output file
func prepareOutput(args cmdOpt, stdout io.Writer) (io.WriteCloser, error) {

	// Use stdout if no output file is specified
	if len(args.outFn) == 0 {
		return &nopCloser{stdout}, nil
	}

	// Create output file
	of, err := os.Create(args.outFn)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return of, nil
}

// Process epochs
func processEpochs(args cmdOpt, dec *m.ObsDecoder, nav m.Nav, anomaly *m.AnomalyLog, out io.Writer) error {

	codes := args.codes
	if len(codes) == 0 {
		codes = defaultCodes(dec.Header.Format.Major)
	}
	printOutHeader(out, codes)

	var prev *m.GTime
	for {
		obse, err := dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, m.ErrMalformedField) || errors.Is(err, m.ErrIncompleteEpoch) {
				m.PrintD(1, "epoch skipped: %s\n", err.Error())
				continue
			}
			if errors.Is(err, m.ErrUnexpectedEOF) {
				m.PrintD(1, "last epoch cut off: %s\n", err.Error())
				return nil
			}
			return fmt.Errorf("failed to read observation epoch: %w", err)
		}

		gt, err := m.GPSWeekTime(obse.Epoch)
		if err != nil {
			continue
		}

		// Skip epochs that are not divisible by the specified time interval
		if args.ti > 0 && !gt.Divisible(args.ti) {
			continue
		}
		if prev != nil && gt.Less(*prev, false) {
			m.PrintD(1, "epoch %s is earlier than the previous one\n", m.EpochClock(obse.Epoch))
		}
		prev = &gt

		processSingleEpoch(args, dec.Header, obse, codes, nav, anomaly, out)
	}
}

// Print the selected observations and the matched ephemeris of each satellite of one epoch
func processSingleEpoch(args cmdOpt, hdr *m.ObsHeader, obse *m.ObsEpoch, codes []m.CodeType, nav m.Nav, anomaly *m.AnomalyLog, out io.Writer) {

	m.PrintD(2, "\n>>> %s\n", obse)
	fmt.Fprintf(out, "> %s %10.2f %3d\n", m.EpochClock(obse.Epoch), obse.Time, len(obse.Sats))

	// Select the requested observation codes for each system
	sel := map[m.SysType][]map[m.SatType]float64{}
	for _, sat := range obse.Sats {
		sys := sat.Sys()
		if _, ok := sel[sys]; ok || !args.sys.Contains(sys) {
			continue
		}
		sel[sys] = make([]map[m.SatType]float64, len(codes))
		for i, code := range codes {
			v, err := m.SelectObs(obse.ObsOf(sys), hdr.TypesFor(sys), code)
			if err != nil {
				m.PrintD(2, "\t%c: %s\n", sys, err.Error())
				addAnomaly(anomaly, obse.Epoch, m.SatType(string(rune(sys))), fmt.Sprintf("REQUESTED %s OBSERVATION IS UNAVAILABLE", code))
			}
			sel[sys][i] = v
		}
	}

	for _, sat := range obse.Sats {
		vals, ok := sel[sat.Sys()]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%s", sat)
		for _, v := range vals {
			if x, ok := v[sat]; ok {
				fmt.Fprintf(out, " %14.3f", x)
			} else {
				fmt.Fprintf(out, " %14s", "-")
			}
		}

		// Ephemeris closest in time
		eph, err := nav.Nearest(sat, obse.Time)
		if err != nil {
			fmt.Fprintf(out, "  no ephemeris\n")
			addAnomaly(anomaly, obse.Epoch, sat, "NO EPHEMERIS")
			continue
		}
		fmt.Fprintf(out, "  toc=%10.2f dt=%9.2f\n", eph.GPSTime(), obse.Time-eph.GPSTime())
	}
}

func addAnomaly(anomaly *m.AnomalyLog, epoch []float64, sat m.SatType, desc string) {
	if anomaly == nil {
		return
	}
	if err := anomaly.Add(epoch, sat, desc); err != nil {
		m.PrintE(err)
	}
}

// Pseudorange and carrier phase on L1
func defaultCodes(major int) []m.CodeType {
	if major == 2 {
		return []m.CodeType{"C1", "L1"}
	}
	return []m.CodeType{"C1C", "L1C"}
}

// Print column titles
func printOutHeader(out io.Writer, codes []m.CodeType) {
	fmt.Fprintf(out, "%% SAT")
	for _, c := range codes {
		kind := "obs"
		switch c.T() {
		case 'C', 'P':
			kind = "range"
		case 'L':
			kind = "phase"
		case 'D':
			kind = "doppler"
		case 'S':
			kind = "snr"
		}
		fmt.Fprintf(out, " %14s", fmt.Sprintf("%s(%s)", c, kind))
	}
	fmt.Fprintf(out, "  ephemeris\n")
}

// Print observation header overview
func printObsHeader(hdr *m.ObsHeader) {
	m.PrintA("format  : %s\n", hdr.Format)
	m.PrintA("marker  : %s\n", hdr.MarkerName)
	if !hdr.ApproxPos.IsZero() {
		llh := hdr.ApproxPos.ToLLH()
		arp := hdr.AntennaPos()
		m.PrintA("position: %.4f %.4f %.4f (%s)\n", hdr.ApproxPos.X, hdr.ApproxPos.Y, hdr.ApproxPos.Z, llh.String())
		m.PrintA("antenna : %.4f %.4f %.4f\n", arp.X, arp.Y, arp.Z)
	}
	m.PrintA("first   : %v\n", hdr.FirstObs)
	m.PrintA("last    : %v\n", hdr.LastObs)
	for _, sys := range []m.SysType{'G', 'J', 'E', 'R', 'C', 'S', 'I', 'M'} {
		if a, ok := hdr.ObsTypes[sys]; ok {
			m.PrintA("\t%c (%2d): %v\n", sys, len(a), a)
		}
	}
}

// nopCloser - WriteCloser that ignores close operations
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Structure to hold command line argument information
type cmdOpt struct {
	obsFn     string
	navFn     string
	outFn     string
	logFn     string
	metricsFn string
	codes     m.CodeVar
	sys       m.SysVar
	ti        int
	dbg       int
}

// Parse command line arguments
func parseArgs(argv []string) (a cmdOpt, err error) {
	fs := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
	fs.Usage = func() {
		m.PrintA(`
[Usage]
	%s [Options] file.obs file.nav
	%s [Options] -c config.yaml

[Options]
`, fs.Name(), fs.Name())
		fs.PrintDefaults()
	}
	flag.Usage = fs.Usage
	var cfgFn string
	fs.StringVar(&cfgFn, "c", "", "YAML config file. Command line options take precedence over its settings.")
	fs.Var(&a.codes, "codes", "Observation codes to print. Comma-separated without spaces like C1C,L1C. Default: C1,L1 (RINEX 2) or C1C,L1C (RINEX 3)")
	fs.Var(&a.sys, "sys", "Satellite systems to print. G(GPS), J(QZSS), E(Galileo), R(Glonass), C(Beidou). Comma-separated without spaces. Default: all")
	fs.StringVar(&a.outFn, "o", "", "Output file path. If not specified, output to stdout.")
	fs.StringVar(&a.logFn, "log", "", "Anomaly log file path. If not specified, no log is written.")
	fs.StringVar(&a.metricsFn, "metrics", "", "File to write decode counters to, in Prometheus text format.")
	fs.IntVar(&a.ti, "ti", 0, "Output interval. An epoch is printed when its second value is divisible by the specified value. Omit or set to 0 to print all epochs.")
	fs.IntVar(&a.dbg, "x", 0, "Debug information display. Specify level value. 0(OFF), 1(display), 2(detailed display)")
	if err := fs.Parse(argv); err != nil {
		return a, err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	switch fs.NArg() {
	case 0:
	case 2:
		a.obsFn = fs.Arg(0)
		a.navFn = fs.Arg(1)
	default:
		return a, fmt.Errorf("too less or many arguments")
	}
	if cfgFn != "" {
		cfg, err := loadConfig(cfgFn)
		if err != nil {
			return a, err
		}
		if err := cfg.applyTo(&a, set); err != nil {
			return a, err
		}
	}
	if a.obsFn == "" || a.navFn == "" {
		return a, fmt.Errorf("observation and navigation files must be specified")
	}
	m.DBG_ = a.dbg
	return a, nil
}

// Read navigation file. A record cut off at the end of the file is tolerated.
func readNav(fn string, opt *m.ReadOpt) (*m.NavFile, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	nf, err := m.ReadNav(f, opt)
	if err != nil {
		if errors.Is(err, m.ErrUnexpectedEOF) && nf != nil {
			m.PrintD(1, "%s\n", err.Error())
			return nf, nil
		}
		return nil, err
	}
	return nf, nil
}
