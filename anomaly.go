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
	"strings"
)

var anomalyRule = strings.Repeat("-", 89) + "\n"

// Fixed-width table of unexpected breaks or missing information found in the input files
type AnomalyLog struct {
	w    io.Writer
	rows int
}

// Write the banner and column titles, and return the log
func NewAnomalyLog(w io.Writer, inputName string) (*AnomalyLog, error) {
	var sb strings.Builder
	sb.WriteString(anomalyRule)
	sb.WriteString(anomalyRule)
	sb.WriteString("THIS IS A LOG FILE FOR THE RINEX FILE READER.\n")
	sb.WriteString("THIS FILE CONTAINS RECORDS OF ANY UNEXPECTED BREAKS OR MISSING INFORMATION IN DATA FILES.\n")
	sb.WriteString(anomalyRule)
	sb.WriteString(anomalyRule)
	sb.WriteString(fmt.Sprintf("OBSERVATION FILE NAME: %s\n\n", inputName))
	sb.WriteString(fmt.Sprintf("%-30s%-20s%-20s\n", "EPOCH INFORMATION", "PRN", "DESCRIPTION"))
	sb.WriteString(anomalyRule)
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return nil, fmt.Errorf("failed to write anomaly log banner: %w", err)
	}
	return &AnomalyLog{w: w}, nil
}

// Append one row
func (p *AnomalyLog) Add(epoch []float64, sat SatType, desc string) error {
	prn := string(sat)
	if prn == "" {
		prn = "-"
	}
	if _, err := fmt.Fprintf(p.w, "%-30s%-20s%s\n", fmtEpoch(epoch), prn, desc); err != nil {
		return err
	}
	p.rows++
	return nil
}

// Number of rows written so far
func (p *AnomalyLog) Rows() int {
	return p.rows
}
