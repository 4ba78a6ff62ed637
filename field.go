// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.21
//

package gorinex

import (
	"fmt"
	"strconv"
	"strings"
)

// ------------------------------------
// Fixed-width field extraction
// ------------------------------------

var exponentFixer = strings.NewReplacer("D", "E", "d", "e")

// Rewrite FORTRAN double precision exponent (1.0D+03) to the standard one (1.0E+03)
func FixExponent(s string) string {
	return exponentFixer.Replace(s)
}

// Return columns [off, off+width) of the line with surrounding blanks removed.
// Columns past the end of the line are treated as blanks.
func Field(line string, off, width int) string {
	if off >= len(line) || width <= 0 {
		return ""
	}
	end := off + width
	if end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[off:end])
}

// Read real values by absorbing variations in exponential notation within RINEX files.
// A blank string is an omitted value and reads as zero.
func ParseFloat(str string) (float64, error) {
	s := strings.TrimSpace(str)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(FixExponent(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedField, s)
	}
	return v, nil
}

// Integer version of ParseFloat
func ParseInt(str string) (int, error) {
	s := strings.TrimSpace(str)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedField, s)
	}
	return v, nil
}

func FieldFloat(line string, off, width int) (float64, error) {
	return ParseFloat(Field(line, off, width))
}

func FieldInt(line string, off, width int) (int, error) {
	return ParseInt(Field(line, off, width))
}

// Cut a string into fixed-width slots. The last slot may be shorter than width.
func SplitSlots(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	slots := make([]string, 0, (len(s)+width-1)/width)
	for i := 0; i < len(s); i += width {
		j := min(i+width, len(s))
		slots = append(slots, s[i:j])
	}
	return slots
}

// Fill in blanks up to the given width
func PadLine(line string, width int) string {
	if len(line) >= width {
		return line
	}
	return line + strings.Repeat(" ", width-len(line))
}

// Return the part of the line from column off, or "" if the line is shorter
func tail(line string, off int) string {
	if off >= len(line) {
		return ""
	}
	return line[off:]
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Extract HEADER LABEL string from a header line
func getHeaderLabel(l string) string {
	if len(l) < LabelColumn {
		return ""
	}
	return strings.TrimSpace(l[LabelColumn:])
}

// Return the data part of a header line (columns 1-60)
func headerData(l string) string {
	if len(l) < LabelColumn {
		return l
	}
	return l[:LabelColumn]
}

// Parse all whitespace separated numbers of s, skipping words that are not numbers
// (e.g. the time system tag of TIME OF FIRST OBS).
func parseNumbers(s string) []float64 {
	var out []float64
	for _, w := range strings.Fields(s) {
		v, err := strconv.ParseFloat(FixExponent(w), 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
