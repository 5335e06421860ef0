// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aat

import (
	"math"
	"strconv"
	"strings"
)

// reportPrefix precedes the rendered minimum on the report line.
const reportPrefix = "The smallest L1 average access time (AAT) is: "

// absent is printed when no labelled line was found.
const absent = "None"

// Report returns the single line printed for a scan, without a trailing
// newline.
func Report(s Summary) string {
	return reportPrefix + FormatValue(s)
}

// FormatValue renders the minimum with the shortest digits that round-trip.
// Integral values keep a ".0" suffix and magnitudes outside [1e-4, 1e16)
// use exponent notation.
func FormatValue(s Summary) string {
	if !s.Found {
		return absent
	}
	return formatFloat(s.Value)
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	out := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}
