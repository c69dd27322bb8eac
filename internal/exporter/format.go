package exporter

import (
	"strconv"
)

// formatCount formats a count cell for CSV output. Absent values stay empty,
// mirroring the source file's convention.
func formatCount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// formatRatio formats a derived ratio with four decimal places.
func formatRatio(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}

// formatPercent formats a derived percentage with two decimal places.
func formatPercent(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
