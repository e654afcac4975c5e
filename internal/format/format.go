// Package format renders KPI values and dates for display.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const FooterDateLayout = "02 January 2006"

// business-style suffixes for the SI prefixes humanize computes
var suffixes = map[string]string{
	"":  "",
	"k": "K",
	"M": "M",
	"G": "B",
	"T": "T",
	"P": "P",
	"E": "E",
}

// Metric abbreviates v with a magnitude suffix and at most two decimals,
// dropping trailing zeros: 1234.5 -> "1.23K", 1500000 -> "1.5M", 0 -> "0".
func Metric(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	value, prefix := v, ""
	if math.Abs(v) >= 1000 {
		value, prefix = humanize.ComputeSI(v)
	}
	suffix, ok := suffixes[prefix]
	if !ok {
		value, suffix = v, ""
	}

	s := strconv.FormatFloat(value, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		s = "0"
	}
	return s + suffix
}

func MetricInt(v int) string {
	return Metric(float64(v))
}

// FooterDate renders t as "15 September 2019".
func FooterDate(t time.Time) string {
	return t.Format(FooterDateLayout)
}
