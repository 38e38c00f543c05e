package convert

import (
	"math"
	"strconv"
	"strings"
)

// DefaultPrecision is the number of fractional digits linear results are
// rounded to before trailing zeros are trimmed.
const DefaultPrecision = 8

// MaxPrecision is the largest precision a Formatter accepts.
const MaxPrecision = 15

// Formatter renders results with bounded decimal precision.
type Formatter struct {
	precision int
}

// NewFormatter returns a formatter rounding to precision fractional digits.
// Precision is clamped to [0, MaxPrecision].
func NewFormatter(precision int) Formatter {
	if precision < 0 {
		precision = 0
	}
	if precision > MaxPrecision {
		precision = MaxPrecision
	}
	return Formatter{precision: precision}
}

// DefaultFormatter rounds to DefaultPrecision digits.
var DefaultFormatter = NewFormatter(DefaultPrecision)

// Precision returns the configured number of fractional digits.
func (f Formatter) Precision() int {
	return f.precision
}

// Format renders v with at most Precision fractional digits, stripping
// trailing zeros and a trailing decimal point. Non-finite values yield "".
//
//	2          → "2"
//	0.3048     → "0.3048"
//	3.28083989501 → "3.2808399"
func (f Formatter) Format(v float64) string {
	if !isFinite(v) {
		return ""
	}
	s := strconv.FormatFloat(v, 'f', f.precision, 64)
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return normalizeZero(s)
}

// Format renders v with DefaultFormatter.
func Format(v float64) string {
	return DefaultFormatter.Format(v)
}

// FormatShortest renders v as the shortest decimal string that parses back
// to the same float64, without an exponent. Non-finite values yield "".
func FormatShortest(v float64) string {
	if !isFinite(v) {
		return ""
	}
	return normalizeZero(strconv.FormatFloat(v, 'f', -1, 64))
}

// normalizeZero maps a negative zero rendering to "0".
func normalizeZero(s string) string {
	if s == "-0" {
		return "0"
	}
	return s
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
