package convert

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/unitconv/pkg/errors"
	"github.com/matzehuels/unitconv/pkg/units"
)

// Engine converts values between units of a registry.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	registry  *units.Registry
	formatter Formatter
}

// NewEngine creates an engine over reg using formatter for linear results.
// A nil registry selects units.Default().
func NewEngine(reg *units.Registry, formatter Formatter) *Engine {
	if reg == nil {
		reg = units.Default()
	}
	return &Engine{registry: reg, formatter: formatter}
}

var defaultEngine = NewEngine(nil, DefaultFormatter)

// Default returns the engine over the built-in registry with default
// formatting.
func Default() *Engine {
	return defaultEngine
}

// Registry returns the registry the engine converts within.
func (e *Engine) Registry() *units.Registry {
	return e.registry
}

// Formatter returns the formatter used for linear results.
func (e *Engine) Formatter() Formatter {
	return e.formatter
}

// Convert converts raw from fromUnit to toUnit within category and renders
// the result. It returns "" for any invalid request.
//
// A unit key that is not registered in the category is invalid for
// temperature as well: Convert("1", "celsius", "rankine", "temperature")
// returns "" rather than passing the value through unchanged.
func Convert(raw, fromUnit, toUnit, category string) string {
	return defaultEngine.Convert(raw, fromUnit, toUnit, category)
}

// Convert converts raw from fromUnit to toUnit within category and renders
// the result. It returns "" for any invalid request, including a unit key the
// category does not register.
func (e *Engine) Convert(raw, fromUnit, toUnit, category string) string {
	s, err := e.Result(raw, fromUnit, toUnit, category)
	if err != nil {
		return ""
	}
	return s
}

// Result is Convert with the failure reason preserved.
func (e *Engine) Result(raw, fromUnit, toUnit, category string) (string, error) {
	if raw == "" || fromUnit == "" || toUnit == "" {
		return "", errors.New(errors.ErrCodeEmptyInput, "value, from unit and to unit are required")
	}
	v, err := e.Parse(raw)
	if err != nil {
		return "", err
	}
	out, err := e.Value(v, fromUnit, toUnit, category)
	if err != nil {
		return "", err
	}
	return e.Render(category, out), nil
}

// Render formats a converted value the way Convert would for category.
func (e *Engine) Render(category string, v float64) string {
	if c, ok := e.registry.Category(category); ok && c.Kind() == units.Affine {
		return FormatShortest(v)
	}
	return e.formatter.Format(v)
}

// decimalRegex is the accepted number syntax: plain decimal with an optional
// exponent. Go literal forms such as "1_000", "0x10" or "0b1" do not match.
var decimalRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Parse parses user-entered text as a finite float64.
// Surrounding whitespace is ignored.
func (e *Engine) Parse(raw string) (float64, error) {
	if raw == "" {
		return 0, errors.New(errors.ErrCodeEmptyInput, "value is required")
	}
	s := strings.TrimSpace(raw)
	if !decimalRegex.MatchString(s) {
		if v, err := strconv.ParseFloat(s, 64); err == nil && !isFinite(v) {
			return 0, errors.New(errors.ErrCodeNonFinite, "value %q is not finite", raw)
		}
		return 0, errors.New(errors.ErrCodeInvalidNumber, "value %q is not a number", raw)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return 0, errors.New(errors.ErrCodeNonFinite, "value %q is out of range", raw)
		}
		return 0, errors.Wrap(errors.ErrCodeInvalidNumber, err, "value %q is not a number", raw)
	}
	if !isFinite(v) {
		return 0, errors.New(errors.ErrCodeNonFinite, "value %q is not finite", raw)
	}
	return v, nil
}

// Value converts v from fromUnit to toUnit within category.
func (e *Engine) Value(v float64, fromUnit, toUnit, category string) (float64, error) {
	c, ok := e.registry.Category(category)
	if !ok {
		return 0, errors.New(errors.ErrCodeUnknownCategory, "unknown category %q", category)
	}

	var out float64
	switch c := c.(type) {
	case *units.LinearCategory:
		from, ok := c.Factor(fromUnit)
		if !ok {
			return 0, unknownUnit(fromUnit, category)
		}
		to, ok := c.Factor(toUnit)
		if !ok {
			return 0, unknownUnit(toUnit, category)
		}
		if to == 0 {
			return 0, errors.New(errors.ErrCodeUnsupported, "unit %q has a zero factor", toUnit)
		}
		out = (v * from) / to
	case *units.AffineCategory:
		from, ok := c.Unit(fromUnit)
		if !ok {
			return 0, unknownUnit(fromUnit, category)
		}
		to, ok := c.Unit(toUnit)
		if !ok {
			return 0, unknownUnit(toUnit, category)
		}
		out = to.FromReference(from.ToReference(v))
	default:
		return 0, errors.New(errors.ErrCodeUnsupported, "category %q has unsupported type %T", category, c)
	}

	if !isFinite(out) {
		return 0, errors.New(errors.ErrCodeNonFinite, "result of converting %v %s to %s is not finite", v, fromUnit, toUnit)
	}
	return out, nil
}

func unknownUnit(unit, category string) error {
	return errors.New(errors.ErrCodeUnknownUnit, "unknown unit %q in %s", unit, category)
}
