// Package pipeline runs conversions and diagram renders for the CLI and the
// HTTP API.
//
// Both entry points go through a [Runner] so they share validation, history
// recording, observability hooks and the diagram cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, cache, nil, history, logger)
//	res, err := runner.Convert(ctx, pipeline.Request{
//	    Value: "1",
//	    From:  "kilometer",
//	    To:    "mile",
//	})
//	fmt.Println(res.Formatted) // 0.62137274
//
// A conversion table of one value in every unit of a category:
//
//	rows, err := runner.ConvertAll(ctx, "1", "meter", "length")
//
// A rendered category diagram, cached by content:
//
//	out, err := runner.Diagram(ctx, "length", diagram.FormatSVG, diagram.Options{})
//	os.WriteFile("length.svg", out.Data, 0644)
package pipeline

import (
	"strings"
	"time"

	"github.com/matzehuels/unitconv/pkg/errors"
	"github.com/matzehuels/unitconv/pkg/units"
)

// TTLDiagram is the default time rendered diagrams stay cached.
const TTLDiagram = 7 * 24 * time.Hour

// Request describes one conversion.
type Request struct {
	Value    string `json:"value"`
	From     string `json:"from"`
	To       string `json:"to"`
	Category string `json:"category,omitempty"`
}

// Result is a completed conversion.
type Result struct {
	Request
	Result     float64       `json:"-"`
	Formatted  string        `json:"result"`
	FromSymbol string        `json:"from_symbol"`
	ToSymbol   string        `json:"to_symbol"`
	Duration   time.Duration `json:"-"`
}

// Row is one line of a conversion table.
type Row struct {
	Unit      units.UnitInfo `json:"unit"`
	Result    float64        `json:"-"`
	Formatted string         `json:"result"`
}

// Rendered is a category diagram produced by [Runner.Diagram].
type Rendered struct {
	Data   []byte
	Cached bool // served from the cache
	// CacheErr is set when the render succeeded but could not be cached.
	CacheErr error
}

// Validate checks that the request names a value and both units.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Value) == "" {
		return errors.New(errors.ErrCodeEmptyInput, "value is required")
	}
	if r.From == "" || r.To == "" {
		return errors.New(errors.ErrCodeEmptyInput, "from and to units are required")
	}
	return nil
}

// ResolveCategory returns the category for a pair of unit keys, inferring it
// when category is empty. Inference fails if no category, or more than one,
// contains both units.
func ResolveCategory(reg *units.Registry, from, to, category string) (string, error) {
	if category != "" {
		if _, ok := reg.Category(category); !ok {
			return "", errors.New(errors.ErrCodeUnknownCategory, "unknown category %q", category)
		}
		return category, nil
	}
	keys := reg.CategoriesOf(from, to)
	switch len(keys) {
	case 0:
		return "", errors.New(errors.ErrCodeUnknownUnit, "no category contains both %q and %q", from, to)
	case 1:
		return keys[0], nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput,
			"units %q and %q are ambiguous; pick one of %s", from, to, strings.Join(keys, ", "))
	}
}
