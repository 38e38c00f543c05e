package diagram

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/unitconv/pkg/convert"
	"github.com/matzehuels/unitconv/pkg/errors"
	"github.com/matzehuels/unitconv/pkg/units"
)

// Supported output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Formats lists the supported output formats.
var Formats = []string{FormatDOT, FormatSVG, FormatPNG}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}

// ValidateFormat reports an INVALID_FORMAT error for unsupported formats.
func ValidateFormat(format string) error {
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported diagram format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

// Options configures diagram generation.
type Options struct {
	// Detailed labels nodes with the unit name and symbol.
	// When false, only the symbol is shown.
	Detailed bool
}

// ToDOT converts a category to Graphviz DOT source.
func ToDOT(c units.Category, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  label=%q;\n", c.Name())
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	switch c := c.(type) {
	case *units.LinearCategory:
		writeLinear(&buf, c, opts)
	case *units.AffineCategory:
		writeAffine(&buf, c, opts)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeLinear(buf *bytes.Buffer, c *units.LinearCategory, opts Options) {
	base, _ := c.Base()
	for _, u := range c.LinearUnits() {
		writeNode(buf, u.Key, u.Name, u.Symbol, u.Key == base.Key, opts)
	}
	buf.WriteString("\n")
	for _, u := range c.LinearUnits() {
		if u.Key == base.Key {
			continue
		}
		label := fmt.Sprintf("1 %s = %s %s", u.Symbol, convert.FormatShortest(u.Factor), base.Symbol)
		fmt.Fprintf(buf, "  %q -> %q [label=%q];\n", u.Key, base.Key, label)
	}
}

func writeAffine(buf *bytes.Buffer, c *units.AffineCategory, opts Options) {
	ref, _ := c.Reference()
	for _, u := range c.AffineUnits() {
		writeNode(buf, u.Key, u.Name, u.Symbol, u.Key == ref.Key, opts)
	}
	buf.WriteString("\n")
	for _, u := range c.AffineUnits() {
		if u.Key == ref.Key {
			continue
		}
		label := fmt.Sprintf("%s = %s", u.Symbol, u.Formula)
		fmt.Fprintf(buf, "  %q -> %q [label=%q];\n", ref.Key, u.Key, label)
	}
}

func writeNode(buf *bytes.Buffer, key, name, symbol string, hub bool, opts Options) {
	label := symbol
	if opts.Detailed {
		label = name + "\n" + symbol
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if hub {
		attrs = append(attrs, "fillcolor=lightblue", "penwidth=2")
	}
	fmt.Fprintf(buf, "  %q [%s];\n", key, strings.Join(attrs, ", "))
}

// Render renders DOT source in the given format.
// FormatDOT returns the source unchanged.
func Render(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		out, err := render(ctx, dot, graphviz.SVG)
		if err != nil {
			return nil, err
		}
		return normalizeViewBox(out), nil
	case FormatPNG:
		return render(ctx, dot, graphviz.PNG)
	default:
		return nil, ValidateFormat(format)
	}
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the drawing scales from a
// zero origin with explicit width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
