package diagram

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/unitconv/pkg/errors"
	"github.com/matzehuels/unitconv/pkg/units"
)

func category(t *testing.T, key string) units.Category {
	t.Helper()
	c, ok := units.Default().Category(key)
	if !ok {
		t.Fatalf("category %q not found", key)
	}
	return c
}

func TestToDOT_Linear(t *testing.T) {
	dot := ToDOT(category(t, units.Length), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"kilometer" -> "meter" [label="1 km = 1000 m"]`) {
		t.Errorf("ToDOT() missing kilometer edge:\n%s", dot)
	}
	if !strings.Contains(dot, `"nanometer" -> "meter" [label="1 nm = 0.000000001 m"]`) {
		t.Errorf("ToDOT() should not use exponent notation:\n%s", dot)
	}
	if strings.Contains(dot, `"meter" -> "meter"`) {
		t.Error("ToDOT() should not draw a base self-loop")
	}
	if !strings.Contains(dot, `"meter" [label="m", fillcolor=lightblue, penwidth=2]`) {
		t.Errorf("ToDOT() base node not highlighted:\n%s", dot)
	}
}

func TestToDOT_Affine(t *testing.T) {
	dot := ToDOT(category(t, units.Temperature), Options{})

	if !strings.Contains(dot, `"celsius" -> "fahrenheit" [label="°F = °C × 9/5 + 32"]`) {
		t.Errorf("ToDOT() missing fahrenheit edge:\n%s", dot)
	}
	if !strings.Contains(dot, `"celsius" -> "kelvin" [label="K = °C + 273.15"]`) {
		t.Errorf("ToDOT() missing kelvin edge:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(category(t, units.Volume), Options{Detailed: true})

	if !strings.Contains(dot, `label="Fluid Ounce\nfl oz"`) {
		t.Errorf("ToDOT() detailed output missing name and symbol:\n%s", dot)
	}
	if !strings.Contains(dot, `label="Volume"`) {
		t.Error("ToDOT() missing graph label")
	}
}

func TestRenderDOTPassthrough(t *testing.T) {
	dot := ToDOT(category(t, units.Time), Options{})
	out, err := Render(context.Background(), dot, FormatDOT)
	if err != nil {
		t.Fatalf("Render(dot) error = %v", err)
	}
	if string(out) != dot {
		t.Error("Render(dot) should return the source unchanged")
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range Formats {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", f, err)
		}
	}
	err := ValidateFormat("pdf")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(pdf) = %v, want INVALID_FORMAT", err)
	}
	if _, err := Render(context.Background(), "digraph{}", "pdf"); err == nil {
		t.Error("Render(pdf) should fail")
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		FormatSVG: "image/svg+xml",
		FormatPNG: "image/png",
		FormatDOT: "text/vnd.graphviz; charset=utf-8",
	}
	for format, want := range tests {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() should leave svg without viewBox unchanged")
	}
}
