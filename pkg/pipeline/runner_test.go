package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/unitconv/pkg/cache"
	"github.com/matzehuels/unitconv/pkg/convert"
	"github.com/matzehuels/unitconv/pkg/diagram"
	"github.com/matzehuels/unitconv/pkg/errors"
	"github.com/matzehuels/unitconv/pkg/history"
	"github.com/matzehuels/unitconv/pkg/observability"
	"github.com/matzehuels/unitconv/pkg/units"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

// failingCache misses every read and rejects every write.
type failingCache struct{ cache.NullCache }

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return cache.ErrNetwork
}

type convertSpy struct {
	observability.NoopPipelineHooks
	mu    sync.Mutex
	calls int
	errs  int
}

func (s *convertSpy) OnConvert(_ context.Context, _, _, _ string, _ time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err != nil {
		s.errs++
	}
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(&strings.Builder{}, log.Options{Level: log.FatalLevel})
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil, nil)
	if r.Engine == nil || r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Fatalf("NewRunner left nil fields: %+v", r)
	}
	if r.History != nil {
		t.Error("History should stay nil")
	}
	if r.DiagramTTL != TTLDiagram {
		t.Errorf("DiagramTTL = %v, want %v", r.DiagramTTL, TTLDiagram)
	}
}

func TestRunnerConvert(t *testing.T) {
	hist := history.NewMemoryStore(10)
	r := NewRunner(nil, nil, nil, hist, quietLogger())
	ctx := context.Background()

	tests := []struct {
		req  Request
		want string
		cat  string
	}{
		{Request{Value: "1", From: "kilometer", To: "mile"}, "0.62137274", units.Length},
		{Request{Value: "100", From: "celsius", To: "fahrenheit", Category: units.Temperature}, "212", units.Temperature},
		{Request{Value: "1", From: "kilogram", To: "pound"}, "2.20462442", units.Weight},
		{Request{Value: "3600", From: "second", To: "hour"}, "1", units.Time},
	}
	for _, tt := range tests {
		res, err := r.Convert(ctx, tt.req)
		if err != nil {
			t.Errorf("Convert(%+v) error: %v", tt.req, err)
			continue
		}
		if res.Formatted != tt.want {
			t.Errorf("Convert(%+v) = %q, want %q", tt.req, res.Formatted, tt.want)
		}
		if res.Category != tt.cat {
			t.Errorf("Convert(%+v) category = %q, want %q", tt.req, res.Category, tt.cat)
		}
	}

	recs, _ := hist.Recent(ctx, 0)
	if len(recs) != len(tests) {
		t.Fatalf("history has %d records, want %d", len(recs), len(tests))
	}
	if recs[0].From != "second" || recs[0].Output != "1" {
		t.Errorf("newest record = %+v", recs[0])
	}
}

func TestRunnerConvertSymbols(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil, quietLogger())
	res, err := r.Convert(context.Background(), Request{Value: "2", From: "foot", To: "inch"})
	if err != nil {
		t.Fatal(err)
	}
	if res.FromSymbol != "ft" || res.ToSymbol != "in" {
		t.Errorf("symbols = %q/%q", res.FromSymbol, res.ToSymbol)
	}
	if res.Formatted != "24" {
		t.Errorf("Formatted = %q, want 24", res.Formatted)
	}
}

func TestRunnerConvertErrors(t *testing.T) {
	hist := history.NewMemoryStore(10)
	r := NewRunner(nil, nil, nil, hist, quietLogger())
	ctx := context.Background()

	tests := []struct {
		req  Request
		code errors.Code
	}{
		{Request{Value: "", From: "meter", To: "foot"}, errors.ErrCodeEmptyInput},
		{Request{Value: "   ", From: "meter", To: "foot"}, errors.ErrCodeEmptyInput},
		{Request{Value: "1", From: "", To: "foot"}, errors.ErrCodeEmptyInput},
		{Request{Value: "abc", From: "meter", To: "foot"}, errors.ErrCodeInvalidNumber},
		{Request{Value: "1e400", From: "meter", To: "foot"}, errors.ErrCodeNonFinite},
		{Request{Value: "1", From: "meter", To: "pound"}, errors.ErrCodeUnknownUnit},
		{Request{Value: "1", From: "meter", To: "foot", Category: "speed"}, errors.ErrCodeUnknownCategory},
		{Request{Value: "1", From: "meter", To: "pound", Category: units.Length}, errors.ErrCodeUnknownUnit},
	}
	for _, tt := range tests {
		_, err := r.Convert(ctx, tt.req)
		if !errors.Is(err, tt.code) {
			t.Errorf("Convert(%+v) = %v, want %s", tt.req, err, tt.code)
		}
	}

	if recs, _ := hist.Recent(ctx, 0); len(recs) != 0 {
		t.Errorf("failed conversions recorded: %+v", recs)
	}
}

func TestRunnerConvertHooks(t *testing.T) {
	spy := &convertSpy{}
	observability.SetPipelineHooks(spy)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil, nil, quietLogger())
	ctx := context.Background()
	r.Convert(ctx, Request{Value: "1", From: "meter", To: "foot"})
	r.Convert(ctx, Request{Value: "x", From: "meter", To: "foot"})

	if spy.calls != 2 || spy.errs != 1 {
		t.Errorf("hooks saw %d calls and %d errors, want 2 and 1", spy.calls, spy.errs)
	}
}

func TestResolveCategoryAmbiguous(t *testing.T) {
	reg := units.MustNewRegistry(
		units.NewLinear("a", "A",
			units.LinearUnit{Key: "x", Name: "X", Symbol: "x", Factor: 1},
			units.LinearUnit{Key: "y", Name: "Y", Symbol: "y", Factor: 2}),
		units.NewLinear("b", "B",
			units.LinearUnit{Key: "x", Name: "X", Symbol: "x", Factor: 1},
			units.LinearUnit{Key: "y", Name: "Y", Symbol: "y", Factor: 3}),
	)

	if _, err := ResolveCategory(reg, "x", "y", ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ResolveCategory ambiguous = %v, want INVALID_INPUT", err)
	}
	got, err := ResolveCategory(reg, "x", "y", "b")
	if err != nil || got != "b" {
		t.Errorf("ResolveCategory explicit = %q, %v", got, err)
	}

	r := NewRunner(convert.NewEngine(reg, convert.DefaultFormatter), nil, nil, nil, quietLogger())
	res, err := r.Convert(context.Background(), Request{Value: "3", From: "y", To: "x", Category: "b"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Formatted != "9" {
		t.Errorf("custom registry result = %q, want 9", res.Formatted)
	}
}

func TestRunnerConvertAll(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil, quietLogger())
	rows, err := r.ConvertAll(context.Background(), "1", "meter", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(units.Default().Units(units.Length)) {
		t.Fatalf("got %d rows", len(rows))
	}
	want := map[string]string{
		"meter":      "1",
		"kilometer":  "0.001",
		"centimeter": "100",
		"foot":       "3.2808399",
		"inch":       "39.37007874",
		"yard":       "1.0936133",
	}
	for _, row := range rows {
		if w, ok := want[row.Unit.Key]; ok && row.Formatted != w {
			t.Errorf("%s = %q, want %q", row.Unit.Key, row.Formatted, w)
		}
	}

	if _, err := r.ConvertAll(context.Background(), "1", "furlong", ""); !errors.Is(err, errors.ErrCodeUnknownUnit) {
		t.Errorf("unknown unit error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.ConvertAll(ctx, "1", "meter", units.Length); err == nil {
		t.Error("expected context error")
	}
}

func TestRunnerDiagramDOT(t *testing.T) {
	c := newMemCache()
	r := NewRunner(nil, c, nil, nil, quietLogger())
	out, err := r.Diagram(context.Background(), units.Length, diagram.FormatDOT, diagram.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Cached {
		t.Error("DOT output reported as cached")
	}
	if !strings.HasPrefix(string(out.Data), "digraph") {
		t.Errorf("unexpected DOT: %.40s", out.Data)
	}
	if len(c.data) != 0 {
		t.Error("DOT output should not be cached")
	}
}

func TestRunnerDiagramCacheHit(t *testing.T) {
	c := newMemCache()
	r := NewRunner(nil, c, nil, nil, quietLogger())
	ctx := context.Background()

	cat, _ := units.Default().Category(units.Weight)
	dot := diagram.ToDOT(cat, diagram.Options{})
	key := r.Keyer.DiagramKey(units.Weight, diagram.FormatSVG, cache.DiagramKeyOpts{
		RegistryHash: cache.Hash([]byte(dot)),
	})
	c.Set(ctx, key, []byte("<svg/>"), 0)

	out, err := r.Diagram(ctx, units.Weight, diagram.FormatSVG, diagram.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Cached || string(out.Data) != "<svg/>" {
		t.Errorf("Diagram = %q cached=%v, want cache hit", out.Data, out.Cached)
	}
}

func TestRunnerDiagramCacheWriteFailure(t *testing.T) {
	r := NewRunner(nil, failingCache{}, nil, nil, quietLogger())

	out, err := r.Diagram(context.Background(), units.Time, diagram.FormatSVG, diagram.Options{})
	if err != nil {
		t.Fatalf("Diagram should succeed when only the cache write fails: %v", err)
	}
	if !strings.Contains(string(out.Data), "<svg") {
		t.Errorf("unexpected SVG: %.60s", out.Data)
	}
	if out.Cached {
		t.Error("fresh render reported as cached")
	}
	if out.CacheErr == nil {
		t.Error("CacheErr should report the failed write")
	}
}

func TestRunnerDiagramErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil, quietLogger())
	ctx := context.Background()
	if _, err := r.Diagram(ctx, units.Length, "pdf", diagram.Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("pdf: %v", err)
	}
	if _, err := r.Diagram(ctx, "speed", diagram.FormatDOT, diagram.Options{}); !errors.Is(err, errors.ErrCodeUnknownCategory) {
		t.Errorf("speed: %v", err)
	}
}
