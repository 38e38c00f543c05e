package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/unitconv/pkg/cache"
	"github.com/matzehuels/unitconv/pkg/convert"
	"github.com/matzehuels/unitconv/pkg/diagram"
	"github.com/matzehuels/unitconv/pkg/errors"
	"github.com/matzehuels/unitconv/pkg/history"
	"github.com/matzehuels/unitconv/pkg/observability"
)

// cacheKeyType labels diagram entries in cache hooks.
const cacheKeyType = "diagram"

// Runner executes conversions and diagram renders.
//
// The Runner holds no per-request state. Multiple goroutines can safely use
// the same Runner.
type Runner struct {
	Engine  *convert.Engine
	Cache   cache.Cache
	Keyer   cache.Keyer
	History history.Store
	Logger  *log.Logger

	// DiagramTTL is how long rendered diagrams stay cached.
	DiagramTTL time.Duration
}

// NewRunner creates a runner.
// If engine is nil, convert.Default() is used.
// If c is nil, a NullCache is used (caching disabled).
// If keyer is nil, a DefaultKeyer is used.
// A nil history store disables recording.
func NewRunner(engine *convert.Engine, c cache.Cache, keyer cache.Keyer, hist history.Store, logger *log.Logger) *Runner {
	if engine == nil {
		engine = convert.Default()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Engine:     engine,
		Cache:      c,
		Keyer:      keyer,
		History:    hist,
		Logger:     logger,
		DiagramTTL: TTLDiagram,
	}
}

// Convert runs one conversion. Unlike convert.Convert, failures are returned
// as coded errors instead of an empty result.
func (r *Runner) Convert(ctx context.Context, req Request) (res *Result, err error) {
	start := time.Now()
	defer func() {
		observability.Pipeline().OnConvert(ctx, req.Category, req.From, req.To, time.Since(start), err)
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	category, err := ResolveCategory(r.Engine.Registry(), req.From, req.To, req.Category)
	if err != nil {
		return nil, err
	}
	req.Category = category

	v, err := r.Engine.Parse(req.Value)
	if err != nil {
		return nil, err
	}
	out, err := r.Engine.Value(v, req.From, req.To, category)
	if err != nil {
		return nil, err
	}

	res = &Result{
		Request:   req,
		Result:    out,
		Formatted: r.Engine.Render(category, out),
		Duration:  time.Since(start),
	}
	if u, ok := r.Engine.Registry().Unit(category, req.From); ok {
		res.FromSymbol = u.Symbol
	}
	if u, ok := r.Engine.Registry().Unit(category, req.To); ok {
		res.ToSymbol = u.Symbol
	}

	r.Logger.Debug("converted",
		"category", category,
		"from", req.From,
		"to", req.To,
		"input", req.Value,
		"result", res.Formatted)

	if r.History != nil {
		rec := history.NewRecord(category, req.From, req.To, req.Value, res.Formatted)
		if herr := r.History.Add(ctx, rec); herr != nil {
			r.Logger.Warn("history not recorded", "error", herr)
		}
	}
	return res, nil
}

// ConvertAll converts value from one unit into every unit of its category,
// in registry order. Nothing is recorded in history.
func (r *Runner) ConvertAll(ctx context.Context, value, from, category string) ([]Row, error) {
	category, err := ResolveCategory(r.Engine.Registry(), from, from, category)
	if err != nil {
		return nil, err
	}
	if err := (Request{Value: value, From: from, To: from}).Validate(); err != nil {
		return nil, err
	}
	v, err := r.Engine.Parse(value)
	if err != nil {
		return nil, err
	}

	unitList := r.Engine.Registry().Units(category)
	rows := make([]Row, 0, len(unitList))
	for _, u := range unitList {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := r.Engine.Value(v, from, u.Key, category)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Unit: u, Result: out, Formatted: r.Engine.Render(category, out)})
	}
	return rows, nil
}

// Diagram renders the conversion graph of a category. DOT output is returned
// directly; SVG and PNG are rendered through Graphviz and cached under a key
// derived from the DOT source.
//
// A failed cache write does not fail the render; it is reported in
// Rendered.CacheErr.
func (r *Runner) Diagram(ctx context.Context, category, format string, opts diagram.Options) (out *Rendered, err error) {
	if err := diagram.ValidateFormat(format); err != nil {
		return nil, err
	}
	c, ok := r.Engine.Registry().Category(category)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownCategory, "unknown category %q", category)
	}

	dot := diagram.ToDOT(c, opts)
	if format == diagram.FormatDOT {
		return &Rendered{Data: []byte(dot)}, nil
	}

	key := r.Keyer.DiagramKey(category, format, cache.DiagramKeyOpts{
		RegistryHash: cache.Hash([]byte(dot)),
		Detailed:     opts.Detailed,
	})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, cacheKeyType)
		return &Rendered{Data: data, Cached: true}, nil
	} else if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	start := time.Now()
	observability.Pipeline().OnDiagramStart(ctx, category, format)
	defer func() {
		size := 0
		if out != nil {
			size = len(out.Data)
		}
		observability.Pipeline().OnDiagramComplete(ctx, category, format, size, time.Since(start), err)
	}()

	data, err := diagram.Render(ctx, dot, format)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("rendered diagram",
		"category", category,
		"format", format,
		"bytes", len(data),
		"duration", time.Since(start))

	out = &Rendered{Data: data}
	if err := r.Cache.Set(ctx, key, data, r.DiagramTTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		out.CacheErr = err
	} else {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
	}
	return out, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var first error
	if r.Cache != nil {
		first = r.Cache.Close()
	}
	if r.History != nil {
		if err := r.History.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
