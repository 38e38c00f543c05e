// Package pkg provides the libraries behind unitconv.
//
// # Overview
//
// The core is small and pure:
//
//  1. [units] - Category and unit definitions and the registry
//  2. [convert] - The conversion engine and result formatting
//
// Everything else serves the command line and the HTTP API:
//
//  1. [pipeline] - Conversions, tables and diagrams with caching and history
//  2. [session] - Converter UI state, presets and session stores
//  3. [diagram] - Category conversion graphs rendered with Graphviz
//  4. [cache], [history] - Storage backends (file, Redis, MongoDB)
//  5. [api] - chi HTTP handlers
//  6. [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Data flow
//
//	value, from, to, category
//	         ↓
//	    [units] registry lookup
//	         ↓
//	    [convert] linear scale or affine transform
//	         ↓
//	    fixed-precision string
//
// # Quick Start
//
//	import "github.com/matzehuels/unitconv/pkg/convert"
//
//	convert.Convert("1", "meter", "foot", "length")          // "3.2808399"
//	convert.Convert("100", "celsius", "fahrenheit", "temperature") // "212"
//	convert.Convert("abc", "meter", "foot", "length")        // ""
//
// Invalid input never panics or errors at this level; it yields "". Callers
// that need to know why use [convert.Engine.Result] or [pipeline.Runner].
package pkg
