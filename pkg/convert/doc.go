// Package convert implements the conversion engine and result formatter.
//
// The engine maps a value from one unit to another within a category of a
// [units.Registry]:
//
//   - Linear categories: result = value × fromFactor / toFactor
//   - Affine categories (temperature): the value is converted to the
//     reference unit (Celsius) and then to the target unit
//
// # String API
//
// [Convert] and [Engine.Convert] take the raw user-entered text and return
// the rendered result. Every invalid request (empty or non-numeric input,
// unknown category or unit, a non-finite result) yields the empty string;
// nothing is returned or thrown beyond that. A UI should leave its output
// field blank when it sees "".
//
// # Typed API
//
// [Engine.Parse], [Engine.Value] and [Engine.Result] expose the same steps
// with coded errors from [errors] so callers can report why no result was
// produced.
//
// # Formatting
//
// Linear results are rendered by [Formatter]: at most 8 fractional digits
// with trailing zeros removed, never in scientific notation. Temperature
// results use the shortest decimal that round-trips ([FormatShortest]).
package convert
