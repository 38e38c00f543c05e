// Package units defines the unit registry: the closed set of physical
// quantities (categories) and the units each one contains.
//
// # Categories
//
// A [Category] is a tagged variant with exactly two implementations:
//
//   - [LinearCategory]: every unit carries a positive factor expressing how
//     many base units equal one of it. Exactly one unit has factor 1.
//   - [AffineCategory]: units carry explicit formulas to and from a reference
//     unit instead of a factor. Temperature is the only affine category.
//
// Because affine units have no factor field at all, "this unit lacks a
// factor" is a property of the type rather than something checked at run
// time.
//
// # Registry
//
// [Default] returns the built-in registry (length, temperature, weight,
// volume, area, time). It is built once and never mutated, so it is safe for
// concurrent use without locking. Custom registries can be assembled with
// [NewRegistry], which validates the category invariants.
//
// Lookups never panic: unknown keys report ok == false, and [Registry.Units]
// returns an empty slice for an unknown category.
package units
