package units

import (
	"math"

	"github.com/matzehuels/unitconv/pkg/errors"
)

// Registry is an ordered, immutable collection of categories.
// A Registry is safe for concurrent use once constructed.
type Registry struct {
	categories []Category
	index      map[string]Category
}

// NewRegistry validates the given categories and builds a registry.
//
// Validation rules:
//   - Category and unit keys are valid keys and unique
//   - Every category has at least two units
//   - Linear factors are positive and finite, with exactly one factor of 1
//   - Affine units have both formulas and the reference unit exists
func NewRegistry(categories ...Category) (*Registry, error) {
	r := &Registry{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]Category, len(categories)),
	}
	for _, c := range categories {
		if c == nil {
			return nil, errors.New(errors.ErrCodeInvalidRegistry, "nil category")
		}
		if err := errors.ValidateKey(c.Key()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRegistry, err, "category key")
		}
		if _, dup := r.index[c.Key()]; dup {
			return nil, errors.New(errors.ErrCodeInvalidRegistry, "duplicate category %q", c.Key())
		}
		if err := validateCategory(c); err != nil {
			return nil, err
		}
		r.categories = append(r.categories, c)
		r.index[c.Key()] = c
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on invalid input.
// It is intended for package-level registries built from literals.
func MustNewRegistry(categories ...Category) *Registry {
	r, err := NewRegistry(categories...)
	if err != nil {
		panic(err)
	}
	return r
}

func validateCategory(c Category) error {
	units := c.Units()
	if len(units) < 2 {
		return errors.New(errors.ErrCodeInvalidRegistry, "category %q needs at least two units, has %d", c.Key(), len(units))
	}

	seen := make(map[string]bool, len(units))
	for _, u := range units {
		if err := errors.ValidateKey(u.Key); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRegistry, err, "unit key in %q", c.Key())
		}
		if seen[u.Key] {
			return errors.New(errors.ErrCodeInvalidRegistry, "duplicate unit %q in %q", u.Key, c.Key())
		}
		seen[u.Key] = true
		if err := errors.ValidateLabel(u.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRegistry, err, "unit %q name in %q", u.Key, c.Key())
		}
		if err := errors.ValidateLabel(u.Symbol); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRegistry, err, "unit %q symbol in %q", u.Key, c.Key())
		}
	}

	switch c := c.(type) {
	case *LinearCategory:
		bases := 0
		for _, u := range c.units {
			if u.Factor <= 0 || math.IsInf(u.Factor, 0) || math.IsNaN(u.Factor) {
				return errors.New(errors.ErrCodeInvalidRegistry, "unit %q in %q has invalid factor %v", u.Key, c.key, u.Factor)
			}
			if u.Factor == 1 {
				bases++
			}
		}
		if bases != 1 {
			return errors.New(errors.ErrCodeInvalidRegistry, "category %q must have exactly one base unit, has %d", c.key, bases)
		}
	case *AffineCategory:
		for _, u := range c.units {
			if u.ToReference == nil || u.FromReference == nil {
				return errors.New(errors.ErrCodeInvalidRegistry, "unit %q in %q is missing a formula", u.Key, c.key)
			}
		}
		if _, ok := c.Reference(); !ok {
			return errors.New(errors.ErrCodeInvalidRegistry, "category %q reference unit %q not defined", c.key, c.reference)
		}
	default:
		return errors.New(errors.ErrCodeInvalidRegistry, "unsupported category type %T", c)
	}
	return nil
}

// Categories lists the categories in definition order.
func (r *Registry) Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(r.categories))
	for i, c := range r.categories {
		out[i] = CategoryInfo{Key: c.Key(), Name: c.Name(), Kind: c.Kind()}
	}
	return out
}

// Category returns the category with the given key.
func (r *Registry) Category(key string) (Category, bool) {
	c, ok := r.index[key]
	return c, ok
}

// Units lists the units of a category in definition order.
// An unknown category yields an empty slice.
func (r *Registry) Units(categoryKey string) []UnitInfo {
	c, ok := r.index[categoryKey]
	if !ok {
		return []UnitInfo{}
	}
	return c.Units()
}

// Unit returns metadata for a single unit.
func (r *Registry) Unit(categoryKey, unitKey string) (UnitInfo, bool) {
	c, ok := r.index[categoryKey]
	if !ok {
		return UnitInfo{}, false
	}
	for _, u := range c.Units() {
		if u.Key == unitKey {
			return u, true
		}
	}
	return UnitInfo{}, false
}

// CategoriesOf returns the keys of every category containing all of the
// given unit keys, in definition order.
func (r *Registry) CategoriesOf(unitKeys ...string) []string {
	var out []string
	for _, c := range r.categories {
		all := true
		for _, k := range unitKeys {
			if !c.Has(k) {
				all = false
				break
			}
		}
		if all {
			out = append(out, c.Key())
		}
	}
	return out
}

// Len returns the number of categories.
func (r *Registry) Len() int {
	return len(r.categories)
}
