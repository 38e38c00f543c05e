package units

import "fmt"

// Kind distinguishes linear from affine categories.
type Kind int

const (
	// Linear categories convert by scaling through a base unit.
	Linear Kind = iota
	// Affine categories convert with an offset as well as a scale.
	Affine
)

// String returns "linear" or "affine".
func (k Kind) String() string {
	if k == Affine {
		return "affine"
	}
	return "linear"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "linear":
		*k = Linear
	case "affine":
		*k = Affine
	default:
		return fmt.Errorf("unknown category kind %q", b)
	}
	return nil
}

// Category is a physical quantity containing a closed set of units.
// The only implementations are *LinearCategory and *AffineCategory.
type Category interface {
	// Key is the unique category identifier (e.g. "length").
	Key() string
	// Name is the display name (e.g. "Length").
	Name() string
	// Kind reports whether the category is linear or affine.
	Kind() Kind
	// Units lists unit metadata in definition order.
	Units() []UnitInfo
	// Has reports whether unitKey belongs to the category.
	Has(unitKey string) bool

	sealed()
}

// CategoryInfo is the listing form of a category.
type CategoryInfo struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// UnitInfo is the listing form of a unit.
// HasFactor is false for units of affine categories.
type UnitInfo struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol"`
	Factor    float64 `json:"factor,omitempty"`
	HasFactor bool    `json:"-"`
}

// =============================================================================
// Linear
// =============================================================================

// LinearUnit is a unit of a linear category.
type LinearUnit struct {
	Key    string
	Name   string
	Symbol string
	// Factor is the number of base units in one of this unit.
	Factor float64
}

// LinearCategory is a category whose units differ only by scale.
type LinearCategory struct {
	key   string
	name  string
	units []LinearUnit
	index map[string]int
}

// NewLinear creates a linear category. Units keep the given order.
// The result is not validated until it is passed to [NewRegistry].
func NewLinear(key, name string, units ...LinearUnit) *LinearCategory {
	c := &LinearCategory{
		key:   key,
		name:  name,
		units: append([]LinearUnit(nil), units...),
		index: make(map[string]int, len(units)),
	}
	for i, u := range c.units {
		if _, dup := c.index[u.Key]; !dup {
			c.index[u.Key] = i
		}
	}
	return c
}

func (c *LinearCategory) Key() string  { return c.key }
func (c *LinearCategory) Name() string { return c.name }
func (c *LinearCategory) Kind() Kind   { return Linear }
func (c *LinearCategory) sealed()      {}

// Units lists unit metadata in definition order.
func (c *LinearCategory) Units() []UnitInfo {
	out := make([]UnitInfo, len(c.units))
	for i, u := range c.units {
		out[i] = UnitInfo{Key: u.Key, Name: u.Name, Symbol: u.Symbol, Factor: u.Factor, HasFactor: true}
	}
	return out
}

// Has reports whether unitKey belongs to the category.
func (c *LinearCategory) Has(unitKey string) bool {
	_, ok := c.index[unitKey]
	return ok
}

// Unit returns the unit with the given key.
func (c *LinearCategory) Unit(key string) (LinearUnit, bool) {
	i, ok := c.index[key]
	if !ok {
		return LinearUnit{}, false
	}
	return c.units[i], true
}

// Factor returns the factor of the unit with the given key.
func (c *LinearCategory) Factor(key string) (float64, bool) {
	u, ok := c.Unit(key)
	return u.Factor, ok
}

// Base returns the unit whose factor is 1.
func (c *LinearCategory) Base() (LinearUnit, bool) {
	for _, u := range c.units {
		if u.Factor == 1 {
			return u, true
		}
	}
	return LinearUnit{}, false
}

// LinearUnits returns a copy of the factor table.
func (c *LinearCategory) LinearUnits() []LinearUnit {
	return append([]LinearUnit(nil), c.units...)
}

// =============================================================================
// Affine
// =============================================================================

// AffineUnit is a unit of an affine category. Instead of a factor it carries
// the two formulas relating it to the category's reference unit.
type AffineUnit struct {
	Key    string
	Name   string
	Symbol string
	// ToReference converts a value in this unit to the reference unit.
	ToReference func(float64) float64
	// FromReference converts a reference-unit value to this unit.
	FromReference func(float64) float64
	// Formula is a human-readable form of FromReference, used in diagrams.
	Formula string
}

// AffineCategory is a category whose conversions need an offset.
type AffineCategory struct {
	key       string
	name      string
	reference string
	units     []AffineUnit
	index     map[string]int
}

// NewAffine creates an affine category whose conversions pass through the
// unit keyed reference.
func NewAffine(key, name, reference string, units ...AffineUnit) *AffineCategory {
	c := &AffineCategory{
		key:       key,
		name:      name,
		reference: reference,
		units:     append([]AffineUnit(nil), units...),
		index:     make(map[string]int, len(units)),
	}
	for i, u := range c.units {
		if _, dup := c.index[u.Key]; !dup {
			c.index[u.Key] = i
		}
	}
	return c
}

func (c *AffineCategory) Key() string  { return c.key }
func (c *AffineCategory) Name() string { return c.name }
func (c *AffineCategory) Kind() Kind   { return Affine }
func (c *AffineCategory) sealed()      {}

// Units lists unit metadata in definition order.
func (c *AffineCategory) Units() []UnitInfo {
	out := make([]UnitInfo, len(c.units))
	for i, u := range c.units {
		out[i] = UnitInfo{Key: u.Key, Name: u.Name, Symbol: u.Symbol}
	}
	return out
}

// Has reports whether unitKey belongs to the category.
func (c *AffineCategory) Has(unitKey string) bool {
	_, ok := c.index[unitKey]
	return ok
}

// Unit returns the unit with the given key.
func (c *AffineCategory) Unit(key string) (AffineUnit, bool) {
	i, ok := c.index[key]
	if !ok {
		return AffineUnit{}, false
	}
	return c.units[i], true
}

// Reference returns the unit every conversion passes through.
func (c *AffineCategory) Reference() (AffineUnit, bool) {
	return c.Unit(c.reference)
}

// AffineUnits returns a copy of the unit table.
func (c *AffineCategory) AffineUnits() []AffineUnit {
	return append([]AffineUnit(nil), c.units...)
}

var (
	_ Category = (*LinearCategory)(nil)
	_ Category = (*AffineCategory)(nil)
)
