package units

import "sync"

// Category keys of the built-in registry.
const (
	Length      = "length"
	Temperature = "temperature"
	Weight      = "weight"
	Volume      = "volume"
	Area        = "area"
	Time        = "time"
)

// Temperature unit keys.
const (
	Celsius    = "celsius"
	Fahrenheit = "fahrenheit"
	Kelvin     = "kelvin"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the built-in registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = MustNewRegistry(Builtin()...)
	})
	return defaultRegistry
}

// Builtin returns fresh copies of the built-in categories, in listing order.
func Builtin() []Category {
	return []Category{
		NewLinear(Length, "Length",
			LinearUnit{"meter", "Meter", "m", 1},
			LinearUnit{"kilometer", "Kilometer", "km", 1000},
			LinearUnit{"centimeter", "Centimeter", "cm", 0.01},
			LinearUnit{"millimeter", "Millimeter", "mm", 0.001},
			LinearUnit{"micrometer", "Micrometer", "μm", 0.000001},
			LinearUnit{"nanometer", "Nanometer", "nm", 0.000000001},
			LinearUnit{"mile", "Mile", "mi", 1609.34},
			LinearUnit{"yard", "Yard", "yd", 0.9144},
			LinearUnit{"foot", "Foot", "ft", 0.3048},
			LinearUnit{"inch", "Inch", "in", 0.0254},
		),
		NewAffine(Temperature, "Temperature", Celsius,
			AffineUnit{
				Key: Celsius, Name: "Celsius", Symbol: "°C",
				ToReference:   func(v float64) float64 { return v },
				FromReference: func(c float64) float64 { return c },
				Formula:       "°C",
			},
			AffineUnit{
				Key: Fahrenheit, Name: "Fahrenheit", Symbol: "°F",
				ToReference:   func(v float64) float64 { return (v - 32) * 5 / 9 },
				FromReference: func(c float64) float64 { return c*9/5 + 32 },
				Formula:       "°C × 9/5 + 32",
			},
			AffineUnit{
				Key: Kelvin, Name: "Kelvin", Symbol: "K",
				ToReference:   func(v float64) float64 { return v - 273.15 },
				FromReference: func(c float64) float64 { return c + 273.15 },
				Formula:       "°C + 273.15",
			},
		),
		NewLinear(Weight, "Weight",
			LinearUnit{"kilogram", "Kilogram", "kg", 1},
			LinearUnit{"gram", "Gram", "g", 0.001},
			LinearUnit{"pound", "Pound", "lbs", 0.453592},
			LinearUnit{"ounce", "Ounce", "oz", 0.0283495},
			LinearUnit{"ton", "Ton", "t", 1000},
			LinearUnit{"stone", "Stone", "st", 6.35029},
		),
		NewLinear(Volume, "Volume",
			LinearUnit{"liter", "Liter", "L", 1},
			LinearUnit{"milliliter", "Milliliter", "mL", 0.001},
			LinearUnit{"gallon", "Gallon", "gal", 3.78541},
			LinearUnit{"quart", "Quart", "qt", 0.946353},
			LinearUnit{"pint", "Pint", "pt", 0.473176},
			LinearUnit{"cup", "Cup", "cup", 0.236588},
			LinearUnit{"fluid_ounce", "Fluid Ounce", "fl oz", 0.0295735},
		),
		NewLinear(Area, "Area",
			LinearUnit{"square_meter", "Square Meter", "m²", 1},
			LinearUnit{"square_kilometer", "Square Kilometer", "km²", 1000000},
			LinearUnit{"square_centimeter", "Square Centimeter", "cm²", 0.0001},
			LinearUnit{"square_foot", "Square Foot", "ft²", 0.092903},
			LinearUnit{"square_inch", "Square Inch", "in²", 0.00064516},
			LinearUnit{"acre", "Acre", "ac", 4046.86},
			LinearUnit{"hectare", "Hectare", "ha", 10000},
		),
		NewLinear(Time, "Time",
			LinearUnit{"second", "Second", "s", 1},
			LinearUnit{"minute", "Minute", "min", 60},
			LinearUnit{"hour", "Hour", "h", 3600},
			LinearUnit{"day", "Day", "d", 86400},
			LinearUnit{"week", "Week", "wk", 604800},
			LinearUnit{"month", "Month", "mo", 2629746},
			LinearUnit{"year", "Year", "yr", 31556952},
		),
	}
}
