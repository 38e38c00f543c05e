package session

import "github.com/matzehuels/unitconv/pkg/units"

// Preset is a shortcut that pre-populates category and units.
type Preset struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Category string `json:"category"`
	Label    string `json:"label"`
}

var presets = []Preset{
	{From: "centimeter", To: "inch", Category: units.Length, Label: "cm to inches"},
	{From: "kilogram", To: "pound", Category: units.Weight, Label: "kg to lbs"},
	{From: units.Celsius, To: units.Fahrenheit, Category: units.Temperature, Label: "Celsius to Fahrenheit"},
	{From: "millimeter", To: "inch", Category: units.Length, Label: "mm to inches"},
	{From: "meter", To: "foot", Category: units.Length, Label: "meters to feet"},
	{From: "kilometer", To: "mile", Category: units.Length, Label: "km to miles"},
	{From: "liter", To: "gallon", Category: units.Volume, Label: "liters to gallons"},
	{From: "gram", To: "ounce", Category: units.Weight, Label: "grams to ounces"},
}

// Presets returns the common-conversion shortcuts in display order.
func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// PresetByLabel finds a preset by its label.
func PresetByLabel(label string) (Preset, bool) {
	for _, p := range presets {
		if p.Label == label {
			return p, true
		}
	}
	return Preset{}, false
}
