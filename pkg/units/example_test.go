package units_test

import (
	"fmt"

	"github.com/matzehuels/unitconv/pkg/units"
)

func ExampleRegistry_Categories() {
	for _, c := range units.Default().Categories() {
		fmt.Printf("%s (%s)\n", c.Key, c.Kind)
	}
	// Output:
	// length (linear)
	// temperature (affine)
	// weight (linear)
	// volume (linear)
	// area (linear)
	// time (linear)
}

func ExampleRegistry_Units() {
	for _, u := range units.Default().Units(units.Temperature) {
		fmt.Printf("%s %s\n", u.Key, u.Symbol)
	}
	// Output:
	// celsius °C
	// fahrenheit °F
	// kelvin K
}

func ExampleLinearCategory_Factor() {
	c, _ := units.Default().Category(units.Length)
	length := c.(*units.LinearCategory)

	f, ok := length.Factor("mile")
	fmt.Println(f, ok)
	// Output:
	// 1609.34 true
}
