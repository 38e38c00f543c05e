package convert_test

import (
	"fmt"

	"github.com/matzehuels/unitconv/pkg/convert"
)

func ExampleConvert() {
	fmt.Println(convert.Convert("100", "celsius", "fahrenheit", "temperature"))
	fmt.Println(convert.Convert("1", "foot", "meter", "length"))
	fmt.Printf("%q\n", convert.Convert("abc", "meter", "foot", "length"))
	// Output:
	// 212
	// 0.3048
	// ""
}

func ExampleFormat() {
	fmt.Println(convert.Format(2.0))
	fmt.Println(convert.Format(1.0 / 3.0))
	// Output:
	// 2
	// 0.33333333
}
