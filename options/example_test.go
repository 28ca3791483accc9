package options_test

import (
	"errors"
	"fmt"

	"github.com/adamwoolhether/booxtream/options"
)

func ExampleSet_Pairs() {
	set := options.New(map[string]any{
		"referenceid":          "1234567890",
		"customeremailaddress": "customer@example.com",
		"languagecode":         1033,
		"downloadlimit":        3,
		"expirydays":           30,
		"epub":                 true,
	})

	if err := set.Validate(true); err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, p := range set.Pairs() {
		fmt.Printf("%s=%s\n", p.Name, p.Value)
	}
	// Output:
	// referenceid=1234567890
	// customeremailaddress=customer@example.com
	// languagecode=1033
	// downloadlimit=3
	// expirydays=30
	// epub=1
}

func ExampleValidationError() {
	set := options.New(map[string]any{
		"referenceid":  "1234567890",
		"customername": "customer",
		"languagecode": "english",
		"expirydays":   30,
	})

	err := set.Validate(false)

	var ve options.ValidationError
	if errors.As(err, &ve) {
		fmt.Println(ve.Keys())
	}
	// Output: [languagecode expirydays]
}
