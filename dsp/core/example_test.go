package core_test

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/dsp/smooth"
)

func ExampleReversed() {
	field := []float64{0.1, 0.08, 0.05}
	fmt.Println(core.Abs(core.Reversed(field)))
	// Output:
	// [0.05 0.08 0.1]
}

func ExampleErrInvalidArgument() {
	_, err := smooth.Linear([]float64{1, 2, 3}, -1)
	fmt.Println(errors.Is(err, core.ErrInvalidArgument))
	// Output:
	// true
}
