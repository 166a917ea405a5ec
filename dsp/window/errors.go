package window

import (
	"fmt"

	"github.com/cwbudde/algo-pulse/dsp/core"
)

var (
	errEmptyCoeffs      = fmt.Errorf("window: coefficients must not be empty: %w", core.ErrEmptyInput)
	errZeroCoherentGain = fmt.Errorf("window: coefficient sum is zero: %w", core.ErrInvalidArgument)
)

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window: size must be > 0: %d: %w", size, core.ErrInvalidArgument)
	}
	return nil
}
