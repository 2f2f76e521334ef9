package fmt

import (
	"fmt"
	"strings"
)

// SprintFloat formats value with up to decimal places, trimming trailing zeros, for
// human-readable output.
func SprintFloat(value float64, decimal uint) string {
	if decimal == 0 {
		return fmt.Sprintf("%.0f", value)
	}
	floatStr := fmt.Sprintf(fmt.Sprintf("%%.%df", decimal), value)
	return strings.TrimRight(strings.TrimRight(floatStr, "0"), ".")
}
