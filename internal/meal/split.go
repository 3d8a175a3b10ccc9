package meal

import "math"

// SplitEvenly returns the per-person share of total split across n people,
// rounded to 2 decimal places, half away from zero. A single rounding step is
// applied to the division; the shares are not adjusted afterwards, so the sum
// of shares may drift from total by at most the one rounding step.
func SplitEvenly(total float64, n int) float64 {
	return math.Round(total/float64(n)*100) / 100
}
