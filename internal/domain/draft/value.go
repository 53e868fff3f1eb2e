package draft

import "math"

const (
	valueScale    = 3000.0
	valueOffset   = 5
	valueExponent = 0.85
)

// PickValue scores an overall slot for trade comparisons. The curve is
// convex: early picks are worth far more than a linear model would say.
func PickValue(slot int) int {
	s := max(1, slot)
	return int(math.Round(valueScale / math.Pow(float64(s+valueOffset), valueExponent)))
}
