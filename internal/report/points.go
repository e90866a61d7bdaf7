package report

import (
	"math"

	"github.com/abrezinsky/ecoheroes/internal/catalog"
)

// ComputeTotal is the points preview for a draft.
func ComputeTotal(d *Draft, c *catalog.Catalog) int {
	return PointsFor(d.Items(), c)
}

// PointsFor sums weight × rate over items and rounds half up. Ids missing
// from the catalog contribute nothing.
func PointsFor(items []Item, c *catalog.Catalog) int {
	var sum float64
	for _, item := range items {
		rate, err := c.RateFor(item.CategoryID)
		if err != nil {
			continue
		}
		sum += item.WeightKg * rate
	}
	return roundHalfUp(sum)
}

// roundHalfUp absorbs float noise like 0.3*15 = 4.499999... before rounding.
func roundHalfUp(x float64) int {
	const epsilon = 1e-9
	return int(math.Floor(x + 0.5 + epsilon))
}
