package adapter

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/crowd-lens-mcp/internal/estimate"
	"github.com/ironsheep/crowd-lens-mcp/internal/modelsvc"
)

// Density normalizes a density map into an estimate. The person count
// is the sum of all cells rounded half-up; the raw grid is retained for
// heatmap rendering by the presentation layer.
//
// A nil map, non-positive dimensions, or a value slice that does not
// match the declared dimensions is an InvalidOutput failure.
func Density(m *modelsvc.DensityMap) (estimate.Estimate, error) {
	if m == nil {
		return estimate.Estimate{}, estimate.NewFailure(estimate.DensityRegression,
			estimate.InvalidOutput, fmt.Errorf("density map missing from model output"))
	}
	if m.Width <= 0 || m.Height <= 0 || len(m.Values) != m.Width*m.Height {
		return estimate.Estimate{}, estimate.NewFailure(estimate.DensityRegression,
			estimate.InvalidOutput,
			fmt.Errorf("density grid shape %dx%d does not match %d values", m.Width, m.Height, len(m.Values)))
	}

	total := floats.Sum(m.Values)
	if total < 0 {
		total = 0
	}

	return estimate.Estimate{
		Kind:        estimate.DensityRegression,
		PersonCount: roundHalfUp(total),
		Density: &estimate.DensityGrid{
			Width:  m.Width,
			Height: m.Height,
			Cells:  m.Values,
		},
	}, nil
}
