package adapter

import (
	"github.com/ironsheep/crowd-lens-mcp/internal/estimate"
	"github.com/ironsheep/crowd-lens-mcp/internal/modelsvc"
)

// Detection normalizes raw object detections into an estimate.
//
// Detections scoring below threshold are dropped. The person count is
// the number of retained "person" boxes; CategoryCounts tallies every
// retained label, person included, so non-person classes (dog, car)
// remain visible to the presentation layer.
func Detection(raw []modelsvc.RawDetection, threshold float64) estimate.Estimate {
	est := estimate.Estimate{
		Kind:           estimate.DirectDetection,
		CategoryCounts: make(map[string]int),
	}

	for _, d := range raw {
		if d.Score < threshold {
			continue
		}
		est.CategoryCounts[d.Label]++
		if d.Label == "person" {
			est.PersonCount++
		}
		est.Boxes = append(est.Boxes, estimate.Box{
			Label: d.Label,
			Score: d.Score,
			X1:    roundHalfUp(d.Box.XMin),
			Y1:    roundHalfUp(d.Box.YMin),
			X2:    roundHalfUp(d.Box.XMax),
			Y2:    roundHalfUp(d.Box.YMax),
		})
	}
	return est
}
