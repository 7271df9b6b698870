package adapter

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/crowd-lens-mcp/internal/estimate"
	"github.com/ironsheep/crowd-lens-mcp/internal/modelsvc"
)

// Faces normalizes raw face detections into an estimate. Every face
// counts as one person. A face is a child when its predicted age is
// below ChildAgeCutoff; otherwise it is tallied by the model's gender
// label. AverageAge spans all faces, children included.
func Faces(raw []modelsvc.RawFace) estimate.Estimate {
	est := estimate.Estimate{
		Kind:        estimate.FaceDemographic,
		PersonCount: len(raw),
	}
	if len(raw) == 0 {
		return est
	}

	demo := &estimate.Demographics{}
	ages := make([]float64, 0, len(raw))

	for _, f := range raw {
		ages = append(ages, f.Age)
		switch {
		case f.Age < ChildAgeCutoff:
			demo.Children++
		case f.Gender == "female":
			demo.Women++
		default:
			demo.Men++
		}
		est.Boxes = append(est.Boxes, estimate.Box{
			Label: "face",
			Score: 1.0,
			X1:    roundHalfUp(f.Box.XMin),
			Y1:    roundHalfUp(f.Box.YMin),
			X2:    roundHalfUp(f.Box.XMax),
			Y2:    roundHalfUp(f.Box.YMax),
		})
	}

	demo.AverageAge = stat.Mean(ages, nil)
	est.Demographics = demo
	return est
}
