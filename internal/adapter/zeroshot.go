package adapter

import "github.com/ironsheep/crowd-lens-mcp/internal/estimate"

// Zero-shot candidate labels, one per demographic bucket.
const (
	LabelMan   = "man"
	LabelWoman = "woman"
	LabelChild = "child"
)

// CandidateLabels is the label set every sampled person crop is ranked
// against.
var CandidateLabels = []string{LabelMan, LabelWoman, LabelChild}

// ZeroShot normalizes the best-label results of classifying a bounded
// sample of person crops.
//
// PersonCount here is the number of crops actually classified, not a
// scene-wide estimate: the sample is capped and may cover fewer people
// than direct detection found. Fusion must never treat it as a count of
// the scene, so it is carried in Sample alongside the tallies.
func ZeroShot(bestLabels []string) estimate.Estimate {
	sample := &estimate.SampleDemographics{SampledTotal: len(bestLabels)}
	for _, label := range bestLabels {
		switch label {
		case LabelMan:
			sample.Men++
		case LabelWoman:
			sample.Women++
		case LabelChild:
			sample.Children++
		}
	}

	return estimate.Estimate{
		Kind:        estimate.ZeroShotCrop,
		PersonCount: sample.SampledTotal,
		Sample:      sample,
	}
}
