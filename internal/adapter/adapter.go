// Package adapter normalizes the heterogeneous raw outputs of the
// external models into the common Estimate shape consumed by fusion.
// One adapter per estimator kind; each is a pure function of the raw
// model output.
package adapter

import "math"

// DefaultScoreThreshold is the detection confidence cutoff. Detections
// scoring below it are discarded entirely. Configurable per run; 0.7
// is the canonical default.
const DefaultScoreThreshold = 0.7

// ChildAgeCutoff is the exclusive upper age bound for classifying a
// face as a child.
const ChildAgeCutoff = 18.0

// roundHalfUp rounds to the nearest integer with halves rounding up.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
