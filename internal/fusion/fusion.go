// Package fusion reconciles the independent estimators' opinions into a
// single person count with a human-readable justification.
//
// The estimators disagree by construction: direct detection misses
// occluded bodies, density regression is noise at low densities, and
// face analysis only sees faces pointed at the camera. The tie-break
// policy here encodes when each signal is trustworthy.
package fusion

import (
	"math"

	"github.com/ironsheep/crowd-lens-mcp/internal/estimate"
)

// Justification notes attached to fusion results. The note names the
// signal that decided the final count and why.
const (
	NoteNoData         = "no analysis could complete"
	NoteNoPeople       = "no people detected"
	NoteDirectOnly     = "using direct detection"
	NoteDenseScene     = "dense scene: using density estimate"
	NotePeopleVisible  = "people visible: using direct detection"
	NoteAveraging      = "averaging both methods"
	NoteDensityOnly    = "density estimate only"
	NoteFaceLowerBound = "using face detection: more faces than bodies found"
)

// Result is the outcome of one fusion run over a fixed set of
// estimates. Created fresh per image analysis; never persisted.
type Result struct {
	// FinalCount is the reconciled number of people in the image.
	FinalCount int `json:"final_count"`

	// Note explains which signal was trusted and why.
	Note string `json:"note"`

	// PerEstimator holds each contributing estimate by kind, including
	// informational-only ones.
	PerEstimator map[estimate.Kind]estimate.Estimate `json:"per_estimator"`
}

// Fuse combines the estimates produced for one image into a final count.
//
// The policy, with D = direct detection count, C = density count and
// F = face count (absent estimators contribute no value; an absent D
// counts as 0 where the policy needs it):
//
//  1. With neither C nor F, the count is D.
//  2. With both C and D: C > 2D marks a dense crowd and C wins; D > C
//     means people are individually visible and D wins; otherwise the
//     two agree closely and their mean (rounded half-up) is used.
//  3. With C but no D, C stands alone.
//  4. F overrides any lower result: faces are a hard lower bound on
//     people present, since detection and density both undercount
//     under occlusion.
//  5. Zero-shot crop results never feed the count. Their person count
//     is a sample size; fusing it would double-count or understate
//     depending on sample coverage.
//
// An empty estimate set yields count zero with NoteNoData; fusion
// never fails.
func Fuse(estimates []estimate.Estimate) *Result {
	res := &Result{
		PerEstimator: make(map[estimate.Kind]estimate.Estimate, len(estimates)),
	}
	for _, est := range estimates {
		res.PerEstimator[est.Kind] = est
	}

	if len(estimates) == 0 {
		res.Note = NoteNoData
		return res
	}

	detection, hasDetection := res.PerEstimator[estimate.DirectDetection]
	density, hasDensity := res.PerEstimator[estimate.DensityRegression]
	faces, hasFaces := res.PerEstimator[estimate.FaceDemographic]

	d := 0
	if hasDetection {
		d = detection.PersonCount
	}

	switch {
	case !hasDensity:
		res.FinalCount = d
		res.Note = NoteDirectOnly
	case !hasDetection:
		res.FinalCount = density.PersonCount
		res.Note = NoteDensityOnly
	case density.PersonCount > 2*d:
		res.FinalCount = density.PersonCount
		res.Note = NoteDenseScene
	case d > density.PersonCount:
		res.FinalCount = d
		res.Note = NotePeopleVisible
	default:
		res.FinalCount = roundHalfUp(float64(d+density.PersonCount) / 2)
		res.Note = NoteAveraging
	}

	if hasFaces && faces.PersonCount > res.FinalCount {
		res.FinalCount = faces.PersonCount
		res.Note = NoteFaceLowerBound
	}

	if res.FinalCount == 0 {
		res.Note = NoteNoPeople
	}
	return res
}

// roundHalfUp rounds to the nearest integer with halves rounding up.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
