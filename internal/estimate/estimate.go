// Package estimate defines the normalized data model shared by every
// estimator: the estimator kinds, the Estimate record each adapter
// produces, and the failure taxonomy for estimator runs.
//
// An Estimate is immutable once produced. It is created by exactly one
// adapter invocation and consumed by one fusion run; nothing mutates or
// shares it across analysis runs.
package estimate

// Kind identifies one of the independent estimator families.
//
// Each kind has a fixed reliability profile the fusion policy relies on:
// direct detection is precise at low density, density regression is only
// meaningful at high density, face analysis undercounts occluded or
// turned faces, and zero-shot crop classification is a coarse per-person
// classifier over a bounded sample.
type Kind string

const (
	// DirectDetection counts person-labeled bounding boxes from an
	// object detection model.
	DirectDetection Kind = "direct_detection"

	// DensityRegression sums a per-cell crowd density map.
	DensityRegression Kind = "density_regression"

	// FaceDemographic counts detected faces and classifies each by
	// age and gender.
	FaceDemographic Kind = "face_demographic"

	// ZeroShotCrop classifies a bounded sample of person crops against
	// candidate labels. Its person count is a sample size, never a
	// scene-wide estimate.
	ZeroShotCrop Kind = "zero_shot_crop"
)

// Kinds lists every estimator kind in canonical order. Registry results
// and projector output follow this order.
var Kinds = []Kind{DirectDetection, DensityRegression, FaceDemographic, ZeroShotCrop}

// Box is a labeled, scored bounding box in original-image pixel
// coordinates with an exclusive bottom-right corner.
type Box struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
}

// Demographics is the per-face breakdown produced by the face estimator.
type Demographics struct {
	Men        int     `json:"men"`
	Women      int     `json:"women"`
	Children   int     `json:"children"`
	AverageAge float64 `json:"average_age"`
}

// SampleDemographics is the supplementary breakdown from zero-shot crop
// classification. SampledTotal is the number of crops actually
// classified, which may be less than the scene's person count.
type SampleDemographics struct {
	Men          int `json:"men"`
	Women        int `json:"women"`
	Children     int `json:"children"`
	SampledTotal int `json:"sampled_total"`
}

// DensityGrid is a row-major grid of non-negative crowd density values,
// retained for heatmap rendering by the presentation layer.
type DensityGrid struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Cells  []float64 `json:"cells"`
}

// Estimate is the normalized output of one estimator run.
//
// PersonCount is this estimator's opinion of how many people are in the
// image, except for ZeroShotCrop where it equals Sample.SampledTotal
// (the number of crops classified). CategoryCounts is only populated by
// DirectDetection and includes non-person classes, so its sum is
// unconstrained relative to PersonCount.
type Estimate struct {
	Kind           Kind                `json:"kind"`
	PersonCount    int                 `json:"person_count"`
	CategoryCounts map[string]int      `json:"category_counts,omitempty"`
	Demographics   *Demographics       `json:"demographics,omitempty"`
	Sample         *SampleDemographics `json:"sample,omitempty"`
	Boxes          []Box               `json:"boxes,omitempty"`
	Density        *DensityGrid        `json:"density,omitempty"`
}
