// Package modelsvc declares the contracts of the external pretrained
// model runtimes the analysis pipeline delegates to, and provides an
// HTTP client implementation against a remote inference service.
//
// The models themselves are black boxes. This package only fixes their
// input/output shapes: object detection, crowd density regression, face
// age/gender analysis, and zero-shot crop classification.
package modelsvc

import (
	"context"
	"image"

	"github.com/ironsheep/crowd-lens-mcp/internal/estimate"
)

// RawBox is a detection bounding box as reported by a model, in
// original-image pixel coordinates.
type RawBox struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

// RawDetection is one object detection with its class label and score.
type RawDetection struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Box   RawBox  `json:"box"`
}

// RawFace is one detected face with predicted age and gender.
// Gender is "male" or "female" as reported by the model.
type RawFace struct {
	Box    RawBox  `json:"box"`
	Age    float64 `json:"age"`
	Gender string  `json:"gender"`
}

// DensityMap is a 2-D grid of non-negative density values in row-major
// order. The sum of all cells approximates the number of people present.
type DensityMap struct {
	Height int       `json:"height"`
	Width  int       `json:"width"`
	Values []float64 `json:"values"`
}

// LabelScore is one candidate label with its match score from zero-shot
// classification.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Detector runs object detection over an image. Detections below
// scoreThreshold may already be dropped by the model; callers must not
// rely on that and filter again.
type Detector interface {
	Detect(ctx context.Context, img image.Image, scoreThreshold float64) ([]RawDetection, error)
}

// DensityEstimator produces a crowd density map for an image. The
// implementation is responsible for the model's exact input layout
// (1024x768 RGB, channel-first, pixel/255, no mean/std normalization).
type DensityEstimator interface {
	EstimateDensity(ctx context.Context, img image.Image) (*DensityMap, error)
}

// FaceAnalyzer detects faces and predicts age and gender for each.
type FaceAnalyzer interface {
	AnalyzeFaces(ctx context.Context, img image.Image) ([]RawFace, error)
}

// CropClassifier ranks candidate text labels against an image crop
// without task-specific training.
type CropClassifier interface {
	ClassifyCrop(ctx context.Context, crop image.Image, labels []string) ([]LabelScore, error)
}

// Loader triggers the one-shot load of an estimator kind's model.
// Loading is best-effort and independent per kind.
type Loader interface {
	Load(ctx context.Context, kind estimate.Kind) error
}

// BestLabel returns the label with the highest score, or "" for an
// empty ranking.
func BestLabel(scores []LabelScore) string {
	best := ""
	bestScore := 0.0
	for _, s := range scores {
		if best == "" || s.Score > bestScore {
			best = s.Label
			bestScore = s.Score
		}
	}
	return best
}
