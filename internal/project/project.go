// Package project shapes fusion output and per-estimator estimates into
// a display-ready render model. It is a pure function of data already
// computed upstream: no counting or reconciliation decisions are made
// here, only formatting.
package project

import (
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/crowd-lens-mcp/internal/estimate"
	"github.com/ironsheep/crowd-lens-mcp/internal/fusion"
	"github.com/ironsheep/crowd-lens-mcp/internal/registry"
)

// CategoryCount is one detected category with its count, for the
// secondary "people/animals/objects" display.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Heatmap carries the density grid for external rendering: the raw cell
// values, the same values normalized to [0,1], and a hex color per cell
// on a cold-to-hot gradient. No drawing happens here.
type Heatmap struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Cells      []float64 `json:"cells"`
	Normalized []float64 `json:"normalized"`
	Colors     []string  `json:"colors"`
}

// FailureNote is a user-facing record of one estimator that could not
// contribute to the run.
type FailureNote struct {
	Estimator string `json:"estimator"`
	Reason    string `json:"reason"`
}

// RenderModel is everything the rendering layer needs to present one
// analysis: the reconciled count and note, per-category breakdowns, the
// demographic summary with the zero-shot sample kept as a separate
// supplementary block, drawable boxes, and heatmap data.
type RenderModel struct {
	RunID      string `json:"run_id"`
	FinalCount int    `json:"final_count"`
	Note       string `json:"note"`

	Categories []CategoryCount `json:"categories,omitempty"`

	Demographics *estimate.Demographics       `json:"demographics,omitempty"`
	Sample       *estimate.SampleDemographics `json:"sample,omitempty"`

	Boxes   []estimate.Box `json:"boxes,omitempty"`
	Heatmap *Heatmap       `json:"heatmap,omitempty"`

	Failures []FailureNote `json:"failures,omitempty"`
}

// Render projects a settled run and its fusion result into a render
// model. showCategories controls whether DirectDetection's secondary
// category counts appear; the count itself is unaffected.
func Render(run *registry.Run, fused *fusion.Result, showCategories bool) *RenderModel {
	model := &RenderModel{
		RunID:      run.ID,
		FinalCount: fused.FinalCount,
		Note:       fused.Note,
	}

	for _, est := range run.Estimates {
		switch est.Kind {
		case estimate.DirectDetection:
			if showCategories {
				model.Categories = sortedCategories(est.CategoryCounts)
			}
			model.Boxes = append(model.Boxes, est.Boxes...)
		case estimate.DensityRegression:
			model.Heatmap = buildHeatmap(est.Density)
		case estimate.FaceDemographic:
			model.Demographics = est.Demographics
			model.Boxes = append(model.Boxes, est.Boxes...)
		case estimate.ZeroShotCrop:
			model.Sample = est.Sample
		}
	}

	for _, f := range run.Failures {
		model.Failures = append(model.Failures, FailureNote{
			Estimator: string(f.Kind),
			Reason:    string(f.Reason),
		})
	}
	return model
}

// sortedCategories flattens a category count map into a slice ordered
// by descending count, ties broken alphabetically.
func sortedCategories(counts map[string]int) []CategoryCount {
	categories := make([]CategoryCount, 0, len(counts))
	for label, count := range counts {
		categories = append(categories, CategoryCount{Label: label, Count: count})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Count != categories[j].Count {
			return categories[i].Count > categories[j].Count
		}
		return categories[i].Label < categories[j].Label
	})
	return categories
}

// Gradient endpoints for heatmap cells: cold (no density) to hot.
var (
	heatCold = colorful.Color{R: 0.06, G: 0.15, B: 0.60}
	heatHot  = colorful.Color{R: 0.90, G: 0.10, B: 0.08}
)

// buildHeatmap normalizes the density grid against its peak cell and
// assigns each cell a blended gradient color. A grid whose cells are
// all zero normalizes to all zeros and uniform cold cells.
func buildHeatmap(grid *estimate.DensityGrid) *Heatmap {
	if grid == nil {
		return nil
	}

	peak := 0.0
	for _, v := range grid.Cells {
		if v > peak {
			peak = v
		}
	}

	h := &Heatmap{
		Width:      grid.Width,
		Height:     grid.Height,
		Cells:      grid.Cells,
		Normalized: make([]float64, len(grid.Cells)),
		Colors:     make([]string, len(grid.Cells)),
	}
	for i, v := range grid.Cells {
		t := 0.0
		if peak > 0 {
			t = v / peak
		}
		h.Normalized[i] = t
		h.Colors[i] = heatCold.BlendLuv(heatHot, t).Clamped().Hex()
	}
	return h
}
