package fusion

import (
	"reflect"
	"testing"

	"github.com/ironsheep/crowd-lens-mcp/internal/estimate"
)

func detectionEstimate(count int) estimate.Estimate {
	return estimate.Estimate{Kind: estimate.DirectDetection, PersonCount: count}
}

func densityEstimate(count int) estimate.Estimate {
	return estimate.Estimate{Kind: estimate.DensityRegression, PersonCount: count}
}

func faceEstimate(count int) estimate.Estimate {
	return estimate.Estimate{Kind: estimate.FaceDemographic, PersonCount: count}
}

func zeroShotEstimate(sampled int) estimate.Estimate {
	return estimate.Estimate{
		Kind:        estimate.ZeroShotCrop,
		PersonCount: sampled,
		Sample:      &estimate.SampleDemographics{SampledTotal: sampled},
	}
}

func TestFuse_TieBreakPolicy(t *testing.T) {
	tests := []struct {
		name      string
		estimates []estimate.Estimate
		wantCount int
		wantNote  string
	}{
		{
			"detection beats lower density",
			[]estimate.Estimate{detectionEstimate(10), densityEstimate(8)},
			10,
			NotePeopleVisible,
		},
		{
			"dense crowd trusts density",
			[]estimate.Estimate{detectionEstimate(5), densityEstimate(30)},
			30,
			NoteDenseScene,
		},
		{
			"close estimates average",
			[]estimate.Estimate{detectionEstimate(10), densityEstimate(15)},
			13, // round((10+15)/2), half up
			NoteAveraging,
		},
		{
			"density boundary stays in average branch",
			[]estimate.Estimate{detectionEstimate(10), densityEstimate(20)},
			15, // 20 == 2*10 is not strictly greater
			NoteAveraging,
		},
		{
			"detection only",
			[]estimate.Estimate{detectionEstimate(7)},
			7,
			NoteDirectOnly,
		},
		{
			"density only",
			[]estimate.Estimate{densityEstimate(12)},
			12,
			NoteDensityOnly,
		},
		{
			"zero detection with positive density is trivially dense",
			[]estimate.Estimate{detectionEstimate(0), densityEstimate(4)},
			4,
			NoteDenseScene,
		},
		{
			"faces override lower fused count",
			[]estimate.Estimate{detectionEstimate(8), faceEstimate(12)},
			12,
			NoteFaceLowerBound,
		},
		{
			"faces never lower the count",
			[]estimate.Estimate{detectionEstimate(8), faceEstimate(3)},
			8,
			NoteDirectOnly,
		},
		{
			"faces override density too",
			[]estimate.Estimate{detectionEstimate(2), densityEstimate(5), faceEstimate(9)},
			9,
			NoteFaceLowerBound,
		},
		{
			"nothing detected anywhere",
			[]estimate.Estimate{detectionEstimate(0), densityEstimate(0), faceEstimate(0)},
			0,
			NoteNoPeople,
		},
		{
			"no estimates at all",
			nil,
			0,
			NoteNoData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Fuse(tt.estimates)
			if res.FinalCount != tt.wantCount {
				t.Errorf("FinalCount: got %d, want %d", res.FinalCount, tt.wantCount)
			}
			if res.Note != tt.wantNote {
				t.Errorf("Note: got %q, want %q", res.Note, tt.wantNote)
			}
		})
	}
}

// The pairwise policy over detection and density alone: density wins
// when more than double detection, detection wins when larger, and
// close calls average.
func TestFuse_DetectionDensityProperty(t *testing.T) {
	for d := 0; d <= 25; d++ {
		for c := 0; c <= 60; c++ {
			res := Fuse([]estimate.Estimate{detectionEstimate(d), densityEstimate(c)})

			var want int
			switch {
			case c > 2*d:
				want = c
			case d > c:
				want = d
			default:
				want = (d + c + 1) / 2 // round half up for non-negative input
			}
			if res.FinalCount != want {
				t.Fatalf("D=%d C=%d: got %d, want %d", d, c, res.FinalCount, want)
			}
		}
	}
}

// Adding a face estimate can only ever raise the final count.
func TestFuse_FaceMonotonicity(t *testing.T) {
	for d := 0; d <= 12; d++ {
		for c := 0; c <= 25; c += 5 {
			base := Fuse([]estimate.Estimate{detectionEstimate(d), densityEstimate(c)})
			for f := 0; f <= 20; f += 4 {
				withFaces := Fuse([]estimate.Estimate{detectionEstimate(d), densityEstimate(c), faceEstimate(f)})
				if withFaces.FinalCount < base.FinalCount {
					t.Fatalf("D=%d C=%d F=%d: count dropped from %d to %d",
						d, c, f, base.FinalCount, withFaces.FinalCount)
				}
			}
		}
	}
}

func TestFuse_Idempotent(t *testing.T) {
	estimates := []estimate.Estimate{detectionEstimate(10), densityEstimate(15), faceEstimate(4)}

	first := Fuse(estimates)
	second := Fuse(estimates)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("fusion not idempotent: %+v vs %+v", first, second)
	}
}

// Zero-shot results are informational only: presence or absence must
// never change the final count or note.
func TestFuse_ZeroShotNeverFeedsCount(t *testing.T) {
	base := []estimate.Estimate{detectionEstimate(6), densityEstimate(9), faceEstimate(2)}

	without := Fuse(base)
	with := Fuse(append(append([]estimate.Estimate{}, base...), zeroShotEstimate(20)))

	if with.FinalCount != without.FinalCount {
		t.Errorf("zero-shot changed count: %d vs %d", with.FinalCount, without.FinalCount)
	}
	if with.Note != without.Note {
		t.Errorf("zero-shot changed note: %q vs %q", with.Note, without.Note)
	}
	if _, ok := with.PerEstimator[estimate.ZeroShotCrop]; !ok {
		t.Error("zero-shot estimate missing from PerEstimator")
	}
}

func TestFuse_RegistryDegradedRun(t *testing.T) {
	// Density failed to load; detection and faces still fuse.
	res := Fuse([]estimate.Estimate{detectionEstimate(8), faceEstimate(12)})
	if res.FinalCount != 12 {
		t.Errorf("FinalCount: got %d, want 12", res.FinalCount)
	}
	if res.Note != NoteFaceLowerBound {
		t.Errorf("Note: got %q, want %q", res.Note, NoteFaceLowerBound)
	}
}

func TestFuse_PerEstimatorComplete(t *testing.T) {
	estimates := []estimate.Estimate{detectionEstimate(3), densityEstimate(5)}
	res := Fuse(estimates)

	if len(res.PerEstimator) != 2 {
		t.Fatalf("PerEstimator size: got %d, want 2", len(res.PerEstimator))
	}
	if res.PerEstimator[estimate.DirectDetection].PersonCount != 3 {
		t.Error("detection estimate not preserved")
	}
	if res.PerEstimator[estimate.DensityRegression].PersonCount != 5 {
		t.Error("density estimate not preserved")
	}
}
