package adapter

import (
	"testing"

	"github.com/ironsheep/crowd-lens-mcp/internal/estimate"
)

func TestZeroShot_Tally(t *testing.T) {
	est := ZeroShot([]string{"man", "woman", "man", "child", "woman", "woman"})

	if est.Kind != estimate.ZeroShotCrop {
		t.Errorf("Kind: got %s, want %s", est.Kind, estimate.ZeroShotCrop)
	}
	if est.Sample == nil {
		t.Fatal("Sample missing")
	}
	if est.Sample.Men != 2 || est.Sample.Women != 3 || est.Sample.Children != 1 {
		t.Errorf("tallies: got men=%d women=%d children=%d, want 2/3/1",
			est.Sample.Men, est.Sample.Women, est.Sample.Children)
	}
}

// The zero-shot person count is the sample size, never a scene count.
func TestZeroShot_PersonCountIsSampleSize(t *testing.T) {
	est := ZeroShot([]string{"man", "woman", "child"})

	if est.PersonCount != 3 {
		t.Errorf("PersonCount: got %d, want 3", est.PersonCount)
	}
	if est.Sample.SampledTotal != 3 {
		t.Errorf("SampledTotal: got %d, want 3", est.Sample.SampledTotal)
	}
}

func TestZeroShot_UnknownLabelsCountOnlyTowardSample(t *testing.T) {
	est := ZeroShot([]string{"man", "statue"})

	if est.Sample.SampledTotal != 2 {
		t.Errorf("SampledTotal: got %d, want 2", est.Sample.SampledTotal)
	}
	if est.Sample.Men != 1 || est.Sample.Women != 0 || est.Sample.Children != 0 {
		t.Errorf("unexpected tallies: %+v", est.Sample)
	}
}

func TestZeroShot_Empty(t *testing.T) {
	est := ZeroShot(nil)

	if est.PersonCount != 0 {
		t.Errorf("PersonCount: got %d, want 0", est.PersonCount)
	}
	if est.Sample == nil || est.Sample.SampledTotal != 0 {
		t.Errorf("empty sample should still be present with zero total: %+v", est.Sample)
	}
}
