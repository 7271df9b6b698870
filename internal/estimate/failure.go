package estimate

import "fmt"

// FailureReason classifies why an estimator produced no Estimate.
type FailureReason string

const (
	// ModelUnavailable means the estimator's model never loaded (or was
	// never attempted); the estimator is excluded from the qualifying set.
	ModelUnavailable FailureReason = "model_unavailable"

	// InferenceError means the model call failed at runtime. The
	// estimator's contribution is absent for this run only.
	InferenceError FailureReason = "inference_error"

	// InvalidOutput means the model returned a malformed result, for
	// example a missing or mis-sized density grid. Treated exactly like
	// InferenceError downstream.
	InvalidOutput FailureReason = "invalid_output"
)

// Failure records one estimator's failure during an analysis run.
// Failures never propagate to sibling estimators and are never fatal to
// producing a fusion result.
type Failure struct {
	Kind   Kind          `json:"kind"`
	Reason FailureReason `json:"reason"`
	Err    error         `json:"-"`
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Reason, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Reason)
}

func (f *Failure) Unwrap() error { return f.Err }

// NewFailure wraps err as a Failure for the given estimator kind.
func NewFailure(kind Kind, reason FailureReason, err error) *Failure {
	return &Failure{Kind: kind, Reason: reason, Err: err}
}
