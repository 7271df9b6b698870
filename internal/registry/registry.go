// Package registry tracks which estimators are loaded and enabled, and
// orchestrates running the qualifying set against one image.
//
// Estimator model loading is best-effort and independent per kind: one
// kind failing to load never prevents the others from loading or being
// used. Within a single analysis run the qualifying estimators execute
// concurrently, failures are isolated per estimator, and fusion input
// is only assembled once every call has settled.
package registry

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/crowd-lens-mcp/internal/adapter"
	"github.com/ironsheep/crowd-lens-mcp/internal/estimate"
	"github.com/ironsheep/crowd-lens-mcp/internal/modelsvc"
)

// Availability is the process-wide load state of one estimator kind.
// It transitions from NotLoaded to exactly one of Loaded or LoadFailed
// and is terminal thereafter; models are never reloaded.
type Availability string

const (
	NotLoaded  Availability = "not_loaded"
	Loaded     Availability = "loaded"
	LoadFailed Availability = "load_failed"
)

// ErrReadinessTimeout is returned by WaitSettled when an estimator's
// load has not settled within the bounded wait. Callers treat the kind
// as unavailable for the current run and proceed without it.
var ErrReadinessTimeout = errors.New("estimator load did not settle within wait")

// Backends supplies the external model runtimes, one per estimator
// kind. A nil field marks that kind as having no backend; its load is
// recorded as failed and it never qualifies.
type Backends struct {
	Detector   modelsvc.Detector
	Density    modelsvc.DensityEstimator
	Faces      modelsvc.FaceAnalyzer
	Classifier modelsvc.CropClassifier
}

// Config carries the tunables for analysis runs.
type Config struct {
	// ScoreThreshold is the detection confidence cutoff.
	ScoreThreshold float64

	// SampleCap bounds how many person crops zero-shot classification
	// samples per run.
	SampleCap int

	// ReadyWait bounds how long an analysis run waits for a still-loading
	// estimator before giving up on it for that run.
	ReadyWait time.Duration
}

// Options selects per-run estimator enablement.
type Options struct {
	// Disabled lists estimator kinds the user has toggled off.
	// DirectDetection is the baseline signal and cannot be disabled;
	// listing it here has no effect.
	Disabled []estimate.Kind
}

// Run is the settled outcome of one analysis run: the successful
// estimates in canonical kind order and the failures recorded along the
// way. Superseded is set when a newer run started before this one
// finished; its results should be discarded.
type Run struct {
	ID         string              `json:"id"`
	Estimates  []estimate.Estimate `json:"estimates"`
	Failures   []*estimate.Failure `json:"failures,omitempty"`
	Superseded bool                `json:"superseded,omitempty"`
}

// Registry holds the per-kind load state and dispatches analysis runs.
// It is constructed once and passed by reference into each analysis
// call; there is no ambient global model state.
type Registry struct {
	backends Backends
	loader   modelsvc.Loader
	cfg      Config

	mu      sync.Mutex
	state   map[estimate.Kind]Availability
	settled map[estimate.Kind]chan struct{}
	loading bool
	current string
}

// New creates a registry over the given backends. loader may be nil
// when the backends require no explicit load step (kinds with a backend
// are then immediately Loaded by LoadAll).
func New(backends Backends, loader modelsvc.Loader, cfg Config) *Registry {
	if cfg.ScoreThreshold == 0 {
		cfg.ScoreThreshold = adapter.DefaultScoreThreshold
	}
	if cfg.SampleCap == 0 {
		cfg.SampleCap = 20
	}
	if cfg.ReadyWait == 0 {
		cfg.ReadyWait = 30 * time.Second
	}

	r := &Registry{
		backends: backends,
		loader:   loader,
		cfg:      cfg,
		state:    make(map[estimate.Kind]Availability, len(estimate.Kinds)),
		settled:  make(map[estimate.Kind]chan struct{}, len(estimate.Kinds)),
	}
	for _, kind := range estimate.Kinds {
		r.state[kind] = NotLoaded
		r.settled[kind] = make(chan struct{})
	}
	return r
}

// LoadAll starts loading every estimator's model, one goroutine per
// kind. It returns immediately; WaitSettled observes completion. Load
// is one-shot per process lifetime; repeat calls are no-ops.
func (r *Registry) LoadAll(ctx context.Context) {
	r.mu.Lock()
	if r.loading {
		r.mu.Unlock()
		return
	}
	r.loading = true
	r.mu.Unlock()

	for _, kind := range estimate.Kinds {
		go r.loadOne(ctx, kind)
	}
}

func (r *Registry) loadOne(ctx context.Context, kind estimate.Kind) {
	state := Loaded
	if !r.hasBackend(kind) {
		state = LoadFailed
		log.Printf("estimator %s: no backend configured", kind)
	} else if r.loader != nil {
		if err := r.loader.Load(ctx, kind); err != nil {
			state = LoadFailed
			log.Printf("estimator %s: load failed: %v", kind, err)
		}
	}

	r.mu.Lock()
	r.state[kind] = state
	close(r.settled[kind])
	r.mu.Unlock()
}

func (r *Registry) hasBackend(kind estimate.Kind) bool {
	switch kind {
	case estimate.DirectDetection:
		return r.backends.Detector != nil
	case estimate.DensityRegression:
		return r.backends.Density != nil
	case estimate.FaceDemographic:
		return r.backends.Faces != nil
	case estimate.ZeroShotCrop:
		return r.backends.Classifier != nil
	}
	return false
}

// Availability returns the current load state of kind.
func (r *Registry) Availability(kind estimate.Kind) Availability {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state[kind]
}

// Status reports the load state of every estimator kind.
func (r *Registry) Status() map[estimate.Kind]Availability {
	r.mu.Lock()
	defer r.mu.Unlock()
	status := make(map[estimate.Kind]Availability, len(r.state))
	for kind, state := range r.state {
		status[kind] = state
	}
	return status
}

// WaitSettled blocks until kind's load has settled, the wait elapses,
// or ctx is done. On timeout it returns the current (unsettled) state
// together with ErrReadinessTimeout; the caller has given up on this
// capability for now and proceeds without it.
func (r *Registry) WaitSettled(ctx context.Context, kind estimate.Kind, wait time.Duration) (Availability, error) {
	r.mu.Lock()
	ch := r.settled[kind]
	r.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ch:
		return r.Availability(kind), nil
	case <-timer.C:
		return r.Availability(kind), ErrReadinessTimeout
	case <-ctx.Done():
		return r.Availability(kind), ctx.Err()
	}
}

// outcome is one estimator's settled result within a run.
type outcome struct {
	est     estimate.Estimate
	failure *estimate.Failure
	ok      bool
}

// Analyze runs every qualifying estimator against img, waits for all of
// them to settle, and returns the collected estimates and failures.
//
// The qualifying set is the intersection of loaded and enabled kinds.
// DirectDetection qualifies whenever it is loaded regardless of
// toggles. ZeroShotCrop has a declared dependency on DirectDetection:
// it only qualifies when detection also qualifies, and it runs against
// the person boxes detection produced this run.
//
// Partial failure is never fatal: a failing estimator is logged,
// recorded in Run.Failures, and its siblings continue. An Analyze call
// that yields zero estimates still returns normally; fusion downstream
// produces the "no data" result.
func (r *Registry) Analyze(ctx context.Context, img image.Image, opts Options) *Run {
	run := &Run{ID: uuid.NewString()}

	r.mu.Lock()
	r.current = run.ID
	r.mu.Unlock()

	disabled := make(map[estimate.Kind]bool, len(opts.Disabled))
	for _, kind := range opts.Disabled {
		disabled[kind] = true
	}

	qualifying := make(map[estimate.Kind]bool, len(estimate.Kinds))
	for _, kind := range estimate.Kinds {
		state, err := r.WaitSettled(ctx, kind, r.cfg.ReadyWait)
		if err != nil {
			log.Printf("estimator %s: giving up on readiness for run %s: %v", kind, run.ID, err)
			continue
		}
		if state != Loaded {
			continue
		}
		if kind != estimate.DirectDetection && disabled[kind] {
			continue
		}
		qualifying[kind] = true
	}
	// Declared dependency edge: zero-shot classifies crops of the
	// person boxes detection finds, so it cannot qualify alone.
	if !qualifying[estimate.DirectDetection] {
		delete(qualifying, estimate.ZeroShotCrop)
	}

	outcomes := make(map[estimate.Kind]outcome, len(qualifying))
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	record := func(kind estimate.Kind, o outcome) {
		mu.Lock()
		outcomes[kind] = o
		mu.Unlock()
	}

	// Detection's outcome feeds the zero-shot sampler, so it is passed
	// through a channel as well as recorded.
	detCh := make(chan outcome, 1)

	if qualifying[estimate.DirectDetection] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := r.runDetection(ctx, img)
			record(estimate.DirectDetection, o)
			detCh <- o
		}()
	} else {
		detCh <- outcome{}
	}

	if qualifying[estimate.DensityRegression] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record(estimate.DensityRegression, r.runDensity(ctx, img))
		}()
	}

	if qualifying[estimate.FaceDemographic] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record(estimate.FaceDemographic, r.runFaces(ctx, img))
		}()
	}

	if qualifying[estimate.ZeroShotCrop] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			det := <-detCh
			if !det.ok {
				record(estimate.ZeroShotCrop, outcome{failure: estimate.NewFailure(
					estimate.ZeroShotCrop, estimate.ModelUnavailable,
					errors.New("direct detection did not succeed this run"))})
				return
			}
			record(estimate.ZeroShotCrop, r.runZeroShot(ctx, img, det.est.Boxes))
		}()
	}

	wg.Wait()

	for _, kind := range estimate.Kinds {
		o, ran := outcomes[kind]
		if !ran {
			continue
		}
		if o.failure != nil {
			log.Printf("estimator %s failed for run %s: %v", kind, run.ID, o.failure)
			run.Failures = append(run.Failures, o.failure)
			continue
		}
		run.Estimates = append(run.Estimates, o.est)
	}

	r.mu.Lock()
	run.Superseded = r.current != run.ID
	r.mu.Unlock()
	return run
}

func (r *Registry) runDetection(ctx context.Context, img image.Image) outcome {
	raw, err := r.backends.Detector.Detect(ctx, img, r.cfg.ScoreThreshold)
	if err != nil {
		return outcome{failure: estimate.NewFailure(estimate.DirectDetection, estimate.InferenceError, err)}
	}
	return outcome{est: adapter.Detection(raw, r.cfg.ScoreThreshold), ok: true}
}

func (r *Registry) runDensity(ctx context.Context, img image.Image) outcome {
	m, err := r.backends.Density.EstimateDensity(ctx, img)
	if err != nil {
		return outcome{failure: estimate.NewFailure(estimate.DensityRegression, estimate.InferenceError, err)}
	}
	est, err := adapter.Density(m)
	if err != nil {
		var failure *estimate.Failure
		if !errors.As(err, &failure) {
			failure = estimate.NewFailure(estimate.DensityRegression, estimate.InvalidOutput, err)
		}
		return outcome{failure: failure}
	}
	return outcome{est: est, ok: true}
}

func (r *Registry) runFaces(ctx context.Context, img image.Image) outcome {
	raw, err := r.backends.Faces.AnalyzeFaces(ctx, img)
	if err != nil {
		return outcome{failure: estimate.NewFailure(estimate.FaceDemographic, estimate.InferenceError, err)}
	}
	return outcome{est: adapter.Faces(raw), ok: true}
}

func (r *Registry) runZeroShot(ctx context.Context, img image.Image, boxes []estimate.Box) outcome {
	crops := modelsvc.SampleCrops(img, modelsvc.PersonBoxes(boxes), r.cfg.SampleCap)

	bestLabels := make([]string, 0, len(crops))
	for _, crop := range crops {
		scores, err := r.backends.Classifier.ClassifyCrop(ctx, crop, adapter.CandidateLabels)
		if err != nil {
			return outcome{failure: estimate.NewFailure(estimate.ZeroShotCrop, estimate.InferenceError, err)}
		}
		if best := modelsvc.BestLabel(scores); best != "" {
			bestLabels = append(bestLabels, best)
		}
	}
	return outcome{est: adapter.ZeroShot(bestLabels), ok: true}
}
