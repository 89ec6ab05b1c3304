package simulation

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"

	"pairpower/domain/cohort"
	"pairpower/domain/core"
	"pairpower/domain/mcnemar"
	"pairpower/internal"
	"pairpower/ports"
)

// stageName identifies the validator's RNG streams in the derivation key.
const stageName = "monte_carlo"

// ValidatorConfig controls one Monte Carlo batch.
type ValidatorConfig struct {
	Trials     int
	Alpha      float64
	Confidence float64
	Seed       int64
	// MaxConcurrent bounds in-flight trials; zero means NumCPU.
	MaxConcurrent int
}

// TrialOutcome is one trial's record. Exactly one of Result, Degenerate, or
// Err is meaningful.
type TrialOutcome struct {
	Trial      int
	Result     *mcnemar.Result
	Degenerate bool
	Err        error
}

// Report aggregates a batch. RejectionRate is computed over valid trials
// only; degenerate and failed trials are counted, never silently dropped.
type Report struct {
	StudyID       core.StudyID
	Requested     int
	Completed     int
	Degenerate    int
	Failed        int
	Rejections    int
	RejectionRate float64
	MeanPValue    float64
	MedianPValue  float64
	Elapsed       time.Duration
}

// RejectionPercent returns the empirical rejection rate as a percentage.
func (r *Report) RejectionPercent() float64 {
	return r.RejectionRate * 100
}

// Validator repeats generate -> tabulate -> exact test and aggregates the
// rejection rate against the target power.
type Validator struct {
	generator *Generator
	rng       ports.RNGPort
	logger    *internal.Logger
}

// NewValidator creates a Monte Carlo validator.
func NewValidator(generator *Generator, rngPort ports.RNGPort, logger *internal.Logger) *Validator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Validator{generator: generator, rng: rngPort, logger: logger}
}

// Run executes cfg.Trials independent trials of the given cohort spec.
// Trials run concurrently under a weighted semaphore; each trial derives its
// own RNG stream from the stage and trial index, so the batch is reproducible
// for a fixed seed regardless of worker count or study identity.
func (v *Validator) Run(ctx context.Context, studyID core.StudyID, cfg ValidatorConfig, spec CohortSpec) (*Report, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("trial count must be positive, got %d", cfg.Trials)
	}
	if cfg.Alpha <= 0 || cfg.Alpha >= 1 {
		return nil, core.NewProbabilityError("alpha", cfg.Alpha)
	}
	if cfg.Confidence <= 0 || cfg.Confidence >= 1 {
		return nil, fmt.Errorf("%w: %g", core.ErrInvalidConfidence, cfg.Confidence)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	workers := cfg.MaxConcurrent
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	v.logger.Info("starting monte carlo batch: study=%s trials=%d cohort=%d workers=%d",
		studyID, cfg.Trials, spec.Size, workers)

	start := time.Now()
	sem := semaphore.NewWeighted(int64(workers))
	outcomes := make(chan TrialOutcome, cfg.Trials)

	for i := 0; i < cfg.Trials; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("acquire trial slot: %w", err)
		}
		go func(trial int) {
			defer sem.Release(1)
			outcomes <- v.runTrial(ctx, cfg, spec, trial)
		}(i)
	}

	// Collect out of order, aggregate in trial order: float reductions are
	// only reproducible across worker counts when the fold order is fixed.
	batch := make([]TrialOutcome, cfg.Trials)
	for i := 0; i < cfg.Trials; i++ {
		select {
		case out := <-outcomes:
			batch[out.Trial] = out
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	report := &Report{StudyID: studyID, Requested: cfg.Trials}
	pValues := make([]float64, 0, cfg.Trials)

	for _, out := range batch {
		switch {
		case out.Err != nil:
			report.Failed++
			v.logger.Warn("trial %d failed: %v", out.Trial, out.Err)
		case out.Degenerate:
			report.Degenerate++
			v.logger.Debug("trial %d degenerate: zero true positives", out.Trial)
		default:
			report.Completed++
			pValues = append(pValues, out.Result.PValue)
			if out.Result.PValue < cfg.Alpha {
				report.Rejections++
			}
		}
	}

	if report.Completed == 0 {
		return nil, fmt.Errorf("%w: %d degenerate, %d failed of %d requested",
			core.ErrNoValidTrials, report.Degenerate, report.Failed, report.Requested)
	}

	report.RejectionRate = float64(report.Rejections) / float64(report.Completed)
	report.MeanPValue, _ = stats.Mean(pValues)
	report.MedianPValue, _ = stats.Median(pValues)
	report.Elapsed = time.Since(start)

	v.logger.Info("monte carlo batch done: rejected %d/%d (%.1f%%) in %v",
		report.Rejections, report.Completed, report.RejectionPercent(), report.Elapsed)

	return report, nil
}

// runTrial executes one generate -> tabulate -> test cycle on its own
// derived RNG stream.
func (v *Validator) runTrial(ctx context.Context, cfg ValidatorConfig, spec CohortSpec, trial int) TrialOutcome {
	out := TrialOutcome{Trial: trial}

	trialID := core.TrialID(fmt.Sprintf("trial_%d", trial))
	rng, err := v.rng.Stream(ctx, stageName, trialID.String(), cfg.Seed)
	if err != nil {
		out.Err = fmt.Errorf("derive rng stream: %w", err)
		return out
	}

	population, err := v.generator.Generate(rng, spec)
	if err != nil {
		out.Err = fmt.Errorf("generate cohort: %w", err)
		return out
	}

	counts := cohort.Tabulate(population)
	result, err := mcnemar.ExactTest(counts, mcnemar.Greater, cfg.Confidence)
	if errors.Is(err, core.ErrNoPairs) {
		out.Degenerate = true
		return out
	}
	if err != nil {
		out.Err = fmt.Errorf("exact test: %w", err)
		return out
	}

	out.Result = result
	return out
}
