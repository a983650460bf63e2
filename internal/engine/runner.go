package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pankaj-dahiya-devops/posture/internal/check"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
	"github.com/pankaj-dahiya-devops/posture/internal/policy"
)

// DefaultConcurrency is the worker pool size used when none is configured.
const DefaultConcurrency = 4

var (
	// ErrCheckPanicked wraps the value recovered from a panicking check.
	ErrCheckPanicked = errors.New("check panicked")

	// ErrNotRun marks checks that were never started because the run was
	// cancelled first.
	ErrNotRun = errors.New("check not run")
)

// Runner executes checks on a bounded worker pool and assembles the report.
//
// Checks read only frozen service-client caches, so they run concurrently
// without locks. Each worker writes the result of its check into its own slot
// of a pre-sized slice; results are merged only after every worker returned.
type Runner struct {
	concurrency int
	policy      *policy.Config
	now         func() time.Time
}

// NewRunner returns a Runner with at most concurrency checks in flight. A
// concurrency below 1 uses DefaultConcurrency. policyCfg may be nil.
func NewRunner(concurrency int, policyCfg *policy.Config) *Runner {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Runner{
		concurrency: concurrency,
		policy:      policyCfg,
		now:         time.Now,
	}
}

// ScanOptions narrows which registered checks a Scan runs.
type ScanOptions struct {
	Providers []models.Provider
	Include   []string
	Exclude   []string
}

// Scan discovers the checks in reg selected by opts and the policy, then runs
// them.
func (r *Runner) Scan(ctx context.Context, reg *check.Registry, opts ScanOptions) *models.RunReport {
	checks := reg.Discover(check.Filter{
		Providers: opts.Providers,
		Include:   opts.Include,
		Exclude:   opts.Exclude,
		Enabled: func(meta models.CheckMetadata) bool {
			return policy.Enabled(r.policy, meta)
		},
	})
	return r.Run(ctx, checks)
}

// Run executes checks and returns the report. Findings appear in the order
// of checks, and within a check in the order the check emitted them.
//
// A check that returns an error or panics is recorded as failed and its
// findings are discarded; the other checks are unaffected. When ctx is
// cancelled, checks already running finish, checks not yet started are
// recorded with ErrNotRun, and the partial report is returned.
func (r *Runner) Run(ctx context.Context, checks []check.Check) *models.RunReport {
	logger := zerolog.Ctx(ctx)
	started := r.now()

	results := r.execute(ctx, checks)

	var findings []models.Finding
	for i := range results {
		results[i].Findings = policy.Apply(results[i].Findings, r.policy)
		findings = append(findings, results[i].Findings...)
	}

	report := &models.RunReport{
		ReportID:    uuid.NewString(),
		GeneratedAt: started.UTC(),
		Providers:   providersOf(checks),
		Results:     results,
		Findings:    findings,
	}
	report.Summary = computeSummary(results, findings)

	logger.Info().
		Str("report_id", report.ReportID).
		Int("checks", report.Summary.TotalChecks).
		Int("errored", report.Summary.ErroredChecks).
		Int("findings", report.Summary.TotalFindings).
		Int("fail", report.Summary.Fail).
		Dur("elapsed", r.now().Sub(started)).
		Msg("scan complete")

	return report
}

func (r *Runner) execute(ctx context.Context, checks []check.Check) []models.CheckResult {
	logger := zerolog.Ctx(ctx)
	results := make([]models.CheckResult, len(checks))
	started := make([]bool, len(checks))

	sem := make(chan struct{}, r.concurrency)
	var g errgroup.Group

CHECKS:
	for i, c := range checks {
		if ctx.Err() != nil {
			break
		}
		select {
		case sem <- struct{}{}: // acquire worker slot; blocks when at capacity
		case <-ctx.Done():
			break CHECKS
		}
		if ctx.Err() != nil {
			<-sem
			break
		}
		started[i] = true

		g.Go(func() error {
			defer func() { <-sem }()
			results[i] = r.runOne(ctx, c)
			return nil
		})
	}

	// Workers never return errors; failures live in the results.
	_ = g.Wait()

	for i, c := range checks {
		if started[i] {
			continue
		}
		meta, _ := metadataOf(c)
		err := fmt.Errorf("%w: %w", ErrNotRun, context.Cause(ctx))
		logger.Warn().Str("check_id", meta.ID).Err(err).Msg("check skipped")
		results[i] = models.CheckResult{
			CheckID:  meta.ID,
			Provider: meta.Provider,
			Err:      err,
			Error:    err.Error(),
		}
	}
	return results
}

// runOne executes c, converting a returned error or a panic into a failed
// result.
func (r *Runner) runOne(ctx context.Context, c check.Check) (res models.CheckResult) {
	logger := zerolog.Ctx(ctx)
	start := r.now()
	meta, err := metadataOf(c)
	res = models.CheckResult{CheckID: meta.ID, Provider: meta.Provider}
	if err != nil {
		logger.Error().Err(err).Msg("check metadata panicked")
		res.Err = err
		res.Error = err.Error()
		res.Duration = r.now().Sub(start)
		return res
	}

	logger.Debug().Str("check_id", meta.ID).Msg("check started")

	defer func() {
		res.Duration = r.now().Sub(start)
		if rec := recover(); rec != nil {
			err := fmt.Errorf("%w: %v", ErrCheckPanicked, rec)
			logger.Error().Str("check_id", meta.ID).Err(err).Bytes("stack", debug.Stack()).Msg("check panicked")
			res.Findings = nil
			res.Err = err
			res.Error = err.Error()
			return
		}
		if res.Err != nil {
			logger.Warn().Str("check_id", meta.ID).Err(res.Err).Msg("check failed")
			return
		}
		logger.Debug().
			Str("check_id", meta.ID).
			Int("findings", len(res.Findings)).
			Dur("duration", res.Duration).
			Msg("check finished")
	}()

	findings, err := c.Execute()
	if err != nil {
		res.Err = fmt.Errorf("execute %s: %w", meta.ID, err)
		res.Error = res.Err.Error()
		return res
	}
	res.Findings = findings
	return res
}

// metadataOf returns c.Metadata(), converting a panic into ErrCheckPanicked.
func metadataOf(c check.Check) (meta models.CheckMetadata, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: metadata: %v", ErrCheckPanicked, rec)
		}
	}()
	return c.Metadata(), nil
}

// providersOf lists the providers of checks in the canonical provider order.
func providersOf(checks []check.Check) []models.Provider {
	seen := make(map[models.Provider]bool)
	for _, c := range checks {
		if meta, err := metadataOf(c); err == nil {
			seen[meta.Provider] = true
		}
	}
	var out []models.Provider
	for _, p := range models.Providers() {
		if seen[p] {
			out = append(out, p)
		}
	}
	return out
}

// computeSummary aggregates per-status and per-severity counts. Muted
// findings count toward their status and Muted but never toward
// FailedBySeverity.
func computeSummary(results []models.CheckResult, findings []models.Finding) models.RunSummary {
	s := models.RunSummary{
		TotalChecks:      len(results),
		TotalFindings:    len(findings),
		FailedBySeverity: make(map[models.Severity]int),
	}
	for _, r := range results {
		if r.Failed() {
			s.ErroredChecks++
		}
	}
	for _, f := range findings {
		switch f.Status {
		case models.StatusPass:
			s.Pass++
		case models.StatusFail:
			s.Fail++
			if !f.Muted {
				s.FailedBySeverity[f.Severity]++
			}
		case models.StatusManual:
			s.Manual++
		}
		if f.Muted {
			s.Muted++
		}
	}
	return s
}
