package scenario

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Runner executes the scenarios of one test document sequentially. Each
// scenario gets a fresh variable scope seeded from the document's globals,
// then enriched by extractions from its own steps; scopes never cross
// scenario boundaries.
type Runner struct {
	doc       *TestCase
	exec      *Executor
	validator *Validator
	logger    *slog.Logger

	// Backoff returns the pause before retry number attempt (1-based). The
	// default is linear: attempt × 1s. Tests shrink it.
	Backoff func(attempt int) time.Duration
}

// NewRunner creates a Runner for a loaded document.
func NewRunner(doc *TestCase) *Runner {
	return &Runner{
		doc:       doc,
		exec:      NewExecutor(doc.Config.BaseURL, time.Duration(doc.Config.Timeout)*time.Millisecond),
		validator: &Validator{},
		logger:    slog.Default(),
		Backoff:   linearBackoff,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *slog.Logger) { r.logger = l }

// RegisterFunc exposes a helper function to custom assertion expressions
// under the given name, e.g. a JSON-schema validator predicate.
func (r *Runner) RegisterFunc(name string, fn any) {
	if r.validator.Funcs == nil {
		r.validator.Funcs = make(map[string]any)
	}
	r.validator.Funcs[name] = fn
}

func linearBackoff(attempt int) time.Duration {
	return time.Duration(attempt) * time.Second
}

// RunAll executes every scenario in order. A failed scenario never prevents
// later scenarios from running; cancelling ctx stops between steps and
// aborts any in-flight request.
func (r *Runner) RunAll(ctx context.Context) []TestResult {
	results := make([]TestResult, 0, len(r.doc.Tests))
	for i := range r.doc.Tests {
		if ctx.Err() != nil {
			break
		}
		results = append(results, r.runTest(ctx, &r.doc.Tests[i]))
	}
	return results
}

// runTest executes one scenario's steps strictly in order against a single
// mutable variable scope. With stopOnFailure set, a failed step skips the
// remainder of the scenario; the steps already attempted stay recorded.
func (r *Runner) runTest(ctx context.Context, t *Test) TestResult {
	start := time.Now()
	result := TestResult{Name: t.Name, Passed: true}

	vars := make(map[string]any, len(r.doc.Variables))
	for k, v := range r.doc.Variables {
		vars[k] = v
	}

	r.logger.Info("running scenario", "name", t.Name, "steps", len(t.Steps))
	for i := range t.Steps {
		if ctx.Err() != nil {
			result.Passed = false
			break
		}
		sr := r.runStep(ctx, &t.Steps[i], vars)
		result.Steps = append(result.Steps, sr)
		if !sr.Success {
			result.Passed = false
			r.logger.Warn("step failed", "scenario", t.Name, "step", sr.Name, "error", sr.Error)
			if r.doc.Config.StopOnFailure {
				break
			}
		} else {
			r.logger.Info("step passed", "scenario", t.Name, "step", sr.Name)
		}
	}

	result.DurationMs = time.Since(start).Milliseconds()
	return result
}

// runStep drives the retry state machine for one step. Each attempt covers
// the whole operation (request, extraction, validation), so a validation
// failure alone can trigger a retry. Extraction runs before validation on
// purpose: variables captured by a step stay available to later steps even
// when the step itself fails.
func (r *Runner) runStep(ctx context.Context, step *Step, vars map[string]any) StepResult {
	start := time.Now()
	sr := StepResult{Name: step.Name}

	attempts := r.doc.Config.Retries + 1
	var lastResp *Response
	var lastErr string

	for attempt := 1; attempt <= attempts; attempt++ {
		resp, errMsg := r.attempt(ctx, step, vars)
		if resp != nil {
			lastResp = resp
		}
		if errMsg == "" {
			sr.Success = true
			sr.Response = resp.Record()
			if step.Delay > 0 {
				sleepCtx(ctx, time.Duration(step.Delay)*time.Millisecond)
			}
			sr.DurationMs = time.Since(start).Milliseconds()
			return sr
		}
		lastErr = errMsg
		if attempt < attempts {
			pause := r.Backoff(attempt)
			r.logger.Info("retrying step", "step", step.Name, "attempt", attempt, "backoff", pause)
			if !sleepCtx(ctx, pause) {
				break
			}
		}
	}

	sr.Error = lastErr
	if lastResp != nil {
		sr.Response = lastResp.Record()
	}
	sr.DurationMs = time.Since(start).Milliseconds()
	return sr
}

// attempt performs one request/extract/validate cycle. It returns the
// captured response (nil when the transport itself failed) and an error
// message, empty on success.
func (r *Runner) attempt(ctx context.Context, step *Step, vars map[string]any) (*Response, string) {
	resp, err := r.exec.Execute(ctx, &step.Request, vars)
	if err != nil {
		return nil, err.Error()
	}

	// Extraction failures never fail the step; the variable is just absent.
	for name, path := range step.Extract {
		val, ok := Extract(resp.Body, path)
		if !ok {
			r.logger.Warn("extraction found nothing", "step", step.Name, "variable", name, "path", path)
			continue
		}
		vars[name] = val
	}

	if step.Expect != nil {
		if mismatches := r.validator.Validate(resp, step.Expect, vars); len(mismatches) > 0 {
			return resp, strings.Join(mismatches, "; ")
		}
	}
	return resp, ""
}

// sleepCtx pauses for d unless ctx is cancelled first. Reports whether the
// full pause elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
