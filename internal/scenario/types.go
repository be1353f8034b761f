// Package scenario implements a declarative HTTP API test runner. A test
// document (JSON or YAML) describes named scenarios, each an ordered sequence
// of request/validate/extract steps; the runner executes them against a live
// endpoint and aggregates a pass/fail report.
//
// Variable values, request bodies, and expectations are plain decoded JSON:
// string, float64, bool, map[string]any, []any, or nil. Every recursion over
// these values switches explicitly on those kinds.
package scenario

import "net/http"

// TestCase is a complete test document: shared config, global variables, and
// the scenarios to run.
type TestCase struct {
	Config    Config         `json:"config" yaml:"config"`
	Variables map[string]any `json:"variables,omitempty" yaml:"variables,omitempty"`
	Tests     []Test         `json:"tests" yaml:"tests"`
}

// Config holds run-wide settings. Zero values are the defaults: no base URL,
// unbounded timeout, no retries, run every step even after a failure.
type Config struct {
	BaseURL       string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
	Timeout       int    `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds
	Retries       int    `json:"retries,omitempty" yaml:"retries,omitempty"`
	StopOnFailure bool   `json:"stopOnFailure,omitempty" yaml:"stopOnFailure,omitempty"`
}

// Test is a named scenario: an ordered sequence of steps sharing one mutable
// variable scope.
type Test struct {
	Name  string `json:"name" yaml:"name"`
	Steps []Step `json:"steps" yaml:"steps"`
}

// Step is one request/validate/extract/delay unit within a scenario.
type Step struct {
	Name    string            `json:"name" yaml:"name"`
	Request Request           `json:"request" yaml:"request"`
	Expect  *Expect           `json:"expect,omitempty" yaml:"expect,omitempty"`
	Extract map[string]string `json:"extract,omitempty" yaml:"extract,omitempty"`
	Delay   int               `json:"delay,omitempty" yaml:"delay,omitempty"` // milliseconds
}

// Request defines the HTTP request a step issues. URL may be relative to the
// document's baseUrl. Timeout overrides the config timeout for this request.
type Request struct {
	Method  string            `json:"method" yaml:"method"`
	URL     string            `json:"url" yaml:"url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Query   map[string]string `json:"query,omitempty" yaml:"query,omitempty"`
	Body    any               `json:"body,omitempty" yaml:"body,omitempty"`
	Timeout int               `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds
}

// Expect defines the expected response. All fields are optional; an absent
// field means no check.
type Expect struct {
	Status   int               `json:"status,omitempty" yaml:"status,omitempty"`
	Headers  map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	JSON     any               `json:"json,omitempty" yaml:"json,omitempty"`
	Contains string            `json:"contains,omitempty" yaml:"contains,omitempty"`
	Custom   string            `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// Response is a captured HTTP response. Body is the parsed JSON value when
// the body parses as JSON, otherwise the raw text; RawBody is always the raw
// text. Immutable once captured.
type Response struct {
	Status  int
	Headers http.Header
	Body    any
	RawBody string
}

// Record converts the response into its report form.
func (r *Response) Record() *ResponseRecord {
	headers := make(map[string]string, len(r.Headers))
	for k := range r.Headers {
		headers[k] = r.Headers.Get(k)
	}
	return &ResponseRecord{
		Status:  r.Status,
		Headers: headers,
		Body:    r.Body,
	}
}

// ResponseRecord is the serializable form of a Response kept in step results
// for auditability.
type ResponseRecord struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    any               `json:"body"`
}

// StepResult records the outcome of a single step attempt sequence.
type StepResult struct {
	Name       string          `json:"name"`
	Success    bool            `json:"success"`
	Error      string          `json:"error,omitempty"`
	Response   *ResponseRecord `json:"response,omitempty"`
	DurationMs int64           `json:"durationMs"`
}

// TestResult records the outcome of one scenario. Passed is the conjunction
// of all step successes; with stopOnFailure the step list may be truncated
// but every attempted step is present.
type TestResult struct {
	Name       string       `json:"name"`
	Steps      []StepResult `json:"steps"`
	Passed     bool         `json:"passed"`
	DurationMs int64        `json:"durationMs"`
}

// RunReport aggregates step counts across all scenarios plus the full nested
// detail. Total, Passed, and Failed count steps, not scenarios.
type RunReport struct {
	RunID       string       `json:"runId"`
	Timestamp   string       `json:"timestamp"`
	Total       int          `json:"total"`
	Passed      int          `json:"passed"`
	Failed      int          `json:"failed"`
	SuccessRate float64      `json:"successRate"`
	Config      Config       `json:"config"`
	Tests       []TestResult `json:"tests"`
}
