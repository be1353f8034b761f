package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// UserAgent identifies the runner on outgoing requests unless a step
// overrides the User-Agent header.
const UserAgent = "API-Test-Runner/1.0"

// Executor builds and issues one HTTP request per call. Keep-alives are
// disabled so each call opens and closes its own connection; nothing is
// shared between calls.
type Executor struct {
	BaseURL string
	Timeout time.Duration // default per-request bound; zero means unbounded
	client  *http.Client
}

// NewExecutor creates an Executor. Relative step URLs resolve against
// baseURL; timeout applies to requests that do not carry their own.
func NewExecutor(baseURL string, timeout time.Duration) *Executor {
	return &Executor{
		BaseURL: baseURL,
		Timeout: timeout,
		client: &http.Client{
			Transport: &http.Transport{DisableKeepAlives: true},
		},
	}
}

// Execute interpolates the request spec against vars, issues the request,
// and captures the response. The body is parsed as JSON when possible; the
// raw text is always retained alongside. A request that exceeds its timeout
// is aborted and reported with the bound that was hit.
func (e *Executor) Execute(ctx context.Context, spec *Request, vars map[string]any) (*Response, error) {
	target, err := e.buildURL(spec, vars)
	if err != nil {
		return nil, err
	}

	timeout := e.Timeout
	if spec.Timeout > 0 {
		timeout = time.Duration(spec.Timeout) * time.Millisecond
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	body := Interpolate(spec.Body, vars)
	var reader io.Reader
	structured := false
	if body != nil {
		text, isStructured, err := serializeBody(body)
		if err != nil {
			return nil, err
		}
		structured = isStructured
		reader = strings.NewReader(text)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(spec.Method), target, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgent)
	for k, v := range InterpolateStringMap(spec.Headers, vars) {
		req.Header.Set(k, v)
	}
	if structured && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		if timeout > 0 && errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("request timed out after %s", timeout)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	captured := &Response{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		RawBody: string(raw),
	}
	var parsed any
	if len(raw) > 0 && json.Unmarshal(raw, &parsed) == nil {
		captured.Body = parsed
	} else {
		captured.Body = string(raw)
	}
	return captured, nil
}

// buildURL resolves the step URL against the base URL and appends query
// parameters, preserving any query string already on the URL.
func (e *Executor) buildURL(spec *Request, vars map[string]any) (string, error) {
	raw := Stringify(interpolateString(spec.URL, vars))
	if !strings.Contains(raw, "://") && e.BaseURL != "" {
		raw = strings.TrimSuffix(e.BaseURL, "/") + "/" + strings.TrimPrefix(raw, "/")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if len(spec.Query) > 0 {
		q := u.Query()
		for k, v := range InterpolateStringMap(spec.Query, vars) {
			q.Add(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// serializeBody renders an interpolated body for the wire: objects and
// arrays as JSON text, strings as-is, other scalars in canonical form. The
// second return reports whether the body was structured, which drives the
// Content-Type default.
func serializeBody(body any) (string, bool, error) {
	switch val := body.(type) {
	case string:
		return val, false, nil
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return "", false, fmt.Errorf("serializing request body: %w", err)
		}
		return string(data), true, nil
	default:
		return Stringify(val), false, nil
	}
}
