package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// Validator evaluates expectation blocks against captured responses. Funcs
// are extra helpers exposed to custom expressions by name, e.g. a JSON-schema
// predicate func(schema, value any) bool registered by the embedding caller.
type Validator struct {
	Funcs map[string]any
}

// Validate compares a response against an expectation block and returns one
// human-readable description per mismatch. All checks run; nothing
// short-circuits, so a failed step reports every violated expectation at
// once. An empty result means the response matched.
func (v *Validator) Validate(resp *Response, expect *Expect, vars map[string]any) []string {
	var mismatches []string

	if expect.Status != 0 && resp.Status != expect.Status {
		mismatches = append(mismatches, fmt.Sprintf("expected status %d, got %d", expect.Status, resp.Status))
	}

	for name, want := range InterpolateStringMap(expect.Headers, vars) {
		got := resp.Headers.Get(name)
		if got != want {
			mismatches = append(mismatches, fmt.Sprintf("header %q: expected %q, got %q", name, want, got))
		}
	}

	if expect.JSON != nil {
		expected := Interpolate(expect.JSON, vars)
		matchJSON(resp.Body, expected, "$", &mismatches)
	}

	if expect.Contains != "" {
		needle := Stringify(interpolateString(expect.Contains, vars))
		if !strings.Contains(resp.RawBody, needle) {
			mismatches = append(mismatches, fmt.Sprintf("body does not contain %q", needle))
		}
	}

	if expect.Custom != "" {
		if msg := v.evalCustom(resp, expect.Custom); msg != "" {
			mismatches = append(mismatches, msg)
		}
	}

	return mismatches
}

// Validate evaluates an expectation block with no extra custom-expression
// helpers registered.
func Validate(resp *Response, expect *Expect, vars map[string]any) []string {
	return (&Validator{}).Validate(resp, expect, vars)
}

// evalCustom compiles and runs a boolean expression with status, headers,
// json, and body bound in scope. Compile and runtime errors are reported as
// mismatch text rather than propagating; the expression language cannot
// reach anything outside its environment.
func (v *Validator) evalCustom(resp *Response, src string) string {
	headers := make(map[string]string, len(resp.Headers))
	for name := range resp.Headers {
		headers[name] = resp.Headers.Get(name)
	}
	env := map[string]any{
		"status":  resp.Status,
		"headers": headers,
		"json":    resp.Body,
		"body":    resp.RawBody,
	}
	for name, fn := range v.Funcs {
		env[name] = fn
	}

	program, err := expr.Compile(src, expr.Env(env), expr.AsBool())
	if err != nil {
		return fmt.Sprintf("custom assertion error: %v", err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return fmt.Sprintf("custom assertion error: %v", err)
	}
	if ok, _ := out.(bool); !ok {
		return fmt.Sprintf("custom assertion failed: %s", src)
	}
	return ""
}

// matchJSON deep-compares actual against expected, appending a description
// for every mismatch found. Objects match when every expected key is present
// with a matching value; actual-side extras are ignored, so a test asserts
// only the fields it cares about. Arrays match positionally and must have the
// same length. Primitives use type-coercive equality: a number equals the
// string holding its exact canonical form.
func matchJSON(actual, expected any, path string, out *[]string) {
	switch want := expected.(type) {
	case map[string]any:
		obj, ok := actual.(map[string]any)
		if !ok {
			*out = append(*out, fmt.Sprintf("%s: expected object, got %s", path, describe(actual)))
			return
		}
		for key, wantVal := range want {
			gotVal, present := obj[key]
			if !present {
				*out = append(*out, fmt.Sprintf("%s.%s: missing key", path, key))
				continue
			}
			matchJSON(gotVal, wantVal, path+"."+key, out)
		}
	case []any:
		arr, ok := actual.([]any)
		if !ok {
			*out = append(*out, fmt.Sprintf("%s: expected array, got %s", path, describe(actual)))
			return
		}
		if len(arr) != len(want) {
			*out = append(*out, fmt.Sprintf("%s: expected %d elements, got %d", path, len(want), len(arr)))
			return
		}
		for i, wantVal := range want {
			matchJSON(arr[i], wantVal, fmt.Sprintf("%s[%d]", path, i), out)
		}
	default:
		if !primitivesMatch(actual, expected) {
			*out = append(*out, fmt.Sprintf("%s: expected %s, got %s", path, describe(expected), describe(actual)))
		}
	}
}

// primitivesMatch compares scalar values. Two numbers compare numerically; a
// number and a string match only when the string is exactly the number's
// canonical decimal form. Booleans and null compare strictly.
func primitivesMatch(actual, expected any) bool {
	if an, ok := toNumber(actual); ok {
		if en, ok := toNumber(expected); ok {
			return an == en
		}
		if es, ok := expected.(string); ok {
			return formatNumber(an) == es
		}
		return false
	}
	if as, ok := actual.(string); ok {
		if en, ok := toNumber(expected); ok {
			return as == formatNumber(en)
		}
		if es, ok := expected.(string); ok {
			return as == es
		}
		return false
	}
	return actual == expected
}

// toNumber converts any numeric kind to float64. YAML documents decode
// integers as int, so the numeric kinds beyond float64 matter here.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// describe renders a value for mismatch messages, with strings quoted so
// "1" and 1 are distinguishable.
func describe(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return Stringify(v)
}
