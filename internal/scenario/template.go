package scenario

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

var (
	placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)
	wholeTokenRe  = regexp.MustCompile(`^\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}$`)
)

// Interpolate resolves {{name}} placeholders in v against vars, recursing
// through objects and arrays. A string that is exactly one placeholder
// resolves to the variable's value with its type preserved, so numbers and
// objects captured from a prior response flow into later requests intact.
// Strings with embedded placeholders substitute textually and stay strings.
// Unknown identifiers are left as the literal token; interpolation never
// fails.
func Interpolate(v any, vars map[string]any) any {
	switch val := v.(type) {
	case string:
		return interpolateString(val, vars)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			key := k
			if s, ok := interpolateString(k, vars).(string); ok {
				key = s
			}
			out[key] = Interpolate(elem, vars)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Interpolate(elem, vars)
		}
		return out
	default:
		return v
	}
}

// InterpolateStringMap resolves placeholders in each value of a string map,
// stringifying non-string variable values. Used for headers and query params.
func InterpolateStringMap(m map[string]string, vars map[string]any) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = Stringify(interpolateString(v, vars))
	}
	return out
}

func interpolateString(s string, vars map[string]any) any {
	if m := wholeTokenRe.FindStringSubmatch(s); m != nil {
		if val, ok := vars[m[1]]; ok {
			return val
		}
		return s
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(tok string) string {
		name := placeholderRe.FindStringSubmatch(tok)[1]
		val, ok := vars[name]
		if !ok {
			return tok
		}
		return Stringify(val)
	})
}

// Stringify renders a variable value as text: scalars in their canonical
// form, objects and arrays as JSON.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", val)
	}
}
