package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses a test document. JSON is the native format;
// .yaml/.yml files are accepted and decoded to the same shapes. A missing
// file or malformed document is a hard error; nothing runs without a valid
// document.
func LoadFile(path string) (*TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading test document %s: %w", path, err)
	}

	var doc TestCase
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing test document %s: %w", path, err)
		}
		doc.Variables = normalizeMap(doc.Variables)
		for i := range doc.Tests {
			for j := range doc.Tests[i].Steps {
				step := &doc.Tests[i].Steps[j]
				step.Request.Body = normalize(step.Request.Body)
				if step.Expect != nil {
					step.Expect.JSON = normalize(step.Expect.JSON)
				}
			}
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing test document %s: %w", path, err)
		}
	}

	if err := validateDoc(&doc); err != nil {
		return nil, fmt.Errorf("test document %s: %w", path, err)
	}
	return &doc, nil
}

func validateDoc(doc *TestCase) error {
	if len(doc.Tests) == 0 {
		return fmt.Errorf("at least one test is required")
	}
	for i, t := range doc.Tests {
		if t.Name == "" {
			return fmt.Errorf("test %d: name is required", i)
		}
		if len(t.Steps) == 0 {
			return fmt.Errorf("test %q: at least one step is required", t.Name)
		}
		for j, s := range t.Steps {
			if s.Request.Method == "" {
				return fmt.Errorf("test %q step %d: request method is required", t.Name, j)
			}
			if s.Request.URL == "" {
				return fmt.Errorf("test %q step %d: request url is required", t.Name, j)
			}
		}
	}
	if doc.Config.Retries < 0 {
		return fmt.Errorf("config: retries must not be negative")
	}
	return nil
}

// normalize rewrites YAML-decoded values into the JSON kinds the engine
// switches on: integer kinds become float64 and non-string-keyed maps become
// map[string]any.
func normalize(v any) any {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case map[string]any:
		return normalizeMap(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[fmt.Sprintf("%v", k)] = normalize(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalize(elem)
		}
		return out
	default:
		return v
	}
}

func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}
