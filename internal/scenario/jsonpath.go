package scenario

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var segmentRe = regexp.MustCompile(`^([^\[\]]+)(?:\[(\d+)\])?$`)

// Extract evaluates a path expression against a parsed JSON value. The
// syntax is dot-separated segments after an optional leading "$." prefix; a
// segment may be a plain key or key[index]. "$" or the empty path returns
// the root. A ".." segment triggers recursive descent: the first occurrence
// of the next segment's key in the current subtree wins, scanning objects in
// sorted key order and arrays element-wise, depth-first.
//
// Extract reports ok=false instead of raising for anything that cannot be
// resolved (missing keys, out-of-range indexes, nil mid-path, malformed
// segments). Callers omit the variable and move on.
func Extract(doc any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if path == "" || path == "$" {
		return doc, true
	}
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")

	current := doc
	descend := false
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			// Empty segment comes from "..": descend for the next key.
			descend = true
			continue
		}
		m := segmentRe.FindStringSubmatch(seg)
		if m == nil {
			return nil, false
		}
		key := m[1]

		if descend {
			found, ok := descendFirst(current, key)
			if !ok {
				return nil, false
			}
			current = found
			descend = false
		} else {
			obj, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			val, ok := obj[key]
			if !ok {
				return nil, false
			}
			current = val
		}

		if m[2] != "" {
			idx, err := strconv.Atoi(m[2])
			if err != nil {
				return nil, false
			}
			arr, ok := current.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	if descend {
		// Trailing ".." with no key to search for.
		return nil, false
	}
	return current, true
}

// descendFirst searches v depth-first for the first occurrence of key. A key
// present on the current object wins before any recursion; object values are
// visited in sorted key order so extraction is deterministic.
func descendFirst(v any, key string) (any, bool) {
	switch node := v.(type) {
	case map[string]any:
		if val, ok := node[key]; ok {
			return val, true
		}
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if val, ok := descendFirst(node[k], key); ok {
				return val, true
			}
		}
	case []any:
		for _, elem := range node {
			if val, ok := descendFirst(elem, key); ok {
				return val, true
			}
		}
	}
	return nil, false
}
