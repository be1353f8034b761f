package scenario

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInterpolate_WholeTokenPreservesType(t *testing.T) {
	vars := map[string]any{
		"n":    float64(5),
		"ok":   true,
		"user": map[string]any{"id": float64(7), "name": "ada"},
		"tags": []any{"a", "b"},
	}

	tests := []struct {
		name  string
		input any
		want  any
	}{
		{
			name:  "number stays a number",
			input: map[string]any{"k": "{{n}}"},
			want:  map[string]any{"k": float64(5)},
		},
		{
			name:  "boolean stays a boolean",
			input: "{{ok}}",
			want:  true,
		},
		{
			name:  "object stays an object",
			input: "{{user}}",
			want:  map[string]any{"id": float64(7), "name": "ada"},
		},
		{
			name:  "array stays an array",
			input: map[string]any{"t": "{{tags}}"},
			want:  map[string]any{"t": []any{"a", "b"}},
		},
		{
			name:  "whitespace inside the token",
			input: "{{ n }}",
			want:  float64(5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpolate(tt.input, vars)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Interpolate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInterpolate_EmbeddedTokensYieldStrings(t *testing.T) {
	vars := map[string]any{
		"n":    float64(5),
		"name": "ada",
		"user": map[string]any{"id": float64(7)},
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "number stringified", input: "id={{n}}", want: "id=5"},
		{name: "two tokens", input: "{{name}}-{{n}}", want: "ada-5"},
		{name: "object serialized as JSON", input: "payload: {{user}}", want: `payload: {"id":7}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpolate(tt.input, vars)
			if got != tt.want {
				t.Errorf("Interpolate(%q) = %v, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestInterpolate_UnknownIdentifiersStayVerbatim(t *testing.T) {
	got := Interpolate("{{missing}}", map[string]any{})
	if got != "{{missing}}" {
		t.Errorf("whole token: got %v, want literal {{missing}}", got)
	}

	got = Interpolate("id={{missing}}", map[string]any{})
	if got != "id={{missing}}" {
		t.Errorf("embedded token: got %v, want literal id={{missing}}", got)
	}
}

func TestInterpolate_RecursesAndInterpolatesKeys(t *testing.T) {
	vars := map[string]any{"field": "email", "addr": "ada@example.com", "n": float64(2)}

	input := map[string]any{
		"{{field}}": "{{addr}}",
		"items":     []any{"{{n}}", "n={{n}}"},
	}
	want := map[string]any{
		"email": "ada@example.com",
		"items": []any{float64(2), "n=2"},
	}

	got := Interpolate(input, vars)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Interpolate() mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpolate_ScalarsPassThrough(t *testing.T) {
	vars := map[string]any{"n": float64(5)}
	for _, v := range []any{float64(3), true, nil} {
		if got := Interpolate(v, vars); got != v {
			t.Errorf("Interpolate(%v) = %v, want unchanged", v, got)
		}
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{float64(5), "5"},
		{float64(1.5), "1.5"},
		{true, "true"},
		{nil, "null"},
		{"s", "s"},
		{map[string]any{"a": float64(1)}, `{"a":1}`},
		{[]any{float64(1), "x"}, `[1,"x"]`},
	}
	for _, tt := range tests {
		if got := Stringify(tt.in); got != tt.want {
			t.Errorf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
