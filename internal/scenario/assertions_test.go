package scenario

import (
	"net/http"
	"strings"
	"testing"
)

func jsonResponse(t *testing.T, status int, body string) *Response {
	t.Helper()
	return &Response{
		Status:  status,
		Headers: http.Header{"Content-Type": []string{"application/json"}},
		Body:    mustParse(t, body),
		RawBody: body,
	}
}

func TestValidate_Status(t *testing.T) {
	resp := jsonResponse(t, 404, `{}`)

	if got := Validate(resp, &Expect{Status: 404}, nil); len(got) != 0 {
		t.Errorf("matching status reported mismatches: %v", got)
	}
	got := Validate(resp, &Expect{Status: 200}, nil)
	if len(got) != 1 || !strings.Contains(got[0], "expected status 200, got 404") {
		t.Errorf("unexpected mismatches: %v", got)
	}
}

func TestValidate_HeadersCaseInsensitive(t *testing.T) {
	resp := &Response{
		Status:  200,
		Headers: http.Header{"X-Request-Id": []string{"42"}},
		RawBody: "",
	}

	expect := &Expect{Headers: map[string]string{"x-request-id": "{{id}}"}}
	vars := map[string]any{"id": float64(42)}
	if got := Validate(resp, expect, vars); len(got) != 0 {
		t.Errorf("numeric variable should stringify and match header: %v", got)
	}

	expect = &Expect{Headers: map[string]string{"x-request-id": "43"}}
	if got := Validate(resp, expect, nil); len(got) != 1 {
		t.Errorf("expected one header mismatch, got %v", got)
	}
}

func TestValidate_PartialJSONMatch(t *testing.T) {
	resp := jsonResponse(t, 200, `{"a":1,"b":2}`)

	tests := []struct {
		name     string
		expected string
		wantPass bool
	}{
		{name: "subset passes", expected: `{"a":1}`, wantPass: true},
		{name: "wrong value fails", expected: `{"a":2}`, wantPass: false},
		{name: "missing key fails", expected: `{"c":1}`, wantPass: false},
		{name: "full match passes", expected: `{"a":1,"b":2}`, wantPass: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect := &Expect{JSON: mustParse(t, tt.expected)}
			got := Validate(resp, expect, nil)
			if (len(got) == 0) != tt.wantPass {
				t.Errorf("Validate() = %v, wantPass %v", got, tt.wantPass)
			}
		})
	}
}

func TestValidate_TypeCoerciveEquality(t *testing.T) {
	tests := []struct {
		name     string
		actual   string
		expected string
		wantPass bool
	}{
		{name: "number matches its string form", actual: `{"n":1}`, expected: `{"n":"1"}`, wantPass: true},
		{name: "string matches number in canonical form", actual: `{"n":"1"}`, expected: `{"n":1}`, wantPass: true},
		{name: "non-canonical string does not match number", actual: `{"n":"1.0"}`, expected: `{"n":1}`, wantPass: false},
		{name: "both numeric compares numerically", actual: `{"n":1.5}`, expected: `{"n":1.5}`, wantPass: true},
		{name: "bool matches strictly", actual: `{"b":true}`, expected: `{"b":true}`, wantPass: true},
		{name: "bool does not match its string form", actual: `{"b":true}`, expected: `{"b":"true"}`, wantPass: false},
		{name: "null matches null", actual: `{"x":null}`, expected: `{"x":null}`, wantPass: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := jsonResponse(t, 200, tt.actual)
			got := Validate(resp, &Expect{JSON: mustParse(t, tt.expected)}, nil)
			if (len(got) == 0) != tt.wantPass {
				t.Errorf("Validate() = %v, wantPass %v", got, tt.wantPass)
			}
		})
	}
}

func TestValidate_Arrays(t *testing.T) {
	resp := jsonResponse(t, 200, `{"items":[1,2,3]}`)

	if got := Validate(resp, &Expect{JSON: mustParse(t, `{"items":[1,2,3]}`)}, nil); len(got) != 0 {
		t.Errorf("equal arrays reported mismatches: %v", got)
	}
	if got := Validate(resp, &Expect{JSON: mustParse(t, `{"items":[1,2]}`)}, nil); len(got) == 0 {
		t.Error("length mismatch not reported")
	}
	if got := Validate(resp, &Expect{JSON: mustParse(t, `{"items":[1,9,3]}`)}, nil); len(got) == 0 {
		t.Error("positional mismatch not reported")
	}
}

func TestValidate_Contains(t *testing.T) {
	resp := &Response{Status: 200, Headers: http.Header{}, Body: "hello world", RawBody: "hello world"}
	vars := map[string]any{"who": "world"}

	if got := Validate(resp, &Expect{Contains: "{{who}}"}, vars); len(got) != 0 {
		t.Errorf("substring should match after interpolation: %v", got)
	}
	if got := Validate(resp, &Expect{Contains: "mars"}, vars); len(got) != 1 {
		t.Errorf("expected one contains mismatch, got %v", got)
	}
}

func TestValidate_CustomExpression(t *testing.T) {
	resp := jsonResponse(t, 201, `{"id":7,"name":"ada"}`)
	resp.Headers.Set("X-Kind", "user")

	tests := []struct {
		name     string
		custom   string
		wantPass bool
		wantErr  string
	}{
		{name: "status bound", custom: "status == 201", wantPass: true},
		{name: "json bound", custom: `json.name == "ada" && json.id == 7`, wantPass: true},
		{name: "headers bound", custom: `headers["X-Kind"] == "user"`, wantPass: true},
		{name: "body bound", custom: `body contains "ada"`, wantPass: true},
		{name: "false expression", custom: "status == 500", wantPass: false, wantErr: "custom assertion failed"},
		{name: "compile error is captured", custom: "status ==", wantPass: false, wantErr: "custom assertion error"},
		{name: "runtime error is captured", custom: `json.missing.deeper == 1`, wantPass: false, wantErr: "custom assertion error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(resp, &Expect{Custom: tt.custom}, nil)
			if tt.wantPass {
				if len(got) != 0 {
					t.Errorf("Validate() = %v, want pass", got)
				}
				return
			}
			if len(got) != 1 || !strings.Contains(got[0], tt.wantErr) {
				t.Errorf("Validate() = %v, want one mismatch containing %q", got, tt.wantErr)
			}
		})
	}
}

func TestValidator_RegisteredFuncs(t *testing.T) {
	v := &Validator{Funcs: map[string]any{
		"isEven": func(n int) bool { return n%2 == 0 },
	}}
	resp := jsonResponse(t, 200, `{"n":4}`)

	if got := v.Validate(resp, &Expect{Custom: "isEven(int(json.n))"}, nil); len(got) != 0 {
		t.Errorf("registered function should be callable: %v", got)
	}
}

func TestValidate_CollectsAllMismatches(t *testing.T) {
	resp := jsonResponse(t, 500, `{"a":1}`)
	expect := &Expect{
		Status:   200,
		JSON:     mustParse(t, `{"a":2,"b":3}`),
		Contains: "nope",
		Custom:   "status < 400",
	}

	got := Validate(resp, expect, nil)
	if len(got) != 5 {
		t.Errorf("expected 5 collected mismatches, got %d: %v", len(got), got)
	}
}
