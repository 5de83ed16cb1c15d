package ai

import (
	"encoding/json"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		open byte
		want string
	}{
		{"bare object", `{"a":1}`, '{', `{"a":1}`},
		{"wrapped in prose", "Sure! Here you go:\n```json\n{\"a\":{\"b\":2}}\n```\nThanks", '{', `{"a":{"b":2}}`},
		{"brace inside string", `x {"a":"}{"} y`, '{', `{"a":"}{"}`},
		{"escaped quote", `{"a":"he said \"}\""}`, '{', `{"a":"he said \"}\""}`},
		{"array", `result: [{"k":1},{"k":2}] done`, '[', `[{"k":1},{"k":2}]`},
		{"first of two", `{"first":true} and {"second":true}`, '{', `{"first":true}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSON(tc.in, tc.open)
			if err != nil {
				t.Fatalf("ExtractJSON: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
			if !json.Valid([]byte(got)) {
				t.Fatalf("extracted text is not valid json: %q", got)
			}
		})
	}
}

func TestExtractJSONErrorsWhenUnbalanced(t *testing.T) {
	if _, err := ExtractJSON(`no json here`, '{'); err != ErrNoJSON {
		t.Fatalf("expected ErrNoJSON, got %v", err)
	}
	if _, err := ExtractJSON(`{"a": [1, 2}`, '['); err != ErrNoJSON {
		t.Fatalf("expected ErrNoJSON for unbalanced array, got %v", err)
	}
}
