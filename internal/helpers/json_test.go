package helpers

import (
	"encoding/json"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object",
			in:   `{"1":"bitcoin price analysis"}`,
			want: `{"1":"bitcoin price analysis"}`,
		},
		{
			name: "object with surrounding prose",
			in:   "Here are your queries:\n{\"1\":\"eth news\",\"2\":\"eth trends\"}\nHope that helps!",
			want: "{\"1\":\"eth news\",\"2\":\"eth trends\"}",
		},
		{
			name: "fenced json block",
			in:   "```json\n{\"1\":\"solana analysis\"}\n```",
			want: `{"1":"solana analysis"}`,
		},
		{
			name: "braces inside strings",
			in:   `{"1":"query with {braces} and \"quotes\""}`,
			want: `{"1":"query with {braces} and \"quotes\""}`,
		},
		{
			name: "nested object",
			in:   `prefix {"a":{"b":[1,2,{"c":3}]}} suffix`,
			want: `{"a":{"b":[1,2,{"c":3}]}}`,
		},
		{
			name: "array",
			in:   `text ["a","b"] more`,
			want: `["a","b"]`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if err != nil {
				t.Fatalf("ExtractJSON() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("ExtractJSON() got %q, want %q", got, tt.want)
			}
			if !json.Valid([]byte(got)) {
				t.Fatalf("extracted segment is not valid JSON: %q", got)
			}
		})
	}
}

func TestExtractJSONFailures(t *testing.T) {
	t.Parallel()
	for _, in := range []string{
		"",
		"no json here at all",
		`{"unterminated": "object`,
	} {
		if _, err := ExtractJSON(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}
