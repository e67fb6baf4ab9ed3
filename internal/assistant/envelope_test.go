package assistant

import (
	"errors"
	"testing"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare object untouched",
			raw:  `{"query_type": "total_spending"}`,
			want: `{"query_type": "total_spending"}`,
		},
		{
			name: "json fence",
			raw:  "```json\n{\"query_type\": \"total_spending\"}\n```",
			want: `{"query_type": "total_spending"}`,
		},
		{
			name: "plain fence",
			raw:  "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "prose around the object",
			raw:  "Sure! Here is the JSON:\n{\"a\": 1}\nHope that helps.",
			want: `{"a": 1}`,
		},
		{
			name: "surrounding whitespace",
			raw:  "  \n {\"a\": 1} \n ",
			want: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.raw); got != tt.want {
				t.Errorf("cleanModelJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeStrict(t *testing.T) {
	type envelope struct {
		A string `json:"a"`
	}

	t.Run("valid object", func(t *testing.T) {
		var v envelope
		if err := decodeStrict("```json\n{\"a\": \"x\"}\n```", &v); err != nil {
			t.Fatalf("decodeStrict() error = %v", err)
		}
		if v.A != "x" {
			t.Errorf("A = %q, want x", v.A)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		var v envelope
		err := decodeStrict(`{"a": "x", "confidence": 0.9}`, &v)

		var interpErr *InterpretationError
		if !errors.As(err, &interpErr) {
			t.Fatalf("decodeStrict() error = %v, want *InterpretationError", err)
		}
		if interpErr.Raw == "" {
			t.Error("InterpretationError.Raw is empty, want the original completion")
		}
	})

	t.Run("not json", func(t *testing.T) {
		var v envelope
		err := decodeStrict("I cannot answer that.", &v)

		var interpErr *InterpretationError
		if !errors.As(err, &interpErr) {
			t.Fatalf("decodeStrict() error = %v, want *InterpretationError", err)
		}
	})
}
