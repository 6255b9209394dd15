package ai

import (
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "plain object",
			raw:  `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "fenced with language tag",
			raw:  "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "fenced without language tag",
			raw:  "```\n[1, 2, 3]\n```",
			want: `[1, 2, 3]`,
		},
		{
			name: "prose preamble",
			raw:  `Here is the result you asked for: {"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "trailing prose ignored",
			raw:  `{"a": 1} Let me know if you need anything else!`,
			want: `{"a": 1}`,
		},
		{
			name: "array before object picks earliest",
			raw:  `[{"a": 1}]`,
			want: `[{"a": 1}]`,
		},
		{
			name:    "no json at all",
			raw:     "I could not produce any actions.",
			wantErr: true,
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "truncated json",
			raw:     `{"a": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExtractJSON() = %s, want error", got)
				}
				if !errors.Is(err, ErrNoJSON) {
					t.Errorf("error = %v, want ErrNoJSON", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractJSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ExtractJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExtractInto(t *testing.T) {
	var out struct {
		Actions []struct {
			Message string `json:"message"`
		} `json:"actions"`
	}

	raw := "```json\n{\"actions\": [{\"message\": \"check the migration\"}]}\n```"
	if err := ExtractInto(raw, &out); err != nil {
		t.Fatalf("ExtractInto() error = %v", err)
	}
	if len(out.Actions) != 1 || out.Actions[0].Message != "check the migration" {
		t.Errorf("decoded = %+v", out)
	}

	if err := ExtractInto(`"just a string"`, &out); err == nil {
		t.Error("expected type mismatch to surface as error")
	}
}
