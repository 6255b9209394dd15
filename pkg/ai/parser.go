// FILE: pkg/ai/parser.go
// PURPOSE: Extract JSON payloads from free-form LLM output

package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when no parsable JSON value is found in the output.
var ErrNoJSON = errors.New("no JSON value in model output")

// ExtractJSON pulls the first JSON value out of raw model output. Models
// routinely wrap JSON in code fences or prepend prose ("Here you go: ..."),
// so the parser strips fences, skips any preamble before the first '[' or
// '{', and decodes from there. Trailing prose after the value is ignored.
func ExtractJSON(raw string) (json.RawMessage, error) {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.ReplaceAll(cleaned, "`", "")
		// The fence usually opens with a language tag ("json\n...").
		if idx := strings.Index(cleaned, "\n"); idx != -1 {
			cleaned = cleaned[idx+1:]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	start := jsonStart(cleaned)

	var value json.RawMessage
	dec := json.NewDecoder(strings.NewReader(cleaned[start:]))
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	return value, nil
}

// ExtractInto decodes the first JSON value in raw into out.
func ExtractInto(raw string, out interface{}) error {
	value, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(value, out); err != nil {
		return fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	return nil
}

// jsonStart locates the earliest '[' or '{'. Offset 0 when neither exists;
// the decode will then fail with ErrNoJSON.
func jsonStart(s string) int {
	arr := strings.Index(s, "[")
	obj := strings.Index(s, "{")
	switch {
	case arr == -1 && obj == -1:
		return 0
	case arr == -1:
		return obj
	case obj == -1:
		return arr
	case arr < obj:
		return arr
	default:
		return obj
	}
}
