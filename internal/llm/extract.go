package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// ErrNoJSON is returned when the model response contains no parsable JSON object.
var ErrNoJSON = errors.New("no JSON found in LLM response")

var (
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")
	bareJSONRe   = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON recovers the structured extraction from free-form model output.
// The response may wrap the JSON object in a fenced code block or surround it
// with prose; the first fenced block wins, otherwise the greedy outermost
// {...} span is taken. Absent or unparsable JSON yields ErrNoJSON.
func ExtractJSON(text string) (Extraction, error) {
	raw := locateJSON(text)
	if raw == "" {
		return Extraction{}, ErrNoJSON
	}

	var out Extraction
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	return out, nil
}

func locateJSON(text string) string {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := bareJSONRe.FindString(text); m != "" {
		return m
	}
	return ""
}
