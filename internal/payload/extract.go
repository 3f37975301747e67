// Package payload isolates the JSON object inside raw generator output.
package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const fence = "```"

// fencePattern matches the first fenced region, with or without a json tag.
var fencePattern = regexp.MustCompile("(?s)```(?:json)?(.*?)```")

var (
	ErrEmpty     = errors.New("payload: no content")
	ErrNotObject = errors.New("payload: top-level value is not an object")
)

// Result is the outcome of an extraction. Exactly one of Value and Err is set.
type Result struct {
	Value map[string]any
	// Candidate is the text that was handed to the parser.
	Candidate string
	Err       error
}

// OK reports whether a JSON object was parsed.
func (r Result) OK() bool {
	return r.Err == nil
}

// Extract picks the candidate text and parses it strictly.
//
// When the text contains a fence delimiter, only the interior of the first
// fenced region is used. An unterminated fence yields no match, so the whole
// text is tried instead.
func Extract(raw string) Result {
	candidate := Candidate(raw)
	if candidate == "" {
		return Result{Candidate: candidate, Err: ErrEmpty}
	}

	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return Result{Candidate: candidate, Err: fmt.Errorf("payload: invalid json: %w", err)}
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return Result{Candidate: candidate, Err: ErrNotObject}
	}
	return Result{Value: obj, Candidate: candidate}
}

// Candidate returns the trimmed text the parser should see.
func Candidate(raw string) string {
	if strings.Contains(raw, fence) {
		if m := fencePattern.FindStringSubmatch(raw); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return strings.TrimSpace(raw)
}
