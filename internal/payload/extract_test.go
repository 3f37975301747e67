package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantOK    bool
		wantTitle string
		wantErr   error
	}{
		{
			name:      "bare object",
			raw:       `{"course_title": "Go"}`,
			wantOK:    true,
			wantTitle: "Go",
		},
		{
			name:      "json tagged fence with prose",
			raw:       "Here you go:\n```json\n{\"course_title\": \"Go\"}\n```\nEnjoy!",
			wantOK:    true,
			wantTitle: "Go",
		},
		{
			name:      "fence without language tag",
			raw:       "```\n{\"course_title\": \"Untagged\"}\n```",
			wantOK:    true,
			wantTitle: "Untagged",
		},
		{
			name:      "multiple fences uses the first",
			raw:       "```json\n{\"course_title\": \"First\"}\n```\nand\n```json\n{\"course_title\": \"Second\"}\n```",
			wantOK:    true,
			wantTitle: "First",
		},
		{
			name:      "unterminated fence falls back to whole text",
			raw:       "```json\n{\"course_title\": \"Open\"}",
			wantOK:    false,
		},
		{
			name:   "prose without fence",
			raw:    `Sure! {"course_title": "Go"} is the plan.`,
			wantOK: false,
		},
		{
			name:    "empty",
			raw:     "   \n",
			wantErr: ErrEmpty,
		},
		{
			name:    "empty fence",
			raw:     "```json\n```",
			wantErr: ErrEmpty,
		},
		{
			name:    "array is not an object",
			raw:     `[{"course_title": "Go"}]`,
			wantErr: ErrNotObject,
		},
		{
			name:   "truncated json",
			raw:    `{"course_title": "Go", "modules": [`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Extract(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, res.Err, tt.wantErr)
				assert.Nil(t, res.Value)
				return
			}
			assert.Equal(t, tt.wantOK, res.OK())
			if tt.wantOK {
				require.NotNil(t, res.Value)
				assert.Equal(t, tt.wantTitle, res.Value["course_title"])
			} else {
				assert.Error(t, res.Err)
				assert.Nil(t, res.Value)
			}
		})
	}
}

func TestCandidate(t *testing.T) {
	assert.Equal(t, `{"a":1}`, Candidate("  {\"a\":1}\n"))
	assert.Equal(t, `{"a":1}`, Candidate("text ```json {\"a\":1} ``` more"))
	assert.Equal(t, "```json {\"a\":1}", Candidate("```json {\"a\":1}"))
}
