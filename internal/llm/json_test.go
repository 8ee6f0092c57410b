package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{name: "bare object", text: `{"a":1}`, want: `{"a":1}`, ok: true},
		{name: "prose around object", text: "Sure! Here it is:\n{\"a\":{\"b\":[1,2]}}\nHope that helps.", want: `{"a":{"b":[1,2]}}`, ok: true},
		{name: "array first", text: `result: [{"index":0}] done {"x":1}`, want: `[{"index":0}]`, ok: true},
		{name: "brackets inside strings", text: `{"quote":"I said } and ] \"ok\""}`, want: `{"quote":"I said } and ] \"ok\""}`, ok: true},
		{name: "stray closer before value", text: `oops } then {"a":2}`, want: `{"a":2}`, ok: true},
		{name: "mismatched then valid", text: `{"a":[1}] {"b":2}`, want: `{"b":2}`, ok: true},
		{name: "unterminated", text: `{"a":1`, ok: false},
		{name: "no json", text: `nothing to see`, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeReply(t *testing.T) {
	var out struct {
		Tasks []struct {
			Title string `json:"title"`
		} `json:"tasks"`
	}
	require.NoError(t, DecodeReply("```json\n{\"tasks\":[{\"title\":\"Call mom\"}]}\n```", &out))
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "Call mom", out.Tasks[0].Title)

	err := DecodeReply("no braces here", &out)
	assert.Equal(t, CodeParse, CodeOf(err))

	var list []int
	err = DecodeReply(`{"not":"a list"}`, &list)
	assert.Equal(t, CodeParse, CodeOf(err))
}

func TestWithCrisisNote(t *testing.T) {
	assert.Equal(t, "text", WithCrisisNote("text", "none"))
	assert.Equal(t, "text", WithCrisisNote("text", ""))
	noted := WithCrisisNote("text", "high")
	assert.Contains(t, noted, "severity: high")
	assert.Contains(t, noted, "\n\ntext")
}
