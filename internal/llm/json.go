package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSON returns the first balanced {...} or [...] value in text.
// Brackets inside JSON strings are ignored.
func ExtractJSON(text string) (string, bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' && text[start] != '[' {
			continue
		}
		if end, ok := matchBalanced(text, start); ok {
			return text[start : end+1], true
		}
	}
	return "", false
}

func matchBalanced(text string, start int) (int, bool) {
	stack := make([]byte, 0, 8)
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// DecodeReply extracts the JSON value in a model reply and decodes it into v.
func DecodeReply(text string, v any) error {
	raw, ok := ExtractJSON(text)
	if !ok {
		return newError(CodeParse, "no JSON value in reply", nil)
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(v); err != nil {
		return newError(CodeParse, "decode reply", err)
	}
	return nil
}
