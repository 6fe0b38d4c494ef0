package util

import (
	"encoding/json"
	"strings"
)

// DecodeModelArray parses the JSON array a chat completion was asked to
// return and unmarshals it into v (a pointer to a slice). Models wrap the
// payload inconsistently: fenced in markdown code blocks, prefixed with
// prose, or nested under an object key. All of those shapes are accepted;
// anything else fails with ErrMalformedResponse.
func DecodeModelArray(content string, v interface{}) error {
	text := StripCodeFences(content)

	if strings.HasPrefix(text, "{") {
		// object wrapper: take the first value that is an array
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal([]byte(text), &wrapper); err == nil {
			for _, raw := range wrapper {
				trimmed := strings.TrimSpace(string(raw))
				if strings.HasPrefix(trimmed, "[") {
					if err := json.Unmarshal(raw, v); err == nil {
						return nil
					}
				}
			}
		}
		return ErrMalformedResponse
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return ErrMalformedResponse
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return ErrMalformedResponse
	}
	return nil
}

// StripCodeFences removes a surrounding markdown code block, with or
// without a language tag, and trims whitespace.
func StripCodeFences(content string) string {
	text := strings.TrimSpace(content)

	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx != -1 {
		firstLine := strings.TrimSpace(text[:idx])
		// a language tag like "json" sits alone on the fence line
		if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "[{") {
			text = text[idx+1:]
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
