package agent

import "strings"

// ExtractJSONObject pulls a JSON object out of free-form oracle output.
// Two-stage search: a fenced block labelled json first, then the first
// balanced {...} span anywhere in the text. Returns false when neither
// form is present; the caller treats that as "no tool selected".
func ExtractJSONObject(text string) (string, bool) {
	if fenced, ok := extractFenced(text); ok {
		return fenced, true
	}
	return extractBalanced(text)
}

func extractFenced(text string) (string, bool) {
	lower := strings.ToLower(text)
	start := strings.Index(lower, "```json")
	if start < 0 {
		return "", false
	}
	rest := text[start+len("```json"):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	body := strings.TrimSpace(rest[:end])
	if !strings.HasPrefix(body, "{") {
		return "", false
	}
	return body, true
}

func extractBalanced(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
