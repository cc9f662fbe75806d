package helpers

import (
	"errors"
	"strings"
)

// ExtractJSON returns the first balanced JSON object or array embedded in s.
// Model replies routinely wrap JSON in markdown fences or surround it with
// prose, so the input is unfenced first and then scanned for a balanced
// {...} or [...], ignoring braces that appear inside string literals.
func ExtractJSON(s string) (string, error) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "\uFEFF"))
	if inner, ok := stripCodeFence(s); ok {
		s = strings.TrimSpace(inner)
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			if out, ok := balancedFrom(s, i); ok {
				return out, nil
			}
		}
	}
	return "", errors.New("no balanced JSON object/array found")
}

// stripCodeFence unwraps a leading ``` or ~~~ fenced block, tolerating an
// optional language tag on the opening line.
func stripCodeFence(s string) (string, bool) {
	var fence string
	switch {
	case strings.HasPrefix(s, "```"):
		fence = "```"
	case strings.HasPrefix(s, "~~~"):
		fence = "~~~"
	default:
		return "", false
	}
	rest := s[len(fence):]
	nl := strings.IndexByte(rest, '\n')
	if nl == -1 {
		return "", false
	}
	rest = rest[nl+1:]
	end := strings.Index(rest, fence)
	if end == -1 {
		return "", false
	}
	return rest[:end], true
}

func balancedFrom(s string, start int) (string, bool) {
	var (
		depth    int
		inString bool
		escaped  bool
	)
	for i := start; i < len(s); i++ {
		c := s[i]
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
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
			if depth < 0 {
				return "", false
			}
		}
	}
	return "", false
}
