package interpolate

import "strings"

// splitFilters separates "expr | a:x | b" into the expression and its filter
// chain. "||" is left to the expression and quoted text is never split.
func splitFilters(body string) (string, []FilterCall) {
	parts := splitOutsideQuotes(body, '|', true)
	exprText := strings.TrimSpace(parts[0])
	var calls []FilterCall
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := splitOutsideQuotes(part, ':', false)
		call := FilterCall{Name: strings.TrimSpace(fields[0])}
		for _, arg := range fields[1:] {
			call.Args = append(call.Args, unquote(strings.TrimSpace(arg)))
		}
		calls = append(calls, call)
	}
	return exprText, calls
}

// splitOutsideQuotes splits s on sep where sep is not inside single or
// double quotes. When pipe is set a doubled separator is not a split point.
func splitOutsideQuotes(s string, sep byte, pipe bool) []string {
	var parts []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == sep:
			if pipe && i+1 < len(s) && s[i+1] == sep {
				i++
				continue
			}
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		inner := s[1 : len(s)-1]
		return strings.ReplaceAll(inner, `\`+string(s[0]), string(s[0]))
	}
	return s
}
