package render

import (
	"fmt"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Substitute replaces every {{name}} token whose name is a key of data with
// the value coerced to a string. Tokens with no matching key stay verbatim
// so users can see which variables were not supplied. Substitution is a
// single pass: replaced values are never re-scanned for further tokens.
func Substitute(template string, data map[string]any) string {
	if template == "" || !strings.Contains(template, "{{") {
		return template
	}
	return tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := token[2 : len(token)-2]
		if value, ok := data[name]; ok {
			return coerceString(value)
		}
		return token
	})
}

// ExtractVariables returns the de-duplicated variable names referenced by a
// template string, in first-appearance order.
func ExtractVariables(template string) []string {
	matches := tokenPattern.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return nil
	}
	var names []string
	seen := make(map[string]bool)
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
