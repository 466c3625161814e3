// Package sanitize cleans untrusted text and URLs read from loosely structured documents
// before they reach API responses.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	controlCharacters = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	scriptTag         = regexp.MustCompile(`(?i)</?script[^>]*>`)
	lineBreak         = regexp.MustCompile(`\r?\n`)
)

// stripDangerous removes control characters, script tags and angle brackets, in that order.
func stripDangerous(s string) string {
	s = controlCharacters.ReplaceAllString(s, "")
	s = scriptTag.ReplaceAllString(s, "")
	return strings.NewReplacer("<", "", ">", "").Replace(s)
}

// collapseSpace collapses whitespace runs to a single space and trims the result.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate caps s at maxLength characters. A non-positive maxLength disables the cap.
func truncate(s string, maxLength int) string {
	if maxLength <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength])
}

// SingleLineText returns value as a single cleaned line. Non-string values yield "".
func SingleLineText(value any, maxLength int) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return truncate(collapseSpace(stripDangerous(s)), maxLength)
}

// MultilineText cleans value line by line, dropping blank lines and joining the rest with "\n".
// Non-string values yield "".
func MultilineText(value any, maxLength int) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	parts := lineBreak.Split(s, -1)
	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		// A bare CR is a control character and is stripped here rather than splitting.
		line := collapseSpace(stripDangerous(part))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return truncate(strings.Join(lines, "\n"), maxLength)
}
