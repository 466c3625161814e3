package sanitize

import (
	"net/url"
	"regexp"
	"strings"
)

// placeholderBase is the origin relative references are resolved against.
const placeholderBase = "https://placeholder.local"

var (
	blockedScheme  = regexp.MustCompile(`(?i)^(?:javascript|data|vbscript|file):`)
	simpleRelative = regexp.MustCompile(`^(?:\.{0,2}/)?[\w\-./]+$`)
	baseURL        = mustParse(placeholderBase)
)

func mustParse(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// URL returns value when it is a safe http(s) URL or a simple relative path, and "" otherwise.
// Absolute URLs are returned in normalized form; relative paths are returned unchanged.
func URL(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || blockedScheme.MatchString(trimmed) || strings.HasPrefix(trimmed, "//") {
		return ""
	}

	ref, err := url.Parse(trimmed)
	if err != nil {
		return relativeOrEmpty(trimmed)
	}
	resolved := baseURL.ResolveReference(ref)
	if strings.EqualFold(resolved.Scheme, baseURL.Scheme) && strings.EqualFold(resolved.Host, baseURL.Host) {
		return relativeOrEmpty(trimmed)
	}

	switch strings.ToLower(resolved.Scheme) {
	case "http", "https":
	default:
		return ""
	}
	if resolved.Host == "" {
		// Unparseable as an absolute URL; only the relative form could still be valid.
		return relativeOrEmpty(trimmed)
	}
	return normalize(resolved)
}

func relativeOrEmpty(s string) string {
	if simpleRelative.MatchString(s) {
		return s
	}
	return ""
}

// normalize lowercases scheme and host and gives an empty path a root slash.
func normalize(u *url.URL) string {
	out := *u
	out.Scheme = strings.ToLower(out.Scheme)
	out.Host = strings.ToLower(out.Host)
	if out.Path == "" && out.Opaque == "" {
		out.Path = "/"
	}
	return out.String()
}
