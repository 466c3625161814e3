package pagination

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildLinkHeader returns an RFC 8288 Link header with next, prev and first relations.
// Each target keeps query and sets cursor; first is only emitted alongside prev. Empty
// cursors omit their relation, so a single-page listing yields "".
func BuildLinkHeader(baseURL string, query url.Values, nextCursor, prevCursor string) string {
	var links []string
	add := func(rel, cursor string) {
		q := cloneValues(query)
		if cursor == "" {
			q.Del("cursor")
		} else {
			q.Set("cursor", cursor)
		}
		target := baseURL
		if encoded := q.Encode(); encoded != "" {
			target += "?" + encoded
		}
		links = append(links, fmt.Sprintf("<%s>; rel=%q", target, rel))
	}
	if nextCursor != "" {
		add("next", nextCursor)
	}
	if prevCursor != "" {
		add("prev", prevCursor)
		add("first", "")
	}
	return strings.Join(links, ", ")
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
