// Package pagination provides opaque cursors and RFC 8288 Link headers for list endpoints.
package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidCursor indicates the cursor could not be decoded or belongs to another resource.
var ErrInvalidCursor = errors.New("invalid cursor format")

// Cursor is a position in an ordered listing: the ID of the last item already seen.
type Cursor struct {
	Kind  string
	After string
}

// Encode returns a URL-safe opaque representation.
func (c Cursor) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(c.Kind + ":" + c.After))
}

// DecodeCursor parses s and checks that it was issued for kind. Empty s is the start.
func DecodeCursor(s, kind string) (Cursor, error) {
	if s == "" {
		return Cursor{Kind: kind}, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	k, after, ok := strings.Cut(string(b), ":")
	if !ok || k != kind {
		return Cursor{}, ErrInvalidCursor
	}
	return Cursor{Kind: k, After: after}, nil
}
