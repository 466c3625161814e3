package pagination

import (
	"net/url"
	"strconv"
)

// Request describes the page being asked for.
type Request struct {
	Cursor  Cursor
	Limit   int
	BaseURL string     // path used in Link header targets
	Query   url.Values // preserved in Link header targets
}

// Page is one slice of a listing plus navigation metadata.
type Page[T any] struct {
	Items []T
	Total int
	Next  string
	Prev  string
	Link  string
}

// Paginate returns the page of items following req.Cursor. An unknown cursor position
// restarts from the first item.
func Paginate[T any](items []T, req Request, id func(T) string) Page[T] {
	total := len(items)
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	start := 0
	if req.Cursor.After != "" {
		for i, item := range items {
			if id(item) == req.Cursor.After {
				start = i + 1
				break
			}
		}
	}
	end := min(start+limit, total)
	page := items[start:end]

	var next, prev string
	if end < total && len(page) > 0 {
		next = Cursor{Kind: req.Cursor.Kind, After: id(page[len(page)-1])}.Encode()
	}
	if start > 0 {
		after := ""
		if start > limit {
			after = id(items[start-limit-1])
		}
		prev = Cursor{Kind: req.Cursor.Kind, After: after}.Encode()
	}

	q := cloneValues(req.Query)
	q.Set("limit", strconv.Itoa(limit))

	return Page[T]{
		Items: page,
		Total: total,
		Next:  next,
		Prev:  prev,
		Link:  BuildLinkHeader(req.BaseURL, q, next, prev),
	}
}
