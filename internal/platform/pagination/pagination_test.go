package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
)

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("carer-%02d", i+1)
	}
	return out
}

func identity(s string) string { return s }

func TestCursorRoundTripChecksKind(t *testing.T) {
	encoded := Cursor{Kind: "carer", After: "amelia:stone"}.Encode()

	got, err := DecodeCursor(encoded, "carer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.After != "amelia:stone" {
		t.Fatalf("expected value with colon to survive, got %q", got.After)
	}

	if _, err := DecodeCursor(encoded, "review"); !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("expected kind mismatch to fail, got %v", err)
	}
	if _, err := DecodeCursor("!!!", "carer"); !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("expected bad base64 to fail, got %v", err)
	}
	if c, err := DecodeCursor("", "carer"); err != nil || c.After != "" || c.Kind != "carer" {
		t.Fatalf("expected start cursor, got %+v, %v", c, err)
	}
}

func TestPaginate(t *testing.T) {
	items := ids(25)
	tests := []struct {
		name      string
		after     string
		limit     int
		wantFirst string
		wantLen   int
		wantNext  bool
		wantPrev  string // decoded After of prev cursor; "-" means no prev
	}{
		{name: "first page", limit: 10, wantFirst: "carer-01", wantLen: 10, wantNext: true, wantPrev: "-"},
		{name: "second page", after: "carer-10", limit: 10, wantFirst: "carer-11", wantLen: 10, wantNext: true, wantPrev: ""},
		{name: "third page", after: "carer-20", limit: 10, wantFirst: "carer-21", wantLen: 5, wantNext: false, wantPrev: "carer-10"},
		{name: "unknown cursor restarts", after: "ghost", limit: 10, wantFirst: "carer-01", wantLen: 10, wantNext: true, wantPrev: "-"},
		{name: "default limit", limit: 0, wantFirst: "carer-01", wantLen: 20, wantNext: true, wantPrev: "-"},
		{name: "limit beyond total", limit: 100, wantFirst: "carer-01", wantLen: 25, wantNext: false, wantPrev: "-"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page := Paginate(items, Request{Cursor: Cursor{Kind: "carer", After: tc.after}, Limit: tc.limit, BaseURL: "/v1/carers"}, identity)

			if len(page.Items) != tc.wantLen || page.Items[0] != tc.wantFirst {
				t.Fatalf("unexpected page: len=%d first=%q", len(page.Items), page.Items[0])
			}
			if page.Total != 25 {
				t.Fatalf("expected total 25, got %d", page.Total)
			}
			if (page.Next != "") != tc.wantNext {
				t.Fatalf("next cursor presence = %v, want %v", page.Next != "", tc.wantNext)
			}
			if tc.wantPrev == "-" {
				if page.Prev != "" {
					t.Fatalf("expected no prev cursor, got %q", page.Prev)
				}
				return
			}
			prev, err := DecodeCursor(page.Prev, "carer")
			if err != nil || prev.After != tc.wantPrev {
				t.Fatalf("expected prev after %q, got %+v, %v", tc.wantPrev, prev, err)
			}
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	page := Paginate([]string{}, Request{Cursor: Cursor{Kind: "carer"}, Limit: 10, BaseURL: "/v1/carers"}, identity)
	if len(page.Items) != 0 || page.Next != "" || page.Prev != "" || page.Link != "" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestPaginateLinkHeaderPreservesQuery(t *testing.T) {
	page := Paginate(ids(5), Request{
		Cursor:  Cursor{Kind: "carer"},
		Limit:   2,
		BaseURL: "/v1/carers",
		Query:   url.Values{"sort": {"rating"}},
	}, identity)

	if !strings.HasPrefix(page.Link, "</v1/carers?") || !strings.Contains(page.Link, `rel="next"`) {
		t.Fatalf("unexpected link header %q", page.Link)
	}
	for _, part := range []string{"sort=rating", "limit=2", "cursor="} {
		if !strings.Contains(page.Link, part) {
			t.Errorf("expected %q in link header %q", part, page.Link)
		}
	}
}

func TestBuildLinkHeaderRelations(t *testing.T) {
	q := url.Values{"limit": {"2"}}

	if got := BuildLinkHeader("/v1/carers", q, "", ""); got != "" {
		t.Fatalf("expected no links for a single page, got %q", got)
	}

	got := BuildLinkHeader("/v1/carers", q, "n", "p")
	want := `</v1/carers?cursor=n&limit=2>; rel="next", </v1/carers?cursor=p&limit=2>; rel="prev", </v1/carers?limit=2>; rel="first"`
	if got != want {
		t.Fatalf("unexpected link header:\n got %s\nwant %s", got, want)
	}
	if q.Get("cursor") != "" {
		t.Fatal("query must not be mutated")
	}

	if got := BuildLinkHeader("/v1/carers", nil, "", "p"); !strings.HasSuffix(got, `</v1/carers>; rel="first"`) {
		t.Fatalf("expected bare first link without query, got %q", got)
	}
}

func TestParamsPageSize(t *testing.T) {
	for limit, want := range map[int]int{-5: 20, 0: 20, 1: 1, 100: 100} {
		if got := (Params{Limit: limit}).PageSize(); got != want {
			t.Errorf("PageSize(%d) = %d, want %d", limit, got, want)
		}
	}
}
