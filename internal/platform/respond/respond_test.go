package respond

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	appmiddleware "github.com/janisto/carer-directory/internal/platform/middleware"
)

func decodeProblem(t *testing.T, resp *httptest.ResponseRecorder) problem {
	t.Helper()
	var p problem
	var err error
	if strings.Contains(resp.Header().Get("Content-Type"), "cbor") {
		err = cbor.Unmarshal(resp.Body.Bytes(), &p)
	} else {
		err = json.Unmarshal(resp.Body.Bytes(), &p)
	}
	if err != nil {
		t.Fatalf("failed to decode problem: %v", err)
	}
	return p
}

func TestNotFoundHandlerReturnsProblemDetails(t *testing.T) {
	router := chi.NewRouter()
	router.NotFound(NotFoundHandler())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/v1/caregivers", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected application/problem+json, got %q", ct)
	}
	link := resp.Header().Get("Link")
	if !strings.Contains(link, "/schemas/ErrorModel.json") || !strings.Contains(link, "describedBy") {
		t.Fatalf("expected Link header with schema, got %q", link)
	}

	p := decodeProblem(t, resp)
	if p.Status != http.StatusNotFound || p.Title != "Not Found" || p.Detail != "resource not found" {
		t.Fatalf("unexpected problem: %+v", p)
	}
	if p.Schema != "http://example.com/schemas/ErrorModel.json" {
		t.Fatalf("unexpected $schema %q", p.Schema)
	}
}

func TestSchemaLinkUsesHTTPSBehindTLS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.TLS = &tls.ConnectionState{}
	if got := schemaLink(req); !strings.HasPrefix(got, "https://") {
		t.Fatalf("expected https schema link, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	if got := schemaLink(req); !strings.HasPrefix(got, "https://") {
		t.Fatalf("expected https from forwarded proto, got %q", got)
	}
}

func TestMethodNotAllowedHandlerListsAllowedMethods(t *testing.T) {
	router := chi.NewRouter()
	router.MethodNotAllowed(MethodNotAllowedHandler())
	router.Get("/v1/carers", func(w http.ResponseWriter, r *http.Request) {})
	router.Post("/v1/carers", func(w http.ResponseWriter, r *http.Request) {})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/v1/carers", nil))

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
	allow := resp.Header().Get("Allow")
	if !strings.Contains(allow, http.MethodGet) || !strings.Contains(allow, http.MethodPost) {
		t.Fatalf("expected Allow to list GET and POST, got %q", allow)
	}
	if p := decodeProblem(t, resp); !strings.Contains(p.Detail, "DELETE") {
		t.Fatalf("expected detail to mention DELETE, got %q", p.Detail)
	}
}

func TestRecovererReturnsProblemDetails(t *testing.T) {
	router := chi.NewRouter()
	router.Use(appmiddleware.RequestID(), chimiddleware.RealIP, Recoverer())
	api := humachi.New(router, huma.DefaultConfig("Test", "test"))
	huma.Get(api, "/panic", func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		panic("boom")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	p := decodeProblem(t, resp)
	if p.Title != "Internal Server Error" || p.Detail != "internal server error" {
		t.Fatalf("unexpected problem: %+v", p)
	}
}

func TestRecovererRePanicsOnErrAbortHandler(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Recoverer())
	router.Get("/abort", func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler { //nolint:errorlint // identity check
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abort", nil))
}

func TestRecovererSkipsWriteWhenHeaderAlreadyWritten(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Recoverer())
	router.Get("/partial", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial response"))
		panic("panic after write")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/partial", nil))

	if resp.Code != http.StatusOK || resp.Body.String() != "partial response" {
		t.Fatalf("expected original response to be preserved, got %d %q", resp.Code, resp.Body.String())
	}
}

func TestNotFoundHandlerReturnsCBORWhenAccepted(t *testing.T) {
	router := chi.NewRouter()
	router.NotFound(NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("Accept", "application/cbor")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if ct := resp.Header().Get("Content-Type"); ct != "application/problem+cbor" {
		t.Fatalf("expected application/problem+cbor, got %q", ct)
	}
	if p := decodeProblem(t, resp); p.Status != http.StatusNotFound {
		t.Fatalf("unexpected status %d", p.Status)
	}
}

func TestAcceptsCBOR(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{"", false},
		{"*/*", false},
		{"application/*", false},
		{"application/json", false},
		{"application/cbor", true},
		{"application/problem+cbor", true},
		{"application/cbor, application/json", true},
		{"application/json, application/cbor", false},
		{"application/json;q=0.5, application/cbor", true},
		{"application/cbor;q=0.5, application/json", false},
		{"application/cbor;q=0", false},
		{"application/cbor, */*;q=0.1", true},
		{"text/html, application/cbor;q=0.9", true},
	}
	for _, tc := range tests {
		if got := acceptsCBOR(tc.accept); got != tc.want {
			t.Errorf("acceptsCBOR(%q) = %v, want %v", tc.accept, got, tc.want)
		}
	}
}
