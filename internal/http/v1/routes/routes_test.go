package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/carer-directory/internal/platform/auth"
	"github.com/janisto/carer-directory/internal/platform/docstore"
	applog "github.com/janisto/carer-directory/internal/platform/logging"
	appmiddleware "github.com/janisto/carer-directory/internal/platform/middleware"
	"github.com/janisto/carer-directory/internal/platform/respond"
	"github.com/janisto/carer-directory/internal/service/accounts"
	svc "github.com/janisto/carer-directory/internal/service/carers"
	"github.com/janisto/carer-directory/internal/service/notify"
)

func newTestRouter(eventsToken string, servers ...*huma.Server) chi.Router {
	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(),
		respond.Recoverer(),
	)
	cfg := huma.DefaultConfig("RoutesTest", "test")
	cfg.Servers = servers
	api := humachi.New(router, cfg)

	store := docstore.NewMemoryStore()
	svc.SeedDemo(store)
	Register(api, Dependencies{
		Verifier:    &auth.MockVerifier{User: auth.TestUser()},
		Directory:   svc.New(store),
		EventsToken: eventsToken,
		Notifier:    notify.New(store),
		Accounts:    accounts.New(&auth.MockAccounts{}),
	})
	return router
}

func TestRegisterRoutesCarers(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodGet, "/carers", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "routes-carers")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestRegisterRoutesProtectsReviews(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodPost, "/carers/amelia-stone/reviews", strings.NewReader(`{"rating":5}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestRegisterRoutesEventsNeedToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  int
	}{
		{name: "disabled", token: "", want: http.StatusNotFound},
		{name: "enabled", token: "secret", want: http.StatusAccepted},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(tc.token)

			req := httptest.NewRequest(http.MethodDelete, "/events/users/u1", nil)
			req.Header.Set("X-Events-Token", "secret")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestAPIPrefixFromServers(t *testing.T) {
	router := newTestRouter("", &huma.Server{URL: "https://carers.example.com/v1"})

	req := httptest.NewRequest(http.MethodGet, "/carers?limit=1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if link := resp.Header().Get("Link"); !strings.HasPrefix(link, "</v1/carers?") {
		t.Fatalf("expected Link under /v1, got %q", link)
	}
}
