package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/janisto/carer-directory/internal/http/health"
	"github.com/janisto/carer-directory/internal/http/v1/routes"
	"github.com/janisto/carer-directory/internal/platform/auth"
	"github.com/janisto/carer-directory/internal/platform/config"
	"github.com/janisto/carer-directory/internal/platform/docstore"
	"github.com/janisto/carer-directory/internal/platform/firebase"
	applog "github.com/janisto/carer-directory/internal/platform/logging"
	"github.com/janisto/carer-directory/internal/platform/metrics"
	appmiddleware "github.com/janisto/carer-directory/internal/platform/middleware"
	"github.com/janisto/carer-directory/internal/platform/respond"
	"github.com/janisto/carer-directory/internal/service/accounts"
	"github.com/janisto/carer-directory/internal/service/carers"
	"github.com/janisto/carer-directory/internal/service/notify"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const (
	apiBasePath = "/v1"
	docsPath    = "/api-docs"
)

// services are the dependencies assembled from configuration.
type services struct {
	verifier auth.Verifier
	store    docstore.Store
	accounts auth.AccountDeleter
	close    func() error
}

func main() {
	ctx := context.Background()
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(ctx, "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(ctx, "logger init error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		applog.LogFatal(ctx, "invalid configuration", err)
	}
	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		applog.LogWarn(ctx, "unknown log level, keeping info", zap.String("level", cfg.LogLevel))
	}

	svcs := buildServices(ctx, cfg)
	defer func() {
		if err := svcs.close(); err != nil {
			applog.LogError(ctx, "firebase close error", err)
		}
	}()

	reg := metrics.NewRegistry()
	dir := carers.New(svcs.store, carers.WithMetrics(carers.NewMetrics(reg)))
	router := newRouter(cfg, reg, routes.Dependencies{
		Verifier:    svcs.verifier,
		Directory:   dir,
		EventsToken: cfg.EventsToken,
		Notifier:    notify.New(svcs.store),
		Accounts:    accounts.New(svcs.accounts),
	}, dir)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, "server listening", zap.String("addr", srv.Addr), zap.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// Warm the directory so the first listing does not pay for the load.
	go dir.FetchCarers(ctx, false)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		applog.LogError(ctx, "listen failed", err, zap.String("addr", srv.Addr))
		os.Exit(1)
	case <-stop:
		applog.LogInfo(ctx, "shutdown signal received")
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		applog.LogError(shutdownCtx, "server shutdown error", err)
	}
	applog.LogInfo(ctx, "server exited")
}

// buildServices picks the store and auth backends. Without a usable Firebase project the
// server still starts: listings report the directory as unavailable and protected
// operations answer 503.
func buildServices(ctx context.Context, cfg config.Config) services {
	degraded := services{verifier: auth.DisabledVerifier{}, close: func() error { return nil }}

	if cfg.DemoData {
		store := docstore.NewMemoryStore()
		carers.SeedDemo(store)
		degraded.store = store
		applog.LogInfo(ctx, "serving demo carer directory from memory")
	}

	if cfg.ProjectID == "" {
		applog.LogWarn(ctx, "firebase project not configured, running without database and authentication")
		return degraded
	}

	clients, err := firebase.InitializeClients(ctx, firebase.Config{
		ProjectID:       cfg.ProjectID,
		CredentialsFile: cfg.CredentialsFile,
	})
	if err != nil {
		applog.LogError(ctx, "firebase initialization failed, running degraded", err,
			zap.String("projectId", cfg.ProjectID))
		return degraded
	}

	svcs := services{
		verifier: auth.NewFirebaseVerifier(clients.Auth),
		accounts: auth.NewFirebaseAccounts(clients.Auth),
		store:    degraded.store,
		close:    clients.Close,
	}
	if cfg.StoreEnabled() {
		svcs.store = docstore.NewFirestoreStore(clients.Firestore)
	}
	return svcs
}

func newRouter(cfg config.Config, reg *prometheus.Registry, deps routes.Dependencies, dir health.StateReader) chi.Router {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Base middleware stack
	router.Use(
		appmiddleware.Security(apiBasePath+docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(cfg.AllowedOrigins...),
		appmiddleware.RequestID(),
		// RealIP extracts client IP from X-Real-IP or X-Forwarded-For headers.
		// SECURITY: Only use behind a trusted reverse proxy (e.g., Cloud Run, nginx).
		chimiddleware.RealIP,
		appmiddleware.BodyLimit(appmiddleware.DefaultBodyLimit),
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.NewHandler(dir))
	router.Method(http.MethodGet, "/metrics", metrics.Handler(reg))

	v1 := chi.NewRouter()
	v1.NotFound(respond.NotFoundHandler())
	v1.MethodNotAllowed(respond.MethodNotAllowedHandler())

	humaCfg := huma.DefaultConfig("Carer Directory API", Version)
	humaCfg.DocsPath = docsPath
	humaCfg.Servers = []*huma.Server{{URL: apiBasePath}}
	humaCfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
			Description:  "Firebase ID token",
		},
	}
	api := humachi.New(v1, humaCfg)

	// Add CBOR content type to OpenAPI requests and responses
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBORContent)

	routes.Register(api, deps)
	router.Mount(apiBasePath, v1)
	return router
}

func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}
