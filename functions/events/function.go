// Package events deploys the message and account handlers as HTTP Cloud Functions, for
// projects that route document triggers to functions instead of the API server.
package events

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"go.uber.org/zap"

	"github.com/janisto/carer-directory/internal/platform/auth"
	"github.com/janisto/carer-directory/internal/platform/config"
	"github.com/janisto/carer-directory/internal/platform/docstore"
	"github.com/janisto/carer-directory/internal/platform/firebase"
	applog "github.com/janisto/carer-directory/internal/platform/logging"
	"github.com/janisto/carer-directory/internal/platform/respond"
	"github.com/janisto/carer-directory/internal/service/accounts"
	"github.com/janisto/carer-directory/internal/service/notify"
)

// MessageCreatedRequest is the body of the MessageCreated function.
type MessageCreatedRequest struct {
	MessageID string         `json:"messageId"`
	Data      map[string]any `json:"data"`
}

// UserDeletedRequest is the body of the UserDeleted function.
type UserDeletedRequest struct {
	UserID string `json:"userId"`
}

// Response reports the handler outcome.
type Response struct {
	Outcome string `json:"outcome"`
}

var (
	servicesOnce sync.Once
	notifier     *notify.Service
	cleaner      *accounts.Service
)

func init() {
	functions.HTTP("MessageCreated", func(w http.ResponseWriter, r *http.Request) {
		loadServices(r.Context())
		messageCreated(notifier)(w, r)
	})
	functions.HTTP("UserDeleted", func(w http.ResponseWriter, r *http.Request) {
		loadServices(r.Context())
		userDeleted(cleaner)(w, r)
	})
}

// loadServices connects to Firebase once per instance. On failure the handlers still
// answer and log every event as failed.
func loadServices(ctx context.Context) {
	servicesOnce.Do(func() {
		ctx = context.WithoutCancel(ctx)
		notifier, cleaner = notify.New(nil), accounts.New(nil)

		cfg, err := config.Load()
		if err != nil {
			applog.LogError(ctx, "invalid configuration", err)
			return
		}
		clients, err := firebase.InitializeClients(ctx, firebase.Config{
			ProjectID:       cfg.ProjectID,
			CredentialsFile: cfg.CredentialsFile,
		})
		if err != nil {
			applog.LogError(ctx, "firebase initialization failed", err, zap.String("projectId", cfg.ProjectID))
			return
		}
		notifier = notify.New(docstore.NewFirestoreStore(clients.Firestore))
		cleaner = accounts.New(auth.NewFirebaseAccounts(clients.Auth))
	})
}

func messageCreated(n *notify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MessageCreatedRequest
		if !decode(w, r, &req) {
			return
		}
		writeOutcome(w, string(n.OnMessageCreated(r.Context(), req.MessageID, req.Data)))
	}
}

func userDeleted(c *accounts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UserDeletedRequest
		if !decode(w, r, &req) {
			return
		}
		writeOutcome(w, string(c.OnUserDeleted(r.Context(), req.UserID)))
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		respond.WriteProblem(w, r, http.StatusMethodNotAllowed, "method "+r.Method+" not allowed")
		return false
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(dst); err != nil {
		respond.WriteProblem(w, r, http.StatusBadRequest, "request body must be a JSON object")
		return false
	}
	return true
}

func writeOutcome(w http.ResponseWriter, outcome string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{Outcome: outcome})
}
