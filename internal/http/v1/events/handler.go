// Package events receives document trigger events pushed by the platform and runs the
// matching background handler.
package events

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/carer-directory/internal/platform/logging"
	"github.com/janisto/carer-directory/internal/service/accounts"
	"github.com/janisto/carer-directory/internal/service/notify"
)

// Notifier handles new chat messages.
type Notifier interface {
	OnMessageCreated(ctx context.Context, messageID string, data map[string]any) notify.Outcome
}

// AccountCleaner handles removed user profiles.
type AccountCleaner interface {
	OnUserDeleted(ctx context.Context, userID string) accounts.Outcome
}

// Register wires event routes into the provided API router. Every request must carry
// token in the X-Events-Token header.
func Register(api huma.API, token string, notifier Notifier, cleaner AccountCleaner) {
	huma.Register(api, huma.Operation{
		OperationID:   "message-created",
		Method:        http.MethodPost,
		Path:          "/events/messages/{messageId}",
		Summary:       "Handle a created message",
		Description:   "Creates an inbox notification for the message recipient.",
		Tags:          []string{"Events"},
		DefaultStatus: http.StatusAccepted,
	}, func(ctx context.Context, input *MessageCreatedInput) (*ResultOutput, error) {
		if !authorized(input.Token, token) {
			return nil, reject(ctx, "message-created")
		}
		outcome := notifier.OnMessageCreated(ctx, input.MessageID, input.Body)
		return &ResultOutput{Body: Result{Outcome: string(outcome)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "user-deleted",
		Method:        http.MethodDelete,
		Path:          "/events/users/{userId}",
		Summary:       "Handle a removed user profile",
		Description:   "Deletes the authentication account that belonged to the profile.",
		Tags:          []string{"Events"},
		DefaultStatus: http.StatusAccepted,
	}, func(ctx context.Context, input *UserDeletedInput) (*ResultOutput, error) {
		if !authorized(input.Token, token) {
			return nil, reject(ctx, "user-deleted")
		}
		outcome := cleaner.OnUserDeleted(ctx, input.UserID)
		return &ResultOutput{Body: Result{Outcome: string(outcome)}}, nil
	})
}

func reject(ctx context.Context, event string) error {
	applog.LogWarn(ctx, "event rejected: token mismatch", zap.String("event", event))
	return huma.Error401Unauthorized("invalid event token")
}

func authorized(got, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
