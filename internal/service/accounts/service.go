// Package accounts removes authentication accounts whose profile documents were deleted.
package accounts

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/janisto/carer-directory/internal/platform/auth"
	applog "github.com/janisto/carer-directory/internal/platform/logging"
)

// Outcome reports what OnUserDeleted did.
type Outcome string

const (
	OutcomeDeleted  Outcome = "deleted"
	OutcomeNotFound Outcome = "not_found"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// Service deletes accounts through an auth.AccountDeleter.
type Service struct {
	accounts auth.AccountDeleter
}

// New creates a Service. A nil deleter makes every call fail softly.
func New(accounts auth.AccountDeleter) *Service {
	return &Service{accounts: accounts}
}

// OnUserDeleted deletes the authentication account for userID. An account that is
// already gone counts as done. Failures are logged and audited, not returned.
func (s *Service) OnUserDeleted(ctx context.Context, userID string) Outcome {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		applog.LogWarn(ctx, "user deletion event received without a userId")
		return OutcomeSkipped
	}

	var err error
	if s.accounts == nil {
		err = errors.New("account deletion is not configured")
	} else {
		err = s.accounts.DeleteUser(ctx, userID)
	}

	switch {
	case err == nil:
		applog.LogInfo(ctx, "deleted authentication user for removed profile", zap.String("userId", userID))
		s.audit(ctx, userID, applog.AuditSuccess, nil)
		return OutcomeDeleted
	case errors.Is(err, auth.ErrUserNotFound):
		applog.LogInfo(ctx, "no authentication user found for removed profile", zap.String("userId", userID))
		return OutcomeNotFound
	default:
		applog.LogError(ctx, "failed to delete authentication user", err, zap.String("userId", userID))
		s.audit(ctx, userID, applog.AuditFailure, map[string]any{"error": err.Error()})
		return OutcomeFailed
	}
}

func (s *Service) audit(ctx context.Context, userID, result string, details map[string]any) {
	applog.Audit(ctx, applog.AuditEvent{
		Action:       "delete",
		Actor:        "system",
		ResourceType: "account",
		ResourceID:   userID,
		Result:       result,
		Details:      details,
	})
}
