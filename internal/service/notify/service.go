// Package notify creates inbox notifications for newly created chat messages.
package notify

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/janisto/carer-directory/internal/platform/docstore"
	applog "github.com/janisto/carer-directory/internal/platform/logging"
)

// NotificationsCollection holds one document per delivered notification.
const NotificationsCollection = "notifications"

// MaxPreviewLength bounds messagePreview, ellipsis included.
const MaxPreviewLength = 180

// Outcome reports what OnMessageCreated did. It is informational; failures are already logged.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Service writes notifications to the document store.
type Service struct {
	store docstore.Store
}

// New creates a Service. A nil store makes every call fail softly.
func New(store docstore.Store) *Service {
	return &Service{store: store}
}

// OnMessageCreated records a "message" notification for the recipient of the message
// stored as messageID. Messages without data or without a recipientId are skipped.
func (s *Service) OnMessageCreated(ctx context.Context, messageID string, data map[string]any) Outcome {
	if data == nil {
		applog.LogWarn(ctx, "message document contained no data", zap.String("messageId", messageID))
		return OutcomeSkipped
	}
	recipientID, _ := data["recipientId"].(string)
	if strings.TrimSpace(recipientID) == "" {
		applog.LogWarn(ctx, "message was created without a recipientId", zap.String("messageId", messageID))
		return OutcomeSkipped
	}
	if s.store == nil {
		applog.LogError(ctx, "failed to create notification for message", docstore.ErrUnavailable,
			zap.String("messageId", messageID))
		return OutcomeFailed
	}

	body, _ := data["body"].(string)
	payload := map[string]any{
		"recipientId":    recipientID,
		"messageId":      messageID,
		"type":           "message",
		"read":           false,
		"senderId":       data["senderId"],
		"senderName":     data["senderName"],
		"messageBody":    body,
		"messagePreview": Preview(body),
		"createdAt":      docstore.ServerTimestamp,
	}

	id, err := s.store.Add(ctx, NotificationsCollection, payload)
	if err != nil {
		applog.LogError(ctx, "failed to create notification for message", err,
			zap.String("messageId", messageID))
		return OutcomeFailed
	}
	applog.LogInfo(ctx, "notification created for message",
		zap.String("messageId", messageID),
		zap.String("recipientId", recipientID),
		zap.String("notificationId", id))
	return OutcomeCreated
}

// Preview trims body and shortens it to MaxPreviewLength characters, ending in "…" when cut.
func Preview(body string) string {
	trimmed := strings.TrimSpace(body)
	if utf8.RuneCountInString(trimmed) <= MaxPreviewLength {
		return trimmed
	}
	runes := []rune(trimmed)
	return string(runes[:MaxPreviewLength-1]) + "…"
}
