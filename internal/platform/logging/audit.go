package logging

import (
	"context"

	"go.uber.org/zap"
)

// Audit results.
const (
	AuditSuccess = "success"
	AuditFailure = "failure"
)

// AuditEvent describes a state-changing action for security review.
type AuditEvent struct {
	Action       string // e.g. "create", "delete"
	Actor        string // authenticated user ID, or "system" for triggers
	ResourceType string // e.g. "review", "account"
	ResourceID   string
	Result       string // AuditSuccess or AuditFailure
	Details      map[string]any
}

// Audit writes e as a structured "Audit event" entry.
func Audit(ctx context.Context, e AuditEvent) {
	fields := []zap.Field{
		zap.String("audit.action", e.Action),
		zap.String("audit.actor", e.Actor),
		zap.String("audit.resource_type", e.ResourceType),
		zap.String("audit.resource_id", e.ResourceID),
		zap.String("audit.result", e.Result),
	}
	if len(e.Details) > 0 {
		fields = append(fields, zap.Any("audit.details", e.Details))
	}
	LoggerFromContext(ctx).Info("Audit event", fields...)
}
