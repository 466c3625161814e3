package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/carer-directory/internal/platform/logging"
)

type userContextKey struct{}

// rejection describes how a failed authentication is answered.
type rejection struct {
	status     int
	detail     string
	retryAfter string
}

// NewAuthMiddleware enforces bearer authentication on operations declaring a Security
// requirement. A nil or DisabledVerifier answers 503 without inspecting the request.
// Authenticated requests continue with the user and a uid-tagged logger in their context.
func NewAuthMiddleware(api huma.API, verifier Verifier) func(huma.Context, func(huma.Context)) {
	_, disabled := verifier.(DisabledVerifier)
	if verifier == nil {
		disabled = true
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		if len(ctx.Operation().Security) == 0 {
			next(ctx)
			return
		}

		if disabled {
			reject(api, ctx, ErrNotConfigured)
			return
		}

		token, err := ExtractBearerToken(ctx.Header("Authorization"))
		if err != nil {
			reject(api, ctx, ErrNoToken)
			return
		}

		user, err := verifier.Verify(ctx.Context(), token)
		if err != nil {
			reject(api, ctx, err)
			return
		}

		logger := applog.LoggerFromContext(ctx.Context()).With(zap.String("uid", user.UID))
		ctx = huma.WithContext(ctx, applog.WithLogger(ctx.Context(), logger))
		next(huma.WithValue(ctx, userContextKey{}, user))
	}
}

func reject(api huma.API, ctx huma.Context, err error) {
	r := rejectionFor(err)
	applog.LogWarn(ctx.Context(), "auth failed",
		zap.String("reason", reason(err)),
		zap.String("operation", ctx.Operation().OperationID))
	if r.retryAfter != "" {
		ctx.SetHeader("Retry-After", r.retryAfter)
	}
	if r.status == http.StatusUnauthorized {
		ctx.SetHeader("WWW-Authenticate", "Bearer")
	}
	_ = huma.WriteErr(api, ctx, r.status, r.detail)
}

func rejectionFor(err error) rejection {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return rejection{status: http.StatusServiceUnavailable, detail: "authentication is not configured on this server"}
	case errors.Is(err, ErrCertificateFetch):
		return rejection{
			status:     http.StatusServiceUnavailable,
			detail:     "authentication service temporarily unavailable",
			retryAfter: "30",
		}
	case errors.Is(err, ErrNoToken):
		return rejection{status: http.StatusUnauthorized, detail: "missing or invalid authorization header"}
	default:
		return rejection{status: http.StatusUnauthorized, detail: "invalid or expired token"}
	}
}

// reason returns a log-safe category for err.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrNoToken):
		return "no_token"
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrTokenRevoked):
		return "token_revoked"
	case errors.Is(err, ErrUserDisabled):
		return "user_disabled"
	case errors.Is(err, ErrCertificateFetch):
		return "certificate_fetch_failed"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	default:
		return "unknown"
	}
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}
