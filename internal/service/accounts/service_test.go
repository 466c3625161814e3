package accounts

import (
	"context"
	"errors"
	"fmt"
	"testing"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/janisto/carer-directory/internal/platform/auth"
	applog "github.com/janisto/carer-directory/internal/platform/logging"
	"github.com/janisto/carer-directory/internal/testutil"
)

func observedContext() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return applog.WithLogger(context.Background(), zap.New(core)), logs
}

func TestOnUserDeleted(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		err       error
		want      Outcome
		wantLevel zapcore.Level
		wantAudit string
	}{
		{name: "deleted", userID: "u1", want: OutcomeDeleted, wantLevel: zapcore.InfoLevel, wantAudit: applog.AuditSuccess},
		{name: "already gone", userID: "u1", err: fmt.Errorf("%w: u1", auth.ErrUserNotFound), want: OutcomeNotFound, wantLevel: zapcore.InfoLevel},
		{name: "failure", userID: "u1", err: errors.New("backend down"), want: OutcomeFailed, wantLevel: zapcore.ErrorLevel, wantAudit: applog.AuditFailure},
		{name: "blank id", userID: "  ", want: OutcomeSkipped, wantLevel: zapcore.WarnLevel},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := &auth.MockAccounts{Error: tc.err}
			ctx, logs := observedContext()

			if got := New(mock).OnUserDeleted(ctx, tc.userID); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
			if logs.FilterLevelExact(tc.wantLevel).FilterMessageSnippet("user").Len() == 0 {
				t.Fatalf("expected a %s log, got %v", tc.wantLevel, logs.All())
			}

			audits := logs.FilterMessage("Audit event").All()
			if tc.wantAudit == "" {
				if len(audits) != 0 {
					t.Fatalf("expected no audit entry, got %d", len(audits))
				}
			} else if len(audits) != 1 || audits[0].ContextMap()["audit.result"] != tc.wantAudit {
				t.Fatalf("expected %s audit entry, got %v", tc.wantAudit, audits)
			}

			if tc.want == OutcomeSkipped && len(mock.Deleted()) != 0 {
				t.Fatal("blank id must not reach the deleter")
			}
		})
	}
}

func TestOnUserDeletedWithoutDeleter(t *testing.T) {
	ctx, _ := observedContext()
	if got := New(nil).OnUserDeleted(ctx, "u1"); got != OutcomeFailed {
		t.Fatalf("expected failed, got %s", got)
	}
}

func TestOnUserDeletedAgainstAuthEmulator(t *testing.T) {
	testutil.SkipIfAuthUnavailable(t)
	testutil.SetupEmulator(t)
	testutil.ClearAccounts(t)
	t.Cleanup(func() { testutil.ClearAccounts(t) })

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: testutil.ProjectID})
	if err != nil {
		t.Fatalf("failed to create Firebase app: %v", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		t.Fatalf("failed to create Auth client: %v", err)
	}
	svc := New(auth.NewFirebaseAccounts(client))
	user := testutil.CreateTestUser(t, "leaving@example.com", "password123")

	if got := svc.OnUserDeleted(ctx, user.LocalID); got != OutcomeDeleted {
		t.Fatalf("expected deleted, got %s", got)
	}
	if got := svc.OnUserDeleted(ctx, user.LocalID); got != OutcomeNotFound {
		t.Fatalf("expected not_found on repeat, got %s", got)
	}
}
