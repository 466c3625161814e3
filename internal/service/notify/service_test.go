package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/janisto/carer-directory/internal/platform/docstore"
	applog "github.com/janisto/carer-directory/internal/platform/logging"
)

func observedContext() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return applog.WithLogger(context.Background(), zap.New(core)), logs
}

func TestOnMessageCreatedWritesNotification(t *testing.T) {
	store := docstore.NewMemoryStore()
	svc := New(store)
	ctx, logs := observedContext()

	outcome := svc.OnMessageCreated(ctx, "msg-1", map[string]any{
		"recipientId": "amelia",
		"senderId":    "paula",
		"body":        "  Hello, are you free on Tuesday?  ",
	})
	if outcome != OutcomeCreated {
		t.Fatalf("expected created, got %s", outcome)
	}

	docs := store.Documents(NotificationsCollection)
	if len(docs) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(docs))
	}
	n := docs[0].Data
	want := map[string]any{
		"recipientId":    "amelia",
		"messageId":      "msg-1",
		"type":           "message",
		"read":           false,
		"senderId":       "paula",
		"senderName":     nil,
		"messageBody":    "  Hello, are you free on Tuesday?  ",
		"messagePreview": "Hello, are you free on Tuesday?",
	}
	for k, v := range want {
		if n[k] != v {
			t.Errorf("%s: expected %v, got %v", k, v, n[k])
		}
	}
	if _, ok := n["createdAt"].(time.Time); !ok {
		t.Errorf("expected server timestamp, got %T", n["createdAt"])
	}
	if logs.FilterMessage("notification created for message").Len() != 1 {
		t.Error("expected info log")
	}
}

func TestOnMessageCreatedSkips(t *testing.T) {
	tests := map[string]map[string]any{
		"no data":              nil,
		"no recipient":         {"body": "hi"},
		"blank recipient":      {"recipientId": "  ", "body": "hi"},
		"non-string recipient": {"recipientId": 7, "body": "hi"},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			store := docstore.NewMemoryStore()
			ctx, logs := observedContext()

			if got := New(store).OnMessageCreated(ctx, "msg-1", data); got != OutcomeSkipped {
				t.Fatalf("expected skipped, got %s", got)
			}
			if len(store.Documents(NotificationsCollection)) != 0 {
				t.Fatal("expected no notification")
			}
			if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
				t.Fatal("expected a warning")
			}
		})
	}
}

func TestOnMessageCreatedLogsWriteFailure(t *testing.T) {
	store := docstore.NewMemoryStore()
	store.AddHook = func(string, map[string]any) error { return errors.New("quota exceeded") }
	ctx, logs := observedContext()

	if got := New(store).OnMessageCreated(ctx, "msg-1", map[string]any{"recipientId": "amelia"}); got != OutcomeFailed {
		t.Fatalf("expected failed, got %s", got)
	}
	if logs.FilterLevelExact(zapcore.ErrorLevel).Len() != 1 {
		t.Fatal("expected an error log")
	}

	if got := New(nil).OnMessageCreated(ctx, "msg-2", map[string]any{"recipientId": "amelia"}); got != OutcomeFailed {
		t.Fatalf("expected failed without store, got %s", got)
	}
}

func TestOnMessageCreatedNonStringBody(t *testing.T) {
	store := docstore.NewMemoryStore()
	New(store).OnMessageCreated(context.Background(), "msg-1", map[string]any{"recipientId": "amelia", "body": 42})

	n := store.Documents(NotificationsCollection)[0].Data
	if n["messageBody"] != "" || n["messagePreview"] != "" {
		t.Fatalf("expected empty body and preview, got %q %q", n["messageBody"], n["messagePreview"])
	}
}

func TestPreview(t *testing.T) {
	exact := strings.Repeat("a", MaxPreviewLength)
	if got := Preview(exact); got != exact {
		t.Fatal("body at the limit must be kept whole")
	}

	long := strings.Repeat("é", MaxPreviewLength+20)
	got := Preview(long)
	if utf8.RuneCountInString(got) != MaxPreviewLength {
		t.Fatalf("expected %d characters, got %d", MaxPreviewLength, utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "…") || !strings.HasPrefix(got, "éé") {
		t.Fatalf("unexpected preview %q", got)
	}

	if got := Preview("  \n "); got != "" {
		t.Fatalf("expected empty preview, got %q", got)
	}
}
