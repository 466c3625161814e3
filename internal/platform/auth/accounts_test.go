package auth

import (
	"context"
	"errors"
	"testing"

	firebase "firebase.google.com/go/v4"

	"github.com/janisto/carer-directory/internal/testutil"
)

func setupAccountsTest(t *testing.T) *FirebaseAccounts {
	t.Helper()

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
	return NewFirebaseAccounts(client)
}

func TestFirebaseAccountsDeleteUser(t *testing.T) {
	accounts := setupAccountsTest(t)
	user := testutil.CreateTestUser(t, "carer@example.com", "password123")

	if err := accounts.DeleteUser(context.Background(), user.LocalID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := accounts.DeleteUser(context.Background(), user.LocalID)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestMockAccountsRecordsDeletes(t *testing.T) {
	accounts := &MockAccounts{}
	_ = accounts.DeleteUser(context.Background(), "a")
	_ = accounts.DeleteUser(context.Background(), "b")

	got := accounts.Deleted()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected deletions: %v", got)
	}
}
