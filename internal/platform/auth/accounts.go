package auth

import (
	"context"
	"errors"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"
)

// ErrUserNotFound reports that the account to delete does not exist.
var ErrUserNotFound = errors.New("user not found")

// AccountDeleter removes authentication accounts.
type AccountDeleter interface {
	DeleteUser(ctx context.Context, uid string) error
}

// FirebaseAccounts deletes Firebase Authentication accounts.
type FirebaseAccounts struct {
	client *fbauth.Client
}

// NewFirebaseAccounts wraps client.
func NewFirebaseAccounts(client *fbauth.Client) *FirebaseAccounts {
	return &FirebaseAccounts{client: client}
}

// DeleteUser removes the account with uid. A missing account yields ErrUserNotFound.
func (a *FirebaseAccounts) DeleteUser(ctx context.Context, uid string) error {
	if err := a.client.DeleteUser(ctx, uid); err != nil {
		if fbauth.IsUserNotFound(err) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, uid)
		}
		return fmt.Errorf("delete auth user %s: %w", uid, err)
	}
	return nil
}

var _ AccountDeleter = (*FirebaseAccounts)(nil)
