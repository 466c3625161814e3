package auth

import (
	"context"
	"sync"
)

// MockVerifier provides fake token verification for tests.
type MockVerifier struct {
	User  *User
	Error error
}

// Verify returns the configured user or error.
func (m *MockVerifier) Verify(context.Context, string) (*User, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.User, nil
}

// TestUser returns a standard test user.
func TestUser() *User {
	return &User{
		UID:           "test-user-123",
		Email:         "test@example.com",
		EmailVerified: true,
	}
}

// MockAccounts records deletions. Error, when set, is returned from every call.
type MockAccounts struct {
	mu      sync.Mutex
	Error   error
	deleted []string
}

// DeleteUser records uid and returns the configured error.
func (m *MockAccounts) DeleteUser(_ context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, uid)
	return m.Error
}

// Deleted returns the uids passed to DeleteUser, in call order.
func (m *MockAccounts) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

var (
	_ Verifier       = (*MockVerifier)(nil)
	_ AccountDeleter = (*MockAccounts)(nil)
)
