package authpw

import (
	"context"
	"errors"
	"testing"

	"github.com/mahmoudabdel098/ClientProjectTracker/internal/store"
)

type mockUserStore struct {
	users  map[string]store.User
	nextID int64
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]store.User)}
}

func (m *mockUserStore) GetUserByUsername(_ context.Context, username string) (store.User, error) {
	if user, ok := m.users[username]; ok {
		return user, nil
	}
	return store.User{}, store.ErrNotFound
}

func (m *mockUserStore) CreateUser(_ context.Context, user store.User) (store.User, error) {
	m.nextID++
	user.ID = m.nextID
	m.users[user.Username] = user
	return user, nil
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMockUserStore())

	t.Run("successful registration", func(t *testing.T) {
		user, err := svc.Register(ctx, RegisterRequest{
			Username: "avery",
			Password: "password123",
			FullName: "Avery Stone",
			Email:    "avery@example.com",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID == 0 {
			t.Error("expected user id to be assigned")
		}
		if user.PlanType != "free" {
			t.Errorf("expected plan free, got %q", user.PlanType)
		}
		if user.PasswordHash == "password123" || user.PasswordHash == "" {
			t.Error("expected password to be hashed")
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{Username: "avery", Password: "password123"})
		if !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{Username: "blair", Password: "short"})
		if err == nil {
			t.Error("expected error for short password")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		if _, err := svc.Register(ctx, RegisterRequest{}); err == nil {
			t.Error("expected error for missing fields")
		}
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMockUserStore())

	if _, err := svc.Register(ctx, RegisterRequest{Username: "avery", Password: "password123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "avery", "password123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Username != "avery" {
			t.Errorf("expected username avery, got %q", user.Username)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "avery", "wrongpassword")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "password123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}
