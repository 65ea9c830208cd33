package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndParseAccessToken(t *testing.T) {
	m := NewManager("test-secret-at-least-32-characters!!", "tracker-test", time.Hour)
	issued, _, err := m.IssueAccessToken(42, "avery")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}
	userID, username, err := m.ParseAccessToken(issued)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}
	if userID != 42 || username != "avery" {
		t.Fatalf("unexpected claims: userID=%d username=%q", userID, username)
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	m := NewManager("test-secret-at-least-32-characters!!", "tracker-test", -time.Minute)
	issued, _, err := m.IssueAccessToken(42, "avery")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}
	_, _, err = m.ParseAccessToken(issued)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("ParseAccessToken() error = %v, want ErrExpiredToken", err)
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	m := NewManager("test-secret-at-least-32-characters!!", "tracker-test", time.Hour)
	other := NewManager("test-secret-at-least-32-characters!!", "someone-else", time.Hour)
	issued, _, err := other.IssueAccessToken(42, "avery")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}
	if _, _, err := m.ParseAccessToken(issued); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("ParseAccessToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestParseAccessTokenRejectsTampered(t *testing.T) {
	m := NewManager("test-secret-at-least-32-characters!!", "tracker-test", time.Hour)
	issued, _, err := m.IssueAccessToken(42, "avery")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}
	tampered := issued[:len(issued)-2] + "xx"
	if _, _, err := m.ParseAccessToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("ParseAccessToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestNewRefreshTokenHashMatches(t *testing.T) {
	raw, hash, err := NewRefreshToken()
	if err != nil {
		t.Fatalf("NewRefreshToken() error = %v", err)
	}
	if raw == "" || hash == "" {
		t.Fatal("expected non-empty token and hash")
	}
	if HashToken(raw) != hash {
		t.Fatal("hash does not match raw token")
	}
}
