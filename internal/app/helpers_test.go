package app

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/mahmoudabdel098/ClientProjectTracker/internal/auth"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/authpw"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/blob"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/store"
	"github.com/sirupsen/logrus"
)

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	ms := store.NewMemoryStore()
	blobs, err := blob.NewDiskStore(t.TempDir(), 5<<20)
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}
	tokens := auth.NewManager("test-secret-at-least-32-characters!!", "tracker-test", time.Hour)
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := New(ms, blobs, tokens, authpw.NewService(ms), 24*time.Hour, log)
	return svc, ms
}

func registerUser(t *testing.T, svc *Service, username string) Session {
	t.Helper()
	session, err := svc.Register(context.Background(), authpw.RegisterRequest{
		Username: username,
		Password: "password123",
		FullName: "Test User",
		Email:    username + "@example.com",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return session
}

func seedClient(t *testing.T, svc *Service, userID int64, name string) int64 {
	t.Helper()
	payload, err := svc.CreateClient(context.Background(), userID, ClientInput{Name: name})
	if err != nil {
		t.Fatalf("create client %s: %v", name, err)
	}
	return payload["id"].(int64)
}

func seedProject(t *testing.T, svc *Service, userID, clientID int64, name string) (int64, string) {
	t.Helper()
	payload, err := svc.CreateProject(context.Background(), userID, ProjectInput{ClientID: clientID, Name: name})
	if err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return payload["id"].(int64), payload["uuid"].(string)
}

func seedTask(t *testing.T, svc *Service, userID, projectID int64, name string) int64 {
	t.Helper()
	payload, err := svc.CreateTask(context.Background(), userID, TaskInput{ProjectID: projectID, Name: name})
	if err != nil {
		t.Fatalf("create task %s: %v", name, err)
	}
	return payload["id"].(int64)
}

func assertDomainStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	domainErr, ok := err.(*DomainError)
	if !ok {
		t.Fatalf("expected *DomainError with status %d, got %T: %v", status, err, err)
	}
	if domainErr.Status != status {
		t.Fatalf("expected status %d, got %d (%s)", status, domainErr.Status, domainErr.Code)
	}
}

func lastActivity(t *testing.T, ms *store.MemoryStore, userID int64) store.Activity {
	t.Helper()
	items, err := ms.ListActivities(context.Background(), userID, 1)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected at least one activity")
	}
	return items[0]
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
