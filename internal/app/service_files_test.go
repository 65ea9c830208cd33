package app

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mahmoudabdel098/ClientProjectTracker/internal/auth"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/authpw"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/blob"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/store"
	"github.com/sirupsen/logrus"
)

// observingBlobs calls a hook before delegating Delete to the wrapped store.
type observingBlobs struct {
	blob.Store
	onDelete func(key string)
}

func (o *observingBlobs) Delete(ctx context.Context, key string) error {
	o.onDelete(key)
	return o.Store.Delete(ctx, key)
}

func TestDeleteFileUnlinksBlobBeforeRow(t *testing.T) {
	ms := store.NewMemoryStore()
	disk, err := blob.NewDiskStore(t.TempDir(), 5<<20)
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}

	rowPresentAtUnlink := false
	var fileID int64
	blobs := &observingBlobs{Store: disk, onDelete: func(string) {
		_, err := ms.GetFile(context.Background(), fileID)
		rowPresentAtUnlink = err == nil
	}}

	tokens := auth.NewManager("test-secret-at-least-32-characters!!", "tracker-test", time.Hour)
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := New(ms, blobs, tokens, authpw.NewService(ms), 24*time.Hour, log)

	owner := registerUser(t, svc, "owner")
	clientID := seedClient(t, svc, owner.UserID, "Acme")
	projectID, _ := seedProject(t, svc, owner.UserID, clientID, "Website")

	ctx := context.Background()
	uploaded, err := svc.UploadFile(ctx, owner.UserID, projectID, "brief.txt", "", "text/plain", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("upload file: %v", err)
	}
	fileID = uploaded["id"].(int64)

	if err := svc.DeleteFile(ctx, owner.UserID, fileID); err != nil {
		t.Fatalf("delete file: %v", err)
	}

	if !rowPresentAtUnlink {
		t.Error("blob was unlinked after the metadata row was already gone")
	}
	if _, err := ms.GetFile(ctx, fileID); err == nil {
		t.Error("metadata row survived the delete")
	}

	activity := lastActivity(t, ms, owner.UserID)
	if activity.Type != "file_deleted" {
		t.Fatalf("expected file_deleted, got %s", activity.Type)
	}
	if activity.ClientID == nil || *activity.ClientID != clientID {
		t.Errorf("file_deleted activity missing client id: %v", activity.ClientID)
	}
}
