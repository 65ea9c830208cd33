package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mahmoudabdel098/ClientProjectTracker/internal/blob"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/store"
	"github.com/sirupsen/logrus"
)

func (s *Service) ListFiles(ctx context.Context, userID, projectID int64) ([]map[string]any, error) {
	if _, err := s.requireProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	items, err := s.store.ListFiles(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, filePayload(item))
	}
	return payload, nil
}

// UploadFile streams the content into the blob store before any metadata is
// written, so a failed or oversized upload leaves no file row behind. The
// recorded size is what the blob store actually received.
func (s *Service) UploadFile(ctx context.Context, userID, projectID int64, filename, displayName, fileType string, r io.Reader) (map[string]any, error) {
	if filename == "" {
		return nil, errValidation("file is required", []FieldError{{Field: "file", Message: "required"}})
	}
	project, err := s.requireProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	key := blob.NewKey(filename)
	size, err := s.blobs.Save(ctx, key, r)
	if err != nil {
		return nil, err
	}

	name := displayName
	if name == "" {
		name = filename
	}

	file, err := s.store.CreateFile(ctx, store.File{
		UserID:    userID,
		ProjectID: project.ID,
		Name:      name,
		FileType:  fileType,
		FileSize:  size,
		BlobKey:   key,
	})
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	if err := s.logActivity(ctx, userID, &project.ID, &project.ClientID, "file_uploaded", fmt.Sprintf("File %s was uploaded", file.Name)); err != nil {
		return nil, err
	}
	return filePayload(file), nil
}

// DownloadFile serves owners and share-token holders. An anonymous token is
// only good for files of the exact project it names.
func (s *Service) DownloadFile(ctx context.Context, principal Principal, fileID int64) (store.File, io.ReadCloser, error) {
	file, err := s.store.GetFile(ctx, fileID)
	if errors.Is(err, store.ErrNotFound) {
		return store.File{}, nil, errNotFound("File")
	}
	if err != nil {
		return store.File{}, nil, fmt.Errorf("get file: %w", err)
	}

	switch principal.Kind {
	case PrincipalOwner:
		if file.UserID != principal.UserID {
			return store.File{}, nil, errForbidden()
		}
	case PrincipalAnonymous:
		project, err := s.store.GetProjectByShareToken(ctx, principal.ShareToken)
		if errors.Is(err, store.ErrNotFound) {
			return store.File{}, nil, errNotFound("Project")
		}
		if err != nil {
			return store.File{}, nil, fmt.Errorf("resolve share token: %w", err)
		}
		if project.ID != file.ProjectID {
			return store.File{}, nil, errForbidden()
		}
	default:
		return store.File{}, nil, errUnauthorized()
	}

	rc, err := s.blobs.Open(ctx, file.BlobKey)
	if errors.Is(err, blob.ErrNotFound) {
		return store.File{}, nil, errNotFound("File")
	}
	if err != nil {
		return store.File{}, nil, fmt.Errorf("open blob: %w", err)
	}
	return file, rc, nil
}

// DeleteFile unlinks the blob before the metadata row goes away. The unlink
// is best effort; a failure is logged and the row is removed regardless, an
// orphaned blob only costs storage.
func (s *Service) DeleteFile(ctx context.Context, userID, fileID int64) error {
	file, err := s.requireFile(ctx, userID, fileID)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, file.BlobKey); err != nil && !errors.Is(err, blob.ErrNotFound) {
		s.log.WithFields(logrus.Fields{
			"file_id":  file.ID,
			"blob_key": file.BlobKey,
		}).WithError(err).Warn("could not delete blob")
	}
	if err := s.store.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	// The parent project may already be gone; the activity then carries no
	// client id.
	var clientID *int64
	if project, err := s.store.GetProject(ctx, file.ProjectID); err == nil {
		clientID = &project.ClientID
	}
	return s.logActivity(ctx, userID, &file.ProjectID, clientID, "file_deleted", fmt.Sprintf("File %s was deleted", file.Name))
}
