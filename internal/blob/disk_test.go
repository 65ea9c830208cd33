package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestDiskStoreSaveAndOpen(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 1024)
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}
	ctx := context.Background()

	n, err := store.Save(ctx, "report.pdf", strings.NewReader("hello world"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if n != int64(len("hello world")) {
		t.Errorf("expected %d bytes, got %d", len("hello world"), n)
	}

	rc, err := store.Open(ctx, "report.pdf")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", string(data))
	}
}

func TestDiskStoreRejectsOversized(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 4)
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Save(ctx, "big.bin", strings.NewReader("way too long")); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	// The partial write must not survive.
	if _, err := store.Open(ctx, "big.bin"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after rejected save, got %v", err)
	}
}

func TestDiskStoreDelete(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 1024)
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Save(ctx, "doomed.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "doomed.txt"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Open(ctx, "doomed.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "doomed.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestDiskStoreIgnoresPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, 1024)
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Save(ctx, "../../escape.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// The blob lands inside the store dir under its base name.
	if _, err := store.Open(ctx, "escape.txt"); err != nil {
		t.Errorf("expected blob under base name, got %v", err)
	}
}

func TestNewKeyUniqueAndSafe(t *testing.T) {
	a := NewKey("design mockup.png")
	b := NewKey("design mockup.png")
	if a == b {
		t.Error("expected distinct keys for same filename")
	}
	if strings.ContainsAny(a, " /\\") {
		t.Errorf("key contains unsafe characters: %q", a)
	}
	if !strings.HasSuffix(a, "design_mockup.png") {
		t.Errorf("key does not keep sanitized filename: %q", a)
	}
}
