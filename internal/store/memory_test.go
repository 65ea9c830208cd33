package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreListActivitiesMostRecentFirst(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := ms.CreateActivity(ctx, Activity{
			UserID:      7,
			Type:        "client_created",
			Description: "seed",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("create activity: %v", err)
		}
	}
	// Same timestamp as the last row; the higher id must win the tie.
	tied, err := ms.CreateActivity(ctx, Activity{
		UserID:      7,
		Type:        "client_updated",
		Description: "tied",
		CreatedAt:   base.Add(2 * time.Minute),
	})
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}

	items, err := ms.ListActivities(ctx, 7, 0)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 activities, got %d", len(items))
	}
	if items[0].ID != tied.ID {
		t.Errorf("expected newest id %d first, got %d", tied.ID, items[0].ID)
	}
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.After(items[i-1].CreatedAt) {
			t.Errorf("activities out of order at index %d", i)
		}
	}
}

func TestMemoryStoreListActivitiesRespectsLimit(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := ms.CreateActivity(ctx, Activity{UserID: 7, Type: "task_created"}); err != nil {
			t.Fatalf("create activity: %v", err)
		}
	}

	items, err := ms.ListActivities(ctx, 7, 2)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(items))
	}
	if items[0].ID != 5 || items[1].ID != 4 {
		t.Errorf("expected ids [5 4], got [%d %d]", items[0].ID, items[1].ID)
	}
}

func TestMemoryStoreMutationsOnMissingRowsReturnNotFound(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	if _, err := ms.GetClient(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetClient: expected ErrNotFound, got %v", err)
	}
	if _, err := ms.UpdateProject(ctx, Project{ID: 99}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateProject: expected ErrNotFound, got %v", err)
	}
	if err := ms.DeleteProjectTask(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteProjectTask: expected ErrNotFound, got %v", err)
	}
	if _, err := ms.GetProjectByShareToken(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProjectByShareToken: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreRefreshSessionExpiry(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	if err := ms.SaveRefreshSession(ctx, "fresh", 7, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := ms.SaveRefreshSession(ctx, "stale", 7, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("save session: %v", err)
	}

	userID, err := ms.LookupRefreshSession(ctx, "fresh")
	if err != nil {
		t.Fatalf("lookup fresh: %v", err)
	}
	if userID != 7 {
		t.Errorf("expected user 7, got %d", userID)
	}

	if _, err := ms.LookupRefreshSession(ctx, "stale"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for expired session, got %v", err)
	}

	if err := ms.RevokeRefreshSession(ctx, "fresh"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := ms.LookupRefreshSession(ctx, "fresh"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after revoke, got %v", err)
	}
}

func TestMemoryStoreEstimateItemsKeepInsertionOrder(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	for _, desc := range []string{"Design", "Build", "Launch"} {
		if _, err := ms.CreateEstimateItem(ctx, EstimateItem{EstimateID: 3, Description: desc}); err != nil {
			t.Fatalf("create item: %v", err)
		}
	}

	items, err := ms.ListEstimateItems(ctx, 3)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []string{"Design", "Build", "Launch"} {
		if items[i].Description != want {
			t.Errorf("item %d: expected %s, got %s", i, want, items[i].Description)
		}
	}
}
