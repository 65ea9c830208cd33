package app

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestCreateProjectAssignsTokenAndZeroProgress(t *testing.T) {
	svc, _ := newTestService(t)
	owner := registerUser(t, svc, "owner")
	clientID := seedClient(t, svc, owner.UserID, "Acme")

	payload, err := svc.CreateProject(context.Background(), owner.UserID, ProjectInput{
		ClientID: clientID,
		Name:     "Website",
		Status:   "in_progress",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if payload["uuid"].(string) == "" {
		t.Error("expected a share token")
	}
	if payload["progress"].(int) != 0 {
		t.Errorf("expected progress 0, got %v", payload["progress"])
	}
}

func TestUpdateProjectIgnoresShareToken(t *testing.T) {
	svc, _ := newTestService(t)
	owner := registerUser(t, svc, "owner")
	clientID := seedClient(t, svc, owner.UserID, "Acme")
	projectID, token := seedProject(t, svc, owner.UserID, clientID, "Website")

	payload, err := svc.UpdateProject(context.Background(), owner.UserID, projectID, ProjectPatch{
		Name: strPtr("Website v2"),
		UUID: strPtr("attacker-chosen-token"),
	})
	if err != nil {
		t.Fatalf("update project: %v", err)
	}
	if payload["uuid"].(string) != token {
		t.Errorf("share token changed: %v", payload["uuid"])
	}
	if payload["name"].(string) != "Website v2" {
		t.Errorf("name not updated: %v", payload["name"])
	}
}

func TestUpdateProjectValidatesProgressRange(t *testing.T) {
	svc, _ := newTestService(t)
	owner := registerUser(t, svc, "owner")
	clientID := seedClient(t, svc, owner.UserID, "Acme")
	projectID, _ := seedProject(t, svc, owner.UserID, clientID, "Website")
	ctx := context.Background()

	_, err := svc.UpdateProject(ctx, owner.UserID, projectID, ProjectPatch{Progress: intPtr(101)})
	assertDomainStatus(t, err, http.StatusBadRequest)

	payload, err := svc.UpdateProject(ctx, owner.UserID, projectID, ProjectPatch{Progress: intPtr(40)})
	if err != nil {
		t.Fatalf("update project: %v", err)
	}
	if payload["progress"].(int) != 40 {
		t.Errorf("expected progress 40, got %v", payload["progress"])
	}
}

func TestGuardChecksExistenceBeforeOwnership(t *testing.T) {
	svc, _ := newTestService(t)
	owner := registerUser(t, svc, "owner")
	intruder := registerUser(t, svc, "intruder")
	clientID := seedClient(t, svc, owner.UserID, "Acme")

	// Missing row reads as 404 even to an authenticated caller.
	_, err := svc.GetClient(context.Background(), intruder.UserID, clientID+999)
	assertDomainStatus(t, err, http.StatusNotFound)

	// A real row owned by someone else reads as 403.
	_, err = svc.GetClient(context.Background(), intruder.UserID, clientID)
	assertDomainStatus(t, err, http.StatusForbidden)
}

func TestForbiddenMutationLeavesStateUntouched(t *testing.T) {
	svc, ms := newTestService(t)
	owner := registerUser(t, svc, "owner")
	intruder := registerUser(t, svc, "intruder")
	clientID := seedClient(t, svc, owner.UserID, "Acme")

	_, err := svc.UpdateClient(context.Background(), intruder.UserID, clientID, ClientPatch{Name: strPtr("Hijacked")})
	assertDomainStatus(t, err, http.StatusForbidden)

	client, err := ms.GetClient(context.Background(), clientID)
	if err != nil {
		t.Fatalf("get client: %v", err)
	}
	if client.Name != "Acme" {
		t.Errorf("client mutated by forbidden caller: %q", client.Name)
	}

	activities, err := ms.ListActivities(context.Background(), owner.UserID, 0)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	for _, activity := range activities {
		if activity.Type == "client_updated" {
			t.Error("forbidden update logged an activity")
		}
	}
}

func TestDeleteClientCascadesToProjectsOnly(t *testing.T) {
	svc, ms := newTestService(t)
	owner := registerUser(t, svc, "owner")
	ctx := context.Background()

	clientID := seedClient(t, svc, owner.UserID, "Acme")
	projectID, _ := seedProject(t, svc, owner.UserID, clientID, "Website")
	taskID := seedTask(t, svc, owner.UserID, projectID, "Design mockup")

	otherClientID := seedClient(t, svc, owner.UserID, "Globex")
	otherProjectID, _ := seedProject(t, svc, owner.UserID, otherClientID, "App")

	if err := svc.DeleteClient(ctx, owner.UserID, clientID); err != nil {
		t.Fatalf("delete client: %v", err)
	}

	if _, err := ms.GetProject(ctx, projectID); err == nil {
		t.Error("expected cascaded project to be gone")
	}
	// The cascade stops at projects; the task row survives as an orphan.
	if _, err := ms.GetProjectTask(ctx, taskID); err != nil {
		t.Errorf("expected orphaned task to survive, got %v", err)
	}
	// Unrelated rows are untouched.
	if _, err := ms.GetProject(ctx, otherProjectID); err != nil {
		t.Errorf("unrelated project affected: %v", err)
	}
}

func TestDeleteProjectLeavesChildrenInPlace(t *testing.T) {
	svc, ms := newTestService(t)
	owner := registerUser(t, svc, "owner")
	ctx := context.Background()

	clientID := seedClient(t, svc, owner.UserID, "Acme")
	projectID, _ := seedProject(t, svc, owner.UserID, clientID, "Website")
	taskID := seedTask(t, svc, owner.UserID, projectID, "Design mockup")
	estimate, err := svc.CreateEstimate(ctx, owner.UserID, EstimateInput{
		ProjectID: projectID,
		ClientID:  clientID,
		Title:     "Phase 1",
	})
	if err != nil {
		t.Fatalf("create estimate: %v", err)
	}

	if err := svc.DeleteProject(ctx, owner.UserID, projectID); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	if _, err := ms.GetProjectTask(ctx, taskID); err != nil {
		t.Errorf("expected task to survive project delete, got %v", err)
	}
	if _, err := ms.GetEstimate(ctx, estimate["id"].(int64)); err != nil {
		t.Errorf("expected estimate to survive project delete, got %v", err)
	}
}

func TestUpdateTaskEmitsCompletedOnTransition(t *testing.T) {
	svc, ms := newTestService(t)
	owner := registerUser(t, svc, "owner")
	ctx := context.Background()

	clientID := seedClient(t, svc, owner.UserID, "Acme")
	projectID, _ := seedProject(t, svc, owner.UserID, clientID, "Website")
	taskID := seedTask(t, svc, owner.UserID, projectID, "Design mockup")

	if _, err := svc.UpdateTask(ctx, owner.UserID, taskID, TaskPatch{Status: strPtr("completed")}); err != nil {
		t.Fatalf("complete task: %v", err)
	}
	activity := lastActivity(t, ms, owner.UserID)
	if activity.Type != "task_completed" {
		t.Errorf("expected task_completed, got %s", activity.Type)
	}
	if !strings.Contains(activity.Description, "was completed") {
		t.Errorf("unexpected description %q", activity.Description)
	}

	// Already completed: a further update is just an update.
	if _, err := svc.UpdateTask(ctx, owner.UserID, taskID, TaskPatch{Status: strPtr("completed")}); err != nil {
		t.Fatalf("re-complete task: %v", err)
	}
	if activity := lastActivity(t, ms, owner.UserID); activity.Type != "task_updated" {
		t.Errorf("expected task_updated for repeat completion, got %s", activity.Type)
	}
}

func TestUpdateEstimateReconcilesItems(t *testing.T) {
	svc, ms := newTestService(t)
	owner := registerUser(t, svc, "owner")
	ctx := context.Background()

	clientID := seedClient(t, svc, owner.UserID, "Acme")
	projectID, _ := seedProject(t, svc, owner.UserID, clientID, "Website")

	created, err := svc.CreateEstimate(ctx, owner.UserID, EstimateInput{
		ProjectID:   projectID,
		ClientID:    clientID,
		Title:       "Phase 1",
		TotalAmount: 5000,
		Items: []EstimateItemInput{
			{Description: "Design", Quantity: 1, Price: 2000},
			{Description: "Build", Quantity: 1, Price: 3000},
		},
	})
	if err != nil {
		t.Fatalf("create estimate: %v", err)
	}
	estimateID := created["id"].(int64)
	items := created["items"].([]map[string]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	keepID := items[0]["id"].(int64)

	// Keep the first item with a new price, drop the second, add a third.
	updated, err := svc.UpdateEstimate(ctx, owner.UserID, estimateID, EstimatePatch{
		Items: &[]EstimateItemInput{
			{ID: int64Ptr(keepID), Description: "Design", Quantity: 1, Price: 2500},
			{Description: "QA", Quantity: 2, Price: 500},
		},
	})
	if err != nil {
		t.Fatalf("update estimate: %v", err)
	}

	got := updated["items"].([]map[string]any)
	if len(got) != 2 {
		t.Fatalf("expected 2 items after reconciliation, got %d", len(got))
	}
	byID := map[int64]map[string]any{}
	for _, item := range got {
		byID[item["id"].(int64)] = item
	}
	kept, ok := byID[keepID]
	if !ok {
		t.Fatal("kept item lost its id during reconciliation")
	}
	if kept["price"].(int64) != 2500 {
		t.Errorf("kept item price not updated: %v", kept["price"])
	}

	// totalAmount is never recomputed from items.
	if updated["totalAmount"].(int64) != 5000 {
		t.Errorf("totalAmount changed to %v", updated["totalAmount"])
	}

	stored, err := ms.ListEstimateItems(ctx, estimateID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("expected 2 stored items, got %d", len(stored))
	}
}

func TestUpdateEstimateRejectsForeignItemID(t *testing.T) {
	svc, _ := newTestService(t)
	owner := registerUser(t, svc, "owner")
	ctx := context.Background()

	clientID := seedClient(t, svc, owner.UserID, "Acme")
	projectID, _ := seedProject(t, svc, owner.UserID, clientID, "Website")

	first, err := svc.CreateEstimate(ctx, owner.UserID, EstimateInput{
		ProjectID: projectID,
		ClientID:  clientID,
		Title:     "Phase 1",
		Items:     []EstimateItemInput{{Description: "Design", Quantity: 1, Price: 2000}},
	})
	if err != nil {
		t.Fatalf("create estimate: %v", err)
	}
	second, err := svc.CreateEstimate(ctx, owner.UserID, EstimateInput{
		ProjectID: projectID,
		ClientID:  clientID,
		Title:     "Phase 2",
	})
	if err != nil {
		t.Fatalf("create estimate: %v", err)
	}

	foreignItemID := first["items"].([]map[string]any)[0]["id"].(int64)
	_, err = svc.UpdateEstimate(ctx, owner.UserID, second["id"].(int64), EstimatePatch{
		Items: &[]EstimateItemInput{{ID: int64Ptr(foreignItemID), Description: "Steal", Quantity: 1, Price: 1}},
	})
	assertDomainStatus(t, err, http.StatusNotFound)
}

func TestCreateEstimateStoresSuppliedClient(t *testing.T) {
	svc, _ := newTestService(t)
	owner := registerUser(t, svc, "owner")
	intruder := registerUser(t, svc, "intruder")
	ctx := context.Background()

	clientA := seedClient(t, svc, owner.UserID, "Acme")
	clientB := seedClient(t, svc, owner.UserID, "Globex")
	foreignClient := seedClient(t, svc, intruder.UserID, "Initech")
	projectID, _ := seedProject(t, svc, owner.UserID, clientA, "Website")

	// The client id is taken from the request even when it differs from the
	// project's client.
	created, err := svc.CreateEstimate(ctx, owner.UserID, EstimateInput{
		ProjectID: projectID,
		ClientID:  clientB,
		Title:     "Phase 1",
	})
	if err != nil {
		t.Fatalf("create estimate: %v", err)
	}
	if created["clientId"].(int64) != clientB {
		t.Errorf("expected clientId %d, got %v", clientB, created["clientId"])
	}

	// A client owned by someone else fails the ownership check.
	_, err = svc.CreateEstimate(ctx, owner.UserID, EstimateInput{
		ProjectID: projectID,
		ClientID:  foreignClient,
		Title:     "Phase 2",
	})
	assertDomainStatus(t, err, http.StatusForbidden)

	// A missing clientId is a validation error.
	_, err = svc.CreateEstimate(ctx, owner.UserID, EstimateInput{
		ProjectID: projectID,
		Title:     "Phase 3",
	})
	assertDomainStatus(t, err, http.StatusBadRequest)
}

func TestActivitiesCarryClientAttribution(t *testing.T) {
	svc, ms := newTestService(t)
	owner := registerUser(t, svc, "owner")
	ctx := context.Background()

	clientID := seedClient(t, svc, owner.UserID, "Acme")
	projectID, _ := seedProject(t, svc, owner.UserID, clientID, "Website")
	taskID := seedTask(t, svc, owner.UserID, projectID, "Design mockup")

	activity := lastActivity(t, ms, owner.UserID)
	if activity.Type != "task_created" {
		t.Fatalf("expected task_created, got %s", activity.Type)
	}
	if activity.ClientID == nil || *activity.ClientID != clientID {
		t.Errorf("task activity missing client id: %v", activity.ClientID)
	}
	if activity.ProjectID == nil || *activity.ProjectID != projectID {
		t.Errorf("task activity missing project id: %v", activity.ProjectID)
	}

	if err := svc.DeleteTask(ctx, owner.UserID, taskID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if activity := lastActivity(t, ms, owner.UserID); activity.ClientID == nil || *activity.ClientID != clientID {
		t.Errorf("task_deleted activity missing client id: %v", activity.ClientID)
	}

	// The deleted client's record carries no client id.
	if err := svc.DeleteClient(ctx, owner.UserID, clientID); err != nil {
		t.Fatalf("delete client: %v", err)
	}
	activity = lastActivity(t, ms, owner.UserID)
	if activity.Type != "client_deleted" {
		t.Fatalf("expected client_deleted, got %s", activity.Type)
	}
	if activity.ClientID != nil {
		t.Errorf("client_deleted should not reference the removed client, got %d", *activity.ClientID)
	}
}

func TestDeleteEstimateRemovesItemsFirst(t *testing.T) {
	svc, ms := newTestService(t)
	owner := registerUser(t, svc, "owner")
	ctx := context.Background()

	clientID := seedClient(t, svc, owner.UserID, "Acme")
	projectID, _ := seedProject(t, svc, owner.UserID, clientID, "Website")
	created, err := svc.CreateEstimate(ctx, owner.UserID, EstimateInput{
		ProjectID: projectID,
		ClientID:  clientID,
		Title:     "Phase 1",
		Items:     []EstimateItemInput{{Description: "Design", Quantity: 1, Price: 2000}},
	})
	if err != nil {
		t.Fatalf("create estimate: %v", err)
	}
	estimateID := created["id"].(int64)

	if err := svc.DeleteEstimate(ctx, owner.UserID, estimateID); err != nil {
		t.Fatalf("delete estimate: %v", err)
	}
	items, err := ms.ListEstimateItems(ctx, estimateID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items after estimate delete, got %d", len(items))
	}
}

func TestListProjectsRespectsClientFilterOwnership(t *testing.T) {
	svc, _ := newTestService(t)
	owner := registerUser(t, svc, "owner")
	intruder := registerUser(t, svc, "intruder")
	ctx := context.Background()

	clientID := seedClient(t, svc, owner.UserID, "Acme")
	seedProject(t, svc, owner.UserID, clientID, "Website")

	_, err := svc.ListProjects(ctx, intruder.UserID, &clientID)
	assertDomainStatus(t, err, http.StatusForbidden)

	projects, err := svc.ListProjects(ctx, owner.UserID, &clientID)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 1 {
		t.Errorf("expected 1 project, got %d", len(projects))
	}
}

func TestUpdatePlanValidatesTier(t *testing.T) {
	svc, _ := newTestService(t)
	owner := registerUser(t, svc, "owner")
	ctx := context.Background()

	_, err := svc.UpdatePlan(ctx, owner.UserID, "enterprise")
	assertDomainStatus(t, err, http.StatusBadRequest)

	payload, err := svc.UpdatePlan(ctx, owner.UserID, "pro")
	if err != nil {
		t.Fatalf("update plan: %v", err)
	}
	if payload["planType"].(string) != "pro" {
		t.Errorf("expected pro, got %v", payload["planType"])
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newTestService(t)
	session := registerUser(t, svc, "owner")
	ctx := context.Background()

	next, err := svc.Refresh(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.RefreshToken == session.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// The spent token is gone.
	_, err = svc.Refresh(ctx, session.RefreshToken)
	assertDomainStatus(t, err, http.StatusUnauthorized)
}
