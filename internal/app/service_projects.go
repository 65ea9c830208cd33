package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/store"
)

var projectStatuses = map[string]struct{}{
	"new":              {},
	"in_progress":      {},
	"pending_approval": {},
	"on_hold":          {},
	"completed":        {},
}

var taskStatuses = map[string]struct{}{
	"pending":     {},
	"in_progress": {},
	"completed":   {},
}

type ProjectInput struct {
	ClientID    int64      `json:"clientId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
}

// ProjectPatch deliberately lists "uuid" so clients sending the share token
// back on update are tolerated; the value is never applied.
type ProjectPatch struct {
	ClientID    *int64     `json:"clientId"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Progress    *int       `json:"progress"`
	DueDate     *time.Time `json:"dueDate"`
	UUID        *string    `json:"uuid"`
}

// ListProjects returns the caller's projects, optionally narrowed to one
// client. The client filter is itself ownership-checked.
func (s *Service) ListProjects(ctx context.Context, userID int64, clientID *int64) ([]map[string]any, error) {
	var items []store.Project
	var err error
	if clientID != nil {
		if _, err := s.requireClient(ctx, userID, *clientID); err != nil {
			return nil, err
		}
		items, err = s.store.ListProjectsByClient(ctx, *clientID)
	} else {
		items, err = s.store.ListProjects(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, projectPayload(item))
	}
	return payload, nil
}

func (s *Service) GetProject(ctx context.Context, userID, projectID int64) (map[string]any, error) {
	project, err := s.requireProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return projectPayload(project), nil
}

// CreateProject assigns the share token and starts progress at zero,
// whatever the caller sent.
func (s *Service) CreateProject(ctx context.Context, userID int64, in ProjectInput) (map[string]any, error) {
	var fields []FieldError
	if in.Name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "required"})
	}
	if in.ClientID == 0 {
		fields = append(fields, FieldError{Field: "clientId", Message: "required"})
	}
	status := in.Status
	if status == "" {
		status = "new"
	}
	if _, ok := projectStatuses[status]; !ok {
		fields = append(fields, FieldError{Field: "status", Message: "unknown status"})
	}
	if len(fields) > 0 {
		return nil, errValidation("invalid project", fields)
	}

	if _, err := s.requireClient(ctx, userID, in.ClientID); err != nil {
		return nil, err
	}

	project, err := s.store.CreateProject(ctx, store.Project{
		UserID:      userID,
		ClientID:    in.ClientID,
		Name:        in.Name,
		Description: in.Description,
		Status:      status,
		Progress:    0,
		DueDate:     in.DueDate,
		ShareToken:  uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	if err := s.logActivity(ctx, userID, &project.ID, &project.ClientID, "project_created", fmt.Sprintf("Project %s was created", project.Name)); err != nil {
		return nil, err
	}
	return projectPayload(project), nil
}

func (s *Service) UpdateProject(ctx context.Context, userID, projectID int64, patch ProjectPatch) (map[string]any, error) {
	project, err := s.requireProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if patch.ClientID != nil {
		if _, err := s.requireClient(ctx, userID, *patch.ClientID); err != nil {
			return nil, err
		}
		project.ClientID = *patch.ClientID
	}
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, errValidation("name must not be empty", []FieldError{{Field: "name", Message: "must not be empty"}})
		}
		project.Name = *patch.Name
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Status != nil {
		if _, ok := projectStatuses[*patch.Status]; !ok {
			return nil, errValidation("unknown status", []FieldError{{Field: "status", Message: "unknown status"}})
		}
		project.Status = *patch.Status
	}
	if patch.Progress != nil {
		if *patch.Progress < 0 || *patch.Progress > 100 {
			return nil, errValidation("progress must be between 0 and 100", []FieldError{{Field: "progress", Message: "out of range"}})
		}
		project.Progress = *patch.Progress
	}
	if patch.DueDate != nil {
		project.DueDate = patch.DueDate
	}

	project, err = s.store.UpdateProject(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if err := s.logActivity(ctx, userID, &project.ID, &project.ClientID, "project_updated", fmt.Sprintf("Project %s was updated", project.Name)); err != nil {
		return nil, err
	}
	return projectPayload(project), nil
}

// DeleteProject removes only the project row. Its tasks, files and
// estimates are not touched.
func (s *Service) DeleteProject(ctx context.Context, userID, projectID int64) error {
	project, err := s.requireProject(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteProject(ctx, projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return s.logActivity(ctx, userID, &project.ID, &project.ClientID, "project_deleted", fmt.Sprintf("Project %s was deleted", project.Name))
}

// Tasks

type TaskInput struct {
	ProjectID   int64      `json:"projectId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
}

type TaskPatch struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
}

func (s *Service) ListProjectTasks(ctx context.Context, userID, projectID int64) ([]map[string]any, error) {
	if _, err := s.requireProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	items, err := s.store.ListProjectTasks(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, taskPayload(item))
	}
	return payload, nil
}

func (s *Service) CreateTask(ctx context.Context, userID int64, in TaskInput) (map[string]any, error) {
	var fields []FieldError
	if in.Name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "required"})
	}
	if in.ProjectID == 0 {
		fields = append(fields, FieldError{Field: "projectId", Message: "required"})
	}
	status := in.Status
	if status == "" {
		status = "pending"
	}
	if _, ok := taskStatuses[status]; !ok {
		fields = append(fields, FieldError{Field: "status", Message: "unknown status"})
	}
	if len(fields) > 0 {
		return nil, errValidation("invalid task", fields)
	}

	project, err := s.requireProject(ctx, userID, in.ProjectID)
	if err != nil {
		return nil, err
	}

	task, err := s.store.CreateProjectTask(ctx, store.ProjectTask{
		ProjectID:   in.ProjectID,
		Name:        in.Name,
		Description: in.Description,
		Status:      status,
		DueDate:     in.DueDate,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	if err := s.logActivity(ctx, userID, &project.ID, &project.ClientID, "task_created", fmt.Sprintf("Task %q was created", task.Name)); err != nil {
		return nil, err
	}
	return taskPayload(task), nil
}

// UpdateTask emits task_completed instead of task_updated when the status
// crosses into completed.
func (s *Service) UpdateTask(ctx context.Context, userID, taskID int64, patch TaskPatch) (map[string]any, error) {
	task, project, err := s.requireProjectTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	completing := false
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, errValidation("name must not be empty", []FieldError{{Field: "name", Message: "must not be empty"}})
		}
		task.Name = *patch.Name
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		if _, ok := taskStatuses[*patch.Status]; !ok {
			return nil, errValidation("unknown status", []FieldError{{Field: "status", Message: "unknown status"}})
		}
		completing = task.Status != "completed" && *patch.Status == "completed"
		task.Status = *patch.Status
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}

	task, err = s.store.UpdateProjectTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	activityType, description := "task_updated", fmt.Sprintf("Task %q was updated", task.Name)
	if completing {
		activityType, description = "task_completed", fmt.Sprintf("Task %q was completed", task.Name)
	}
	if err := s.logActivity(ctx, userID, &project.ID, &project.ClientID, activityType, description); err != nil {
		return nil, err
	}
	return taskPayload(task), nil
}

func (s *Service) DeleteTask(ctx context.Context, userID, taskID int64) error {
	task, project, err := s.requireProjectTask(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteProjectTask(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return s.logActivity(ctx, userID, &project.ID, &project.ClientID, "task_deleted", fmt.Sprintf("Task %q was deleted", task.Name))
}
