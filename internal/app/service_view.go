package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/mahmoudabdel098/ClientProjectTracker/internal/store"
)

// ProjectView resolves a share token into the read-only project aggregate
// served to anonymous visitors: the project, its client, tasks, files,
// estimates with items, and the project activity feed. Everything in the
// payload belongs to the single project the token names.
func (s *Service) ProjectView(ctx context.Context, shareToken string) (map[string]any, error) {
	project, err := s.store.GetProjectByShareToken(ctx, shareToken)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errNotFound("Project")
	}
	if err != nil {
		return nil, fmt.Errorf("resolve share token: %w", err)
	}

	payload := map[string]any{
		"project": projectPayload(project),
		"client":  nil,
	}

	// A client row can be missing after a partial cascade; the view stays
	// serveable with a null client.
	client, err := s.store.GetClient(ctx, project.ClientID)
	if err == nil {
		payload["client"] = clientPayload(client)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get client: %w", err)
	}

	tasks, err := s.store.ListProjectTasks(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	taskPayloads := make([]map[string]any, 0, len(tasks))
	for _, task := range tasks {
		taskPayloads = append(taskPayloads, taskPayload(task))
	}
	payload["tasks"] = taskPayloads

	files, err := s.store.ListFiles(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	filePayloads := make([]map[string]any, 0, len(files))
	for _, file := range files {
		filePayloads = append(filePayloads, filePayload(file))
	}
	payload["files"] = filePayloads

	estimates, err := s.store.ListEstimatesByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	estimatePayloads := make([]map[string]any, 0, len(estimates))
	for _, estimate := range estimates {
		withItems, err := s.estimateWithItems(ctx, estimate)
		if err != nil {
			return nil, err
		}
		estimatePayloads = append(estimatePayloads, withItems)
	}
	payload["estimates"] = estimatePayloads

	activities, err := s.store.ListActivitiesByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	activityPayloads := make([]map[string]any, 0, len(activities))
	for _, activity := range activities {
		activityPayloads = append(activityPayloads, activityPayload(activity))
	}
	payload["activities"] = activityPayloads

	return payload, nil
}
