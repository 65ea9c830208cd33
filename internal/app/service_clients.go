package app

import (
	"context"
	"fmt"

	"github.com/mahmoudabdel098/ClientProjectTracker/internal/store"
)

type ClientInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

type ClientPatch struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
}

func (s *Service) ListClients(ctx context.Context, userID int64) ([]map[string]any, error) {
	items, err := s.store.ListClients(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, clientPayload(item))
	}
	return payload, nil
}

func (s *Service) GetClient(ctx context.Context, userID, clientID int64) (map[string]any, error) {
	client, err := s.requireClient(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}
	return clientPayload(client), nil
}

func (s *Service) CreateClient(ctx context.Context, userID int64, in ClientInput) (map[string]any, error) {
	if in.Name == "" {
		return nil, errValidation("name is required", []FieldError{{Field: "name", Message: "required"}})
	}
	client, err := s.store.CreateClient(ctx, store.Client{
		UserID:  userID,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Company: in.Company,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	if err := s.logActivity(ctx, userID, nil, &client.ID, "client_created", fmt.Sprintf("Client %s was created", client.Name)); err != nil {
		return nil, err
	}
	return clientPayload(client), nil
}

func (s *Service) UpdateClient(ctx context.Context, userID, clientID int64, patch ClientPatch) (map[string]any, error) {
	client, err := s.requireClient(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, errValidation("name must not be empty", []FieldError{{Field: "name", Message: "must not be empty"}})
		}
		client.Name = *patch.Name
	}
	if patch.Email != nil {
		client.Email = *patch.Email
	}
	if patch.Phone != nil {
		client.Phone = *patch.Phone
	}
	if patch.Company != nil {
		client.Company = *patch.Company
	}

	client, err = s.store.UpdateClient(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	if err := s.logActivity(ctx, userID, nil, &client.ID, "client_updated", fmt.Sprintf("Client %s was updated", client.Name)); err != nil {
		return nil, err
	}
	return clientPayload(client), nil
}

// DeleteClient removes the client and every project under it. Tasks, files
// and estimates of those projects are left in place; only the project rows
// themselves cascade.
func (s *Service) DeleteClient(ctx context.Context, userID, clientID int64) error {
	client, err := s.requireClient(ctx, userID, clientID)
	if err != nil {
		return err
	}

	projects, err := s.store.ListProjectsByClient(ctx, clientID)
	if err != nil {
		return fmt.Errorf("list client projects: %w", err)
	}
	for _, project := range projects {
		if err := s.store.DeleteProject(ctx, project.ID); err != nil {
			return fmt.Errorf("delete project %d: %w", project.ID, err)
		}
	}

	if err := s.store.DeleteClient(ctx, clientID); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	// The client row is gone; its activity record carries no client id.
	return s.logActivity(ctx, userID, nil, nil, "client_deleted", fmt.Sprintf("Client %s was deleted", client.Name))
}
