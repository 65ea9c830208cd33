package app

import (
	"context"
	"fmt"

	"github.com/mahmoudabdel098/ClientProjectTracker/internal/store"
)

var estimateStatuses = map[string]struct{}{
	"draft":    {},
	"sent":     {},
	"approved": {},
	"rejected": {},
}

type EstimateItemInput struct {
	ID          *int64 `json:"id"`
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	Price       int64  `json:"price"`
}

type EstimateInput struct {
	ProjectID   int64               `json:"projectId"`
	ClientID    int64               `json:"clientId"`
	Title       string              `json:"title"`
	Status      string              `json:"status"`
	TotalAmount int64               `json:"totalAmount"`
	Items       []EstimateItemInput `json:"items"`
}

type EstimatePatch struct {
	Title       *string              `json:"title"`
	Status      *string              `json:"status"`
	TotalAmount *int64               `json:"totalAmount"`
	Items       *[]EstimateItemInput `json:"items"`
}

// ListEstimates returns the caller's estimates, optionally narrowed to one
// project.
func (s *Service) ListEstimates(ctx context.Context, userID int64, projectID *int64) ([]map[string]any, error) {
	var items []store.Estimate
	var err error
	if projectID != nil {
		if _, err := s.requireProject(ctx, userID, *projectID); err != nil {
			return nil, err
		}
		items, err = s.store.ListEstimatesByProject(ctx, *projectID)
	} else {
		items, err = s.store.ListEstimates(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, estimatePayload(item))
	}
	return payload, nil
}

// GetEstimate returns the estimate with its line items embedded.
func (s *Service) GetEstimate(ctx context.Context, userID, estimateID int64) (map[string]any, error) {
	estimate, err := s.requireEstimate(ctx, userID, estimateID)
	if err != nil {
		return nil, err
	}
	return s.estimateWithItems(ctx, estimate)
}

func (s *Service) estimateWithItems(ctx context.Context, estimate store.Estimate) (map[string]any, error) {
	items, err := s.store.ListEstimateItems(ctx, estimate.ID)
	if err != nil {
		return nil, fmt.Errorf("list estimate items: %w", err)
	}
	itemPayloads := make([]map[string]any, 0, len(items))
	for _, item := range items {
		itemPayloads = append(itemPayloads, estimateItemPayload(item))
	}
	payload := estimatePayload(estimate)
	payload["items"] = itemPayloads
	return payload, nil
}

func (s *Service) CreateEstimate(ctx context.Context, userID int64, in EstimateInput) (map[string]any, error) {
	var fields []FieldError
	if in.Title == "" {
		fields = append(fields, FieldError{Field: "title", Message: "required"})
	}
	if in.ProjectID == 0 {
		fields = append(fields, FieldError{Field: "projectId", Message: "required"})
	}
	if in.ClientID == 0 {
		fields = append(fields, FieldError{Field: "clientId", Message: "required"})
	}
	status := in.Status
	if status == "" {
		status = "draft"
	}
	if _, ok := estimateStatuses[status]; !ok {
		fields = append(fields, FieldError{Field: "status", Message: "unknown status"})
	}
	if len(fields) > 0 {
		return nil, errValidation("invalid estimate", fields)
	}

	project, err := s.requireProject(ctx, userID, in.ProjectID)
	if err != nil {
		return nil, err
	}
	// The client id comes from the request, not from the project, and is
	// ownership-checked on its own.
	if _, err := s.requireClient(ctx, userID, in.ClientID); err != nil {
		return nil, err
	}

	estimate, err := s.store.CreateEstimate(ctx, store.Estimate{
		UserID:      userID,
		ProjectID:   project.ID,
		ClientID:    in.ClientID,
		Title:       in.Title,
		Status:      status,
		TotalAmount: in.TotalAmount,
	})
	if err != nil {
		return nil, fmt.Errorf("create estimate: %w", err)
	}

	for _, item := range in.Items {
		if _, err := s.store.CreateEstimateItem(ctx, store.EstimateItem{
			EstimateID:  estimate.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}); err != nil {
			return nil, fmt.Errorf("create estimate item: %w", err)
		}
	}

	if err := s.logActivity(ctx, userID, &estimate.ProjectID, &estimate.ClientID, "estimate_created", fmt.Sprintf("Estimate %s was created", estimate.Title)); err != nil {
		return nil, err
	}
	return s.estimateWithItems(ctx, estimate)
}

// UpdateEstimate merges scalar fields and, when items are supplied,
// reconciles them against the stored set: items with a known id are updated
// in place, items without an id are inserted, and stored items absent from
// the payload are deleted. The parent totalAmount is only ever what the
// caller sent; it is not recomputed from items.
func (s *Service) UpdateEstimate(ctx context.Context, userID, estimateID int64, patch EstimatePatch) (map[string]any, error) {
	estimate, err := s.requireEstimate(ctx, userID, estimateID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, errValidation("title must not be empty", []FieldError{{Field: "title", Message: "must not be empty"}})
		}
		estimate.Title = *patch.Title
	}
	if patch.Status != nil {
		if _, ok := estimateStatuses[*patch.Status]; !ok {
			return nil, errValidation("unknown status", []FieldError{{Field: "status", Message: "unknown status"}})
		}
		estimate.Status = *patch.Status
	}
	if patch.TotalAmount != nil {
		estimate.TotalAmount = *patch.TotalAmount
	}

	estimate, err = s.store.UpdateEstimate(ctx, estimate)
	if err != nil {
		return nil, fmt.Errorf("update estimate: %w", err)
	}

	if patch.Items != nil {
		if err := s.reconcileItems(ctx, estimate.ID, *patch.Items); err != nil {
			return nil, err
		}
	}

	if err := s.logActivity(ctx, userID, &estimate.ProjectID, &estimate.ClientID, "estimate_updated", fmt.Sprintf("Estimate %s was updated", estimate.Title)); err != nil {
		return nil, err
	}
	return s.estimateWithItems(ctx, estimate)
}

func (s *Service) reconcileItems(ctx context.Context, estimateID int64, incoming []EstimateItemInput) error {
	current, err := s.store.ListEstimateItems(ctx, estimateID)
	if err != nil {
		return fmt.Errorf("list estimate items: %w", err)
	}
	existing := make(map[int64]struct{}, len(current))
	for _, item := range current {
		existing[item.ID] = struct{}{}
	}

	kept := make(map[int64]struct{}, len(incoming))
	for _, item := range incoming {
		if item.ID == nil {
			if _, err := s.store.CreateEstimateItem(ctx, store.EstimateItem{
				EstimateID:  estimateID,
				Description: item.Description,
				Quantity:    item.Quantity,
				Price:       item.Price,
			}); err != nil {
				return fmt.Errorf("create estimate item: %w", err)
			}
			continue
		}
		// An unknown id means the caller is pointing at an item outside
		// this estimate; reject rather than adopt it.
		if _, ok := existing[*item.ID]; !ok {
			return errNotFound("Estimate item")
		}
		if _, err := s.store.UpdateEstimateItem(ctx, store.EstimateItem{
			ID:          *item.ID,
			EstimateID:  estimateID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}); err != nil {
			return fmt.Errorf("update estimate item: %w", err)
		}
		kept[*item.ID] = struct{}{}
	}

	for _, item := range current {
		if _, ok := kept[item.ID]; !ok {
			if err := s.store.DeleteEstimateItem(ctx, item.ID); err != nil {
				return fmt.Errorf("delete estimate item: %w", err)
			}
		}
	}
	return nil
}

// DeleteEstimate removes the line items first, then the estimate itself.
func (s *Service) DeleteEstimate(ctx context.Context, userID, estimateID int64) error {
	estimate, err := s.requireEstimate(ctx, userID, estimateID)
	if err != nil {
		return err
	}

	items, err := s.store.ListEstimateItems(ctx, estimateID)
	if err != nil {
		return fmt.Errorf("list estimate items: %w", err)
	}
	for _, item := range items {
		if err := s.store.DeleteEstimateItem(ctx, item.ID); err != nil {
			return fmt.Errorf("delete estimate item: %w", err)
		}
	}

	if err := s.store.DeleteEstimate(ctx, estimateID); err != nil {
		return fmt.Errorf("delete estimate: %w", err)
	}
	return s.logActivity(ctx, userID, &estimate.ProjectID, &estimate.ClientID, "estimate_deleted", fmt.Sprintf("Estimate %s was deleted", estimate.Title))
}
