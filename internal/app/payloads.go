package app

import "github.com/mahmoudabdel098/ClientProjectTracker/internal/store"

// JSON shapes for API responses. The share token is exposed under the
// historical "uuid" key; the password hash never leaves the store layer.

func userPayload(user store.User) map[string]any {
	return map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"fullName": user.FullName,
		"email":    user.Email,
		"planType": user.PlanType,
	}
}

func clientPayload(client store.Client) map[string]any {
	return map[string]any{
		"id":        client.ID,
		"userId":    client.UserID,
		"name":      client.Name,
		"email":     client.Email,
		"phone":     client.Phone,
		"company":   client.Company,
		"createdAt": client.CreatedAt,
	}
}

func projectPayload(project store.Project) map[string]any {
	return map[string]any{
		"id":          project.ID,
		"userId":      project.UserID,
		"clientId":    project.ClientID,
		"name":        project.Name,
		"description": project.Description,
		"status":      project.Status,
		"progress":    project.Progress,
		"dueDate":     project.DueDate,
		"uuid":        project.ShareToken,
		"createdAt":   project.CreatedAt,
	}
}

func taskPayload(task store.ProjectTask) map[string]any {
	return map[string]any{
		"id":          task.ID,
		"projectId":   task.ProjectID,
		"name":        task.Name,
		"description": task.Description,
		"status":      task.Status,
		"dueDate":     task.DueDate,
		"createdAt":   task.CreatedAt,
	}
}

func filePayload(file store.File) map[string]any {
	return map[string]any{
		"id":        file.ID,
		"userId":    file.UserID,
		"projectId": file.ProjectID,
		"name":      file.Name,
		"fileType":  file.FileType,
		"fileSize":  file.FileSize,
		"createdAt": file.CreatedAt,
	}
}

func estimatePayload(estimate store.Estimate) map[string]any {
	return map[string]any{
		"id":          estimate.ID,
		"userId":      estimate.UserID,
		"projectId":   estimate.ProjectID,
		"clientId":    estimate.ClientID,
		"title":       estimate.Title,
		"status":      estimate.Status,
		"totalAmount": estimate.TotalAmount,
		"createdAt":   estimate.CreatedAt,
	}
}

func estimateItemPayload(item store.EstimateItem) map[string]any {
	return map[string]any{
		"id":          item.ID,
		"estimateId":  item.EstimateID,
		"description": item.Description,
		"quantity":    item.Quantity,
		"price":       item.Price,
	}
}

func activityPayload(activity store.Activity) map[string]any {
	return map[string]any{
		"id":          activity.ID,
		"userId":      activity.UserID,
		"projectId":   activity.ProjectID,
		"clientId":    activity.ClientID,
		"type":        activity.Type,
		"description": activity.Description,
		"createdAt":   activity.CreatedAt,
	}
}
