package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by every lookup whose target row does not exist.
// Both backends translate their backend-specific miss into this error.
var ErrNotFound = errors.New("not found")

// Storage is the persistence contract shared by the in-memory and Postgres
// backends. Exactly one backend is selected at process start; the two are
// never mixed at runtime.
type Storage interface {
	// Users
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	UpdateUserPlan(ctx context.Context, id int64, planType string) (User, error)

	// Clients
	ListClients(ctx context.Context, userID int64) ([]Client, error)
	GetClient(ctx context.Context, id int64) (Client, error)
	CreateClient(ctx context.Context, client Client) (Client, error)
	UpdateClient(ctx context.Context, client Client) (Client, error)
	DeleteClient(ctx context.Context, id int64) error

	// Projects
	ListProjects(ctx context.Context, userID int64) ([]Project, error)
	ListProjectsByClient(ctx context.Context, clientID int64) ([]Project, error)
	GetProject(ctx context.Context, id int64) (Project, error)
	GetProjectByShareToken(ctx context.Context, token string) (Project, error)
	CreateProject(ctx context.Context, project Project) (Project, error)
	UpdateProject(ctx context.Context, project Project) (Project, error)
	DeleteProject(ctx context.Context, id int64) error

	// Project tasks
	ListProjectTasks(ctx context.Context, projectID int64) ([]ProjectTask, error)
	GetProjectTask(ctx context.Context, id int64) (ProjectTask, error)
	CreateProjectTask(ctx context.Context, task ProjectTask) (ProjectTask, error)
	UpdateProjectTask(ctx context.Context, task ProjectTask) (ProjectTask, error)
	DeleteProjectTask(ctx context.Context, id int64) error

	// Files
	ListFiles(ctx context.Context, projectID int64) ([]File, error)
	GetFile(ctx context.Context, id int64) (File, error)
	CreateFile(ctx context.Context, file File) (File, error)
	DeleteFile(ctx context.Context, id int64) error

	// Estimates
	ListEstimates(ctx context.Context, userID int64) ([]Estimate, error)
	ListEstimatesByProject(ctx context.Context, projectID int64) ([]Estimate, error)
	GetEstimate(ctx context.Context, id int64) (Estimate, error)
	CreateEstimate(ctx context.Context, estimate Estimate) (Estimate, error)
	UpdateEstimate(ctx context.Context, estimate Estimate) (Estimate, error)
	DeleteEstimate(ctx context.Context, id int64) error

	// Estimate items
	ListEstimateItems(ctx context.Context, estimateID int64) ([]EstimateItem, error)
	CreateEstimateItem(ctx context.Context, item EstimateItem) (EstimateItem, error)
	UpdateEstimateItem(ctx context.Context, item EstimateItem) (EstimateItem, error)
	DeleteEstimateItem(ctx context.Context, id int64) error

	// Activities (append-only)
	ListActivities(ctx context.Context, userID int64, limit int) ([]Activity, error)
	ListActivitiesByProject(ctx context.Context, projectID int64) ([]Activity, error)
	CreateActivity(ctx context.Context, activity Activity) (Activity, error)

	// Refresh sessions. The redis session store can take over these three
	// operations; otherwise they live next to the rest of the data.
	SaveRefreshSession(ctx context.Context, tokenHash string, userID int64, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (int64, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error

	Ping(ctx context.Context) error
}
