package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mahmoudabdel098/ClientProjectTracker/internal/auth"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/authpw"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/blob"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/store"
	"github.com/sirupsen/logrus"
)

// sessionStore holds refresh sessions. The main store implements it; the
// redis store can be swapped in via NewWithSessionStore.
type sessionStore interface {
	SaveRefreshSession(ctx context.Context, tokenHash string, userID int64, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (int64, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
}

type Service struct {
	store      store.Storage
	sessions   sessionStore
	blobs      blob.Store
	tokens     *auth.Manager
	accounts   *authpw.Service
	refreshTTL time.Duration
	log        *logrus.Logger
}

func New(storage store.Storage, blobs blob.Store, tokens *auth.Manager, accounts *authpw.Service, refreshTTL time.Duration, log *logrus.Logger) *Service {
	return NewWithSessionStore(storage, storage, blobs, tokens, accounts, refreshTTL, log)
}

func NewWithSessionStore(storage store.Storage, sessions sessionStore, blobs blob.Store, tokens *auth.Manager, accounts *authpw.Service, refreshTTL time.Duration, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		store:      storage,
		sessions:   sessions,
		blobs:      blobs,
		tokens:     tokens,
		accounts:   accounts,
		refreshTTL: refreshTTL,
		log:        log,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Principal

type PrincipalKind int

const (
	// PrincipalNone carries no credentials at all.
	PrincipalNone PrincipalKind = iota
	// PrincipalOwner is an authenticated user acting on their own data.
	PrincipalOwner
	// PrincipalAnonymous holds a project share token and nothing else.
	PrincipalAnonymous
)

type Principal struct {
	Kind       PrincipalKind
	UserID     int64
	Username   string
	ShareToken string
}

// PrincipalFromToken resolves a bearer token into an owner principal.
func (s *Service) PrincipalFromToken(ctx context.Context, token string) (Principal, error) {
	userID, username, err := s.tokens.ParseAccessToken(token)
	if err != nil {
		return Principal{}, err
	}
	return Principal{Kind: PrincipalOwner, UserID: userID, Username: username}, nil
}

// Sessions

type Session struct {
	Token        string
	RefreshToken string
	UserID       int64
	Username     string
	ExpiresAt    time.Time
}

func (s *Service) Register(ctx context.Context, req authpw.RegisterRequest) (Session, error) {
	user, err := s.accounts.Register(ctx, req)
	if errors.Is(err, authpw.ErrUsernameTaken) {
		return Session{}, errConflict("Username already taken")
	}
	if err != nil {
		var domainErr *DomainError
		if errors.As(err, &domainErr) {
			return Session{}, err
		}
		return Session{}, errValidation(err.Error(), nil)
	}
	return s.issueSession(ctx, user)
}

func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	user, err := s.accounts.Authenticate(ctx, username, password)
	if errors.Is(err, authpw.ErrInvalidCredentials) {
		return Session{}, domainError(401, "UNAUTHORIZED", "Invalid username or password", nil)
	}
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

// Refresh rotates the refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	hash := auth.HashToken(refreshToken)
	userID, err := s.sessions.LookupRefreshSession(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, errUnauthorized()
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup refresh session: %w", err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, errUnauthorized()
	}
	if err != nil {
		return Session{}, fmt.Errorf("load user: %w", err)
	}

	if err := s.sessions.RevokeRefreshSession(ctx, hash); err != nil {
		return Session{}, fmt.Errorf("revoke refresh session: %w", err)
	}
	return s.issueSession(ctx, user)
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	accessToken, expiresAt, err := s.tokens.IssueAccessToken(user.ID, user.Username)
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}
	rawRefresh, refreshHash, err := auth.NewRefreshToken()
	if err != nil {
		return Session{}, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.sessions.SaveRefreshSession(ctx, refreshHash, user.ID, time.Now().Add(s.refreshTTL)); err != nil {
		return Session{}, fmt.Errorf("save refresh session: %w", err)
	}
	return Session{
		Token:        accessToken,
		RefreshToken: rawRefresh,
		UserID:       user.ID,
		Username:     user.Username,
		ExpiresAt:    expiresAt,
	}, nil
}

// Me returns the profile of the authenticated user.
func (s *Service) Me(ctx context.Context, userID int64) (map[string]any, error) {
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errUnauthorized()
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return userPayload(user), nil
}

var planTypes = map[string]struct{}{
	"free":     {},
	"pro":      {},
	"business": {},
}

// UpdatePlan changes the plan tier, the only mutable user field.
func (s *Service) UpdatePlan(ctx context.Context, userID int64, planType string) (map[string]any, error) {
	if _, ok := planTypes[planType]; !ok {
		return nil, errValidation("planType must be one of free, pro, business", []FieldError{{Field: "planType", Message: "unknown plan"}})
	}
	user, err := s.store.UpdateUserPlan(ctx, userID, planType)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errUnauthorized()
	}
	if err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	return userPayload(user), nil
}

// Ownership guards. Each guard looks the row up first, so a missing id reads
// as 404 to everyone and 403 only to authenticated non-owners of a real row.

func (s *Service) requireClient(ctx context.Context, userID, clientID int64) (store.Client, error) {
	client, err := s.store.GetClient(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Client{}, errNotFound("Client")
	}
	if err != nil {
		return store.Client{}, fmt.Errorf("get client: %w", err)
	}
	if client.UserID != userID {
		return store.Client{}, errForbidden()
	}
	return client, nil
}

func (s *Service) requireProject(ctx context.Context, userID, projectID int64) (store.Project, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Project{}, errNotFound("Project")
	}
	if err != nil {
		return store.Project{}, fmt.Errorf("get project: %w", err)
	}
	if project.UserID != userID {
		return store.Project{}, errForbidden()
	}
	return project, nil
}

// requireProjectTask authorizes through the parent project, since tasks do
// not carry an owner of their own.
func (s *Service) requireProjectTask(ctx context.Context, userID, taskID int64) (store.ProjectTask, store.Project, error) {
	task, err := s.store.GetProjectTask(ctx, taskID)
	if errors.Is(err, store.ErrNotFound) {
		return store.ProjectTask{}, store.Project{}, errNotFound("Task")
	}
	if err != nil {
		return store.ProjectTask{}, store.Project{}, fmt.Errorf("get task: %w", err)
	}
	project, err := s.requireProject(ctx, userID, task.ProjectID)
	if err != nil {
		return store.ProjectTask{}, store.Project{}, err
	}
	return task, project, nil
}

func (s *Service) requireFile(ctx context.Context, userID, fileID int64) (store.File, error) {
	file, err := s.store.GetFile(ctx, fileID)
	if errors.Is(err, store.ErrNotFound) {
		return store.File{}, errNotFound("File")
	}
	if err != nil {
		return store.File{}, fmt.Errorf("get file: %w", err)
	}
	if file.UserID != userID {
		return store.File{}, errForbidden()
	}
	return file, nil
}

func (s *Service) requireEstimate(ctx context.Context, userID, estimateID int64) (store.Estimate, error) {
	estimate, err := s.store.GetEstimate(ctx, estimateID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Estimate{}, errNotFound("Estimate")
	}
	if err != nil {
		return store.Estimate{}, fmt.Errorf("get estimate: %w", err)
	}
	if estimate.UserID != userID {
		return store.Estimate{}, errForbidden()
	}
	return estimate, nil
}

// Activity log

func (s *Service) logActivity(ctx context.Context, userID int64, projectID, clientID *int64, activityType, description string) error {
	_, err := s.store.CreateActivity(ctx, store.Activity{
		UserID:      userID,
		ProjectID:   projectID,
		ClientID:    clientID,
		Type:        activityType,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("log activity: %w", err)
	}
	return nil
}

func (s *Service) ListActivities(ctx context.Context, userID int64, limit int) ([]map[string]any, error) {
	items, err := s.store.ListActivities(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, activityPayload(item))
	}
	return payload, nil
}

func (s *Service) ListProjectActivities(ctx context.Context, userID, projectID int64) ([]map[string]any, error) {
	if _, err := s.requireProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	items, err := s.store.ListActivitiesByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project activities: %w", err)
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, activityPayload(item))
	}
	return payload, nil
}

type ActivityInput struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	ProjectID   *int64 `json:"projectId"`
	ClientID    *int64 `json:"clientId"`
}

// CreateActivity appends a manual entry to the caller's feed.
func (s *Service) CreateActivity(ctx context.Context, userID int64, in ActivityInput) (map[string]any, error) {
	if in.Type == "" {
		return nil, errValidation("type is required", []FieldError{{Field: "type", Message: "required"}})
	}
	activity, err := s.store.CreateActivity(ctx, store.Activity{
		UserID:      userID,
		ProjectID:   in.ProjectID,
		ClientID:    in.ClientID,
		Type:        in.Type,
		Description: in.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	return activityPayload(activity), nil
}
