package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps everything in process memory. Id allocation is a set of
// monotonic counters local to the instance, mirroring what the database
// sequences do for the Postgres backend.
type MemoryStore struct {
	mu sync.RWMutex

	users         map[int64]User
	clients       map[int64]Client
	projects      map[int64]Project
	tasks         map[int64]ProjectTask
	files         map[int64]File
	estimates     map[int64]Estimate
	estimateItems map[int64]EstimateItem
	activities    map[int64]Activity
	sessions      map[string]refreshSession

	nextUserID         int64
	nextClientID       int64
	nextProjectID      int64
	nextTaskID         int64
	nextFileID         int64
	nextEstimateID     int64
	nextEstimateItemID int64
	nextActivityID     int64
}

type refreshSession struct {
	userID    int64
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[int64]User),
		clients:       make(map[int64]Client),
		projects:      make(map[int64]Project),
		tasks:         make(map[int64]ProjectTask),
		files:         make(map[int64]File),
		estimates:     make(map[int64]Estimate),
		estimateItems: make(map[int64]EstimateItem),
		activities:    make(map[int64]Activity),
		sessions:      make(map[string]refreshSession),
	}
}

// Users

func (s *MemoryStore) GetUser(_ context.Context, id int64) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *MemoryStore) CreateUser(_ context.Context, user User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	user.ID = s.nextUserID
	s.users[user.ID] = user
	return user, nil
}

func (s *MemoryStore) UpdateUserPlan(_ context.Context, id int64, planType string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	user.PlanType = planType
	s.users[id] = user
	return user, nil
}

// Clients

func (s *MemoryStore) ListClients(_ context.Context, userID int64) ([]Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Client, 0)
	for _, client := range s.clients {
		if client.UserID == userID {
			items = append(items, client)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (s *MemoryStore) GetClient(_ context.Context, id int64) (Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	client, ok := s.clients[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	return client, nil
}

func (s *MemoryStore) CreateClient(_ context.Context, client Client) (Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextClientID++
	client.ID = s.nextClientID
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now()
	}
	s.clients[client.ID] = client
	return client, nil
}

func (s *MemoryStore) UpdateClient(_ context.Context, client Client) (Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[client.ID]; !ok {
		return Client{}, ErrNotFound
	}
	s.clients[client.ID] = client
	return client, nil
}

func (s *MemoryStore) DeleteClient(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[id]; !ok {
		return ErrNotFound
	}
	delete(s.clients, id)
	return nil
}

// Projects

func (s *MemoryStore) ListProjects(_ context.Context, userID int64) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Project, 0)
	for _, project := range s.projects {
		if project.UserID == userID {
			items = append(items, project)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (s *MemoryStore) ListProjectsByClient(_ context.Context, clientID int64) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Project, 0)
	for _, project := range s.projects {
		if project.ClientID == clientID {
			items = append(items, project)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (s *MemoryStore) GetProject(_ context.Context, id int64) (Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	return project, nil
}

func (s *MemoryStore) GetProjectByShareToken(_ context.Context, token string) (Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, project := range s.projects {
		if project.ShareToken == token {
			return project, nil
		}
	}
	return Project{}, ErrNotFound
}

func (s *MemoryStore) CreateProject(_ context.Context, project Project) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProjectID++
	project.ID = s.nextProjectID
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now()
	}
	s.projects[project.ID] = project
	return project, nil
}

func (s *MemoryStore) UpdateProject(_ context.Context, project Project) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[project.ID]; !ok {
		return Project{}, ErrNotFound
	}
	s.projects[project.ID] = project
	return project, nil
}

func (s *MemoryStore) DeleteProject(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

// Project tasks

func (s *MemoryStore) ListProjectTasks(_ context.Context, projectID int64) ([]ProjectTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ProjectTask, 0)
	for _, task := range s.tasks {
		if task.ProjectID == projectID {
			items = append(items, task)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (s *MemoryStore) GetProjectTask(_ context.Context, id int64) (ProjectTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return ProjectTask{}, ErrNotFound
	}
	return task, nil
}

func (s *MemoryStore) CreateProjectTask(_ context.Context, task ProjectTask) (ProjectTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTaskID++
	task.ID = s.nextTaskID
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	s.tasks[task.ID] = task
	return task, nil
}

func (s *MemoryStore) UpdateProjectTask(_ context.Context, task ProjectTask) (ProjectTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return ProjectTask{}, ErrNotFound
	}
	s.tasks[task.ID] = task
	return task, nil
}

func (s *MemoryStore) DeleteProjectTask(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// Files

func (s *MemoryStore) ListFiles(_ context.Context, projectID int64) ([]File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]File, 0)
	for _, file := range s.files {
		if file.ProjectID == projectID {
			items = append(items, file)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (s *MemoryStore) GetFile(_ context.Context, id int64) (File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	file, ok := s.files[id]
	if !ok {
		return File{}, ErrNotFound
	}
	return file, nil
}

func (s *MemoryStore) CreateFile(_ context.Context, file File) (File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextFileID++
	file.ID = s.nextFileID
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now()
	}
	s.files[file.ID] = file
	return file, nil
}

func (s *MemoryStore) DeleteFile(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return ErrNotFound
	}
	delete(s.files, id)
	return nil
}

// Estimates

func (s *MemoryStore) ListEstimates(_ context.Context, userID int64) ([]Estimate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Estimate, 0)
	for _, estimate := range s.estimates {
		if estimate.UserID == userID {
			items = append(items, estimate)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (s *MemoryStore) ListEstimatesByProject(_ context.Context, projectID int64) ([]Estimate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Estimate, 0)
	for _, estimate := range s.estimates {
		if estimate.ProjectID == projectID {
			items = append(items, estimate)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (s *MemoryStore) GetEstimate(_ context.Context, id int64) (Estimate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	estimate, ok := s.estimates[id]
	if !ok {
		return Estimate{}, ErrNotFound
	}
	return estimate, nil
}

func (s *MemoryStore) CreateEstimate(_ context.Context, estimate Estimate) (Estimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEstimateID++
	estimate.ID = s.nextEstimateID
	if estimate.CreatedAt.IsZero() {
		estimate.CreatedAt = time.Now()
	}
	s.estimates[estimate.ID] = estimate
	return estimate, nil
}

func (s *MemoryStore) UpdateEstimate(_ context.Context, estimate Estimate) (Estimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.estimates[estimate.ID]; !ok {
		return Estimate{}, ErrNotFound
	}
	s.estimates[estimate.ID] = estimate
	return estimate, nil
}

func (s *MemoryStore) DeleteEstimate(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.estimates[id]; !ok {
		return ErrNotFound
	}
	delete(s.estimates, id)
	return nil
}

// Estimate items

func (s *MemoryStore) ListEstimateItems(_ context.Context, estimateID int64) ([]EstimateItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]EstimateItem, 0)
	for _, item := range s.estimateItems {
		if item.EstimateID == estimateID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *MemoryStore) CreateEstimateItem(_ context.Context, item EstimateItem) (EstimateItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEstimateItemID++
	item.ID = s.nextEstimateItemID
	s.estimateItems[item.ID] = item
	return item, nil
}

func (s *MemoryStore) UpdateEstimateItem(_ context.Context, item EstimateItem) (EstimateItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.estimateItems[item.ID]; !ok {
		return EstimateItem{}, ErrNotFound
	}
	s.estimateItems[item.ID] = item
	return item, nil
}

func (s *MemoryStore) DeleteEstimateItem(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.estimateItems[id]; !ok {
		return ErrNotFound
	}
	delete(s.estimateItems, id)
	return nil
}

// Activities

func (s *MemoryStore) ListActivities(_ context.Context, userID int64, limit int) ([]Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Activity, 0)
	for _, activity := range s.activities {
		if activity.UserID == userID {
			items = append(items, activity)
		}
	}
	sortActivities(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *MemoryStore) ListActivitiesByProject(_ context.Context, projectID int64) ([]Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Activity, 0)
	for _, activity := range s.activities {
		if activity.ProjectID != nil && *activity.ProjectID == projectID {
			items = append(items, activity)
		}
	}
	sortActivities(items)
	return items, nil
}

func (s *MemoryStore) CreateActivity(_ context.Context, activity Activity) (Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextActivityID++
	activity.ID = s.nextActivityID
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	s.activities[activity.ID] = activity
	return activity, nil
}

// Most recent first. Ids break ties because in-process appends can land on
// the same timestamp.
func sortActivities(items []Activity) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// Refresh sessions

func (s *MemoryStore) SaveRefreshSession(_ context.Context, tokenHash string, userID int64, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[tokenHash] = refreshSession{userID: userID, expiresAt: expiresAt}
	return nil
}

func (s *MemoryStore) LookupRefreshSession(_ context.Context, tokenHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[tokenHash]
	if !ok {
		return 0, ErrNotFound
	}
	if time.Now().After(session.expiresAt) {
		delete(s.sessions, tokenHash)
		return 0, ErrNotFound
	}
	return session.userID, nil
}

func (s *MemoryStore) RevokeRefreshSession(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenHash)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
