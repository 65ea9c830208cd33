package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// Users

func (s *PostgresStore) GetUser(ctx context.Context, id int64) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, full_name, email, plan_type
		FROM users
		WHERE id=$1
	`, id).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.FullName, &user.Email, &user.PlanType)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, full_name, email, plan_type
		FROM users
		WHERE username=$1
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.FullName, &user.Email, &user.PlanType)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user User) (User, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, full_name, email, plan_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, user.Username, user.PasswordHash, user.FullName, user.Email, user.PlanType).Scan(&user.ID)
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) UpdateUserPlan(ctx context.Context, id int64, planType string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET plan_type=$2
		WHERE id=$1
		RETURNING id, username, password_hash, full_name, email, plan_type
	`, id, planType).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.FullName, &user.Email, &user.PlanType)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("update user plan: %w", err)
	}
	return user, nil
}

// Clients

func (s *PostgresStore) ListClients(ctx context.Context, userID int64) ([]Client, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, email, phone, company, created_at
		FROM clients
		WHERE user_id=$1
		ORDER BY id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	items := make([]Client, 0)
	for rows.Next() {
		var item Client
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Email, &item.Phone, &item.Company, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetClient(ctx context.Context, id int64) (Client, error) {
	var item Client
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, email, phone, company, created_at
		FROM clients
		WHERE id=$1
	`, id).Scan(&item.ID, &item.UserID, &item.Name, &item.Email, &item.Phone, &item.Company, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	if err != nil {
		return Client{}, fmt.Errorf("get client: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) CreateClient(ctx context.Context, client Client) (Client, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO clients (user_id, name, email, phone, company)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, client.UserID, client.Name, client.Email, client.Phone, client.Company).Scan(&client.ID, &client.CreatedAt)
	if err != nil {
		return Client{}, fmt.Errorf("insert client: %w", err)
	}
	return client, nil
}

func (s *PostgresStore) UpdateClient(ctx context.Context, client Client) (Client, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE clients
		SET name=$2, email=$3, phone=$4, company=$5
		WHERE id=$1
	`, client.ID, client.Name, client.Email, client.Phone, client.Company)
	if err != nil {
		return Client{}, fmt.Errorf("update client: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return Client{}, ErrNotFound
	}
	return client, nil
}

func (s *PostgresStore) DeleteClient(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Projects

const projectColumns = `id, user_id, client_id, name, description, status, progress, due_date, share_token, created_at`

func scanProject(row interface{ Scan(...any) error }) (Project, error) {
	var item Project
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.ClientID,
		&item.Name,
		&item.Description,
		&item.Status,
		&item.Progress,
		&item.DueDate,
		&item.ShareToken,
		&item.CreatedAt,
	)
	return item, err
}

func (s *PostgresStore) ListProjects(ctx context.Context, userID int64) ([]Project, error) {
	return s.queryProjects(ctx, `SELECT `+projectColumns+` FROM projects WHERE user_id=$1 ORDER BY id DESC`, userID)
}

func (s *PostgresStore) ListProjectsByClient(ctx context.Context, clientID int64) ([]Project, error) {
	return s.queryProjects(ctx, `SELECT `+projectColumns+` FROM projects WHERE client_id=$1 ORDER BY id DESC`, clientID)
}

func (s *PostgresStore) queryProjects(ctx context.Context, query string, arg any) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	items := make([]Project, 0)
	for rows.Next() {
		item, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetProject(ctx context.Context, id int64) (Project, error) {
	item, err := scanProject(s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, fmt.Errorf("get project: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) GetProjectByShareToken(ctx context.Context, token string) (Project, error) {
	item, err := scanProject(s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE share_token=$1`, token))
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, fmt.Errorf("get project by share token: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) CreateProject(ctx context.Context, project Project) (Project, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO projects (user_id, client_id, name, description, status, progress, due_date, share_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, project.UserID, project.ClientID, project.Name, project.Description, project.Status,
		project.Progress, project.DueDate, project.ShareToken).Scan(&project.ID, &project.CreatedAt)
	if err != nil {
		return Project{}, fmt.Errorf("insert project: %w", err)
	}
	return project, nil
}

func (s *PostgresStore) UpdateProject(ctx context.Context, project Project) (Project, error) {
	// share_token is deliberately absent from the SET list.
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects
		SET client_id=$2, name=$3, description=$4, status=$5, progress=$6, due_date=$7
		WHERE id=$1
	`, project.ID, project.ClientID, project.Name, project.Description, project.Status, project.Progress, project.DueDate)
	if err != nil {
		return Project{}, fmt.Errorf("update project: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return Project{}, ErrNotFound
	}
	return project, nil
}

func (s *PostgresStore) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Project tasks

func (s *PostgresStore) ListProjectTasks(ctx context.Context, projectID int64) ([]ProjectTask, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, name, description, status, due_date, created_at
		FROM project_tasks
		WHERE project_id=$1
		ORDER BY id DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project tasks: %w", err)
	}
	defer rows.Close()

	items := make([]ProjectTask, 0)
	for rows.Next() {
		var item ProjectTask
		if err := rows.Scan(&item.ID, &item.ProjectID, &item.Name, &item.Description, &item.Status, &item.DueDate, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project task: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project tasks: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetProjectTask(ctx context.Context, id int64) (ProjectTask, error) {
	var item ProjectTask
	err := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, name, description, status, due_date, created_at
		FROM project_tasks
		WHERE id=$1
	`, id).Scan(&item.ID, &item.ProjectID, &item.Name, &item.Description, &item.Status, &item.DueDate, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ProjectTask{}, ErrNotFound
	}
	if err != nil {
		return ProjectTask{}, fmt.Errorf("get project task: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) CreateProjectTask(ctx context.Context, task ProjectTask) (ProjectTask, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO project_tasks (project_id, name, description, status, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, task.ProjectID, task.Name, task.Description, task.Status, task.DueDate).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return ProjectTask{}, fmt.Errorf("insert project task: %w", err)
	}
	return task, nil
}

func (s *PostgresStore) UpdateProjectTask(ctx context.Context, task ProjectTask) (ProjectTask, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE project_tasks
		SET name=$2, description=$3, status=$4, due_date=$5
		WHERE id=$1
	`, task.ID, task.Name, task.Description, task.Status, task.DueDate)
	if err != nil {
		return ProjectTask{}, fmt.Errorf("update project task: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ProjectTask{}, ErrNotFound
	}
	return task, nil
}

func (s *PostgresStore) DeleteProjectTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM project_tasks WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete project task: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Files

func (s *PostgresStore) ListFiles(ctx context.Context, projectID int64) ([]File, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, project_id, name, file_type, file_size, blob_key, created_at
		FROM files
		WHERE project_id=$1
		ORDER BY id DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	items := make([]File, 0)
	for rows.Next() {
		var item File
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProjectID, &item.Name, &item.FileType, &item.FileSize, &item.BlobKey, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetFile(ctx context.Context, id int64) (File, error) {
	var item File
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, project_id, name, file_type, file_size, blob_key, created_at
		FROM files
		WHERE id=$1
	`, id).Scan(&item.ID, &item.UserID, &item.ProjectID, &item.Name, &item.FileType, &item.FileSize, &item.BlobKey, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return File{}, ErrNotFound
	}
	if err != nil {
		return File{}, fmt.Errorf("get file: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) CreateFile(ctx context.Context, file File) (File, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO files (user_id, project_id, name, file_type, file_size, blob_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, file.UserID, file.ProjectID, file.Name, file.FileType, file.FileSize, file.BlobKey).Scan(&file.ID, &file.CreatedAt)
	if err != nil {
		return File{}, fmt.Errorf("insert file: %w", err)
	}
	return file, nil
}

func (s *PostgresStore) DeleteFile(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Estimates

func (s *PostgresStore) ListEstimates(ctx context.Context, userID int64) ([]Estimate, error) {
	return s.queryEstimates(ctx, `
		SELECT id, user_id, project_id, client_id, title, status, total_amount, created_at
		FROM estimates
		WHERE user_id=$1
		ORDER BY id DESC
	`, userID)
}

func (s *PostgresStore) ListEstimatesByProject(ctx context.Context, projectID int64) ([]Estimate, error) {
	return s.queryEstimates(ctx, `
		SELECT id, user_id, project_id, client_id, title, status, total_amount, created_at
		FROM estimates
		WHERE project_id=$1
		ORDER BY id DESC
	`, projectID)
}

func (s *PostgresStore) queryEstimates(ctx context.Context, query string, arg any) ([]Estimate, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	defer rows.Close()

	items := make([]Estimate, 0)
	for rows.Next() {
		var item Estimate
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProjectID, &item.ClientID, &item.Title, &item.Status, &item.TotalAmount, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan estimate: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate estimates: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetEstimate(ctx context.Context, id int64) (Estimate, error) {
	var item Estimate
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, project_id, client_id, title, status, total_amount, created_at
		FROM estimates
		WHERE id=$1
	`, id).Scan(&item.ID, &item.UserID, &item.ProjectID, &item.ClientID, &item.Title, &item.Status, &item.TotalAmount, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Estimate{}, ErrNotFound
	}
	if err != nil {
		return Estimate{}, fmt.Errorf("get estimate: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) CreateEstimate(ctx context.Context, estimate Estimate) (Estimate, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO estimates (user_id, project_id, client_id, title, status, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, estimate.UserID, estimate.ProjectID, estimate.ClientID, estimate.Title, estimate.Status, estimate.TotalAmount).
		Scan(&estimate.ID, &estimate.CreatedAt)
	if err != nil {
		return Estimate{}, fmt.Errorf("insert estimate: %w", err)
	}
	return estimate, nil
}

func (s *PostgresStore) UpdateEstimate(ctx context.Context, estimate Estimate) (Estimate, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE estimates
		SET title=$2, status=$3, total_amount=$4
		WHERE id=$1
	`, estimate.ID, estimate.Title, estimate.Status, estimate.TotalAmount)
	if err != nil {
		return Estimate{}, fmt.Errorf("update estimate: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return Estimate{}, ErrNotFound
	}
	return estimate, nil
}

func (s *PostgresStore) DeleteEstimate(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM estimates WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete estimate: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Estimate items

func (s *PostgresStore) ListEstimateItems(ctx context.Context, estimateID int64) ([]EstimateItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, estimate_id, description, quantity, price
		FROM estimate_items
		WHERE estimate_id=$1
		ORDER BY id
	`, estimateID)
	if err != nil {
		return nil, fmt.Errorf("list estimate items: %w", err)
	}
	defer rows.Close()

	items := make([]EstimateItem, 0)
	for rows.Next() {
		var item EstimateItem
		if err := rows.Scan(&item.ID, &item.EstimateID, &item.Description, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan estimate item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate estimate items: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) CreateEstimateItem(ctx context.Context, item EstimateItem) (EstimateItem, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO estimate_items (estimate_id, description, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, item.EstimateID, item.Description, item.Quantity, item.Price).Scan(&item.ID)
	if err != nil {
		return EstimateItem{}, fmt.Errorf("insert estimate item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) UpdateEstimateItem(ctx context.Context, item EstimateItem) (EstimateItem, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE estimate_items
		SET description=$2, quantity=$3, price=$4
		WHERE id=$1
	`, item.ID, item.Description, item.Quantity, item.Price)
	if err != nil {
		return EstimateItem{}, fmt.Errorf("update estimate item: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return EstimateItem{}, ErrNotFound
	}
	return item, nil
}

func (s *PostgresStore) DeleteEstimateItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM estimate_items WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete estimate item: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Activities

func (s *PostgresStore) ListActivities(ctx context.Context, userID int64, limit int) ([]Activity, error) {
	query := `
		SELECT id, user_id, project_id, client_id, type, description, created_at
		FROM activities
		WHERE user_id=$1
		ORDER BY created_at DESC, id DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	return s.queryActivities(ctx, query, args...)
}

func (s *PostgresStore) ListActivitiesByProject(ctx context.Context, projectID int64) ([]Activity, error) {
	return s.queryActivities(ctx, `
		SELECT id, user_id, project_id, client_id, type, description, created_at
		FROM activities
		WHERE project_id=$1
		ORDER BY created_at DESC, id DESC
	`, projectID)
}

func (s *PostgresStore) queryActivities(ctx context.Context, query string, args ...any) ([]Activity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	items := make([]Activity, 0)
	for rows.Next() {
		var item Activity
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProjectID, &item.ClientID, &item.Type, &item.Description, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) CreateActivity(ctx context.Context, activity Activity) (Activity, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO activities (user_id, project_id, client_id, type, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, activity.UserID, activity.ProjectID, activity.ClientID, activity.Type, activity.Description).
		Scan(&activity.ID, &activity.CreatedAt)
	if err != nil {
		return Activity{}, fmt.Errorf("insert activity: %w", err)
	}
	return activity, nil
}

// Refresh sessions

func (s *PostgresStore) SaveRefreshSession(ctx context.Context, tokenHash string, userID int64, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO UPDATE SET user_id=EXCLUDED.user_id, expires_at=EXCLUDED.expires_at, revoked_at=NULL
	`, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) LookupRefreshSession(ctx context.Context, tokenHash string) (int64, error) {
	var userID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM refresh_sessions
		WHERE token_hash=$1
			AND revoked_at IS NULL
			AND expires_at > NOW()
	`, tokenHash).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup refresh session: %w", err)
	}
	return userID, nil
}

func (s *PostgresStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE refresh_sessions SET revoked_at=NOW() WHERE token_hash=$1`, tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
