package store

import "time"

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	PlanType     string
}

type Client struct {
	ID        int64
	UserID    int64
	Name      string
	Email     string
	Phone     string
	Company   string
	CreatedAt time.Time
}

type Project struct {
	ID          int64
	UserID      int64
	ClientID    int64
	Name        string
	Description string
	Status      string
	Progress    int
	DueDate     *time.Time
	// ShareToken is the sole credential for anonymous read access.
	// Assigned once at creation, never updated afterwards.
	ShareToken string
	CreatedAt  time.Time
}

type ProjectTask struct {
	ID          int64
	ProjectID   int64
	Name        string
	Description string
	Status      string
	DueDate     *time.Time
	CreatedAt   time.Time
}

// File carries the owning user id denormalized from the parent project so
// ownership checks on downloads and deletes need a single lookup.
type File struct {
	ID        int64
	UserID    int64
	ProjectID int64
	Name      string
	FileType  string
	FileSize  int64
	BlobKey   string
	CreatedAt time.Time
}

type Estimate struct {
	ID          int64
	UserID      int64
	ProjectID   int64
	ClientID    int64
	Title       string
	Status      string
	TotalAmount int64
	CreatedAt   time.Time
}

type EstimateItem struct {
	ID          int64
	EstimateID  int64
	Description string
	Quantity    int64
	Price       int64
}

type Activity struct {
	ID          int64
	UserID      int64
	ProjectID   *int64
	ClientID    *int64
	Type        string
	Description string
	CreatedAt   time.Time
}
