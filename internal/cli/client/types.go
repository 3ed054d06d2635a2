package client

import "time"

// User roles understood by the client.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User represents a user account as returned by the backend.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user has the admin role. It is the only way
// admin status is derived; there is no separately stored flag.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Category represents a document category.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ParentID    string    `json:"parent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Document represents an archived document's metadata.
type Document struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	FileName       string    `json:"file_name"`
	FileType       string    `json:"file_type"`
	FileSize       int64     `json:"file_size"`
	DocumentNumber string    `json:"document_number"`
	DocumentDate   string    `json:"document_date"`
	CategoryID     string    `json:"category_id"`
	UploadedByID   string    `json:"uploaded_by"`
	Status         string    `json:"status"`
	Category       *Category `json:"category,omitempty"`
	Uploader       *User     `json:"uploader,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ActivityLog represents one audit trail entry.
type ActivityLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DocumentID  string    `json:"document_id,omitempty"`
	Action      string    `json:"action"`
	Description string    `json:"description,omitempty"`
	IPAddress   string    `json:"ip_address,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	User        *User     `json:"user,omitempty"`
	Document    *Document `json:"document,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Notification represents an in-app notification for the current user.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
