package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Document statuses.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
	StatusDeleted  = "deleted"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// User represents a local user account
type User struct {
	BaseModel
	Name         string    `json:"name"`
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"not null;default:staff"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Category represents a document category
type Category struct {
	BaseModel
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"unique;not null"`
	Description string    `json:"description"`
	ParentID    string    `json:"parent_id,omitempty"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Parent *Category `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
}

// Slugify converts a category name into its URL-safe slug
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, char := range slug {
		switch {
		case (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9'):
			b.WriteRune(char)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Document represents an archived document and its stored file
type Document struct {
	BaseModel
	Title          string    `json:"title" gorm:"not null"`
	Description    string    `json:"description"`
	FileName       string    `json:"file_name" gorm:"not null"`
	FilePath       string    `json:"-" gorm:"not null"`
	FileType       string    `json:"file_type"`
	FileSize       int64     `json:"file_size"`
	DocumentNumber string    `json:"document_number" gorm:"unique;not null"`
	DocumentDate   string    `json:"document_date"`
	CategoryID     string    `json:"category_id" gorm:"not null"`
	UploadedByID   string    `json:"uploaded_by" gorm:"not null"`
	Status         string    `json:"status" gorm:"not null;default:active"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Uploader *User     `json:"uploader,omitempty" gorm:"foreignKey:UploadedByID"`
}

// GenerateDocumentNumber generates a document number with UTC datetime format
// Returns: DOC-YYYYMMDDHHmmss-XXXX where XXXX is the tail of a fresh ULID
func GenerateDocumentNumber() string {
	id := ulid.Make().String()
	return fmt.Sprintf("DOC-%s-%s", time.Now().UTC().Format("20060102150405"), id[len(id)-4:])
}

// ActivityLog represents one audit trail entry
type ActivityLog struct {
	BaseModel
	UserID      string `json:"user_id" gorm:"not null"`
	DocumentID  string `json:"document_id,omitempty"`
	Action      string `json:"action" gorm:"not null"`
	Description string `json:"description"`
	IPAddress   string `json:"ip_address"`
	UserAgent   string `json:"user_agent"`

	// Relationships
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Document *Document `json:"document,omitempty" gorm:"foreignKey:DocumentID"`
}

// Notification represents an in-app notification for a user
type Notification struct {
	BaseModel
	UserID  string `json:"-" gorm:"not null;index"`
	Title   string `json:"title" gorm:"not null"`
	Message string `json:"message"`
	IsRead  bool   `json:"is_read" gorm:"not null;default:false"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{}, &Category{}, &Document{}, &ActivityLog{}, &Notification{},
	)
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}
