package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Identity
// ============================================================

// User represents users table
type User struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	DisplayName string    `gorm:"size:100;not null" json:"display_name"`
	Email       string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	Role        string    `gorm:"size:20;not null;default:'user'" json:"role"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserResponse DTO
type UserResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}

// ============================================================
// Catalog
// ============================================================

// Course represents courses table; CreatorID is the only identity allowed to mutate it
type Course struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Price       float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string         `gorm:"size:500;not null" json:"image_url"`
	ImageHandle string         `gorm:"size:255" json:"-"`
	CreatorID   string         `gorm:"size:36;index;not null" json:"creator_id"`
	Creator     *User          `gorm:"foreignKey:CreatorID" json:"-"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Purchase represents purchases table.
// The composite unique index is what guarantees one purchase per (user, course).
type Purchase struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_purchases_user_course" json:"user_id"`
	CourseID  string    `gorm:"size:36;not null;uniqueIndex:idx_purchases_user_course" json:"course_id"`
	Course    *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Purchase) TableName() string {
	return "purchases"
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// CartItem represents cart_items table (wishlist)
type CartItem struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_cart_items_user_course" json:"user_id"`
	CourseID  string    `gorm:"size:36;not null;uniqueIndex:idx_cart_items_user_course" json:"course_id"`
	Course    *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == "" {
		ci.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Upload bookkeeping
// ============================================================

// PendingImageDeletion is an uploaded image whose delete failed and must be retried
type PendingImageDeletion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Handle    string    `gorm:"size:255;not null;index" json:"handle"`
	Reason    string    `gorm:"size:50;not null" json:"reason"`
	Attempts  int       `gorm:"not null;default:0" json:"attempts"`
	LastError string    `gorm:"type:text" json:"last_error"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PendingImageDeletion) TableName() string {
	return "pending_image_deletions"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Course{},
		&Purchase{},
		&CartItem{},
		&PendingImageDeletion{},
	); err != nil {
		return err
	}

	if stmt := emailCollationSQL(db.Dialector.Name()); stmt != "" {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("set email collation: %w", err)
		}
	}
	return nil
}

// emailCollationSQL returns the statement that makes users.email compare
// case-sensitively, or "" when the dialect already does (sqlite).
// MySQL's default collations are case-insensitive for both the unique index
// and WHERE email = ?.
func emailCollationSQL(dialect string) string {
	if dialect != "mysql" {
		return ""
	}
	return "ALTER TABLE users MODIFY email VARCHAR(100) NOT NULL COLLATE utf8mb4_bin"
}
