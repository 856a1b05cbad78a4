package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"gorm.io/gorm"
)

// User represents a staff member operating the till
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Username  string         `gorm:"size:150;unique;not null" json:"username"`
	FullName  string         `gorm:"size:255" json:"full_name"`
	Password  string         `gorm:"size:255" json:"-"`
	Role      enum.Role      `gorm:"size:20;not null;default:'cashier'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
