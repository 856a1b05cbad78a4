package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is a before/after snapshot of a business action
type AuditLog struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	UserID       *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Timestamp    time.Time         `gorm:"not null;index;autoCreateTime" json:"timestamp"`
	Action       string            `gorm:"size:50;not null" json:"action"`
	Model        string            `gorm:"size:100;not null" json:"model"`
	PreviousData datatypes.JSONMap `json:"previous_data,omitempty"`
	NewData      datatypes.JSONMap `json:"new_data,omitempty"`
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
