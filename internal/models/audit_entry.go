package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditEntry is the persisted form of an audit record.
type AuditEntry struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Seq        uint64         `gorm:"not null;index" json:"seq"`
	TenantID   string         `gorm:"size:50;not null;index" json:"tenant_id"`
	UserID     string         `gorm:"size:36;index" json:"user_id"`
	Action     string         `gorm:"size:100;not null;index" json:"action"`
	Resource   string         `gorm:"size:100" json:"resource"`
	ResourceID string         `gorm:"size:100" json:"resource_id"`
	Details    datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"details"`
	IPAddress  string         `gorm:"size:45" json:"ip_address"`
	UserAgent  string         `gorm:"size:255" json:"user_agent"`
	Timestamp  time.Time      `gorm:"not null;index" json:"timestamp"`
	CreatedAt  time.Time      `json:"created_at"`
}
