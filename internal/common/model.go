// File: internal/common/model.go
package common

import (
	"time"
)

// BaseModel defines common fields for GORM models.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}
