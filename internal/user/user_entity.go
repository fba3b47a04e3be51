package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account directory for officers and managers. Authentication
// lives elsewhere; this service only needs identities and display names.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:text;not null;uniqueIndex"`
	IsActive  bool      `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
