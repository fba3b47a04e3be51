package rbac

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleOfficer = "OFFICER"
	RoleManager = "MANAGER"
)

// UserDepartment scopes an officer to a department. An officer with no rows
// has no scope and must be denied report mutations.
type UserDepartment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	DepartmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time
}

func (UserDepartment) TableName() string {
	return "user_departments"
}

type UserRole struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Role      string    `gorm:"type:varchar(30);not null;default:'OFFICER'"`
	CreatedAt time.Time
}

func (UserRole) TableName() string {
	return "user_roles"
}

type RolePermission struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role     string    `gorm:"type:varchar(30);not null;index"`
	Resource string    `gorm:"type:varchar(50);not null"`
	Action   string    `gorm:"type:varchar(50);not null"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}
