package rbac

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	AssignedDepartmentIDs(ctx context.Context, userID string) ([]string, error)
	GetUserRole(ctx context.Context, userID string) (string, error)
	GetRolePermissions(ctx context.Context) ([]RolePermission, error)
	GetUserRoles(ctx context.Context) ([]UserRole, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AssignedDepartmentIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&UserDepartment{}).
		Where("user_id = ?", userID).
		Pluck("department_id", &ids).Error
	return ids, err
}

// GetUserRole defaults to OFFICER when the user has no explicit role row.
func (r *repository) GetUserRole(ctx context.Context, userID string) (string, error) {
	var ur UserRole
	err := r.db.WithContext(ctx).First(&ur, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RoleOfficer, nil
	}
	if err != nil {
		return "", err
	}
	return ur.Role, nil
}

func (r *repository) GetRolePermissions(ctx context.Context) ([]RolePermission, error) {
	var rows []RolePermission
	err := r.db.WithContext(ctx).Find(&rows).Error
	return rows, err
}

func (r *repository) GetUserRoles(ctx context.Context) ([]UserRole, error) {
	var rows []UserRole
	err := r.db.WithContext(ctx).Find(&rows).Error
	return rows, err
}
