package rbac

import (
	"context"
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	AssignedDepartmentIDs(ctx context.Context, userID string) ([]string, error)
	IsManager(ctx context.Context, userID string) (bool, error)
	Enforce(ctx context.Context, req EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
	}
}

func (s *service) AssignedDepartmentIDs(ctx context.Context, userID string) ([]string, error) {
	return s.repo.AssignedDepartmentIDs(ctx, userID)
}

func (s *service) IsManager(ctx context.Context, userID string) (bool, error) {
	role, err := s.repo.GetUserRole(ctx, userID)
	if err != nil {
		return false, err
	}
	return role == RoleManager, nil
}

func (s *service) loadPolicyUnlocked(ctx context.Context) error {
	s.enforcer.ClearPolicy()

	userRoles, err := s.repo.GetUserRoles(ctx)
	if err != nil {
		return err
	}
	for _, ur := range userRoles {
		if _, err := s.enforcer.AddGroupingPolicy(ur.UserID.String(), ur.Role); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(ctx)
	if err != nil {
		return err
	}
	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.Role, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	zap.L().Named("rbac.service").Debug("policy loaded",
		zap.Int("user_roles", len(userRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)
	return nil
}

func (s *service) Enforce(ctx context.Context, req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadPolicyUnlocked(ctx); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.UserID, req.Resource, req.Action)
	if err != nil {
		return false, err
	}

	zap.L().Named("rbac.service").Debug("enforce result",
		zap.String("user_id", req.UserID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
