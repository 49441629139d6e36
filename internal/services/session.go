package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
)

type SessionServiceInterface interface {
	Resolve(ctx context.Context, userID uint64) (*authz.Session, error)
	GetRole(ctx context.Context, roleID uint64) (*entities.Role, error)
	InvalidateRole(ctx context.Context, roleID uint64) error
}

type SessionService struct {
	userRepo    repositories.UserRepositoryInterface
	roleRepo    repositories.RoleRepositoryInterface
	companyRepo repositories.CompanyRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	logger      *zap.Logger
	cacheTTL    time.Duration
}

func NewSessionService(
	userRepo repositories.UserRepositoryInterface,
	roleRepo repositories.RoleRepositoryInterface,
	companyRepo repositories.CompanyRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cacheTTL time.Duration,
) SessionServiceInterface {
	return &SessionService{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		companyRepo: companyRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
		cacheTTL:    cacheTTL,
	}
}

func roleCacheKey(roleID uint64) string {
	return fmt.Sprintf("session:role:%d", roleID)
}

// Resolve loads the user, their role snapshot and their company. A user that
// no longer exists or is disabled is treated as signed out.
func (s *SessionService) Resolve(ctx context.Context, userID uint64) (*authz.Session, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("user %d: %w", userID, apperrors.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	if !user.Enabled {
		return nil, apperrors.ErrUserDisabled
	}

	role, err := s.GetRole(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindByID(ctx, user.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("load company %d: %w", user.CompanyID, err)
	}

	return authz.NewSession(user, role, company), nil
}

// GetRole reads through the cache. Cache failures are logged and never fail
// the request.
func (s *SessionService) GetRole(ctx context.Context, roleID uint64) (*entities.Role, error) {
	key := roleCacheKey(roleID)

	cached, errGet := s.cacheRepo.Get(ctx, key)
	switch {
	case errGet == nil:
		var role entities.Role
		if err := json.Unmarshal([]byte(cached), &role); err == nil {
			s.logger.Debug("role snapshot served from cache", zap.Uint64("roleID", roleID))
			return &role, nil
		} else {
			s.logger.Warn("corrupt role snapshot in cache", zap.String("key", key), zap.Error(err))
		}
	case errors.Is(errGet, repositories.ErrCacheMiss):
		s.logger.Debug("role snapshot not cached", zap.Uint64("roleID", roleID))
	default:
		s.logger.Warn("role cache unavailable", zap.Uint64("roleID", roleID), zap.Error(errGet))
	}

	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("load role %d: %w", roleID, err)
	}

	if raw, err := json.Marshal(role); err != nil {
		s.logger.Error("cannot encode role snapshot", zap.Uint64("roleID", roleID), zap.Error(err))
	} else if err := s.cacheRepo.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		s.logger.Warn("cannot cache role snapshot", zap.Uint64("roleID", roleID), zap.Error(err))
	}
	return role, nil
}

func (s *SessionService) InvalidateRole(ctx context.Context, roleID uint64) error {
	if err := s.cacheRepo.Del(ctx, roleCacheKey(roleID)); err != nil {
		s.logger.Error("role cache invalidation failed", zap.Uint64("roleID", roleID), zap.Error(err))
		return err
	}
	s.logger.Info("role cache invalidated", zap.Uint64("roleID", roleID))
	return nil
}
