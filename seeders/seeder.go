package seeders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"
)

// Options describe the company and first administrator to create.
type Options struct {
	CompanyName   string
	PlanCode      string
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// RoleInvalidator drops cached role snapshots so signed-in users pick up
// reseeded permissions on their next request.
type RoleInvalidator interface {
	InvalidateRole(ctx context.Context, roleID uint64) error
}

type Seeder struct {
	companies repositories.CompanyRepositoryInterface
	roles     repositories.RoleRepositoryInterface
	users     repositories.UserRepositoryInterface
	tx        repositories.TxManagerInterface
	sessions  RoleInvalidator
	logger    *zap.Logger
}

func New(pool *pgxpool.Pool, redisClient *redis.Client, logger *zap.Logger) *Seeder {
	companies := repositories.NewCompanyRepository(pool)
	roles := repositories.NewRoleRepository(pool)
	users := repositories.NewUserRepository(pool, logger)
	return &Seeder{
		companies: companies,
		roles:     roles,
		users:     users,
		tx:        repositories.NewTxManager(pool),
		sessions: services.NewSessionService(users, roles, companies,
			repositories.NewRedisCacheRepository(redisClient), logger, 0),
		logger: logger,
	}
}

// Run is idempotent: an existing admin e-mail only refreshes the company's
// default roles.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	if email == "" || opts.AdminPassword == "" {
		return fmt.Errorf("seed: admin email and password are required")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.logger.Info("seed: admin already exists, refreshing roles", zap.Uint64("companyID", existing.CompanyID))
		var roleIDs map[entities.RoleCode]uint64
		err := s.tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
			var err error
			roleIDs, err = s.seedRoles(ctx, tx, existing.CompanyID)
			return err
		})
		if err != nil {
			return fmt.Errorf("seed: refresh roles: %w", err)
		}
		s.invalidateRoles(ctx, roleIDs)
		return nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("seed: lookup admin: %w", err)
	}

	var companyID, adminRoleID uint64
	err = s.tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.companies.Create(ctx, tx, opts.CompanyName, opts.PlanCode)
		if err != nil {
			return err
		}
		companyID = id

		roleIDs, err := s.seedRoles(ctx, tx, companyID)
		if err != nil {
			return err
		}
		adminRoleID = roleIDs[entities.RoleAdmin]
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed: company and roles: %w", err)
	}

	hash, err := utils.HashPassword(opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}
	admin := &entities.User{
		CompanyID: companyID,
		RoleID:    adminRoleID,
		FirstName: opts.AdminName,
		Email:     email,
		Enabled:   true,
		Password:  hash,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("seed: admin user: %w", err)
	}

	s.logger.Info("seed: done",
		zap.Uint64("companyID", companyID),
		zap.Uint64("adminID", admin.ID),
		zap.String("email", email),
	)
	return nil
}

func (s *Seeder) seedRoles(ctx context.Context, tx pgx.Tx, companyID uint64) (map[entities.RoleCode]uint64, error) {
	ids := make(map[entities.RoleCode]uint64)
	for _, role := range DefaultRoles(companyID) {
		if err := s.roles.Upsert(ctx, tx, &role); err != nil {
			return nil, fmt.Errorf("upsert role %s: %w", role.Code, err)
		}
		ids[role.Code] = role.ID
		s.logger.Debug("seed: role ready", zap.String("code", string(role.Code)), zap.Uint64("roleID", role.ID))
	}
	return ids, nil
}

// invalidateRoles runs after the commit. A failure only delays the new
// permissions until the cached snapshot expires.
func (s *Seeder) invalidateRoles(ctx context.Context, roleIDs map[entities.RoleCode]uint64) {
	for code, id := range roleIDs {
		if err := s.sessions.InvalidateRole(ctx, id); err != nil {
			s.logger.Warn("seed: cannot invalidate cached role",
				zap.String("code", string(code)), zap.Uint64("roleID", id), zap.Error(err))
		}
	}
}
