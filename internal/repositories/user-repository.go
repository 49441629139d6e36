package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/infrastructure/bd"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

const userTable = "users"

var UserSchema = bd.Schema{
	Table: userTable + " u",
	Columns: map[string]string{
		"id":        "u.id",
		"firstName": "u.first_name",
		"lastName":  "u.last_name",
		"email":     "u.email",
		"phone":     "u.phone",
		"jobTitle":  "u.job_title",
		"roleId":    "u.role_id",
		"enabled":   "u.enabled",
		"createdBy": "u.created_by",
		"createdAt": "u.created_at",
		"updatedAt": "u.updated_at",
	},
	TextFields:    []string{"firstName", "lastName", "email", "jobTitle"},
	DefaultSort:   "u.id",
	CompanyColumn: "u.company_id",
	DeletedColumn: "u.deleted_at",
}

var userColumns = []string{
	"u.id", "u.company_id", "u.role_id", "u.first_name", "u.last_name", "u.email",
	"u.phone", "u.job_title", "u.enabled", "u.created_by", "u.password",
	"u.created_at", "u.updated_at", "u.deleted_at",
}

type UserRepositoryInterface interface {
	Search(ctx context.Context, companyID uint64, criteria types.SearchCriteria) ([]entities.User, uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByIDs(ctx context.Context, q Querier, ids []uint64) ([]entities.User, error)
	Create(ctx context.Context, user *entities.User) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID, &u.CompanyID, &u.RoleID, &u.FirstName, &u.LastName, &u.Email,
		&u.Phone, &u.JobTitle, &u.Enabled, &u.CreatedBy, &u.Password,
		&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Search(ctx context.Context, companyID uint64, criteria types.SearchCriteria) ([]entities.User, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := psql.Select("COUNT(u.id)").From(UserSchema.Table).Where(UserSchema.Scope(companyID))
	countBuilder = bd.ApplyFilters(countBuilder, criteria, UserSchema)

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build user count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	builder := psql.Select(userColumns...).From(UserSchema.Table).Where(UserSchema.Scope(companyID))
	builder = bd.ApplyFilters(builder, criteria, UserSchema)
	builder = bd.ApplyPaging(builder, criteria, UserSchema)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build user search: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0, criteria.PageSize)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) findOne(ctx context.Context, where sq.Sqlizer) (*entities.User, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(userColumns...).From(UserSchema.Table).
		Where(where).Where(sq.Eq{"u.deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}
	return scanUser(r.storage.QueryRow(ctx, query, args...))
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"u.id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, sq.Expr("LOWER(u.email) = LOWER(?)", email))
}

// FindByIDs keeps the order of ids and skips ids that do not exist or are
// soft-deleted.
func (r *UserRepository) FindByIDs(ctx context.Context, q Querier, ids []uint64) ([]entities.User, error) {
	if len(ids) == 0 {
		return []entities.User{}, nil
	}
	if q == nil {
		q = r.storage
	}
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(userColumns...).From(UserSchema.Table).
		Where(sq.Eq{"u.id": ids, "u.deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build users by ids: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find users by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[uint64]entities.User, len(ids))
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		byID[u.ID] = *u
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	users := make([]entities.User, 0, len(byID))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert(userTable).
		Columns("company_id", "role_id", "first_name", "last_name", "email", "phone", "job_title", "enabled", "created_by", "password").
		Values(user.CompanyID, user.RoleID, user.FirstName, user.LastName, user.Email, user.Phone, user.JobTitle, user.Enabled, user.CreatedBy, user.Password).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build user insert: %w", err)
	}
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	r.logger.Info("user created", zap.Uint64("userID", user.ID), zap.Uint64("companyID", user.CompanyID))
	return nil
}
