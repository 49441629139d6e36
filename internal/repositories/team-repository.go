package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
)

type TeamRepositoryInterface interface {
	FindByID(ctx context.Context, companyID, id uint64) (*entities.Team, error)
}

type TeamRepository struct {
	storage *pgxpool.Pool
	users   UserRepositoryInterface
}

func NewTeamRepository(storage *pgxpool.Pool, users UserRepositoryInterface) TeamRepositoryInterface {
	return &TeamRepository{storage: storage, users: users}
}

// FindByID only returns teams of companyID; a team of another company is
// reported as not found.
func (r *TeamRepository) FindByID(ctx context.Context, companyID, id uint64) (*entities.Team, error) {
	var t entities.Team
	err := r.storage.QueryRow(ctx,
		`SELECT id, company_id, name, COALESCE(description, ''), created_by, created_at, updated_at
		FROM teams WHERE id = $1 AND company_id = $2`, id, companyID,
	).Scan(&t.ID, &t.CompanyID, &t.Name, &t.Description, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find team %d: %w", id, err)
	}

	rows, err := r.storage.Query(ctx, `SELECT user_id FROM team_users WHERE team_id = $1 ORDER BY user_id`, id)
	if err != nil {
		return nil, fmt.Errorf("find team members: %w", err)
	}
	memberIDs, err := pgx.CollectRows(rows, pgx.RowTo[uint64])
	if err != nil {
		return nil, fmt.Errorf("scan team members: %w", err)
	}

	if t.Users, err = r.users.FindByIDs(ctx, r.storage, memberIDs); err != nil {
		return nil, err
	}
	return &t, nil
}
