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

type CompanyRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Company, error)
	Create(ctx context.Context, tx pgx.Tx, name, planCode string) (uint64, error)
}

type CompanyRepository struct {
	storage *pgxpool.Pool
}

func NewCompanyRepository(storage *pgxpool.Pool) CompanyRepositoryInterface {
	return &CompanyRepository{storage: storage}
}

// FindByID loads the company with its plan. An expired subscription keeps
// the plan code but exposes no features.
func (r *CompanyRepository) FindByID(ctx context.Context, id uint64) (*entities.Company, error) {
	query := `
		SELECT c.id, c.name, c.subscription_activated_at, c.subscription_ends_on,
			p.code, p.name,
			CASE WHEN c.subscription_ends_on IS NULL OR c.subscription_ends_on > NOW()
				THEN p.features ELSE '{}'::text[] END
		FROM companies c
		JOIN subscription_plans p ON p.code = c.plan_code
		WHERE c.id = $1`

	var c entities.Company
	var features []string
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Subscription.ActivatedAt, &c.Subscription.EndsOn,
		&c.Subscription.Plan.Code, &c.Subscription.Plan.Name, &features,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find company %d: %w", id, err)
	}

	c.Subscription.Plan.Features = make([]entities.PlanFeature, 0, len(features))
	for _, f := range features {
		c.Subscription.Plan.Features = append(c.Subscription.Plan.Features, entities.PlanFeature(f))
	}
	return &c, nil
}

func (r *CompanyRepository) Create(ctx context.Context, tx pgx.Tx, name, planCode string) (uint64, error) {
	var q Querier = r.storage
	if tx != nil {
		q = tx
	}
	var id uint64
	err := q.QueryRow(ctx,
		`INSERT INTO companies (name, plan_code, subscription_activated_at) VALUES ($1, $2, NOW()) RETURNING id`,
		name, planCode,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert company: %w", err)
	}
	return id, nil
}
