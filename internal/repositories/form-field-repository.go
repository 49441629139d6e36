package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/internal/entities"
)

type FormFieldRepositoryInterface interface {
	FindByEntity(ctx context.Context, companyID uint64, entity entities.PermissionEntity) ([]entities.FormField, error)
}

type FormFieldRepository struct {
	storage *pgxpool.Pool
}

func NewFormFieldRepository(storage *pgxpool.Pool) FormFieldRepositoryInterface {
	return &FormFieldRepository{storage: storage}
}

// FindByEntity returns the company's fields, falling back to the global
// defaults (company_id IS NULL) when the company has not customised the form.
func (r *FormFieldRepository) FindByEntity(ctx context.Context, companyID uint64, entity entities.PermissionEntity) ([]entities.FormField, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("id", "COALESCE(company_id, 0)", "entity", "name", "label", "type", "required", "position").
		From("form_fields").
		Where(sq.Eq{"entity": string(entity)}).
		Where(sq.Expr(`company_id IS NOT DISTINCT FROM (
			SELECT MAX(company_id) FROM form_fields WHERE entity = ? AND (company_id = ? OR company_id IS NULL))`,
			string(entity), companyID)).
		OrderBy("position", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build form fields query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find form fields: %w", err)
	}
	defer rows.Close()

	fields := make([]entities.FormField, 0)
	for rows.Next() {
		var f entities.FormField
		if err := rows.Scan(&f.ID, &f.CompanyID, &f.Entity, &f.Name, &f.Label, &f.Type, &f.Required, &f.Position); err != nil {
			return nil, fmt.Errorf("scan form field: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}
