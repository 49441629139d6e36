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

type RoleRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Role, error)
	FindByCode(ctx context.Context, companyID uint64, code entities.RoleCode) (*entities.Role, error)
	Upsert(ctx context.Context, tx pgx.Tx, role *entities.Role) error
}

type RoleRepository struct {
	storage *pgxpool.Pool
}

func NewRoleRepository(storage *pgxpool.Pool) RoleRepositoryInterface {
	return &RoleRepository{storage: storage}
}

const roleSelect = `
	SELECT id, company_id, name, code, COALESCE(description, ''),
		create_permissions, view_permissions, view_other_permissions,
		edit_other_permissions, delete_other_permissions,
		created_at, updated_at
	FROM roles`

func scanRole(row pgx.Row) (*entities.Role, error) {
	var role entities.Role
	var create, view, viewOther, editOther, deleteOther []string
	err := row.Scan(
		&role.ID, &role.CompanyID, &role.Name, &role.Code, &role.Description,
		&create, &view, &viewOther, &editOther, &deleteOther,
		&role.CreatedAt, &role.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan role: %w", err)
	}
	role.CreatePermissions = toPermissionEntities(create)
	role.ViewPermissions = toPermissionEntities(view)
	role.ViewOtherPermissions = toPermissionEntities(viewOther)
	role.EditOtherPermissions = toPermissionEntities(editOther)
	role.DeleteOtherPermissions = toPermissionEntities(deleteOther)
	return &role, nil
}

// toPermissionEntities drops tags this build does not know about.
func toPermissionEntities(raw []string) []entities.PermissionEntity {
	out := make([]entities.PermissionEntity, 0, len(raw))
	for _, s := range raw {
		if tag := entities.PermissionEntity(s); tag.Valid() {
			out = append(out, tag)
		}
	}
	return out
}

func fromPermissionEntities(tags []entities.PermissionEntity) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, string(t))
	}
	return out
}

func (r *RoleRepository) FindByID(ctx context.Context, id uint64) (*entities.Role, error) {
	return scanRole(r.storage.QueryRow(ctx, roleSelect+` WHERE id = $1`, id))
}

func (r *RoleRepository) FindByCode(ctx context.Context, companyID uint64, code entities.RoleCode) (*entities.Role, error) {
	return scanRole(r.storage.QueryRow(ctx, roleSelect+` WHERE company_id = $1 AND code = $2`, companyID, code))
}

// Upsert creates the role or overwrites its permission lists when a role with
// the same code already exists in the company.
func (r *RoleRepository) Upsert(ctx context.Context, tx pgx.Tx, role *entities.Role) error {
	var q Querier = r.storage
	if tx != nil {
		q = tx
	}
	query := `
		INSERT INTO roles (company_id, name, code, description,
			create_permissions, view_permissions, view_other_permissions,
			edit_other_permissions, delete_other_permissions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (company_id, code) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			create_permissions = EXCLUDED.create_permissions,
			view_permissions = EXCLUDED.view_permissions,
			view_other_permissions = EXCLUDED.view_other_permissions,
			edit_other_permissions = EXCLUDED.edit_other_permissions,
			delete_other_permissions = EXCLUDED.delete_other_permissions,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`
	err := q.QueryRow(ctx, query,
		role.CompanyID, role.Name, role.Code, role.Description,
		fromPermissionEntities(role.CreatePermissions),
		fromPermissionEntities(role.ViewPermissions),
		fromPermissionEntities(role.ViewOtherPermissions),
		fromPermissionEntities(role.EditOtherPermissions),
		fromPermissionEntities(role.DeleteOtherPermissions),
	).Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert role %s: %w", role.Code, err)
	}
	return nil
}
