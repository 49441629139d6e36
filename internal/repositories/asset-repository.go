package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/infrastructure/bd"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

const assetTable = "assets"

var AssetSchema = bd.Schema{
	Table: assetTable + " a",
	Columns: map[string]string{
		"id":           "a.id",
		"customId":     "a.custom_id",
		"name":         "a.name",
		"description":  "a.description",
		"status":       "a.status",
		"location":     "a.location_id",
		"serialNumber": "a.serial_number",
		"model":        "a.model",
		"createdBy":    "a.created_by",
		"createdAt":    "a.created_at",
		"updatedAt":    "a.updated_at",
	},
	TextFields:    []string{"name", "description", "customId", "serialNumber", "model"},
	DefaultSort:   "a.id",
	CompanyColumn: "a.company_id",
	DeletedColumn: "a.deleted_at",
}

var assetColumns = []string{
	"a.id", "a.company_id", "a.custom_id", "a.name", "a.description", "a.status",
	"a.location_id", "a.serial_number", "a.model", "a.created_by",
	"a.created_at", "a.updated_at", "a.deleted_at",
}

type AssetRepositoryInterface interface {
	Search(ctx context.Context, companyID uint64, criteria types.SearchCriteria) ([]entities.Asset, uint64, error)
	FindByID(ctx context.Context, companyID, id uint64) (*entities.Asset, error)
	Create(ctx context.Context, asset *entities.Asset) error
	Update(ctx context.Context, asset *entities.Asset) error
	SoftDelete(ctx context.Context, companyID, id uint64) error
}

type AssetRepository struct {
	storage *pgxpool.Pool
}

func NewAssetRepository(storage *pgxpool.Pool) AssetRepositoryInterface {
	return &AssetRepository{storage: storage}
}

func scanAsset(row pgx.Row) (*entities.Asset, error) {
	var a entities.Asset
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.CustomID, &a.Name, &a.Description, &a.Status,
		&a.LocationID, &a.SerialNumber, &a.Model, &a.CreatedBy,
		&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan asset: %w", err)
	}
	return &a, nil
}

func (r *AssetRepository) Search(ctx context.Context, companyID uint64, criteria types.SearchCriteria) ([]entities.Asset, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := psql.Select("COUNT(a.id)").From(AssetSchema.Table).Where(AssetSchema.Scope(companyID))
	countBuilder = bd.ApplyFilters(countBuilder, criteria, AssetSchema)

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build asset count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count assets: %w", err)
	}
	if total == 0 {
		return []entities.Asset{}, 0, nil
	}

	builder := psql.Select(assetColumns...).From(AssetSchema.Table).Where(AssetSchema.Scope(companyID))
	builder = bd.ApplyFilters(builder, criteria, AssetSchema)
	builder = bd.ApplyPaging(builder, criteria, AssetSchema)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build asset search: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search assets: %w", err)
	}
	defer rows.Close()

	assets := make([]entities.Asset, 0, criteria.PageSize)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, 0, err
		}
		assets = append(assets, *a)
	}
	return assets, total, rows.Err()
}

func (r *AssetRepository) FindByID(ctx context.Context, companyID, id uint64) (*entities.Asset, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(assetColumns...).From(AssetSchema.Table).
		Where(AssetSchema.Scope(companyID)).
		Where(sq.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build asset query: %w", err)
	}
	return scanAsset(r.storage.QueryRow(ctx, query, args...))
}

func (r *AssetRepository) Create(ctx context.Context, asset *entities.Asset) error {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert(assetTable).
		Columns("company_id", "name", "description", "status", "location_id", "serial_number", "model", "created_by").
		Values(asset.CompanyID, asset.Name, asset.Description, asset.Status, asset.LocationID, asset.SerialNumber, asset.Model, asset.CreatedBy).
		Suffix("RETURNING id, custom_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build asset insert: %w", err)
	}
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&asset.ID, &asset.CustomID, &asset.CreatedAt, &asset.UpdatedAt); err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

func (r *AssetRepository) Update(ctx context.Context, asset *entities.Asset) error {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Update(assetTable).
		SetMap(map[string]interface{}{
			"name":          asset.Name,
			"description":   asset.Description,
			"status":        asset.Status,
			"location_id":   asset.LocationID,
			"serial_number": asset.SerialNumber,
			"model":         asset.Model,
			"updated_at":    sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": asset.ID, "company_id": asset.CompanyID, "deleted_at": nil}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build asset update: %w", err)
	}
	err = r.storage.QueryRow(ctx, query, args...).Scan(&asset.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update asset %d: %w", asset.ID, err)
	}
	return nil
}

func (r *AssetRepository) SoftDelete(ctx context.Context, companyID, id uint64) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE `+assetTable+` SET deleted_at = NOW() WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`,
		id, companyID,
	)
	if err != nil {
		return fmt.Errorf("delete asset %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
