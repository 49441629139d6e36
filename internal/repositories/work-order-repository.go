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

const (
	workOrderTable          = "work_orders"
	workOrderAssigneesTable = "work_order_assignees"
)

var WorkOrderSchema = bd.Schema{
	Table: workOrderTable + " wo",
	Columns: map[string]string{
		"id":          "wo.id",
		"customId":    "wo.custom_id",
		"title":       "wo.title",
		"description": "wo.description",
		"status":      "wo.status",
		"priority":    "wo.priority",
		"dueDate":     "wo.due_date",
		"asset":       "wo.asset_id",
		"location":    "wo.location_id",
		"primaryUser": "wo.primary_user_id",
		"team":        "wo.team_id",
		"createdBy":   "wo.created_by",
		"createdAt":   "wo.created_at",
		"updatedAt":   "wo.updated_at",
	},
	TextFields:    []string{"title", "description", "customId"},
	DefaultSort:   "wo.id",
	CompanyColumn: "wo.company_id",
	DeletedColumn: "wo.deleted_at",
}

var workOrderColumns = []string{
	"wo.id", "wo.company_id", "wo.custom_id", "wo.title", "wo.description",
	"wo.status", "wo.priority", "wo.due_date", "wo.asset_id", "wo.location_id",
	"wo.primary_user_id", "wo.team_id", "wo.created_by",
	"wo.created_at", "wo.updated_at", "wo.deleted_at",
}

type WorkOrderRepositoryInterface interface {
	Search(ctx context.Context, companyID uint64, criteria types.SearchCriteria) ([]entities.WorkOrder, uint64, error)
	FindByID(ctx context.Context, companyID, id uint64) (*entities.WorkOrder, error)
	Create(ctx context.Context, tx pgx.Tx, wo *entities.WorkOrder, assigneeIDs []uint64) error
	Update(ctx context.Context, tx pgx.Tx, wo *entities.WorkOrder) error
	ReplaceAssignees(ctx context.Context, tx pgx.Tx, workOrderID uint64, userIDs []uint64) error
	SoftDelete(ctx context.Context, companyID, id uint64) error
}

type WorkOrderRepository struct {
	storage *pgxpool.Pool
	users   UserRepositoryInterface
	teams   TeamRepositoryInterface
	logger  *zap.Logger
}

func NewWorkOrderRepository(storage *pgxpool.Pool, users UserRepositoryInterface, teams TeamRepositoryInterface, logger *zap.Logger) WorkOrderRepositoryInterface {
	return &WorkOrderRepository{storage: storage, users: users, teams: teams, logger: logger}
}

// workOrderRow carries the foreign keys that are resolved into relations.
type workOrderRow struct {
	entities.WorkOrder
	primaryUserID *uint64
	teamID        *uint64
}

func scanWorkOrder(row pgx.Row) (*workOrderRow, error) {
	var r workOrderRow
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.CustomID, &r.Title, &r.Description,
		&r.Status, &r.Priority, &r.DueDate, &r.AssetID, &r.LocationID,
		&r.primaryUserID, &r.teamID, &r.CreatedBy,
		&r.CreatedAt, &r.UpdatedAt, &r.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan work order: %w", err)
	}
	return &r, nil
}

func (r *WorkOrderRepository) Search(ctx context.Context, companyID uint64, criteria types.SearchCriteria) ([]entities.WorkOrder, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := psql.Select("COUNT(wo.id)").From(WorkOrderSchema.Table).Where(WorkOrderSchema.Scope(companyID))
	countBuilder = bd.ApplyFilters(countBuilder, criteria, WorkOrderSchema)

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build work order count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count work orders: %w", err)
	}
	if total == 0 {
		return []entities.WorkOrder{}, 0, nil
	}

	builder := psql.Select(workOrderColumns...).From(WorkOrderSchema.Table).Where(WorkOrderSchema.Scope(companyID))
	builder = bd.ApplyFilters(builder, criteria, WorkOrderSchema)
	builder = bd.ApplyPaging(builder, criteria, WorkOrderSchema)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build work order search: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search work orders: %w", err)
	}
	defer rows.Close()

	list := make([]*workOrderRow, 0, criteria.PageSize)
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, wo)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	out, err := r.resolveRelations(ctx, companyID, list)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// resolveRelations loads the primary users, team members and explicit
// assignees of a page of rows with one query per relation, so list rows see
// the same assignees as FindByID.
func (r *WorkOrderRepository) resolveRelations(ctx context.Context, companyID uint64, list []*workOrderRow) ([]entities.WorkOrder, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	orderIDs := make([]uint64, 0, len(list))
	teamIDs := make([]uint64, 0)
	for _, row := range list {
		orderIDs = append(orderIDs, row.ID)
		if row.teamID != nil {
			teamIDs = append(teamIDs, *row.teamID)
		}
	}

	assignees, err := r.pairs(ctx, psql.
		Select("work_order_id", "user_id").From(workOrderAssigneesTable).
		Where(sq.Eq{"work_order_id": orderIDs}).
		OrderBy("work_order_id", "user_id"))
	if err != nil {
		return nil, fmt.Errorf("find page assignees: %w", err)
	}

	members := map[uint64][]uint64{}
	if len(teamIDs) > 0 {
		members, err = r.pairs(ctx, psql.
			Select("tu.team_id", "tu.user_id").From("team_users tu").
			Join("teams t ON t.id = tu.team_id").
			Where(sq.Eq{"tu.team_id": teamIDs, "t.company_id": companyID}).
			OrderBy("tu.team_id", "tu.user_id"))
		if err != nil {
			return nil, fmt.Errorf("find page team members: %w", err)
		}
	}

	userIDs := make([]uint64, 0)
	for _, row := range list {
		if row.primaryUserID != nil {
			userIDs = append(userIDs, *row.primaryUserID)
		}
	}
	for _, ids := range assignees {
		userIDs = append(userIDs, ids...)
	}
	for _, ids := range members {
		userIDs = append(userIDs, ids...)
	}
	users, err := r.users.FindByIDs(ctx, r.storage, userIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]entities.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return attachRelations(list, byID, members, assignees), nil
}

// pairs runs a two-column id query and groups the second column by the first.
func (r *WorkOrderRepository) pairs(ctx context.Context, builder sq.SelectBuilder) (map[uint64][]uint64, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uint64][]uint64)
	for rows.Next() {
		var key, value uint64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = append(out[key], value)
	}
	return out, rows.Err()
}

func attachRelations(list []*workOrderRow, users map[uint64]entities.User, members, assignees map[uint64][]uint64) []entities.WorkOrder {
	pick := func(ids []uint64) []entities.User {
		out := make([]entities.User, 0, len(ids))
		for _, id := range ids {
			if u, ok := users[id]; ok {
				out = append(out, u)
			}
		}
		return out
	}

	out := make([]entities.WorkOrder, 0, len(list))
	for _, row := range list {
		wo := row.WorkOrder
		if row.primaryUserID != nil {
			if u, ok := users[*row.primaryUserID]; ok {
				wo.PrimaryUser = &u
			}
		}
		if row.teamID != nil {
			wo.Team = &entities.Team{ID: *row.teamID, CompanyID: row.CompanyID, Users: pick(members[*row.teamID])}
		}
		wo.AssignedTo = pick(assignees[row.ID])
		out = append(out, wo)
	}
	return out
}

// FindByID loads the work order with every assignment source resolved.
func (r *WorkOrderRepository) FindByID(ctx context.Context, companyID, id uint64) (*entities.WorkOrder, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(workOrderColumns...).From(WorkOrderSchema.Table).
		Where(WorkOrderSchema.Scope(companyID)).
		Where(sq.Eq{"wo.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build work order query: %w", err)
	}
	row, err := scanWorkOrder(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	wo := row.WorkOrder

	if row.primaryUserID != nil {
		users, err := r.users.FindByIDs(ctx, r.storage, []uint64{*row.primaryUserID})
		if err != nil {
			return nil, err
		}
		if len(users) == 1 {
			wo.PrimaryUser = &users[0]
		}
	}

	if row.teamID != nil {
		team, err := r.teams.FindByID(ctx, wo.CompanyID, *row.teamID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			r.logger.Warn("work order references a missing team", zap.Uint64("workOrderID", wo.ID), zap.Uint64("teamID", *row.teamID))
		case err != nil:
			return nil, err
		default:
			wo.Team = team
		}
	}

	assigneeIDs, err := r.assigneeIDs(ctx, r.storage, wo.ID)
	if err != nil {
		return nil, err
	}
	if wo.AssignedTo, err = r.users.FindByIDs(ctx, r.storage, assigneeIDs); err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *WorkOrderRepository) assigneeIDs(ctx context.Context, q Querier, workOrderID uint64) ([]uint64, error) {
	rows, err := q.Query(ctx, `SELECT user_id FROM `+workOrderAssigneesTable+` WHERE work_order_id = $1 ORDER BY user_id`, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("find assignees: %w", err)
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan assignee: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func foreignKey(u *entities.User) *uint64 {
	if u == nil {
		return nil
	}
	return &u.ID
}

func teamKey(t *entities.Team) *uint64 {
	if t == nil {
		return nil
	}
	return &t.ID
}

func (r *WorkOrderRepository) Create(ctx context.Context, tx pgx.Tx, wo *entities.WorkOrder, assigneeIDs []uint64) error {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert(workOrderTable).
		Columns("company_id", "title", "description", "status", "priority", "due_date",
			"asset_id", "location_id", "primary_user_id", "team_id", "created_by").
		Values(wo.CompanyID, wo.Title, wo.Description, wo.Status, wo.Priority, wo.DueDate,
			wo.AssetID, wo.LocationID, foreignKey(wo.PrimaryUser), teamKey(wo.Team), wo.CreatedBy).
		Suffix("RETURNING id, custom_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build work order insert: %w", err)
	}
	if err := tx.QueryRow(ctx, query, args...).Scan(&wo.ID, &wo.CustomID, &wo.CreatedAt, &wo.UpdatedAt); err != nil {
		return fmt.Errorf("insert work order: %w", err)
	}
	return r.ReplaceAssignees(ctx, tx, wo.ID, assigneeIDs)
}

func (r *WorkOrderRepository) Update(ctx context.Context, tx pgx.Tx, wo *entities.WorkOrder) error {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Update(workOrderTable).
		SetMap(map[string]interface{}{
			"title":           wo.Title,
			"description":     wo.Description,
			"status":          wo.Status,
			"priority":        wo.Priority,
			"due_date":        wo.DueDate,
			"asset_id":        wo.AssetID,
			"location_id":     wo.LocationID,
			"primary_user_id": foreignKey(wo.PrimaryUser),
			"team_id":         teamKey(wo.Team),
			"updated_at":      sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": wo.ID, "company_id": wo.CompanyID, "deleted_at": nil}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build work order update: %w", err)
	}
	err = tx.QueryRow(ctx, query, args...).Scan(&wo.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update work order %d: %w", wo.ID, err)
	}
	return nil
}

func (r *WorkOrderRepository) ReplaceAssignees(ctx context.Context, tx pgx.Tx, workOrderID uint64, userIDs []uint64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM `+workOrderAssigneesTable+` WHERE work_order_id = $1`, workOrderID); err != nil {
		return fmt.Errorf("clear assignees: %w", err)
	}
	if len(userIDs) == 0 {
		return nil
	}
	insert := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert(workOrderAssigneesTable).Columns("work_order_id", "user_id").
		Suffix("ON CONFLICT DO NOTHING")
	for _, id := range userIDs {
		insert = insert.Values(workOrderID, id)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build assignees insert: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert assignees: %w", err)
	}
	return nil
}

func (r *WorkOrderRepository) SoftDelete(ctx context.Context, companyID, id uint64) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE `+workOrderTable+` SET deleted_at = NOW() WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`,
		id, companyID,
	)
	if err != nil {
		return fmt.Errorf("delete work order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
