package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/infrastructure/bd"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

const createdByField = "createdBy"

// searchFunc runs one page for the session's company. Rows carry the
// session's per-instance edit and delete answers where the entity has them.
type searchFunc func(ctx context.Context, session *authz.Session, criteria types.SearchCriteria) ([]dto.Exportable, uint64, error)

// searchSource is one entity reachable through the generic search endpoints.
type searchSource struct {
	schema  bd.Schema
	headers []string
	search  searchFunc
}

type SearchServiceInterface interface {
	Search(ctx context.Context, session *authz.Session, tag entities.PermissionEntity, criteria types.SearchCriteria) (*dto.PaginatedResponse, error)
	QuickSearch(ctx context.Context, session *authz.Session, tag entities.PermissionEntity, query string) (*dto.PaginatedResponse, error)
	SearchAll(ctx context.Context, session *authz.Session, tag entities.PermissionEntity, criteria types.SearchCriteria, limit int) ([]dto.Exportable, []string, error)
}

type SearchService struct {
	sources     map[entities.PermissionEntity]searchSource
	gatekeeper  *authz.Gatekeeper
	maxPageSize int
	logger      *zap.Logger
}

func NewSearchService(
	workOrderRepo repositories.WorkOrderRepositoryInterface,
	assetRepo repositories.AssetRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	gatekeeper *authz.Gatekeeper,
	maxPageSize int,
	logger *zap.Logger,
) SearchServiceInterface {
	sources := map[entities.PermissionEntity]searchSource{
		entities.WorkOrders: {
			schema:  repositories.WorkOrderSchema,
			headers: dto.WorkOrderExportHeaders,
			search: func(ctx context.Context, session *authz.Session, c types.SearchCriteria) ([]dto.Exportable, uint64, error) {
				rows, total, err := workOrderRepo.Search(ctx, session.User.CompanyID, c)
				if err != nil {
					return nil, 0, err
				}
				out := make([]dto.Exportable, 0, len(rows))
				for i := range rows {
					row := dto.NewWorkOrderDTO(rows[i])
					row.CanEdit, row.CanDelete = flags(session, entities.WorkOrders, &rows[i])
					out = append(out, row)
				}
				return out, total, nil
			},
		},
		entities.Assets: {
			schema:  repositories.AssetSchema,
			headers: dto.AssetExportHeaders,
			search: func(ctx context.Context, session *authz.Session, c types.SearchCriteria) ([]dto.Exportable, uint64, error) {
				rows, total, err := assetRepo.Search(ctx, session.User.CompanyID, c)
				if err != nil {
					return nil, 0, err
				}
				out := make([]dto.Exportable, 0, len(rows))
				for i := range rows {
					row := dto.NewAssetDTO(rows[i])
					row.CanEdit, row.CanDelete = flags(session, entities.Assets, &rows[i])
					out = append(out, row)
				}
				return out, total, nil
			},
		},
		entities.PeopleAndTeams: {
			schema:  repositories.UserSchema,
			headers: dto.UserExportHeaders,
			search: func(ctx context.Context, session *authz.Session, c types.SearchCriteria) ([]dto.Exportable, uint64, error) {
				rows, total, err := userRepo.Search(ctx, session.User.CompanyID, c)
				if err != nil {
					return nil, 0, err
				}
				out := make([]dto.Exportable, 0, len(rows))
				for _, u := range rows {
					out = append(out, dto.NewUserDTO(u))
				}
				return out, total, nil
			},
		},
	}

	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &SearchService{
		sources:     sources,
		gatekeeper:  gatekeeper,
		maxPageSize: maxPageSize,
		logger:      logger,
	}
}

func (s *SearchService) source(tag entities.PermissionEntity) (searchSource, error) {
	src, ok := s.sources[tag]
	if !ok {
		return searchSource{}, fmt.Errorf("%s: %w", tag, apperrors.ErrUnknownEntity)
	}
	return src, nil
}

// normalize fills defaults and checks the page bounds.
func (s *SearchService) normalize(criteria types.SearchCriteria) (types.SearchCriteria, error) {
	out := criteria.Clone()
	if out.FilterFields == nil {
		out.FilterFields = []types.FilterField{}
	}
	if out.PageSize == 0 {
		out.PageSize = types.DefaultPageSize
	}
	if out.PageSize < 1 || out.PageSize > s.maxPageSize || out.PageNum < 0 {
		return out, fmt.Errorf("page size must be between 1 and %d: %w", s.maxPageSize, apperrors.ErrInvalidPage)
	}
	if out.Direction == "" {
		out.Direction = types.DirectionDesc
	}
	return out, nil
}

// scope restricts criteria to the caller's own records when the role cannot
// see other people's. The server filter is merged last so it always wins
// over a client supplied createdBy.
func scope(session *authz.Session, tag entities.PermissionEntity, criteria types.SearchCriteria) types.SearchCriteria {
	if session.CanViewOther(tag) {
		return criteria
	}
	out := criteria.Clone()
	out.FilterFields = types.MergeFilterFields(out.FilterFields, []types.FilterField{{
		Field:     createdByField,
		Operation: types.OpEqual,
		Value:     session.User.ID,
	}})
	return out
}

func (s *SearchService) Search(ctx context.Context, session *authz.Session, tag entities.PermissionEntity, criteria types.SearchCriteria) (*dto.PaginatedResponse, error) {
	src, err := s.source(tag)
	if err != nil {
		return nil, err
	}
	if err := s.gatekeeper.Authorize(session, authz.ActionView, tag, nil); err != nil {
		return nil, err
	}
	criteria, err = s.normalize(criteria)
	if err != nil {
		return nil, err
	}

	rows, total, err := src.search(ctx, session, scope(session, tag, criteria))
	if err != nil {
		s.logger.Error("search failed", zap.String("entity", string(tag)), zap.Uint64("userID", session.User.ID), zap.Error(err))
		return nil, fmt.Errorf("search %s: %w", tag, err)
	}

	page := types.NewPagination(total, criteria.PageNum, criteria.PageSize)
	resp := &dto.PaginatedResponse{Content: rows, Pagination: page}
	if !page.Last {
		next := types.AdvancePage(criteria, criteria.PageNum+1)
		resp.NextCriteria = &next
	}
	return resp, nil
}

func (s *SearchService) QuickSearch(ctx context.Context, session *authz.Session, tag entities.PermissionEntity, query string) (*dto.PaginatedResponse, error) {
	src, err := s.source(tag)
	if err != nil {
		return nil, err
	}
	criteria := types.ApplyTextSearch(types.DefaultCriteria(), query, src.schema.TextFields)
	return s.Search(ctx, session, tag, criteria)
}

// SearchAll walks every page of criteria until limit rows are collected.
func (s *SearchService) SearchAll(ctx context.Context, session *authz.Session, tag entities.PermissionEntity, criteria types.SearchCriteria, limit int) ([]dto.Exportable, []string, error) {
	src, err := s.source(tag)
	if err != nil {
		return nil, nil, err
	}
	if err := s.gatekeeper.Authorize(session, authz.ActionView, tag, nil); err != nil {
		return nil, nil, err
	}

	criteria.PageSize = s.maxPageSize
	criteria.PageNum = 0
	criteria, err = s.normalize(criteria)
	if err != nil {
		return nil, nil, err
	}
	scoped := scope(session, tag, criteria)

	var out []dto.Exportable
	for limit <= 0 || len(out) < limit {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		rows, total, err := src.search(ctx, session, scoped)
		if err != nil {
			return nil, nil, fmt.Errorf("search %s page %d: %w", tag, scoped.PageNum, err)
		}
		out = append(out, rows...)
		if len(rows) == 0 || types.NewPagination(total, scoped.PageNum, scoped.PageSize).Last {
			break
		}
		scoped = types.AdvancePage(scoped, scoped.PageNum+1)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, src.headers, nil
}

// flags answers the edit and delete questions for one instance.
func flags(session *authz.Session, tag entities.PermissionEntity, instance any) (*bool, *bool) {
	canEdit := session.CanEdit(tag, instance)
	canDelete := session.CanDelete(tag, instance)
	return &canEdit, &canDelete
}
