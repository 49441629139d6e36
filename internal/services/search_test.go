package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

func newSearchFixture() (SearchServiceInterface, *fakeWorkOrderRepo) {
	users := map[uint64]*entities.User{
		5: {ID: 5, CompanyID: testCompanyID, FirstName: "Tech"},
	}
	woRepo := newFakeWorkOrderRepo(users)
	woRepo.orders[1] = &entities.WorkOrder{ID: 1, CompanyID: testCompanyID, Title: "Mine", CreatedBy: 5}
	woRepo.orders[2] = &entities.WorkOrder{ID: 2, CompanyID: testCompanyID, Title: "Other", CreatedBy: 9, AssignedTo: []entities.User{{ID: 5}}}

	assets := &fakeAssetRepo{assets: map[uint64]*entities.Asset{}}
	userRepo := &fakeUserRepo{users: users}
	svc := NewSearchService(woRepo, assets, userRepo, authz.NewGatekeeper(), 100, zap.NewNop())
	return svc, woRepo
}

func TestSearchService_ScopesToCreatorWithoutViewOther(t *testing.T) {
	svc, repo := newSearchFixture()
	criteria := types.DefaultCriteria()
	criteria.FilterFields = []types.FilterField{
		{Field: "createdBy", Operation: types.OpEqual, Value: 9},
		{Field: "status", Operation: types.OpIn, Values: []interface{}{"OPEN"}},
	}

	_, err := svc.Search(context.Background(), limitedSession(5), entities.WorkOrders, criteria)
	require.NoError(t, err)

	scoped, ok := repo.lastCrit.Filter("createdBy")
	require.True(t, ok)
	assert.Equal(t, uint64(5), scoped.Value, "server scope overrides the client's createdBy")
	assert.Equal(t, []string{"status", "createdBy"}, repo.lastCrit.FieldNames())
	assert.Len(t, criteria.FilterFields, 2, "caller criteria untouched")
}

func TestSearchService_NoScopeWithViewOther(t *testing.T) {
	svc, repo := newSearchFixture()

	_, err := svc.Search(context.Background(), adminSession(1), entities.WorkOrders, types.DefaultCriteria())
	require.NoError(t, err)

	_, ok := repo.lastCrit.Filter("createdBy")
	assert.False(t, ok)
}

func TestSearchService_Forbidden(t *testing.T) {
	svc, _ := newSearchFixture()
	_, err := svc.Search(context.Background(), limitedSession(5), entities.PeopleAndTeams, types.DefaultCriteria())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.Search(context.Background(), nil, entities.WorkOrders, types.DefaultCriteria())
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSearchService_UnknownEntity(t *testing.T) {
	svc, _ := newSearchFixture()
	_, err := svc.Search(context.Background(), adminSession(1), entities.Meters, types.DefaultCriteria())
	assert.ErrorIs(t, err, apperrors.ErrUnknownEntity)
}

func TestSearchService_PageSize(t *testing.T) {
	svc, repo := newSearchFixture()
	ctx := context.Background()

	_, err := svc.Search(ctx, adminSession(1), entities.WorkOrders, types.SearchCriteria{PageSize: 101})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPage)

	_, err = svc.Search(ctx, adminSession(1), entities.WorkOrders, types.SearchCriteria{})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultPageSize, repo.lastCrit.PageSize)
	assert.Equal(t, types.DirectionDesc, repo.lastCrit.Direction)
}

func TestSearchService_Pagination(t *testing.T) {
	svc, repo := newSearchFixture()
	repo.total = 25

	criteria := types.DefaultCriteria()
	criteria.FilterFields = []types.FilterField{{Field: "status", Operation: types.OpEqual, Value: "OPEN"}}
	resp, err := svc.Search(context.Background(), adminSession(1), entities.WorkOrders, criteria)
	require.NoError(t, err)

	assert.Equal(t, uint64(25), resp.TotalElements)
	assert.Equal(t, 3, resp.TotalPages)
	assert.False(t, resp.Last)
	require.NotNil(t, resp.NextCriteria)
	assert.Equal(t, 1, resp.NextCriteria.PageNum)
	assert.Equal(t, criteria.FilterFields, resp.NextCriteria.FilterFields)

	last := types.AdvancePage(criteria, 2)
	resp, err = svc.Search(context.Background(), adminSession(1), entities.WorkOrders, last)
	require.NoError(t, err)
	assert.True(t, resp.Last)
	assert.Nil(t, resp.NextCriteria)
}

func TestSearchService_RowsCarryPermissionFlags(t *testing.T) {
	svc, _ := newSearchFixture()

	resp, err := svc.Search(context.Background(), limitedSession(5), entities.WorkOrders, types.DefaultCriteria())
	require.NoError(t, err)

	rows := resp.Content.([]dto.Exportable)
	require.NotEmpty(t, rows)
	for _, row := range rows {
		wo := row.(dto.WorkOrderDTO)
		require.NotNil(t, wo.CanEdit)
		require.NotNil(t, wo.CanDelete)
		switch wo.ID {
		case 1:
			assert.True(t, *wo.CanEdit)
			assert.True(t, *wo.CanDelete)
		case 2:
			assert.True(t, *wo.CanEdit, "assignee may edit")
			assert.False(t, *wo.CanDelete, "assignee may not delete")
		}
	}
}

func TestSearchService_TeamMemberRowIsEditable(t *testing.T) {
	svc, repo := newSearchFixture()
	repo.orders[3] = &entities.WorkOrder{
		ID: 3, CompanyID: testCompanyID, Title: "Team job", CreatedBy: 9,
		Team:       &entities.Team{ID: 4, CompanyID: testCompanyID, Users: []entities.User{{ID: 5}}},
		AssignedTo: []entities.User{},
	}
	repo.orders[4] = &entities.WorkOrder{ID: 4, CompanyID: testCompanyID, Title: "Someone else", CreatedBy: 9, AssignedTo: []entities.User{}}

	own := tags(entities.WorkOrders)
	technician := authz.NewSession(
		&entities.User{ID: 5, CompanyID: testCompanyID, Enabled: true},
		testRole(entities.RoleTechnician, own, own, own, nil, nil),
		&entities.Company{ID: testCompanyID},
	)

	resp, err := svc.Search(context.Background(), technician, entities.WorkOrders, types.DefaultCriteria())
	require.NoError(t, err)

	flags := map[uint64][2]bool{}
	for _, row := range resp.Content.([]dto.Exportable) {
		wo := row.(dto.WorkOrderDTO)
		require.NotNil(t, wo.CanEdit)
		require.NotNil(t, wo.CanDelete)
		flags[wo.ID] = [2]bool{*wo.CanEdit, *wo.CanDelete}
	}
	assert.Equal(t, [2]bool{true, false}, flags[3], "team member may edit but not delete")
	assert.Equal(t, [2]bool{false, false}, flags[4])
}

func TestSearchService_QuickSearch(t *testing.T) {
	svc, repo := newSearchFixture()

	_, err := svc.QuickSearch(context.Background(), adminSession(1), entities.WorkOrders, "pump")
	require.NoError(t, err)

	text, ok := repo.lastCrit.Filter("title")
	require.True(t, ok)
	assert.Equal(t, types.OpContains, text.Operation)
	assert.Equal(t, "pump", text.Value)
	require.Len(t, text.Alternatives, 2)
	assert.Equal(t, "description", text.Alternatives[0].Field)
}

func TestSearchService_SearchAllCapsRows(t *testing.T) {
	svc, _ := newSearchFixture()

	rows, headers, err := svc.SearchAll(context.Background(), adminSession(1), entities.WorkOrders, types.DefaultCriteria(), 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, dto.WorkOrderExportHeaders, headers)
}
