package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	apperrors "maintenance-system/pkg/errors"
)

type workOrderFixture struct {
	svc  WorkOrderServiceInterface
	repo *fakeWorkOrderRepo
	tx   *inlineTx
	bus  *recordingBus
}

func newWorkOrderFixture() workOrderFixture {
	users := map[uint64]*entities.User{
		5: {ID: 5, CompanyID: testCompanyID, FirstName: "Tech", Enabled: true},
		6: {ID: 6, CompanyID: testCompanyID, FirstName: "Helper", Enabled: true},
		7: {ID: 7, CompanyID: 2, FirstName: "Outsider", Enabled: true},
		8: {ID: 8, CompanyID: testCompanyID, FirstName: "Former", Enabled: false},
		9: {ID: 9, CompanyID: testCompanyID, FirstName: "Manager", Enabled: true},
	}
	repo := newFakeWorkOrderRepo(users)
	repo.orders[1] = &entities.WorkOrder{ID: 1, CompanyID: testCompanyID, CustomID: "WO1", Title: "Leak", Status: entities.StatusOpen, CreatedBy: 9}
	repo.assignees[1] = []uint64{5}

	teams := &fakeTeamRepo{teams: map[uint64]*entities.Team{
		3:  {ID: 3, CompanyID: testCompanyID, Name: "Night shift", Users: []entities.User{*users[6]}},
		30: {ID: 30, CompanyID: 2, Name: "Other company crew", Users: []entities.User{*users[7]}},
	}}
	assets := &fakeAssetRepo{assets: map[uint64]*entities.Asset{
		4:  {ID: 4, CompanyID: testCompanyID, Name: "Pump"},
		40: {ID: 40, CompanyID: 2, Name: "Foreign pump"},
	}}

	tx := &inlineTx{}
	bus := &recordingBus{}
	svc := NewWorkOrderService(repo, &fakeUserRepo{users: users}, teams, assets, tx, authz.NewGatekeeper(), bus, zap.NewNop())
	return workOrderFixture{svc: svc, repo: repo, tx: tx, bus: bus}
}

func decodeWorkOrderPatch(t *testing.T, body string) *dto.UpdateWorkOrderDTO {
	t.Helper()
	var in dto.UpdateWorkOrderDTO
	require.NoError(t, dto.DecodePatch([]byte(body), &in))
	return &in
}

func TestWorkOrderService_Get(t *testing.T) {
	f := newWorkOrderFixture()
	ctx := context.Background()

	out, err := f.svc.Get(ctx, limitedSession(9), 1)
	require.NoError(t, err, "creator needs no view-other")
	assert.True(t, *out.CanDelete)

	_, err = f.svc.Get(ctx, limitedSession(5), 1)
	assert.ErrorIs(t, err, apperrors.ErrForbidden, "assignment does not grant view-other")

	out, err = f.svc.Get(ctx, adminSession(1), 1)
	require.NoError(t, err)
	assert.Equal(t, "WO1", out.CustomID)
	require.Len(t, out.Assignees, 1)
	assert.Equal(t, uint64(5), out.Assignees[0].ID)
	assert.True(t, *out.CanEdit)
	assert.True(t, *out.CanDelete)

	_, err = f.svc.Get(ctx, adminSession(1), 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWorkOrderService_Create(t *testing.T) {
	f := newWorkOrderFixture()
	primary := uint64(6)

	out, err := f.svc.Create(context.Background(), limitedSession(5), dto.CreateWorkOrderDTO{
		Title:         "Replace belt",
		PrimaryUserID: &primary,
		AssignedToIDs: []uint64{5},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), out.CreatedBy)
	assert.Equal(t, entities.StatusOpen, out.Status)
	assert.Equal(t, 1, f.tx.runs)
	require.Len(t, f.bus.events, 1)
	assert.Equal(t, events.WorkOrderUpdatedEvent, f.bus.events[0].Name())
}

func TestWorkOrderService_CreateRejectsForeignAssignee(t *testing.T) {
	f := newWorkOrderFixture()

	_, err := f.svc.Create(context.Background(), adminSession(1), dto.CreateWorkOrderDTO{
		Title:         "Inspect",
		AssignedToIDs: []uint64{7},
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.Zero(t, f.tx.runs)
}

func TestWorkOrderService_CreateRejectsDisabledAssignee(t *testing.T) {
	f := newWorkOrderFixture()

	_, err := f.svc.Create(context.Background(), adminSession(1), dto.CreateWorkOrderDTO{
		Title:         "Inspect",
		AssignedToIDs: []uint64{8},
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.Zero(t, f.tx.runs)
}

func TestWorkOrderService_CreateRejectsDeletedAssignee(t *testing.T) {
	f := newWorkOrderFixture()
	deletedAt := time.Now()
	f.repo.users[6].DeletedAt = &deletedAt

	_, err := f.svc.Create(context.Background(), adminSession(1), dto.CreateWorkOrderDTO{
		Title:         "Inspect",
		AssignedToIDs: []uint64{5, 6},
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.Zero(t, f.tx.runs)
}

func TestWorkOrderService_RejectsForeignTeamAndAsset(t *testing.T) {
	ctx := context.Background()
	foreignTeam := uint64(30)
	foreignAsset := uint64(40)

	t.Run("create with another company's team", func(t *testing.T) {
		f := newWorkOrderFixture()
		_, err := f.svc.Create(ctx, adminSession(1), dto.CreateWorkOrderDTO{Title: "Inspect", TeamID: &foreignTeam})
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		assert.Zero(t, f.tx.runs)
		assert.Empty(t, f.bus.events)
	})

	t.Run("create with another company's asset", func(t *testing.T) {
		f := newWorkOrderFixture()
		_, err := f.svc.Create(ctx, adminSession(1), dto.CreateWorkOrderDTO{Title: "Inspect", AssetID: &foreignAsset})
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		assert.Zero(t, f.tx.runs)
	})

	t.Run("patch to another company's team", func(t *testing.T) {
		f := newWorkOrderFixture()
		_, err := f.svc.Update(ctx, adminSession(1), 1, decodeWorkOrderPatch(t, `{"teamId":30}`))
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		assert.Zero(t, f.tx.runs)
		assert.Nil(t, f.repo.orders[1].Team)
		assert.Empty(t, f.bus.events)
	})

	t.Run("own team and asset are accepted", func(t *testing.T) {
		f := newWorkOrderFixture()
		out, err := f.svc.Update(ctx, adminSession(1), 1, decodeWorkOrderPatch(t, `{"teamId":3,"assetId":4}`))
		require.NoError(t, err)
		require.NotNil(t, out.TeamID)
		assert.Equal(t, uint64(3), *out.TeamID)
		assert.Equal(t, uint64(4), *out.AssetID)
	})
}

func TestWorkOrderService_CreateNeedsPermission(t *testing.T) {
	f := newWorkOrderFixture()
	viewer := authz.NewSession(
		&entities.User{ID: 5, CompanyID: testCompanyID},
		testRole(entities.RoleViewOnly, tags(entities.WorkOrders), tags(entities.WorkOrders), nil, nil, nil),
		nil,
	)
	_, err := f.svc.Create(context.Background(), viewer, dto.CreateWorkOrderDTO{Title: "x"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestWorkOrderService_UpdateByAssignee(t *testing.T) {
	f := newWorkOrderFixture()

	out, err := f.svc.Update(context.Background(), limitedSession(5), 1,
		decodeWorkOrderPatch(t, `{"status":"IN_PROGRESS","description":null}`))
	require.NoError(t, err)
	assert.Equal(t, entities.StatusInProgress, out.Status)
	assert.Equal(t, "Leak", out.Title, "keys not sent keep their value")
	assert.Equal(t, []uint64{5}, f.repo.assignees[1], "assignees untouched when not sent")
	require.Len(t, f.bus.events, 1)
}

func TestWorkOrderService_UpdateReplacesAssignees(t *testing.T) {
	f := newWorkOrderFixture()

	_, err := f.svc.Update(context.Background(), adminSession(1), 1, decodeWorkOrderPatch(t, `{"assignedToIds":[6]}`))
	require.NoError(t, err)
	assert.Equal(t, []uint64{6}, f.repo.assignees[1])

	require.Len(t, f.bus.events, 1)
	event := f.bus.events[0].(events.WorkOrderUpdated)
	assert.True(t, event.WorkOrder.IsAssigned(5), "removed assignee is notified")
	assert.True(t, event.WorkOrder.IsAssigned(6))
}

func TestWorkOrderService_UpdateDenied(t *testing.T) {
	f := newWorkOrderFixture()
	_, err := f.svc.Update(context.Background(), limitedSession(6), 1, decodeWorkOrderPatch(t, `{"title":"x"}`))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Zero(t, f.tx.runs)
}

func TestWorkOrderService_DeleteHasNoAssigneeException(t *testing.T) {
	f := newWorkOrderFixture()
	ctx := context.Background()

	err := f.svc.Delete(ctx, limitedSession(5), 1)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, f.repo.deleted)

	require.NoError(t, f.svc.Delete(ctx, adminSession(1), 1))
	assert.Equal(t, []uint64{1}, f.repo.deleted)
	require.Len(t, f.bus.events, 1)
	deleted := f.bus.events[0].(events.WorkOrderDeleted)
	assert.Equal(t, "WO1", deleted.CustomID)
	require.Len(t, deleted.Assignees, 1)
	assert.Equal(t, uint64(5), deleted.Assignees[0].ID)
}
