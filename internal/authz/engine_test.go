package authz

import (
	"testing"

	"maintenance-system/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func technicianSession(userID uint64) *Session {
	return &Session{
		User: &entities.User{ID: userID, CompanyID: 1},
		Role: &entities.Role{
			Code:              entities.RoleTechnician,
			CreatePermissions: []entities.PermissionEntity{entities.WorkOrders},
			ViewPermissions:   []entities.PermissionEntity{entities.WorkOrders, entities.Assets},
		},
		Company: &entities.Company{ID: 1},
	}
}

func TestSession_SetMembership(t *testing.T) {
	s := technicianSession(5)

	assert.True(t, s.CanView(entities.WorkOrders))
	assert.True(t, s.CanCreate(entities.WorkOrders))
	assert.False(t, s.CanCreate(entities.Assets))
	assert.False(t, s.CanViewOther(entities.WorkOrders))
	assert.False(t, s.CanView(entities.Analytics))
}

func TestSession_FailsClosed(t *testing.T) {
	var nilSession *Session
	noRole := &Session{User: &entities.User{ID: 1}}
	noUser := &Session{Role: &entities.Role{EditOtherPermissions: []entities.PermissionEntity{entities.Assets}}}
	asset := &entities.Asset{ID: 1, CreatedBy: 1}

	for name, s := range map[string]*Session{"nil": nilSession, "no role": noRole, "no user": noUser} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, s.CanView(entities.Assets))
			assert.False(t, s.CanCreate(entities.Assets))
			assert.False(t, s.HasFeature(entities.FeatureFile))
			if s != noRole {
				assert.False(t, s.CanEdit(entities.Assets, asset))
				assert.False(t, s.CanDelete(entities.Assets, asset))
			}
		})
	}
}

func TestSession_CanEdit_DefaultArm(t *testing.T) {
	s := technicianSession(5)

	assert.True(t, s.CanEdit(entities.Assets, &entities.Asset{ID: 1, CreatedBy: 5}))
	assert.False(t, s.CanEdit(entities.Assets, &entities.Asset{ID: 2, CreatedBy: 9}))

	s.Role.EditOtherPermissions = []entities.PermissionEntity{entities.Assets}
	assert.True(t, s.CanEdit(entities.Assets, &entities.Asset{ID: 2, CreatedBy: 9}))
}

func TestSession_CanEdit_NilInstance(t *testing.T) {
	s := technicianSession(5)
	s.Role.EditOtherPermissions = entities.AllPermissionEntities

	var asset *entities.Asset
	var wo *entities.WorkOrder
	assert.False(t, s.CanEdit(entities.Assets, nil))
	assert.False(t, s.CanEdit(entities.Assets, asset))
	assert.False(t, s.CanEdit(entities.WorkOrders, wo))
	assert.False(t, s.CanDelete(entities.WorkOrders, wo))
}

func TestSession_CanEdit_PeopleAndTeams(t *testing.T) {
	s := technicianSession(5)

	assert.True(t, s.CanEdit(entities.PeopleAndTeams, &entities.User{ID: 5}))
	assert.False(t, s.CanEdit(entities.PeopleAndTeams, &entities.User{ID: 6}))

	s.Role.EditOtherPermissions = []entities.PermissionEntity{entities.PeopleAndTeams}
	assert.True(t, s.CanEdit(entities.PeopleAndTeams, &entities.User{ID: 6}))
}

func TestSession_CanEdit_WorkOrderAssignees(t *testing.T) {
	s := technicianSession(5)

	cases := []struct {
		name string
		wo   *entities.WorkOrder
		want bool
	}{
		{"creator", &entities.WorkOrder{CreatedBy: 5}, true},
		{"stranger", &entities.WorkOrder{CreatedBy: 9}, false},
		{"primary user", &entities.WorkOrder{CreatedBy: 9, PrimaryUser: &entities.User{ID: 5}}, true},
		{"team member", &entities.WorkOrder{CreatedBy: 9, Team: &entities.Team{Users: []entities.User{{ID: 3}, {ID: 5}}}}, true},
		{"assigned", &entities.WorkOrder{CreatedBy: 9, AssignedTo: []entities.User{{ID: 5}}}, true},
		{"empty team", &entities.WorkOrder{CreatedBy: 9, Team: &entities.Team{}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.CanEdit(entities.WorkOrders, tc.wo))
		})
	}
}

func TestSession_CanDelete_NoAssigneeException(t *testing.T) {
	s := technicianSession(5)
	assigned := &entities.WorkOrder{CreatedBy: 9, PrimaryUser: &entities.User{ID: 5}}

	assert.True(t, s.CanEdit(entities.WorkOrders, assigned))
	assert.False(t, s.CanDelete(entities.WorkOrders, assigned))
	assert.True(t, s.CanDelete(entities.WorkOrders, &entities.WorkOrder{CreatedBy: 5}))

	s.Role.DeleteOtherPermissions = []entities.PermissionEntity{entities.WorkOrders}
	assert.True(t, s.CanDelete(entities.WorkOrders, assigned))
}

func TestSession_UserWithoutCreatorIsNotOwned(t *testing.T) {
	s := technicianSession(5)
	assert.False(t, s.CanDelete(entities.PeopleAndTeams, &entities.User{ID: 7}))
}

func TestAssignees_Deduplicates(t *testing.T) {
	wo := &entities.WorkOrder{
		PrimaryUser: &entities.User{ID: 1},
		Team:        &entities.Team{Users: []entities.User{{ID: 2}, {ID: 1}}},
		AssignedTo:  []entities.User{{ID: 3}, {ID: 2}},
	}

	got := Assignees(wo)
	require.Len(t, got, 3)
	assert.Equal(t, []uint64{1, 2, 3}, []uint64{got[0].ID, got[1].ID, got[2].ID})
	assert.Empty(t, Assignees(nil))
}

func TestSession_FilterFieldsByFeature(t *testing.T) {
	fields := []entities.FormField{
		{Name: "title", Type: entities.FieldText},
		{Name: "image", Type: entities.FieldFile},
		{Name: "dueDate", Type: entities.FieldDate},
	}

	s := technicianSession(5)
	filtered := s.FilterFieldsByFeature(fields)
	require.Len(t, filtered, 2)
	assert.Equal(t, "title", filtered[0].Name)
	assert.Equal(t, "dueDate", filtered[1].Name)
	assert.Len(t, fields, 3)

	s.Company.Subscription.Plan.Features = []entities.PlanFeature{entities.FeatureFile}
	assert.Len(t, s.FilterFieldsByFeature(fields), 3)

	var nilSession *Session
	assert.Len(t, nilSession.FilterFieldsByFeature(fields), 2)
}
