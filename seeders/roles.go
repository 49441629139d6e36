package seeders

import (
	"slices"

	"maintenance-system/internal/entities"
)

func without(tags []entities.PermissionEntity, drop ...entities.PermissionEntity) []entities.PermissionEntity {
	out := make([]entities.PermissionEntity, 0, len(tags))
	for _, t := range tags {
		if !slices.Contains(drop, t) {
			out = append(out, t)
		}
	}
	return out
}

// DefaultRoles returns the roles every new company starts with.
func DefaultRoles(companyID uint64) []entities.Role {
	all := entities.AllPermissionEntities
	adminOnly := []entities.PermissionEntity{entities.Settings, entities.PeopleAndTeams}
	technicianCreate := []entities.PermissionEntity{
		entities.WorkOrders, entities.Requests, entities.Assets, entities.Locations,
		entities.Meters, entities.Files, entities.PartsAndMultiparts,
	}
	viewAll := without(all, entities.Settings)

	return []entities.Role{
		{
			CompanyID:              companyID,
			Name:                   "Administrator",
			Code:                   entities.RoleAdmin,
			Description:            "Full access to every module and setting",
			CreatePermissions:      all,
			ViewPermissions:        all,
			ViewOtherPermissions:   all,
			EditOtherPermissions:   all,
			DeleteOtherPermissions: all,
		},
		{
			CompanyID:              companyID,
			Name:                   "Limited Administrator",
			Code:                   entities.RoleLimitedAdmin,
			Description:            "Administrator without access to company settings and people",
			CreatePermissions:      without(all, adminOnly...),
			ViewPermissions:        all,
			ViewOtherPermissions:   all,
			EditOtherPermissions:   without(all, adminOnly...),
			DeleteOtherPermissions: without(all, adminOnly...),
		},
		{
			CompanyID:            companyID,
			Name:                 "Technician",
			Code:                 entities.RoleTechnician,
			Description:          "Works on orders and sees the whole company's records",
			CreatePermissions:    technicianCreate,
			ViewPermissions:      viewAll,
			ViewOtherPermissions: viewAll,
		},
		{
			CompanyID:         companyID,
			Name:              "Limited Technician",
			Code:              entities.RoleLimitedTechnician,
			Description:       "Sees only the records they created",
			CreatePermissions: []entities.PermissionEntity{entities.WorkOrders, entities.Requests},
			ViewPermissions:   viewAll,
		},
		{
			CompanyID:            companyID,
			Name:                 "View Only",
			Code:                 entities.RoleViewOnly,
			Description:          "Read access to every record",
			ViewPermissions:      viewAll,
			ViewOtherPermissions: viewAll,
		},
		{
			CompanyID:         companyID,
			Name:              "Requester",
			Code:              entities.RoleRequester,
			Description:       "Can only submit and follow requests",
			CreatePermissions: []entities.PermissionEntity{entities.Requests},
			ViewPermissions:   []entities.PermissionEntity{entities.Requests},
		},
	}
}
