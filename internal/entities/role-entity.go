package entities

import (
	"slices"

	"maintenance-system/pkg/types"
)

type RoleCode string

const (
	RoleAdmin             RoleCode = "ADMIN"
	RoleLimitedAdmin      RoleCode = "LIMITED_ADMIN"
	RoleTechnician        RoleCode = "TECHNICIAN"
	RoleLimitedTechnician RoleCode = "LIMITED_TECHNICIAN"
	RoleViewOnly          RoleCode = "VIEW_ONLY"
	RoleRequester         RoleCode = "REQUESTER"
	RoleUserCreated       RoleCode = "USER_CREATED"
)

// Role is a read-only snapshot of the five permission roots assigned to a user.
type Role struct {
	ID                     uint64             `json:"id" db:"id"`
	CompanyID              uint64             `json:"companyId" db:"company_id"`
	Name                   string             `json:"name" db:"name"`
	Code                   RoleCode           `json:"code" db:"code"`
	Description            string             `json:"description,omitempty" db:"description"`
	CreatePermissions      []PermissionEntity `json:"createPermissions" db:"create_permissions"`
	ViewPermissions        []PermissionEntity `json:"viewPermissions" db:"view_permissions"`
	ViewOtherPermissions   []PermissionEntity `json:"viewOtherPermissions" db:"view_other_permissions"`
	EditOtherPermissions   []PermissionEntity `json:"editOtherPermissions" db:"edit_other_permissions"`
	DeleteOtherPermissions []PermissionEntity `json:"deleteOtherPermissions" db:"delete_other_permissions"`

	types.BaseEntity
}

func (r *Role) CanCreate(tag PermissionEntity) bool {
	return r != nil && slices.Contains(r.CreatePermissions, tag)
}

func (r *Role) CanView(tag PermissionEntity) bool {
	return r != nil && slices.Contains(r.ViewPermissions, tag)
}

func (r *Role) CanViewOther(tag PermissionEntity) bool {
	return r != nil && slices.Contains(r.ViewOtherPermissions, tag)
}

func (r *Role) CanEditOther(tag PermissionEntity) bool {
	return r != nil && slices.Contains(r.EditOtherPermissions, tag)
}

func (r *Role) CanDeleteOther(tag PermissionEntity) bool {
	return r != nil && slices.Contains(r.DeleteOtherPermissions, tag)
}
