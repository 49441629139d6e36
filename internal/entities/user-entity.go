package entities

import (
	"maintenance-system/pkg/types"
)

type User struct {
	ID        uint64  `json:"id" db:"id"`
	CompanyID uint64  `json:"companyId" db:"company_id"`
	RoleID    uint64  `json:"roleId" db:"role_id"`
	FirstName string  `json:"firstName" db:"first_name"`
	LastName  string  `json:"lastName" db:"last_name"`
	Email     string  `json:"email" db:"email"`
	Phone     *string `json:"phone,omitempty" db:"phone"`
	JobTitle  *string `json:"jobTitle,omitempty" db:"job_title"`
	Enabled   bool    `json:"enabled" db:"enabled"`
	CreatedBy *uint64 `json:"createdBy,omitempty" db:"created_by"`

	Password string `json:"-" db:"password"`

	types.BaseEntity
	types.SoftDelete
}

func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// CreatorID reports who created the account; self sign-ups have none.
func (u *User) CreatorID() (uint64, bool) {
	if u == nil || u.CreatedBy == nil {
		return 0, false
	}
	return *u.CreatedBy, true
}
