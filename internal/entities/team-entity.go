package entities

import "maintenance-system/pkg/types"

type Team struct {
	ID          uint64 `json:"id" db:"id"`
	CompanyID   uint64 `json:"companyId" db:"company_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
	CreatedBy   uint64 `json:"createdBy" db:"created_by"`
	Users       []User `json:"users" db:"-"`

	types.BaseEntity
}

func (t *Team) CreatorID() (uint64, bool) {
	if t == nil {
		return 0, false
	}
	return t.CreatedBy, true
}
