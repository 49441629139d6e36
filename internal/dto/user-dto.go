package dto

import (
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/utils"
)

type UserDTO struct {
	ID        uint64     `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone,omitempty"`
	JobTitle  *string    `json:"jobTitle,omitempty"`
	RoleID    uint64     `json:"roleId"`
	Enabled   bool       `json:"enabled"`
	CreatedBy *uint64    `json:"createdBy,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// UserMiniDTO is how a user appears inside other records.
type UserMiniDTO struct {
	ID       uint64 `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func NewUserDTO(u entities.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Email:     u.Email,
		Phone:     u.Phone,
		JobTitle:  u.JobTitle,
		RoleID:    u.RoleID,
		Enabled:   u.Enabled,
		CreatedBy: u.CreatedBy,
		CreatedAt: u.CreatedAt,
	}
}

func NewUserMiniDTO(u entities.User) UserMiniDTO {
	return UserMiniDTO{ID: u.ID, FullName: u.FullName(), Email: u.Email}
}

var UserExportHeaders = []string{"ID", "First name", "Last name", "Email", "Phone", "Job title", "Enabled"}

func (u UserDTO) ExportRow() []interface{} {
	return []interface{}{u.ID, u.FirstName, u.LastName, u.Email, utils.SafeDeref(u.Phone), utils.SafeDeref(u.JobTitle), u.Enabled}
}
