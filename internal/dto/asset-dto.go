package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/utils"
)

type CreateAssetDTO struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Status       string  `json:"status,omitempty" validate:"omitempty,asset_status"`
	LocationID   *uint64 `json:"locationId,omitempty"`
	SerialNumber *string `json:"serialNumber,omitempty" validate:"omitempty,max=100"`
	Model        *string `json:"model,omitempty" validate:"omitempty,max=100"`
}

type UpdateAssetDTO struct {
	Name         null.String `json:"name" validate:"omitempty,max=255"`
	Description  null.String `json:"description" validate:"omitempty,max=5000"`
	Status       null.String `json:"status" validate:"omitempty,asset_status"`
	LocationID   null.Uint64 `json:"locationId"`
	SerialNumber null.String `json:"serialNumber" validate:"omitempty,max=100"`
	Model        null.String `json:"model" validate:"omitempty,max=100"`

	Patch `json:"-"`
}

func (d *UpdateAssetDTO) setPatch(p Patch) { d.Patch = p }

type AssetDTO struct {
	ID           uint64               `json:"id"`
	CustomID     string               `json:"customId"`
	Name         string               `json:"name"`
	Description  *string              `json:"description,omitempty"`
	Status       entities.AssetStatus `json:"status"`
	LocationID   *uint64              `json:"locationId,omitempty"`
	SerialNumber *string              `json:"serialNumber,omitempty"`
	Model        *string              `json:"model,omitempty"`
	CreatedBy    uint64               `json:"createdBy"`
	CreatedAt    *time.Time           `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time           `json:"updatedAt,omitempty"`

	CanEdit   *bool `json:"canEdit,omitempty"`
	CanDelete *bool `json:"canDelete,omitempty"`
}

func NewAssetDTO(a entities.Asset) AssetDTO {
	return AssetDTO{
		ID:           a.ID,
		CustomID:     a.CustomID,
		Name:         a.Name,
		Description:  a.Description,
		Status:       a.Status,
		LocationID:   a.LocationID,
		SerialNumber: a.SerialNumber,
		Model:        a.Model,
		CreatedBy:    a.CreatedBy,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

var AssetExportHeaders = []string{"ID", "Name", "Status", "Serial number", "Model", "Created by"}

func (a AssetDTO) ExportRow() []interface{} {
	return []interface{}{a.CustomID, a.Name, string(a.Status), utils.SafeDeref(a.SerialNumber), utils.SafeDeref(a.Model), a.CreatedBy}
}

func (d CreateAssetDTO) ToEntity(companyID, createdBy uint64) entities.Asset {
	a := entities.Asset{
		CompanyID:    companyID,
		Name:         d.Name,
		Description:  d.Description,
		Status:       entities.AssetOperational,
		LocationID:   d.LocationID,
		SerialNumber: d.SerialNumber,
		Model:        d.Model,
		CreatedBy:    createdBy,
	}
	if d.Status != "" {
		a.Status = entities.AssetStatus(d.Status)
	}
	return a
}

func (d *UpdateAssetDTO) ApplyTo(a *entities.Asset) {
	if d.Has("name") && d.Name.Valid {
		a.Name = d.Name.String
	}
	if d.Has("description") {
		a.Description = d.Description.Ptr()
	}
	if d.Has("status") && d.Status.Valid {
		a.Status = entities.AssetStatus(d.Status.String)
	}
	if d.Has("locationId") {
		a.LocationID = d.LocationID.Ptr()
	}
	if d.Has("serialNumber") {
		a.SerialNumber = d.SerialNumber.Ptr()
	}
	if d.Has("model") {
		a.Model = d.Model.Ptr()
	}
}
