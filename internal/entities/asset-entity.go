package entities

import "maintenance-system/pkg/types"

type AssetStatus string

const (
	AssetOperational   AssetStatus = "OPERATIONAL"
	AssetDown          AssetStatus = "DOWN"
	AssetStandBy       AssetStatus = "STANDBY"
	AssetModernization AssetStatus = "MODERNIZATION"
	AssetInspection    AssetStatus = "INSPECTION_SCHEDULED"
	AssetEmergencyShut AssetStatus = "EMERGENCY_SHUTDOWN"
)

type Asset struct {
	ID           uint64      `json:"id" db:"id"`
	CompanyID    uint64      `json:"companyId" db:"company_id"`
	CustomID     string      `json:"customId" db:"custom_id"`
	Name         string      `json:"name" db:"name"`
	Description  *string     `json:"description,omitempty" db:"description"`
	Status       AssetStatus `json:"status" db:"status"`
	LocationID   *uint64     `json:"locationId,omitempty" db:"location_id"`
	SerialNumber *string     `json:"serialNumber,omitempty" db:"serial_number"`
	Model        *string     `json:"model,omitempty" db:"model"`
	CreatedBy    uint64      `json:"createdBy" db:"created_by"`

	types.BaseEntity
	types.SoftDelete
}

func (a *Asset) CreatorID() (uint64, bool) {
	if a == nil {
		return 0, false
	}
	return a.CreatedBy, true
}
