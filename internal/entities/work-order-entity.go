package entities

import (
	"time"

	"maintenance-system/pkg/types"
)

type WorkOrderStatus string

const (
	StatusOpen       WorkOrderStatus = "OPEN"
	StatusInProgress WorkOrderStatus = "IN_PROGRESS"
	StatusOnHold     WorkOrderStatus = "ON_HOLD"
	StatusComplete   WorkOrderStatus = "COMPLETE"
)

type Priority string

const (
	PriorityNone   Priority = "NONE"
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

type WorkOrder struct {
	ID          uint64          `json:"id" db:"id"`
	CompanyID   uint64          `json:"companyId" db:"company_id"`
	CustomID    string          `json:"customId" db:"custom_id"`
	Title       string          `json:"title" db:"title"`
	Description *string         `json:"description,omitempty" db:"description"`
	Status      WorkOrderStatus `json:"status" db:"status"`
	Priority    Priority        `json:"priority" db:"priority"`
	DueDate     *time.Time      `json:"dueDate,omitempty" db:"due_date"`
	AssetID     *uint64         `json:"assetId,omitempty" db:"asset_id"`
	LocationID  *uint64         `json:"locationId,omitempty" db:"location_id"`
	CreatedBy   uint64          `json:"createdBy" db:"created_by"`

	PrimaryUser *User  `json:"primaryUser,omitempty" db:"-"`
	Team        *Team  `json:"team,omitempty" db:"-"`
	AssignedTo  []User `json:"assignedTo" db:"-"`

	types.BaseEntity
	types.SoftDelete
}

func (w *WorkOrder) CreatorID() (uint64, bool) {
	if w == nil {
		return 0, false
	}
	return w.CreatedBy, true
}

// Assignees is the union of the primary user, the team members and the
// explicitly assigned users, deduplicated by id in that order.
func (w *WorkOrder) Assignees() []User {
	if w == nil {
		return nil
	}
	seen := make(map[uint64]struct{})
	var out []User
	add := func(u User) {
		if _, dup := seen[u.ID]; dup {
			return
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}

	if w.PrimaryUser != nil {
		add(*w.PrimaryUser)
	}
	if w.Team != nil {
		for _, u := range w.Team.Users {
			add(u)
		}
	}
	for _, u := range w.AssignedTo {
		add(u)
	}
	return out
}

// IsAssigned reports whether userID is among the assignees.
func (w *WorkOrder) IsAssigned(userID uint64) bool {
	for _, u := range w.Assignees() {
		if u.ID == userID {
			return true
		}
	}
	return false
}
