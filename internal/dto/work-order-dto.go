package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"maintenance-system/internal/entities"
)

type CreateWorkOrderDTO struct {
	Title         string     `json:"title" validate:"required,max=255"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Priority      string     `json:"priority,omitempty" validate:"omitempty,priority"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	AssetID       *uint64    `json:"assetId,omitempty"`
	LocationID    *uint64    `json:"locationId,omitempty"`
	PrimaryUserID *uint64    `json:"primaryUserId,omitempty"`
	TeamID        *uint64    `json:"teamId,omitempty"`
	AssignedToIDs []uint64   `json:"assignedToIds,omitempty" validate:"omitempty,max=50,dive,gt=0"`
}

// UpdateWorkOrderDTO is a partial update. Keys missing from the body keep
// their value; nullable keys sent as null are cleared.
type UpdateWorkOrderDTO struct {
	Title         null.String `json:"title" validate:"omitempty,max=255"`
	Description   null.String `json:"description" validate:"omitempty,max=5000"`
	Status        null.String `json:"status" validate:"omitempty,work_order_status"`
	Priority      null.String `json:"priority" validate:"omitempty,priority"`
	DueDate       null.Time   `json:"dueDate"`
	AssetID       null.Uint64 `json:"assetId"`
	LocationID    null.Uint64 `json:"locationId"`
	PrimaryUserID null.Uint64 `json:"primaryUserId"`
	TeamID        null.Uint64 `json:"teamId"`
	AssignedToIDs *[]uint64   `json:"assignedToIds" validate:"omitempty,max=50,dive,gt=0"`

	Patch `json:"-"`
}

func (d *UpdateWorkOrderDTO) setPatch(p Patch) { d.Patch = p }

type WorkOrderDTO struct {
	ID          uint64                   `json:"id"`
	CustomID    string                   `json:"customId"`
	Title       string                   `json:"title"`
	Description *string                  `json:"description,omitempty"`
	Status      entities.WorkOrderStatus `json:"status"`
	Priority    entities.Priority        `json:"priority"`
	DueDate     *time.Time               `json:"dueDate,omitempty"`
	AssetID     *uint64                  `json:"assetId,omitempty"`
	LocationID  *uint64                  `json:"locationId,omitempty"`
	PrimaryUser *UserMiniDTO             `json:"primaryUser,omitempty"`
	TeamID      *uint64                  `json:"teamId,omitempty"`
	AssignedTo  []UserMiniDTO            `json:"assignedTo"`
	Assignees   []UserMiniDTO            `json:"assignees,omitempty"`
	CreatedBy   uint64                   `json:"createdBy"`
	CreatedAt   *time.Time               `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time               `json:"updatedAt,omitempty"`

	// Per-instance answers so the detail screen can show or hide actions.
	CanEdit   *bool `json:"canEdit,omitempty"`
	CanDelete *bool `json:"canDelete,omitempty"`
}

func NewWorkOrderDTO(wo entities.WorkOrder) WorkOrderDTO {
	out := WorkOrderDTO{
		ID:          wo.ID,
		CustomID:    wo.CustomID,
		Title:       wo.Title,
		Description: wo.Description,
		Status:      wo.Status,
		Priority:    wo.Priority,
		DueDate:     wo.DueDate,
		AssetID:     wo.AssetID,
		LocationID:  wo.LocationID,
		AssignedTo:  make([]UserMiniDTO, 0, len(wo.AssignedTo)),
		CreatedBy:   wo.CreatedBy,
		CreatedAt:   wo.CreatedAt,
		UpdatedAt:   wo.UpdatedAt,
	}
	if wo.PrimaryUser != nil {
		mini := NewUserMiniDTO(*wo.PrimaryUser)
		out.PrimaryUser = &mini
	}
	if wo.Team != nil {
		out.TeamID = &wo.Team.ID
	}
	for _, u := range wo.AssignedTo {
		out.AssignedTo = append(out.AssignedTo, NewUserMiniDTO(u))
	}
	return out
}

var WorkOrderExportHeaders = []string{"ID", "Title", "Status", "Priority", "Due date", "Primary user", "Created by", "Created at"}

func (w WorkOrderDTO) ExportRow() []interface{} {
	primary := ""
	if w.PrimaryUser != nil {
		primary = w.PrimaryUser.FullName
	}
	var due, created interface{}
	if w.DueDate != nil {
		due = *w.DueDate
	}
	if w.CreatedAt != nil {
		created = *w.CreatedAt
	}
	return []interface{}{w.CustomID, w.Title, string(w.Status), string(w.Priority), due, primary, w.CreatedBy, created}
}

// ApplyTo copies the sent fields onto wo. Relations are set as id-only stubs.
func (d *UpdateWorkOrderDTO) ApplyTo(wo *entities.WorkOrder) {
	if d.Has("title") && d.Title.Valid {
		wo.Title = d.Title.String
	}
	if d.Has("description") {
		wo.Description = d.Description.Ptr()
	}
	if d.Has("status") && d.Status.Valid {
		wo.Status = entities.WorkOrderStatus(d.Status.String)
	}
	if d.Has("priority") && d.Priority.Valid {
		wo.Priority = entities.Priority(d.Priority.String)
	}
	if d.Has("dueDate") {
		wo.DueDate = d.DueDate.Ptr()
	}
	if d.Has("assetId") {
		wo.AssetID = d.AssetID.Ptr()
	}
	if d.Has("locationId") {
		wo.LocationID = d.LocationID.Ptr()
	}
	if d.Has("primaryUserId") {
		wo.PrimaryUser = nil
		if d.PrimaryUserID.Valid {
			wo.PrimaryUser = &entities.User{ID: d.PrimaryUserID.Uint64}
		}
	}
	if d.Has("teamId") {
		wo.Team = nil
		if d.TeamID.Valid {
			wo.Team = &entities.Team{ID: d.TeamID.Uint64}
		}
	}
}

// ToEntity builds the work order to insert. Status always starts OPEN.
func (d CreateWorkOrderDTO) ToEntity(companyID, createdBy uint64) entities.WorkOrder {
	wo := entities.WorkOrder{
		CompanyID:   companyID,
		Title:       d.Title,
		Description: d.Description,
		Status:      entities.StatusOpen,
		Priority:    entities.PriorityNone,
		DueDate:     d.DueDate,
		AssetID:     d.AssetID,
		LocationID:  d.LocationID,
		CreatedBy:   createdBy,
	}
	if d.Priority != "" {
		wo.Priority = entities.Priority(d.Priority)
	}
	if d.PrimaryUserID != nil {
		wo.PrimaryUser = &entities.User{ID: *d.PrimaryUserID}
	}
	if d.TeamID != nil {
		wo.Team = &entities.Team{ID: *d.TeamID}
	}
	return wo
}
