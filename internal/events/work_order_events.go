package events

import "maintenance-system/internal/entities"

const (
	WorkOrderUpdatedEvent = "work_order.updated"
	WorkOrderDeletedEvent = "work_order.deleted"
)

// WorkOrderUpdated is published after a work order change is committed.
type WorkOrderUpdated struct {
	WorkOrder entities.WorkOrder
	ActorID   uint64
}

func (e WorkOrderUpdated) Name() string {
	return WorkOrderUpdatedEvent
}

// WorkOrderDeleted carries the assignees as they were before the delete.
type WorkOrderDeleted struct {
	WorkOrderID uint64
	CustomID    string
	Assignees   []entities.User
	ActorID     uint64
}

func (e WorkOrderDeleted) Name() string {
	return WorkOrderDeletedEvent
}
