package listeners

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/websocket"
)

// Notifier is the part of the websocket hub the listener needs.
type Notifier interface {
	SendToUser(userID uint64, env websocket.Envelope) error
}

// WorkOrderListener pushes work order changes to the live sessions of every
// assignee. The user who made the change is not notified.
type WorkOrderListener struct {
	notifier Notifier
	logger   *zap.Logger
}

func NewWorkOrderListener(notifier Notifier, logger *zap.Logger) *WorkOrderListener {
	return &WorkOrderListener{notifier: notifier, logger: logger}
}

func (l *WorkOrderListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.WorkOrderUpdatedEvent, l.handleUpdated)
	bus.Subscribe(events.WorkOrderDeletedEvent, l.handleDeleted)
	l.logger.Info("work order listener subscribed",
		zap.Strings("events", []string{events.WorkOrderUpdatedEvent, events.WorkOrderDeletedEvent}))
}

func (l *WorkOrderListener) handleUpdated(ctx context.Context, e eventbus.Event) error {
	event, ok := e.(events.WorkOrderUpdated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	payload := dto.NewWorkOrderDTO(event.WorkOrder)
	env := websocket.Envelope{Type: websocket.TypeWorkOrderUpdated, Payload: payload}
	return l.fanOut(ctx, event.WorkOrder.Assignees(), event.ActorID, env)
}

func (l *WorkOrderListener) handleDeleted(ctx context.Context, e eventbus.Event) error {
	event, ok := e.(events.WorkOrderDeleted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	env := websocket.Envelope{
		Type:    websocket.TypeWorkOrderDeleted,
		Payload: map[string]interface{}{"id": event.WorkOrderID, "customId": event.CustomID},
	}
	return l.fanOut(ctx, event.Assignees, event.ActorID, env)
}

func (l *WorkOrderListener) fanOut(ctx context.Context, recipients []entities.User, actorID uint64, env websocket.Envelope) error {
	var errs []error
	sent := 0
	for _, u := range recipients {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if u.ID == actorID {
			continue
		}
		if err := l.notifier.SendToUser(u.ID, env); err != nil {
			errs = append(errs, fmt.Errorf("notify user %d: %w", u.ID, err))
			continue
		}
		sent++
	}
	l.logger.Debug("work order notification fanned out", zap.String("type", env.Type), zap.Int("recipients", sent))
	return errors.Join(errs...)
}
