package listeners

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/websocket"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[uint64][]websocket.Envelope
}

func (n *recordingNotifier) SendToUser(userID uint64, env websocket.Envelope) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sent == nil {
		n.sent = make(map[uint64][]websocket.Envelope)
	}
	n.sent[userID] = append(n.sent[userID], env)
	return nil
}

func TestWorkOrderListener_UpdatedGoesToAssigneesExceptActor(t *testing.T) {
	notifier := &recordingNotifier{}
	bus := eventbus.New(zap.NewNop())
	NewWorkOrderListener(notifier, zap.NewNop()).Register(bus)

	wo := entities.WorkOrder{
		ID:          1,
		Title:       "Replace filter",
		PrimaryUser: &entities.User{ID: 2},
		Team:        &entities.Team{ID: 9, Users: []entities.User{{ID: 2}, {ID: 3}}},
		AssignedTo:  []entities.User{{ID: 4}},
	}
	bus.Publish(context.Background(), events.WorkOrderUpdated{WorkOrder: wo, ActorID: 4})
	bus.Wait()

	require.Len(t, notifier.sent, 2)
	assert.Len(t, notifier.sent[2], 1)
	assert.Len(t, notifier.sent[3], 1)
	assert.NotContains(t, notifier.sent, uint64(4))
	assert.Equal(t, websocket.TypeWorkOrderUpdated, notifier.sent[2][0].Type)
}

func TestWorkOrderListener_Deleted(t *testing.T) {
	notifier := &recordingNotifier{}
	bus := eventbus.New(zap.NewNop())
	NewWorkOrderListener(notifier, zap.NewNop()).Register(bus)

	bus.Publish(context.Background(), events.WorkOrderDeleted{
		WorkOrderID: 7,
		CustomID:    "WO7",
		Assignees:   []entities.User{{ID: 5}},
		ActorID:     1,
	})
	bus.Wait()

	require.Len(t, notifier.sent[5], 1)
	env := notifier.sent[5][0]
	assert.Equal(t, websocket.TypeWorkOrderDeleted, env.Type)
	assert.Equal(t, map[string]interface{}{"id": uint64(7), "customId": "WO7"}, env.Payload)
}
