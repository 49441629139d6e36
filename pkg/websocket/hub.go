package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub tracks live connections by user.
type Hub struct {
	clients     map[*Client]struct{}
	userClients map[uint64][]*Client
	register    chan *Client
	unregister  chan *Client
	mu          sync.RWMutex
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]struct{}),
		userClients: make(map[uint64][]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		logger:      logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				h.remove(c)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Debug("websocket client registered", zap.String("connID", client.ID), zap.Uint64("userID", client.UserID))
		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Register(c *Client) {
	h.register <- c
}

func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// remove must be called with mu held.
func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)

	clients := h.userClients[client.UserID]
	for i, c := range clients {
		if c == client {
			h.userClients[client.UserID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.userClients[client.UserID]) == 0 {
		delete(h.userClients, client.UserID)
	}
	h.logger.Debug("websocket client removed", zap.String("connID", client.ID), zap.Uint64("userID", client.UserID))
}

func encode(env Envelope) ([]byte, error) {
	if env.Timestamp.IsZero() {
		env.Timestamp = time.Now().UTC()
	}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode websocket envelope: %w", err)
	}
	return b, nil
}

// deliver must be called with mu held for reading. A client whose buffer is
// full misses the message instead of stalling the caller.
func (h *Hub) deliver(c *Client, msg []byte) bool {
	if _, ok := h.clients[c]; !ok {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		h.logger.Warn("websocket send buffer full, message dropped", zap.String("connID", c.ID))
		return false
	}
}

// SendToClient writes env to a single connection if it is still open.
func (h *Hub) SendToClient(c *Client, env Envelope) error {
	msg, err := encode(env)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliver(c, msg)
	return nil
}

// SendSequenced queues env for c only when seq is newer than every response
// already sent on that connection. Responses therefore reach the send buffer
// in sequence order even when they are produced concurrently.
func (h *Hub) SendSequenced(c *Client, seq uint64, env Envelope) (bool, error) {
	msg, err := encode(env)
	if err != nil {
		return false, err
	}
	c.seqMu.Lock()
	defer c.seqMu.Unlock()
	if !c.Seq.Accept(seq) {
		return false, nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliver(c, msg)
	return true, nil
}

// SendToUser writes env to every connection of userID.
func (h *Hub) SendToUser(userID uint64, env Envelope) error {
	msg, err := encode(env)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.userClients[userID] {
		h.deliver(c, msg)
	}
	return nil
}

// Connected reports whether userID has at least one open connection.
func (h *Hub) Connected(userID uint64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userClients[userID]) > 0
}
