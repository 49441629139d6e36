package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"maintenance-system/pkg/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 256
)

// MessageHandler receives every text frame read from the client.
type MessageHandler func(c *Client, raw []byte)

// Client is one websocket connection of a user.
type Client struct {
	ID     string
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uint64
	// Seq guards search responses so that a slow answer to an older query
	// never replaces a newer one on the client.
	Seq *types.Sequencer
	// seqMu keeps Seq.Accept and the queueing of the accepted response
	// together.
	seqMu sync.Mutex

	onMessage MessageHandler
	logger    *zap.Logger
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint64, onMessage MessageHandler, logger *zap.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		ID:        id,
		Hub:       hub,
		Conn:      conn,
		Send:      make(chan []byte, sendBuffer),
		UserID:    userID,
		Seq:       types.NewSequencer(),
		onMessage: onMessage,
		logger:    logger.With(zap.String("connID", id), zap.Uint64("userID", userID)),
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { return c.Conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		msgType, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		if msgType == websocket.TextMessage && c.onMessage != nil {
			c.onMessage(c, raw)
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
