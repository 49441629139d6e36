package websocket

import "time"

// Envelope is every server-to-client frame. Seq echoes the client's sequence
// number for responses to a request and is zero for pushed events.
type Envelope struct {
	Type      string      `json:"type"`
	Seq       uint64      `json:"seq,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	TypeSearchResult     = "search.result"
	TypeError            = "error"
	TypeWorkOrderUpdated = "work_order.updated"
	TypeWorkOrderDeleted = "work_order.deleted"
)
