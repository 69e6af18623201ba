package hub

import "github.com/google/uuid"

// Client is one WebSocket connection watching a session. The hub closes Send
// when the client is unregistered, dropped or its session is deleted.
type Client struct {
	ID        string
	SessionID string
	Send      chan []byte
}

func NewClient(sessionID string) *Client {
	return &Client{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Send:      make(chan []byte, sendBufferSize),
	}
}
