package hub

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/akinstitute/liveclass/internal/config"
	"github.com/akinstitute/liveclass/pkg/log"
	"github.com/akinstitute/liveclass/pkg/token"
)

// Client is one websocket connection attending a classroom. Identity comes
// from the verified access token, never from the wire.
type Client struct {
	ID          string
	ClassroomID string
	Identity    token.Identity
	Hub         *Hub
	Conn        *websocket.Conn
	Send        chan []byte
	config      config.WebSocketConfig
}

func NewClient(id, classroomID string, identity token.Identity, hub *Hub, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	return &Client{
		ID:          id,
		ClassroomID: classroomID,
		Identity:    identity,
		Hub:         hub,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		config:      cfg,
	}
}

// ReadPump consumes inbound frames until the connection drops, passing
// each to the handler. It owns the read side and the unregister.
func (c *Client) ReadPump(handler func(*Client, []byte)) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.L().Warn().Err(err).Str("client_id", c.ID).Msg("websocket read error")
			}
			break
		}

		handler(c, message)
	}
}

// WritePump drains the send queue and keeps the connection alive with
// pings. It owns the write side.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent queues a single event for this client, dropping it if the
// queue is full rather than blocking the caller.
func (c *Client) SendEvent(event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	select {
	case c.Send <- data:
	default:
	}
	return nil
}
