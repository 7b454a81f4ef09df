package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/akinstitute/liveclass/internal/chat"
	"github.com/akinstitute/liveclass/internal/config"
	"github.com/akinstitute/liveclass/internal/hub"
	"github.com/akinstitute/liveclass/internal/service"
	"github.com/akinstitute/liveclass/pkg/log"
	"github.com/akinstitute/liveclass/pkg/token"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Websocket event types.
const (
	EventChatMessage = "chat_message"
	EventChatHistory = "chat_history"
	EventRaiseHand   = "raise_hand"
	EventError       = "error"
)

type wsEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outboundEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type chatPayload struct {
	Text string `json:"text"`
}

type raiseHandPayload struct {
	Raised bool `json:"raised"`
}

// WSHandler serves the classroom chat websocket. The access token travels
// as a query parameter because browser websocket clients cannot set
// headers.
type WSHandler struct {
	hub        *hub.Hub
	classrooms *service.ClassroomManager
	verifier   *token.Verifier
	wsCfg      config.WebSocketConfig
	chatTail   int
}

func NewWSHandler(h *hub.Hub, classrooms *service.ClassroomManager, verifier *token.Verifier, wsCfg config.WebSocketConfig, chatTail int) *WSHandler {
	return &WSHandler{
		hub:        h,
		classrooms: classrooms,
		verifier:   verifier,
		wsCfg:      wsCfg,
		chatTail:   chatTail,
	}
}

func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws/classrooms/:courseID", h.HandleClassroom)
}

func (h *WSHandler) HandleClassroom(c *gin.Context) {
	identity, err := h.verifier.Verify(c.Query("token"))
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	courseID := c.Param("courseID")
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.L().Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), courseID, *identity, h.hub, conn, h.wsCfg)
	h.hub.Register(client)
	h.hub.JoinClassroom(client, courseID)

	go client.WritePump()
	go client.ReadPump(h.handleMessage)

	// Late joiners get the transcript so far.
	room := h.classrooms.Get(courseID)
	client.SendEvent(outboundEvent{Type: EventChatHistory, Payload: room.ChatTail(h.chatTail)})
}

func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	var event wsEvent
	if err := json.Unmarshal(message, &event); err != nil {
		client.SendEvent(outboundEvent{Type: EventError, Payload: "invalid message format"})
		return
	}

	room := h.classrooms.Get(client.ClassroomID)

	switch event.Type {
	case EventChatMessage:
		var payload chatPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			client.SendEvent(outboundEvent{Type: EventError, Payload: "invalid chat payload"})
			return
		}

		msg, err := room.AppendChat(client.Identity, payload.Text)
		if err != nil {
			if errors.Is(err, chat.ErrEmptyMessage) {
				client.SendEvent(outboundEvent{Type: EventError, Payload: "message is empty"})
				return
			}
			log.L().Error().Err(err).Str("client_id", client.ID).Msg("failed to append chat message")
			return
		}

		// Everyone including the sender receives the stored message, so
		// all transcripts carry the same ID and timestamp.
		if err := h.hub.BroadcastToClassroom(client.ClassroomID, outboundEvent{Type: EventChatMessage, Payload: msg}, ""); err != nil {
			log.L().Error().Err(err).Msg("failed to broadcast chat message")
		}

	case EventRaiseHand:
		var payload raiseHandPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			client.SendEvent(outboundEvent{Type: EventError, Payload: "invalid raise_hand payload"})
			return
		}

		if err := room.RaiseHand(client.Identity.UserID, payload.Raised); err != nil {
			client.SendEvent(outboundEvent{Type: EventError, Payload: "unknown participant"})
			return
		}
		h.hub.BroadcastToClassroom(client.ClassroomID, outboundEvent{
			Type: EventRaiseHand,
			Payload: gin.H{
				"participant_id": client.Identity.UserID,
				"raised":         payload.Raised,
			},
		}, "")

	default:
		client.SendEvent(outboundEvent{Type: EventError, Payload: "unknown event type"})
	}
}
