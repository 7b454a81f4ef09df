// Package hub fans classroom chat events out over websocket connections.
// One Hub serves every classroom; clients join the classroom they are
// attending and receive everything broadcast to it.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/akinstitute/liveclass/internal/config"
	"github.com/akinstitute/liveclass/pkg/log"
)

type Hub struct {
	clients    map[string]*Client            // clientID -> client
	classrooms map[string]map[string]*Client // classroomID -> clientID -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *classroomMessage
	mu         sync.RWMutex
	config     config.WebSocketConfig
}

type classroomMessage struct {
	ClassroomID string
	Message     []byte
	Exclude     string // client ID to skip, usually the sender
}

func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		classrooms: make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *classroomMessage, 256),
		config:     cfg,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.L().Debug().Str("client_id", client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				for classroomID, members := range h.classrooms {
					delete(members, client.ID)
					if len(members) == 0 {
						delete(h.classrooms, classroomID)
					}
				}
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.L().Debug().Str("client_id", client.ID).Msg("client unregistered")

		case msg := <-h.broadcast:
			h.mu.RLock()
			if members, ok := h.classrooms[msg.ClassroomID]; ok {
				for clientID, client := range members {
					if clientID == msg.Exclude {
						continue
					}
					select {
					case client.Send <- msg.Message:
					default:
						go h.removeClient(client)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) JoinClassroom(client *Client, classroomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.classrooms[classroomID]; !ok {
		h.classrooms[classroomID] = make(map[string]*Client)
	}
	h.classrooms[classroomID][client.ID] = client
	log.L().Info().
		Str("client_id", client.ID).
		Str(log.FieldClassroomID, classroomID).
		Str(log.FieldUserID, client.Identity.UserID).
		Msg("client joined classroom")
}

func (h *Hub) LeaveClassroom(client *Client, classroomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.classrooms[classroomID]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.classrooms, classroomID)
		}
	}
	log.L().Info().
		Str("client_id", client.ID).
		Str(log.FieldClassroomID, classroomID).
		Msg("client left classroom")
}

// BroadcastToClassroom marshals the event and queues it for every member
// of the classroom except the excluded client.
func (h *Hub) BroadcastToClassroom(classroomID string, event interface{}, exclude string) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.broadcast <- &classroomMessage{
		ClassroomID: classroomID,
		Message:     data,
		Exclude:     exclude,
	}
	return nil
}

func (h *Hub) ClassroomClientCount(classroomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if members, ok := h.classrooms[classroomID]; ok {
		return len(members)
	}
	return 0
}

func (h *Hub) removeClient(client *Client) {
	h.unregister <- client
}
