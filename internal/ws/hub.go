package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Hub fans out real-time events to connected clients: transaction
// lifecycle broadcasts and relayed OCR suggestions.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Println("WS client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastEvent marshals a typed event payload and queues it for all
// clients. Safe to call on a nil hub (tests run without one).
func (h *Hub) BroadcastEvent(event string, payload map[string]interface{}) {
	if h == nil {
		return
	}
	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["type"] = event

	msg, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ws: failed to marshal %s event: %v", event, err)
		return
	}
	h.Broadcast <- msg
}
