package ws

import (
	"encoding/json"
	"sync"

	"github.com/hazique/iotstore-backend/pkg/logger"
)

// Client is one admin dashboard connection.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub fans low-stock alerts out to every connected admin session.
type Hub struct {
	// registered clients (UserID -> []*Client, multi-device support)
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
	}
}

// Run processes register/unregister/broadcast events. Call once in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			// A session can be unregistered twice (read loop teardown racing a
			// full-buffer drop); only the removal that finds it closes Send.
			found := false
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					} else {
						found = true
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}
			}
			h.mu.Unlock()

			if found {
				close(client.Send)
				logger.Info("WebSocket client unregistered", map[string]interface{}{
					"user_id": client.UserID,
				})
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			for userID, clientList := range h.clients {
				for _, client := range clientList {
					select {
					case client.Send <- message:
						// delivered
					default:
						// send buffer stuck, drop the session asynchronously
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"user_id": userID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a JSON payload to every connected session. Delivery is
// best effort: a full broadcast queue drops the message rather than block.
func (h *Hub) Broadcast(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal broadcast message", err, nil)
		return err
	}

	select {
	case h.broadcast <- data:
		return nil
	default:
		logger.Warn("Broadcast channel full, message dropped", nil)
		return nil
	}
}

// Register adds a client connection
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client connection
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline reports whether the user has at least one live session
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
