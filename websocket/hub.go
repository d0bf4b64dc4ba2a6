package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/tottisilva/poc-documents-training/models"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// ProgressEvent is pushed to the affected user whenever their training-level
// status changes.
type ProgressEvent struct {
	UserID     uuid.UUID     `json:"user_id"`
	TrainingID uuid.UUID     `json:"training_id"`
	NewStatus  models.Status `json:"new_status"`
	Comment    string        `json:"comment"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *ProgressEvent)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			clientsMu.RLock()
			conn, ok := clients[event.UserID]
			clientsMu.RUnlock()
			if !ok {
				continue
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("Error sending event to client %s: %v", event.UserID, err)
				conn.Close()
				clientsMu.Lock()
				delete(clients, event.UserID)
				clientsMu.Unlock()
			}
		}
	}
}

// Notify pushes a progress event without blocking the caller when the hub is
// not draining.
func Notify(event *ProgressEvent) {
	select {
	case Broadcast <- event:
	default:
		log.Printf("Progress event dropped for user %s", event.UserID)
	}
}
