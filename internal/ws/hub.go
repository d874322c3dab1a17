// Package ws pushes live menu updates to viewers of a public menu page.
// Clients subscribe to one restaurant by slug; menu mutations broadcast a
// menu.updated event to every subscriber of that restaurant.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/magicmenu/magicmenu-backend/pkg/logger"
)

// Event is the wire format pushed to subscribers.
type Event struct {
	Type      string      `json:"type"`
	Slug      string      `json:"slug"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

const EventMenuUpdated = "menu.updated"

// Client is one websocket subscription to a restaurant's menu.
type Client struct {
	Hub  *Hub
	Conn *Conn
	Slug string
	Send chan []byte
}

// Hub tracks menu subscribers per restaurant slug.
type Hub struct {
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMessage

	mu sync.RWMutex
}

type broadcastMessage struct {
	Slug    string
	Message []byte
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *broadcastMessage, 1024),
	}
}

// Run processes subscriptions and broadcasts. Call once from a goroutine at
// startup.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Slug]; !ok {
				h.rooms[client.Slug] = make(map[*Client]bool)
			}
			h.rooms[client.Slug][client] = true
			subscribers := len(h.rooms[client.Slug])
			h.mu.Unlock()

			logger.Info("Menu subscriber registered", map[string]interface{}{
				"slug":        client.Slug,
				"subscribers": subscribers,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Slug]; ok {
				if _, subscribed := clients[client]; subscribed {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(h.rooms, client.Slug)
					}
				}
			}
			h.mu.Unlock()

			logger.Info("Menu subscriber unregistered", map[string]interface{}{
				"slug": client.Slug,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.rooms[message.Slug] {
				select {
				case client.Send <- message.Message:
				default:
					// Send buffer full - disconnect asynchronously.
					go h.Unregister(client)
					logger.Warn("Subscriber send buffer full, disconnecting", map[string]interface{}{
						"slug": message.Slug,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish broadcasts an event to every subscriber of a restaurant. A full
// broadcast channel drops the event; live updates are best-effort.
func (h *Hub) Publish(slug, eventType string, payload interface{}) {
	event := Event{
		Type:      eventType,
		Slug:      slug,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", err, map[string]interface{}{
			"slug": slug,
			"type": eventType,
		})
		return
	}

	select {
	case h.broadcast <- &broadcastMessage{Slug: slug, Message: data}:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"slug": slug,
			"type": eventType,
		})
	}
}

// Register subscribes a client to its restaurant's events.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client's subscription.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SubscriberCount reports the number of live subscriptions for a slug.
func (h *Hub) SubscriberCount(slug string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[slug])
}
