package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Event — сообщение, рассылаемое подписчикам комнаты.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	Room    string      `json:"room,omitempty"`
}

// Hub держит websocket-подписки, сгруппированные по комнатам.
// Комната — категория лестницы ("category_<id>") или турнир
// ("tournament_<id>"). Hub.Run должен работать в отдельной горутине.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	rooms map[string]map[*Client]bool
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func CategoryRoom(categoryID int) string {
	return fmt.Sprintf("category_%d", categoryID)
}

func TournamentRoom(tournamentID int) string {
	return fmt.Sprintf("tournament_%d", tournamentID)
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			log.Printf("realtime: client joined room %s (%d total)", client.Room, len(h.rooms[client.Room]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok {
				if _, registered := clients[client]; registered {
					client.mu.Lock()
					if !client.closed {
						close(client.send)
						client.closed = true
					}
					client.mu.Unlock()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.Room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom отправляет событие всем подписчикам комнаты.
// Клиенты с переполненным каналом пропускаются: медленный подписчик
// не должен тормозить рассылку.
func (h *Hub) BroadcastToRoom(room string, event Event) {
	event.Room = room

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: failed to marshal event for room %s: %v", room, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[room] {
		client.mu.Lock()
		if client.closed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.send <- data:
		default:
			log.Printf("realtime: send buffer full for a client in room %s, skipping", room)
		}
		client.mu.Unlock()
	}
}
