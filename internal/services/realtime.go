package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moodler-app/backend/internal/models"
)

// Journal event types broadcast to a user's connected clients.
const (
	EventEntrySaved      = "entry_saved"
	EventEntryDeleted    = "entry_deleted"
	EventEntryFavourited = "entry_favourited"
)

const journalChannelPrefix = "journal:user:"

// JournalEvent is the payload published over Redis and fanned out over
// WebSocket whenever a user's journal changes. It replaces the app's implicit
// "object changed" broadcast with an explicit subscription mechanism.
type JournalEvent struct {
	Type      string        `json:"type"`
	OwnerID   string        `json:"owner_id"`
	EntryID   string        `json:"entry_id"`
	Entry     *models.Entry `json:"entry,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// EventConn is the minimal interface a WebSocket connection must satisfy.
type EventConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// EventHub registers a user's live connections and fans journal events out
// to them. Cross-instance delivery goes through Redis pub/sub so a save on
// one instance reaches a client connected to another.
type EventHub struct {
	client *redis.Client

	mu          sync.RWMutex
	connections map[string]map[EventConn]*sync.Mutex // user id -> live conns with write locks

	subscribeOnce sync.Once
}

func NewEventHub(client *redis.Client) *EventHub {
	return &EventHub{
		client:      client,
		connections: make(map[string]map[EventConn]*sync.Mutex),
	}
}

// Register adds a user connection to the hub.
func (h *EventHub) Register(userID string, conn EventConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connections[userID] == nil {
		h.connections[userID] = make(map[EventConn]*sync.Mutex)
	}
	h.connections[userID][conn] = &sync.Mutex{}
}

// Unregister removes a user connection.
func (h *EventHub) Unregister(userID string, conn EventConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.connections[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.connections, userID)
		}
	}
}

// Publish pushes an event onto the owner's Redis channel. Delivery is best
// effort: a publish failure is logged, never surfaced to the mutation that
// triggered it.
func (h *EventHub) Publish(ctx context.Context, event JournalEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal journal event: %v", err)
		return
	}
	if err := h.client.Publish(ctx, journalChannelPrefix+event.OwnerID, data).Err(); err != nil {
		log.Printf("failed to publish journal event: %v", err)
	}
}

// StartSubscriber ensures a single shared Redis listener per instance.
func (h *EventHub) StartSubscriber(ctx context.Context) {
	h.subscribeOnce.Do(func() {
		go h.runSubscriber(ctx)
	})
}

func (h *EventHub) runSubscriber(ctx context.Context) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := h.client.PSubscribe(ctx, journalChannelPrefix+"*")
			defer pubsub.Close()

			log.Println("✅ Journal event subscriber started")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("journal event subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event JournalEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal journal event: %v", err)
					continue
				}

				h.fanOut(event)
			}
		}()
	}
}

// fanOut sends an event to the owner's local connections. Each connection
// carries its own write lock: gorilla/websocket forbids concurrent writers,
// and back-to-back events would otherwise race on the same connection.
func (h *EventHub) fanOut(event JournalEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn, writeMu := range h.connections[event.OwnerID] {
		// Best-effort send; a slow connection only delays its own events.
		go func(c EventConn, mu *sync.Mutex) {
			mu.Lock()
			defer mu.Unlock()
			if err := c.WriteJSON(event); err != nil {
				log.Printf("error writing journal event to websocket: %v", err)
			}
		}(conn, writeMu)
	}
}
