// Package realtime pushes data changes to connected admin dashboards.
package realtime

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/gravadigital/convite-api/internal/logger"
)

// Action is what happened to a record
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionImported Action = "imported"
)

// Change describes one mutation of a collection
type Change struct {
	ID         string    `json:"id"`
	Collection string    `json:"collection"`
	Action     Action    `json:"action"`
	RecordID   string    `json:"record_id,omitempty"`
	Count      int       `json:"count,omitempty"`
	At         time.Time `json:"at"`
}

// Publisher is the side of the hub the services depend on
type Publisher interface {
	Publish(c Change)
}

// Hub fans changes out to subscribers. Publishing never blocks: a
// subscriber whose buffer is full misses the change.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]chan Change
	buffer int
	log    *log.Logger
}

// NewHub creates a hub whose subscribers buffer up to buffer changes
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:   make(map[string]chan Change),
		buffer: buffer,
		log:    logger.Realtime(),
	}
}

// Publish stamps and delivers c to every subscriber
func (h *Hub) Publish(c Change) {
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}
	if c.ID == "" {
		c.ID = NewID(c.At)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- c:
		default:
			h.log.Warn("Dropping change for slow subscriber", "subscriber", id, "collection", c.Collection)
		}
	}
}

// Subscribe registers a subscriber; call the returned func to leave
func (h *Hub) Subscribe() (string, <-chan Change, func()) {
	id := NewID(time.Now())
	ch := make(chan Change, h.buffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return id, ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscribers
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// NewID returns a ULID, sortable by time
func NewID(now time.Time) string {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}

// Discard is a Publisher that drops every change
type Discard struct{}

func (Discard) Publish(Change) {}
