// analytics/analytics.go
package analytics

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/partyroom/impostor/logger"
)

// Event is one fire-and-forget room-lifecycle notification. Nothing in the
// room path ever waits on it and a delivery failure changes nothing.
type Event struct {
	Type     string    `json:"type"`
	RoomCode string    `json:"roomCode"`
	GameMode string    `json:"gameMode,omitempty"`
	At       time.Time `json:"at"`
}

// Collector buffers events and posts them from a single worker. A full
// buffer drops the event rather than slowing down a room mutation.
type Collector struct {
	endpoint string
	client   *http.Client
	events   chan Event
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewCollector returns a disabled no-op collector when endpoint is empty.
func NewCollector(endpoint string) *Collector {
	c := &Collector{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
		events:   make(chan Event, 256),
		stopChan: make(chan struct{}),
	}
	if endpoint != "" {
		go c.worker()
	}
	return c
}

func (c *Collector) RoomCreated(roomCode string) {
	c.emit(Event{Type: "room_created", RoomCode: roomCode, At: time.Now()})
}

func (c *Collector) GameStarted(roomCode, gameMode string) {
	c.emit(Event{Type: "game_started", RoomCode: roomCode, GameMode: gameMode, At: time.Now()})
}

func (c *Collector) emit(event Event) {
	if c.endpoint == "" {
		return
	}
	select {
	case c.events <- event:
	default:
		// Overflow: analytics never backpressures the game.
	}
}

func (c *Collector) worker() {
	for {
		select {
		case event := <-c.events:
			c.post(event)
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) post(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		logger.Log.Debugf("analytics post failed: %v", err)
		return
	}
	resp.Body.Close()
}

func (c *Collector) Close() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}
