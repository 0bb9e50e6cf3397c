// room/registry.go
package room

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/partyroom/impostor/game"
	"github.com/partyroom/impostor/logger"
	"github.com/partyroom/impostor/timer"
)

// Codes avoid glyphs players confuse over voice chat (O/0, I/1).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var ErrCodeSpaceExhausted = errors.New("could not generate a free room code")

// Options are the registry's lifecycle tunables. Zero values fall back to
// the defaults below.
type Options struct {
	CodeLength     int
	CodeRetries    int
	MaxPlayers     int
	ReconnectGrace time.Duration
	EmptyGrace     time.Duration
	IdleTTL        time.Duration
	SweepInterval  time.Duration
}

func (o *Options) withDefaults() {
	if o.CodeLength <= 0 {
		o.CodeLength = 6
	}
	if o.CodeRetries <= 0 {
		o.CodeRetries = 16
	}
	if o.MaxPlayers <= 0 {
		o.MaxPlayers = 16
	}
	if o.ReconnectGrace <= 0 {
		o.ReconnectGrace = 30 * time.Second
	}
	if o.EmptyGrace <= 0 {
		o.EmptyGrace = time.Minute
	}
	if o.IdleTTL <= 0 {
		o.IdleTTL = 2 * time.Hour
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = 30 * time.Second
	}
}

// Manager is the process-wide code→Room table. It is pure bookkeeping: one
// mutation of the table at a time, no player-facing logic.
type Manager struct {
	rooms    map[string]*Room
	mutex    sync.RWMutex
	opts     Options
	assigner *game.Assigner
	timers   *timer.Manager
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewManager(assigner *game.Assigner, timers *timer.Manager, opts Options) *Manager {
	opts.withDefaults()
	return &Manager{
		rooms:    make(map[string]*Room),
		opts:     opts,
		assigner: assigner,
		timers:   timers,
		stopChan: make(chan struct{}),
	}
}

// Create allocates a fresh room under a code not currently in use. Code
// generation and insertion happen under one lock so two concurrent creates
// can never claim the same code.
func (m *Manager) Create(broadcaster Broadcaster) (*Room, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for attempt := 0; attempt < m.opts.CodeRetries; attempt++ {
		code := m.generateCode()
		if _, taken := m.rooms[code]; taken {
			continue
		}
		room := NewRoom(code, m.assigner, broadcaster, m.timers, m.opts.ReconnectGrace, m.opts.MaxPlayers)
		m.rooms[code] = room
		logger.Log.Infof("room %s created", code)
		return room, nil
	}
	return nil, ErrCodeSpaceExhausted
}

func (m *Manager) Get(code string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[strings.ToUpper(code)]
	return room, exists
}

// Remove closes and deletes a room. Safe to call on an unknown code.
func (m *Manager) Remove(code string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if room, exists := m.rooms[code]; exists {
		room.Close()
		delete(m.rooms, code)
		logger.Log.Infof("room %s removed", code)
	}
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// ConnectedPlayers sums live sockets across all rooms, for metrics and ops.
func (m *Manager) ConnectedPlayers() int {
	total := 0
	for _, room := range m.snapshotRooms() {
		total += room.ConnectedCount()
	}
	return total
}

// StartSweeper runs the background garbage collection: rooms whose player
// set has been empty past the grace window, and rooms nobody reconnected
// to within the idle TTL, are torn down. This covers every client closing
// the tab without an explicit leave.
func (m *Manager) StartSweeper() {
	go func() {
		ticker := time.NewTicker(m.opts.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-m.stopChan:
				return
			}
		}
	}()
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})

	for _, room := range m.snapshotRooms() {
		m.Remove(room.Code)
	}
}

func (m *Manager) sweep() {
	for _, r := range m.snapshotRooms() {
		room := r
		room.Do(func() {
			if room.expired(m.opts.EmptyGrace, m.opts.IdleTTL) {
				m.Remove(room.Code)
			}
		})
	}
}

func (m *Manager) snapshotRooms() []*Room {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

func (m *Manager) generateCode() string {
	code := make([]byte, m.opts.CodeLength)
	for i := range code {
		code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(code)
}
