package app

import (
	"strings"
	"sync"

	"swagster-quiz-service/internal/domain"
)

// Registry owns the process-wide mapping from room id to Room. Room ids are
// compared case-insensitively. The registry is injected into the service so
// tests can start from a clean map.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Add registers a freshly built room. Fails with ErrRoomExists when the id
// is already taken.
func (g *Registry) Add(room *Room) error {
	key := roomKey(room.id)

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.rooms[key]; ok {
		return domain.ErrRoomExists
	}
	g.rooms[key] = room
	return nil
}

func (g *Registry) Get(roomID string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[roomKey(roomID)]
	return room, ok
}

func (g *Registry) Delete(roomID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.rooms, roomKey(roomID))
}

// Len reports the number of live rooms.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

func roomKey(roomID string) string {
	return strings.ToLower(roomID)
}
