package game

import "sync"

// Registry is the process-wide map from room code to live room. Rooms
// live for the process lifetime unless explicitly removed; the transport
// layer evicts a finished room once its last subscriber disconnects.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Add registers a room under its code, replacing any previous entry.
func (reg *Registry) Add(room *Room) {
	reg.mu.Lock()
	reg.rooms[room.Code()] = room
	reg.mu.Unlock()
}

// Get looks up a live room by code.
func (reg *Registry) Get(code string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[code]
	return room, ok
}

// Remove discards the room with the given code, if present.
func (reg *Registry) Remove(code string) {
	reg.mu.Lock()
	delete(reg.rooms, code)
	reg.mu.Unlock()
}

// Len reports the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}
