package server

import (
	"encoding/json"
	"sync"

	"github.com/hexquiz/hexquiz/internal/game"
)

// Broker is an in-process pub/sub for room events, keyed by room code.
// Each WebSocket writer subscribes once; slow subscribers drop events
// rather than stalling the room.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events broadcast
// to the given room.
func (b *Broker) Subscribe(roomCode string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[roomCode] == nil {
		b.subs[roomCode] = make(map[chan []byte]struct{})
	}
	b.subs[roomCode][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the room's subscribers.
func (b *Broker) Unsubscribe(roomCode string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[roomCode], ch)
	if len(b.subs[roomCode]) == 0 {
		delete(b.subs, roomCode)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given room.
func (b *Broker) Publish(roomCode string, event game.Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[roomCode] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// Count reports the number of live subscribers for a room.
func (b *Broker) Count(roomCode string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[roomCode])
}
