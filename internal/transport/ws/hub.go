package ws

import (
	"encoding/json"
	"sync"

	"github.com/alankrit98/DevLog/internal/metrics"
	"go.uber.org/zap"
)

// Subscriber is one live connection as seen by the Hub.
type Subscriber interface {
	// Enqueue must not block; false means the send buffer is full.
	Enqueue(data []byte) bool
	// Close releases the connection. It may be called more than once.
	Close()
}

// Hub is the room registry. Rooms exist only while they have members.
type Hub struct {
	mu sync.Mutex

	// rooms maps room id → members; memberships is the reverse index.
	rooms       map[string]map[Subscriber]struct{}
	memberships map[Subscriber]map[string]struct{}

	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewHub(logger *zap.Logger, m *metrics.Collector) *Hub {
	return &Hub{
		rooms:       make(map[string]map[Subscriber]struct{}),
		memberships: make(map[Subscriber]map[string]struct{}),
		logger:      logger,
		metrics:     m,
	}
}

// Register tracks a new connection before it joins any room.
func (h *Hub) Register(sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.memberships[sub]; ok {
		return
	}
	h.memberships[sub] = make(map[string]struct{})
	h.metrics.Connections.Inc()
}

// Join adds sub to room. Joining twice is a no-op.
func (h *Hub) Join(sub Subscriber, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	joined, ok := h.memberships[sub]
	if !ok {
		joined = make(map[string]struct{})
		h.memberships[sub] = joined
		h.metrics.Connections.Inc()
	}
	joined[room] = struct{}{}

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[Subscriber]struct{})
		h.rooms[room] = members
	}
	members[sub] = struct{}{}
	h.metrics.Rooms.Set(float64(len(h.rooms)))
}

// Leave removes sub from room. Leaving a room sub is not in is a no-op.
func (h *Hub) Leave(sub Subscriber, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if joined, ok := h.memberships[sub]; ok {
		delete(joined, room)
	}
	h.removeMember(room, sub)
	h.metrics.Rooms.Set(float64(len(h.rooms)))
}

// Disconnect removes sub from every room and closes it.
func (h *Hub) Disconnect(sub Subscriber) {
	h.mu.Lock()
	removed := h.disconnectLocked(sub)
	h.mu.Unlock()

	if removed {
		sub.Close()
	}
}

// Publish delivers event to the current members of room. Events for rooms
// without members are dropped.
func (h *Hub) Publish(room string, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("ws hub: marshal error", zap.String("type", event.Type), zap.Error(err))
		return
	}

	var dead []Subscriber

	h.mu.Lock()
	members := h.rooms[room]
	if len(members) == 0 {
		h.mu.Unlock()
		h.metrics.EventsDropped.Inc()
		return
	}
	for sub := range members {
		if sub.Enqueue(data) {
			h.metrics.EventsPublished.WithLabelValues(event.Type).Inc()
			continue
		}
		dead = append(dead, sub)
	}
	// Slow consumers are cut loose so nothing is ever queued for them again.
	for _, sub := range dead {
		h.disconnectLocked(sub)
	}
	h.mu.Unlock()

	for _, sub := range dead {
		h.logger.Warn("ws hub: send buffer full, disconnecting", zap.String("room", room))
		sub.Close()
	}
}

// RoomCount reports how many rooms currently have members.
func (h *Hub) RoomCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

// Members reports how many connections are in room.
func (h *Hub) Members(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}

// InRoom reports whether sub is a member of room.
func (h *Hub) InRoom(sub Subscriber, room string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.rooms[room][sub]
	return ok
}

// Close disconnects every registered connection.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]Subscriber, 0, len(h.memberships))
	for sub := range h.memberships {
		subs = append(subs, sub)
	}
	for _, sub := range subs {
		h.disconnectLocked(sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

func (h *Hub) disconnectLocked(sub Subscriber) bool {
	joined, ok := h.memberships[sub]
	if !ok {
		return false
	}
	for room := range joined {
		h.removeMember(room, sub)
	}
	delete(h.memberships, sub)

	h.metrics.Connections.Dec()
	h.metrics.Rooms.Set(float64(len(h.rooms)))
	return true
}

func (h *Hub) removeMember(room string, sub Subscriber) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, sub)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}
