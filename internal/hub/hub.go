// Package hub is the real-time fan-out layer: a registry of connected
// observers with optional group membership. Delivery is best effort; a
// slow or dead observer never affects the write path or other observers.
package hub

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Esraa999/TeamManagementTask/usecase"
)

const defaultSendBuffer = 64

// Message is the wire envelope pushed to observers.
type Message struct {
	Event string        `json:"event"`
	Args  []interface{} `json:"args"`
}

// Recorder receives a copy of every broadcast for diagnostics. It must
// never be used as a delivery or replay path.
type Recorder interface {
	Record(event string, payload []byte)
}

// Connection is one registered observer. The transport drains Send until
// Done is closed. Send itself is never closed: broadcasts run against a
// lock-free snapshot, so a close could race a delivery.
type Connection struct {
	ID   string
	Send chan []byte
	done chan struct{}
}

// Done is closed when the connection is unregistered.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*Connection
	groups map[string]map[string]struct{}

	sendBuffer int
	recorder   Recorder
	logger     *zap.Logger
}

// New builds an empty hub. recorder may be nil.
func New(sendBuffer int, recorder Recorder, logger *zap.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		conns:      make(map[string]*Connection),
		groups:     make(map[string]map[string]struct{}),
		sendBuffer: sendBuffer,
		recorder:   recorder,
		logger:     logger,
	}
}

// UserGroup is the group key addressing a single user's connections.
func UserGroup(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// Register adds a new observer connection and returns its handle.
func (h *Hub) Register() *Connection {
	c := &Connection{
		ID:   uuid.NewString(),
		Send: make(chan []byte, h.sendBuffer),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.conns[c.ID] = c
	h.mu.Unlock()

	h.logger.Info("observer connected", zap.String("connection_id", c.ID))
	return c
}

// Unregister removes a connection and its group memberships. Safe to call
// more than once for the same id.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	c, ok := h.conns[id]
	if ok {
		delete(h.conns, id)
		for key, members := range h.groups {
			delete(members, id)
			if len(members) == 0 {
				delete(h.groups, key)
			}
		}
	}
	h.mu.Unlock()

	if ok {
		close(c.done)
		h.logger.Info("observer disconnected", zap.String("connection_id", id))
	}
}

// Join adds a connection to a group. Idempotent; unknown connections are
// ignored.
func (h *Hub) Join(group, id string) {
	if group == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[id]; !ok {
		return
	}
	members, ok := h.groups[group]
	if !ok {
		members = make(map[string]struct{})
		h.groups[group] = members
	}
	members[id] = struct{}{}
}

// Leave removes a connection from a group. Idempotent.
func (h *Hub) Leave(group, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[group]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(h.groups, group)
	}
}

// Count returns the number of connected observers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// BroadcastAll delivers an event to every connected observer.
func (h *Hub) BroadcastAll(event string, args ...interface{}) {
	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.conns))
	for _, c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	h.deliver(targets, event, args)
}

// BroadcastGroup delivers an event only to members of a group.
func (h *Hub) BroadcastGroup(group, event string, args ...interface{}) {
	h.mu.RLock()
	var targets []*Connection
	for id := range h.groups[group] {
		if c, ok := h.conns[id]; ok {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	h.deliver(targets, event, args)
}

// BroadcastUser delivers to the connections a user has joined to their group.
func (h *Hub) BroadcastUser(userID int64, event string, args ...interface{}) {
	h.BroadcastGroup(UserGroup(userID), event, args...)
}

// deliver serializes once and hands the frame to each target without
// blocking: a full send buffer means the frame is dropped for that
// observer only.
func (h *Hub) deliver(targets []*Connection, event string, args []interface{}) {
	if args == nil {
		args = []interface{}{}
	}
	payload, err := json.Marshal(Message{Event: event, Args: args})
	if err != nil {
		h.logger.Error("broadcast payload not serializable",
			zap.String("event", event), zap.Error(err))
		return
	}

	for _, c := range targets {
		select {
		case c.Send <- payload:
		default:
			h.logger.Warn("observer send buffer full, frame dropped",
				zap.String("connection_id", c.ID),
				zap.String("event", event),
			)
		}
	}

	if h.recorder != nil {
		go h.recorder.Record(event, payload)
	}
}

var _ usecase.Broadcaster = (*Hub)(nil)
