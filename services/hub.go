package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var ErrKeepAliveRunning = errors.New("keep-alive loop already running")

// Publisher delivers game events to subscribers. The hub publishes locally;
// RedisRelay publishes across processes.
type Publisher interface {
	Publish(ctx context.Context, gameID uint, ev Event) error
}

// Hub fans events out to the connections in its registry.
type Hub struct {
	registry *Registry

	// fanout serializes deliveries so every connection of a game sees that
	// game's frames in the same order.
	fanout sync.Mutex

	keepAlive atomic.Bool
}

func NewHub(registry *Registry) *Hub {
	return &Hub{registry: registry}
}

func (h *Hub) Registry() *Registry {
	return h.registry
}

// Connect registers sink for gameID under a fresh connection id. The
// connected handshake is queued before registration so it is always the
// first frame the connection receives.
func (h *Hub) Connect(gameID uint, sink Sink) (string, error) {
	id := uuid.NewString()

	data, err := EncodeEvent(Connected{ConnectionID: id})
	if err != nil {
		return "", err
	}
	if err := sink.Send(Frame{Data: data}); err != nil {
		sink.Close()
		return "", &DeliveryError{ConnectionID: id, Err: err}
	}

	h.registry.Register(id, gameID, sink)
	log.Printf("[hub] connection %s joined game %d (game connections: %d, total: %d)",
		id, gameID, h.registry.CountByGame(gameID), h.registry.Count())
	return id, nil
}

// Disconnect unregisters a connection. Safe to call repeatedly.
func (h *Hub) Disconnect(id string) {
	if h.registry.Unregister(id) {
		log.Printf("[hub] connection %s disconnected (total: %d)", id, h.registry.Count())
	}
}

// Publish implements Publisher by broadcasting on this process only.
func (h *Hub) Publish(_ context.Context, gameID uint, ev Event) error {
	data, err := EncodeEvent(ev)
	if err != nil {
		return err
	}
	h.BroadcastFrame(gameID, data)
	return nil
}

// Broadcast serializes ev once and delivers it to every connection of the
// game. It returns the number of connections that accepted the frame.
func (h *Hub) Broadcast(gameID uint, ev Event) int {
	data, err := EncodeEvent(ev)
	if err != nil {
		log.Printf("[hub] %v", err)
		return 0
	}
	log.Printf("[hub] broadcasting %s to game %d", ev.EventType(), gameID)
	return h.BroadcastFrame(gameID, data)
}

// BroadcastFrame delivers an already encoded envelope to every connection of
// the game. A failed connection is dropped without affecting the others.
func (h *Hub) BroadcastFrame(gameID uint, data []byte) int {
	h.fanout.Lock()
	defer h.fanout.Unlock()

	delivered := 0
	for _, conn := range h.registry.ListByGame(gameID) {
		if h.deliver(conn, Frame{Data: data}) {
			delivered++
		}
	}
	return delivered
}

// SendTo delivers ev to a single connection. It reports whether the
// connection exists and accepted the frame.
func (h *Hub) SendTo(connectionID string, ev Event) bool {
	conn, ok := h.registry.Get(connectionID)
	if !ok {
		return false
	}

	data, err := EncodeEvent(ev)
	if err != nil {
		log.Printf("[hub] %v", err)
		return false
	}

	h.fanout.Lock()
	defer h.fanout.Unlock()
	return h.deliver(conn, Frame{Data: data})
}

// Heartbeat pushes a liveness frame to every connection.
func (h *Hub) Heartbeat() int {
	h.fanout.Lock()
	defer h.fanout.Unlock()

	alive := 0
	for _, conn := range h.registry.All() {
		if h.deliver(conn, Frame{Heartbeat: true}) {
			alive++
		}
	}
	return alive
}

// RunKeepAlive sends a heartbeat every interval until ctx is done. Only one
// loop may run per hub.
func (h *Hub) RunKeepAlive(ctx context.Context, interval time.Duration) error {
	if !h.keepAlive.CompareAndSwap(false, true) {
		return ErrKeepAliveRunning
	}
	defer h.keepAlive.Store(false)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.Heartbeat()
		}
	}
}

func (h *Hub) deliver(conn *Connection, frame Frame) bool {
	if err := conn.Sink.Send(frame); err != nil {
		derr := &DeliveryError{ConnectionID: conn.ID, Err: err}
		log.Printf("[hub] %v; dropping connection from game %d", derr, conn.GameID)
		h.registry.Unregister(conn.ID)
		return false
	}
	return true
}
