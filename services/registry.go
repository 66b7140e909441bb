package services

import (
	"fmt"
	"sync"
)

// Frame is one unit pushed to a connection: an encoded event envelope, or a
// heartbeat that carries no event.
type Frame struct {
	Data      []byte
	Heartbeat bool
}

// Sink is the output side of a push connection. Send must not block; an
// error means the frame was not accepted. Close releases the writer and may
// be called more than once.
type Sink interface {
	Send(frame Frame) error
	Close()
}

type Connection struct {
	ID     string
	GameID uint
	Sink   Sink
}

// Registry tracks live push connections by id and by game. It is the only
// in-memory shared state of the real-time layer.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]*Connection
	byGame map[uint]map[string]*Connection
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]*Connection),
		byGame: make(map[uint]map[string]*Connection),
	}
}

// Register adds a connection. Connection ids are generated by the hub, so a
// duplicate id is a programming error and panics.
func (r *Registry) Register(id string, gameID uint, sink Sink) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[id]; exists {
		panic(fmt.Sprintf("registry: connection %s already registered", id))
	}

	conn := &Connection{ID: id, GameID: gameID, Sink: sink}
	r.conns[id] = conn
	if r.byGame[gameID] == nil {
		r.byGame[gameID] = make(map[string]*Connection)
	}
	r.byGame[gameID][id] = conn
	return conn
}

// Unregister removes the connection and closes its sink. Unknown ids are
// ignored. It reports whether anything was removed.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	conn, ok := r.conns[id]
	if ok {
		delete(r.conns, id)
		delete(r.byGame[conn.GameID], id)
		if len(r.byGame[conn.GameID]) == 0 {
			delete(r.byGame, conn.GameID)
		}
	}
	r.mu.Unlock()

	if ok {
		conn.Sink.Close()
	}
	return ok
}

// Get returns the connection with the given id.
func (r *Registry) Get(id string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[id]
	return conn, ok
}

// ListByGame returns a snapshot of the connections subscribed to gameID.
func (r *Registry) ListByGame(gameID uint) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*Connection, 0, len(r.byGame[gameID]))
	for _, conn := range r.byGame[gameID] {
		conns = append(conns, conn)
	}
	return conns
}

// All returns a snapshot of every connection.
func (r *Registry) All() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*Connection, 0, len(r.conns))
	for _, conn := range r.conns {
		conns = append(conns, conn)
	}
	return conns
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

func (r *Registry) CountByGame(gameID uint) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byGame[gameID])
}
