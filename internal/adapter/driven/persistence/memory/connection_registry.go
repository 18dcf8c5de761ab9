package memory

import (
	"fmt"
	"sync"

	"github.com/Wyydra/brocall/internal/core/domain"
)

type ConnectionRegistry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*domain.Connection
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		conns: make(map[domain.ConnID]*domain.Connection),
	}
}

func (r *ConnectionRegistry) Register(id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := domain.NewConnection(id)
	r.conns[id] = &c
}

func (r *ConnectionRegistry) SetIdentity(id domain.ConnID, displayName string) error {
	return r.update(id, func(c *domain.Connection) {
		c.DisplayName = displayName
	})
}

func (r *ConnectionRegistry) SetRoom(id domain.ConnID, roomID domain.RoomID) error {
	return r.update(id, func(c *domain.Connection) {
		c.RoomID = roomID
	})
}

func (r *ConnectionRegistry) ClearRoom(id domain.ConnID) error {
	return r.update(id, func(c *domain.Connection) {
		c.RoomID = ""
	})
}

func (r *ConnectionRegistry) update(id domain.ConnID, fn func(*domain.Connection)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownConnection, id)
	}
	fn(c)
	return nil
}

// Lookup returns a copy; callers mutate through the registry.
func (r *ConnectionRegistry) Lookup(id domain.ConnID) (domain.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[id]
	if !ok {
		return domain.Connection{}, false
	}
	return *c, true
}

func (r *ConnectionRegistry) Unregister(id domain.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; !ok {
		return false
	}
	delete(r.conns, id)
	return true
}

func (r *ConnectionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
