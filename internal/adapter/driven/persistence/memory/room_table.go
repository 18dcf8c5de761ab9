package memory

import (
	"fmt"
	"sync"

	"github.com/Wyydra/brocall/internal/core/domain"
)

// RoomTable maps room codes to member sets. A room is present only while it
// has at least one member.
type RoomTable struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]map[domain.ConnID]struct{}
}

func NewRoomTable() *RoomTable {
	return &RoomTable{
		rooms: make(map[domain.RoomID]map[domain.ConnID]struct{}),
	}
}

func (t *RoomTable) Create(roomID domain.RoomID, firstMember domain.ConnID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rooms[roomID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateRoom, roomID)
	}
	t.rooms[roomID] = map[domain.ConnID]struct{}{firstMember: {}}
	return nil
}

func (t *RoomTable) Exists(roomID domain.RoomID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.rooms[roomID]
	return ok
}

func (t *RoomTable) AddMember(roomID domain.RoomID, id domain.ConnID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	members, ok := t.rooms[roomID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrRoomNotFound, roomID)
	}
	members[id] = struct{}{}
	return nil
}

func (t *RoomTable) RemoveMember(roomID domain.RoomID, id domain.ConnID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	members, ok := t.rooms[roomID]
	if !ok {
		return false
	}
	delete(members, id)
	if len(members) == 0 {
		delete(t.rooms, roomID)
		return true
	}
	return false
}

func (t *RoomTable) Members(roomID domain.RoomID) []domain.ConnID {
	return t.SnapshotOthers(roomID, "")
}

func (t *RoomTable) SnapshotOthers(roomID domain.RoomID, excluding domain.ConnID) []domain.ConnID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	members := t.rooms[roomID]
	ids := make([]domain.ConnID, 0, len(members))
	for id := range members {
		if id == excluding {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (t *RoomTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms)
}
