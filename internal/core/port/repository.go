package port

import "github.com/Wyydra/brocall/internal/core/domain"

type ConnectionRegistry interface {
	Register(id domain.ConnID)
	SetIdentity(id domain.ConnID, displayName string) error
	SetRoom(id domain.ConnID, roomID domain.RoomID) error
	ClearRoom(id domain.ConnID) error
	Lookup(id domain.ConnID) (domain.Connection, bool)
	Unregister(id domain.ConnID) bool
	Len() int
}

type RoomTable interface {
	Create(roomID domain.RoomID, firstMember domain.ConnID) error
	Exists(roomID domain.RoomID) bool
	AddMember(roomID domain.RoomID, id domain.ConnID) error
	// RemoveMember reports whether the room was deleted because it became empty.
	RemoveMember(roomID domain.RoomID, id domain.ConnID) bool
	Members(roomID domain.RoomID) []domain.ConnID
	SnapshotOthers(roomID domain.RoomID, excluding domain.ConnID) []domain.ConnID
	Len() int
}
