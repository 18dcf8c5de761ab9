package domain

import (
	"strings"

	"github.com/google/uuid"
)

// RoomCodeLength is the number of characters in a generated room code.
const RoomCodeLength = 6

type ConnID string
type RoomID string

func NewConnID() ConnID {
	return ConnID(uuid.New().String())
}

// NewRoomID returns a short uppercase code cut from a fresh uuid, e.g. "3F9A1C".
func NewRoomID() RoomID {
	return RoomID(strings.ToUpper(uuid.New().String()[:RoomCodeLength]))
}

func (id ConnID) String() string {
	return string(id)
}

func (id RoomID) String() string {
	return string(id)
}

func (id RoomID) IsZero() bool {
	return id == ""
}
