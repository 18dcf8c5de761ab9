package domain

// Connection is the registry's view of one transport session.
type Connection struct {
	ID          ConnID
	DisplayName string
	RoomID      RoomID
}

func NewConnection(id ConnID) Connection {
	return Connection{ID: id}
}

func (c Connection) InRoom() bool {
	return !c.RoomID.IsZero()
}
