package domain

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrDuplicateRoom     = errors.New("room already exists")
	ErrMalformedEvent    = errors.New("malformed event")
	ErrTargetNotInRoom   = errors.New("target not in sender's room")
	ErrUnknownConnection = errors.New("unknown connection")
)

// JoinErrorMessage is the human readable reason sent with join_error.
const JoinErrorMessage = "Room not found."
