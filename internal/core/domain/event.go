package domain

import "encoding/json"

type EventType string

// Client to server requests.
const (
	TypeCreateRoom EventType = "create_room"
	TypeJoinRoom   EventType = "join_room"
)

// Relay kinds, forwarded verbatim to a room-mate.
const (
	TypeToggleVideo     EventType = "toggle_video"
	TypeToggleAudio     EventType = "toggle_audio"
	TypeShareScreen     EventType = "share_screen"
	TypeStopShareScreen EventType = "stop_share_screen"
	TypeOffer           EventType = "offer"
	TypeAnswer          EventType = "answer"
	TypeICECandidate    EventType = "ice_candidate"
)

// Server to client notifications.
const (
	TypeRoomCreated      EventType = "room_created"
	TypeJoinSuccess      EventType = "join_success"
	TypeJoinError        EventType = "join_error"
	TypeNewPeer          EventType = "new_peer"
	TypePeerDisconnected EventType = "peer_disconnected"
)

var relayTypes = map[EventType]struct{}{
	TypeToggleVideo:     {},
	TypeToggleAudio:     {},
	TypeShareScreen:     {},
	TypeStopShareScreen: {},
	TypeOffer:           {},
	TypeAnswer:          {},
	TypeICECandidate:    {},
}

func (t EventType) IsRelay() bool {
	_, ok := relayTypes[t]
	return ok
}

// Inbound is a parsed client request. The set of implementations is closed.
type Inbound interface {
	Type() EventType
	inbound()
}

type CreateRoom struct {
	Nickname string
}

type JoinRoom struct {
	RoomID   RoomID
	Nickname string
}

// Relay keeps every field of the original object so it can be forwarded untouched.
type Relay struct {
	Kind     EventType
	TargetID ConnID
	Fields   map[string]json.RawMessage
}

func (CreateRoom) Type() EventType { return TypeCreateRoom }
func (JoinRoom) Type() EventType   { return TypeJoinRoom }
func (r Relay) Type() EventType    { return r.Kind }

func (CreateRoom) inbound() {}
func (JoinRoom) inbound()   {}
func (Relay) inbound()      {}

// Outbound is a message the router hands to the gateway.
type Outbound interface {
	Type() EventType
	outbound()
}

type RoomCreated struct {
	RoomID   RoomID `json:"roomId"`
	ClientID ConnID `json:"clientId"`
}

type Peer struct {
	Nickname string `json:"nickname"`
}

type JoinSuccess struct {
	RoomID   RoomID          `json:"roomId"`
	ClientID ConnID          `json:"clientId"`
	Peers    map[ConnID]Peer `json:"peers"`
}

type JoinError struct {
	Message string `json:"message"`
}

type NewPeer struct {
	NewPeerID ConnID `json:"newPeerId"`
	Nickname  string `json:"nickname"`
}

type PeerDisconnected struct {
	PeerID ConnID `json:"peerId"`
}

// Relayed is a Relay on its way to the target, stamped with the sender's identity.
type Relayed struct {
	Kind     EventType
	Fields   map[string]json.RawMessage
	SenderID ConnID
	Nickname string
}

func (RoomCreated) Type() EventType      { return TypeRoomCreated }
func (JoinSuccess) Type() EventType      { return TypeJoinSuccess }
func (JoinError) Type() EventType        { return TypeJoinError }
func (NewPeer) Type() EventType          { return TypeNewPeer }
func (PeerDisconnected) Type() EventType { return TypePeerDisconnected }
func (r Relayed) Type() EventType        { return r.Kind }

func (RoomCreated) outbound()      {}
func (JoinSuccess) outbound()      {}
func (JoinError) outbound()        {}
func (NewPeer) outbound()          {}
func (PeerDisconnected) outbound() {}
func (Relayed) outbound()          {}
