package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/Wyydra/brocall/internal/core/domain"
	"github.com/Wyydra/brocall/internal/core/port"
	"github.com/rs/zerolog/log"
)

// Router applies client events to the connection registry and room table and
// decides who gets told what. Each entry point runs as one atomic step.
type Router struct {
	mu      sync.Mutex
	conns   port.ConnectionRegistry
	rooms   port.RoomTable
	gateway port.Gateway

	newConnID func() domain.ConnID
	newRoomID func() domain.RoomID
}

type Option func(*Router)

// WithRoomIDGenerator replaces the room code generator.
func WithRoomIDGenerator(fn func() domain.RoomID) Option {
	return func(r *Router) { r.newRoomID = fn }
}

// WithConnIDGenerator replaces the connection id generator.
func WithConnIDGenerator(fn func() domain.ConnID) Option {
	return func(r *Router) { r.newConnID = fn }
}

func NewRouter(conns port.ConnectionRegistry, rooms port.RoomTable, gateway port.Gateway, opts ...Option) *Router {
	r := &Router{
		conns:     conns,
		rooms:     rooms,
		gateway:   gateway,
		newConnID: domain.NewConnID,
		newRoomID: domain.NewRoomID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Connect(ctx context.Context) domain.ConnID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newConnID()
	r.conns.Register(id)
	log.Debug().Str("client_id", id.String()).Msg("Connection registered")
	return id
}

// Handle decodes a raw frame and applies it. Errors are for the caller to log;
// the connection stays usable whatever is returned.
func (r *Router) Handle(ctx context.Context, id domain.ConnID, data []byte) error {
	ev, err := domain.DecodeInbound(data)
	if err != nil {
		return err
	}
	return r.HandleEvent(ctx, id, ev)
}

func (r *Router) HandleEvent(ctx context.Context, id domain.ConnID, ev domain.Inbound) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns.Lookup(id)
	if !ok {
		return fmt.Errorf("%s: %w: %s", ev.Type(), domain.ErrUnknownConnection, id)
	}

	switch ev := ev.(type) {
	case domain.CreateRoom:
		return r.createRoom(ctx, conn, ev)
	case domain.JoinRoom:
		return r.joinRoom(ctx, conn, ev)
	case domain.Relay:
		return r.relay(ctx, conn, ev)
	default:
		return fmt.Errorf("%w: unhandled type %q", domain.ErrMalformedEvent, ev.Type())
	}
}

func (r *Router) createRoom(ctx context.Context, conn domain.Connection, req domain.CreateRoom) error {
	roomID := r.newRoomID()
	if r.rooms.Exists(roomID) {
		return fmt.Errorf("create room: %w: %s", domain.ErrDuplicateRoom, roomID)
	}

	r.leave(ctx, conn)

	if err := r.conns.SetIdentity(conn.ID, req.Nickname); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	if err := r.rooms.Create(roomID, conn.ID); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	if err := r.conns.SetRoom(conn.ID, roomID); err != nil {
		r.rooms.RemoveMember(roomID, conn.ID)
		return fmt.Errorf("create room: %w", err)
	}

	log.Info().
		Str("room_id", roomID.String()).
		Str("client_id", conn.ID.String()).
		Str("nickname", req.Nickname).
		Msg("Room created")

	r.send(ctx, conn.ID, domain.RoomCreated{RoomID: roomID, ClientID: conn.ID})
	return nil
}

func (r *Router) joinRoom(ctx context.Context, conn domain.Connection, req domain.JoinRoom) error {
	if !r.rooms.Exists(req.RoomID) {
		log.Info().
			Str("room_id", req.RoomID.String()).
			Str("client_id", conn.ID.String()).
			Msg("Join attempt for unknown room")
		r.send(ctx, conn.ID, domain.JoinError{Message: domain.JoinErrorMessage})
		return nil
	}

	// Rejoining the current room keeps membership; it only renames.
	if conn.RoomID != req.RoomID {
		r.leave(ctx, conn)
	}

	if err := r.conns.SetIdentity(conn.ID, req.Nickname); err != nil {
		return fmt.Errorf("join room: %w", err)
	}

	peers := make(map[domain.ConnID]domain.Peer)
	for _, memberID := range r.rooms.SnapshotOthers(req.RoomID, conn.ID) {
		member, ok := r.conns.Lookup(memberID)
		if !ok {
			continue
		}
		r.send(ctx, memberID, domain.NewPeer{NewPeerID: conn.ID, Nickname: req.Nickname})
		peers[memberID] = domain.Peer{Nickname: member.DisplayName}
	}

	if err := r.rooms.AddMember(req.RoomID, conn.ID); err != nil {
		return fmt.Errorf("join room: %w", err)
	}
	if err := r.conns.SetRoom(conn.ID, req.RoomID); err != nil {
		r.rooms.RemoveMember(req.RoomID, conn.ID)
		return fmt.Errorf("join room: %w", err)
	}

	log.Info().
		Str("room_id", req.RoomID.String()).
		Str("client_id", conn.ID.String()).
		Str("nickname", req.Nickname).
		Int("peers", len(peers)).
		Msg("Client joined room")

	r.send(ctx, conn.ID, domain.JoinSuccess{RoomID: req.RoomID, ClientID: conn.ID, Peers: peers})
	return nil
}

func (r *Router) relay(ctx context.Context, conn domain.Connection, ev domain.Relay) error {
	if !conn.InRoom() || !r.isMember(conn.RoomID, ev.TargetID) {
		return fmt.Errorf("%s: %w", ev.Kind, domain.ErrTargetNotInRoom)
	}

	r.send(ctx, ev.TargetID, domain.Relayed{
		Kind:     ev.Kind,
		Fields:   ev.Fields,
		SenderID: conn.ID,
		Nickname: conn.DisplayName,
	})
	return nil
}

func (r *Router) isMember(roomID domain.RoomID, id domain.ConnID) bool {
	for _, member := range r.rooms.Members(roomID) {
		if member == id {
			return true
		}
	}
	return false
}

// Disconnect releases everything held for id. Calling it again is a no-op.
func (r *Router) Disconnect(ctx context.Context, id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns.Lookup(id)
	if !ok {
		return
	}
	r.leave(ctx, conn)
	r.conns.Unregister(id)
	log.Debug().Str("client_id", id.String()).Msg("Connection unregistered")
}

// leave takes conn out of its current room, telling the rest of the room.
func (r *Router) leave(ctx context.Context, conn domain.Connection) {
	if !conn.InRoom() {
		return
	}

	for _, peerID := range r.rooms.SnapshotOthers(conn.RoomID, conn.ID) {
		r.send(ctx, peerID, domain.PeerDisconnected{PeerID: conn.ID})
	}

	deleted := r.rooms.RemoveMember(conn.RoomID, conn.ID)
	if err := r.conns.ClearRoom(conn.ID); err != nil {
		log.Warn().Err(err).Str("client_id", conn.ID.String()).Msg("Failed to clear room")
	}

	l := log.With().Str("room_id", conn.RoomID.String()).Logger()
	l.Info().Str("client_id", conn.ID.String()).Str("nickname", conn.DisplayName).Msg("Client left room")
	if deleted {
		l.Info().Msg("Room closed, no members left")
	}
}

// send is fire and forget: a failed delivery never undoes the state change.
func (r *Router) send(ctx context.Context, to domain.ConnID, msg domain.Outbound) {
	if err := r.gateway.Send(ctx, to, msg); err != nil {
		log.Debug().Err(err).
			Str("client_id", to.String()).
			Str("type", string(msg.Type())).
			Msg("Dropped outbound message")
	}
}

// Stats reports the number of open rooms and registered connections.
func (r *Router) Stats() (rooms, clients int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rooms.Len(), r.conns.Len()
}
