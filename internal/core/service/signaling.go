package service

import (
	"context"
	"sync"

	"github.com/Wyydra/relay/internal/core/domain"
	"github.com/Wyydra/relay/internal/core/port"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// SignalingRouter handles the inbound protocol: registration, room
// membership and point-to-point signal relay. It never fails towards the
// caller; delivery problems are logged and otherwise ignored, since the
// eventual disconnect cleans up whatever state a dead session left.
//
// The transport must unregister a session from the gateway before calling
// Disconnect. Register and JoinRoom rely on that ordering to undo their own
// mutation when they lose a race against the session going away.
//
// roomsMu and rosterMu are never held together.
type SignalingRouter struct {
	users   port.ConnectionRegistry
	rooms   port.RoomRegistry
	gateway port.Gateway

	// roomsMu orders every membership change with the notifications it
	// triggers. A joiner's existing-users and any user-left for the same
	// room are therefore queued in the order the changes happened.
	roomsMu sync.Mutex

	// rosterMu orders roster mutations with the user-list broadcast they
	// trigger, so the last roster every client receives is the newest one.
	rosterMu sync.Mutex
}

type Stats struct {
	Users int `json:"users"`
	Rooms int `json:"rooms"`
}

func NewSignalingRouter(users port.ConnectionRegistry, rooms port.RoomRegistry, gateway port.Gateway) *SignalingRouter {
	return &SignalingRouter{
		users:   users,
		rooms:   rooms,
		gateway: gateway,
	}
}

func (s *SignalingRouter) Register(ctx context.Context, id domain.ConnectionID, displayName string) {
	l := log.With().Str("conn_id", id.String()).Logger()

	s.rosterMu.Lock()
	defer s.rosterMu.Unlock()

	u := s.users.Register(id, displayName)
	if !s.gateway.Connected(id) {
		s.users.Remove(id)
		l.Debug().Msg("Register after disconnect ignored")
		return
	}
	l.Info().Str("display_name", displayName).Msg("User registered")

	s.send(ctx, id, domain.Registered(u))
	s.broadcastRosterLocked(ctx)
}

func (s *SignalingRouter) JoinRoom(ctx context.Context, id domain.ConnectionID, room domain.RoomID) {
	if room == "" {
		return
	}
	l := log.With().Str("conn_id", id.String()).Str("room_id", room.String()).Logger()

	s.roomsMu.Lock()
	defer s.roomsMu.Unlock()

	members, added := s.rooms.Join(room, id)
	if !s.gateway.Connected(id) {
		if s.rooms.Leave(room, id) {
			// Someone may have joined in between and seen us.
			s.notifyLeft(ctx, room, id)
		}
		l.Debug().Msg("Join after disconnect rolled back")
		return
	}

	others := lo.Without(members, id)
	if added {
		joiner := domain.UserJoined(s.peer(id))
		for _, other := range others {
			s.send(ctx, other, joiner)
		}
	}
	s.send(ctx, id, domain.ExistingUsers(lo.Map(others, func(m domain.ConnectionID, _ int) domain.Peer {
		return s.peer(m)
	})))

	l.Info().Int("members", len(members)).Bool("rejoin", !added).Msg("Joined room")
}

func (s *SignalingRouter) LeaveRoom(ctx context.Context, id domain.ConnectionID, room domain.RoomID) {
	if room == "" {
		return
	}

	s.roomsMu.Lock()
	defer s.roomsMu.Unlock()

	if !s.rooms.Leave(room, id) {
		return
	}
	s.notifyLeft(ctx, room, id)

	log.Info().Str("conn_id", id.String()).Str("room_id", room.String()).Msg("Left room")
}

// RelaySignal forwards sig to one connection. The payload is never looked
// at; an unknown or gone target drops it silently.
func (s *SignalingRouter) RelaySignal(ctx context.Context, from, to domain.ConnectionID, sig domain.Signal) {
	if to == "" {
		return
	}
	log.Debug().
		Str("from", from.String()).
		Str("to", to.String()).
		Int("size", len(sig)).
		Msg("Relaying signal")

	s.send(ctx, to, domain.SignalFrom(from, sig))
}

// Disconnect removes every trace of the connection. It is idempotent and
// must run to completion even though the session itself is already closed.
func (s *SignalingRouter) Disconnect(ctx context.Context, id domain.ConnectionID) {
	rooms := s.leaveAll(ctx, id)

	s.rosterMu.Lock()
	defer s.rosterMu.Unlock()

	s.users.Remove(id)
	s.broadcastRosterLocked(ctx)

	log.Info().Str("conn_id", id.String()).Int("rooms_left", len(rooms)).Msg("Connection cleaned up")
}

func (s *SignalingRouter) Stats() Stats {
	return Stats{
		Users: len(s.users.ListAll()),
		Rooms: len(s.rooms.Rooms()),
	}
}

func (s *SignalingRouter) peer(id domain.ConnectionID) domain.Peer {
	if u, ok := s.users.Get(id); ok {
		return u.Peer()
	}
	return domain.AnonymousPeer(id)
}

func (s *SignalingRouter) leaveAll(ctx context.Context, id domain.ConnectionID) []domain.RoomID {
	s.roomsMu.Lock()
	defer s.roomsMu.Unlock()

	rooms := s.rooms.LeaveAll(id)
	for _, room := range rooms {
		s.notifyLeft(ctx, room, id)
	}
	return rooms
}

// notifyLeft must be called with roomsMu held.
func (s *SignalingRouter) notifyLeft(ctx context.Context, room domain.RoomID, id domain.ConnectionID) {
	evt := domain.UserLeft(id)
	for _, member := range s.rooms.Members(room) {
		s.send(ctx, member, evt)
	}
}

func (s *SignalingRouter) broadcastRosterLocked(ctx context.Context) {
	if err := s.gateway.Broadcast(ctx, domain.UserList(s.users.ListAll())); err != nil {
		log.Warn().Err(err).Msg("Failed to broadcast user list")
	}
}

func (s *SignalingRouter) send(ctx context.Context, to domain.ConnectionID, evt domain.Event) {
	if err := s.gateway.Send(ctx, to, evt); err != nil {
		log.Debug().Err(err).
			Str("to", to.String()).
			Str("event", string(evt.Type)).
			Msg("Dropped outbound event")
	}
}
