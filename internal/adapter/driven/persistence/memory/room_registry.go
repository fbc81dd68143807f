package memory

import (
	"sync"

	"github.com/Wyydra/relay/internal/core/domain"
	"github.com/samber/lo"
)

type memberSet map[domain.ConnectionID]struct{}

// RoomRegistry keeps two indexes under one lock: room -> members and
// connection -> rooms. The reverse index makes LeaveAll proportional to the
// rooms a connection is in rather than to every room on the server.
//
// Every mutation deletes a room whose member set became empty before
// releasing the lock, so an empty room is never observable.
type RoomRegistry struct {
	mu      sync.RWMutex
	members map[domain.RoomID]memberSet
	joined  map[domain.ConnectionID]map[domain.RoomID]struct{}
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		members: make(map[domain.RoomID]memberSet),
		joined:  make(map[domain.ConnectionID]map[domain.RoomID]struct{}),
	}
}

func (r *RoomRegistry) Join(room domain.RoomID, id domain.ConnectionID) ([]domain.ConnectionID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.members[room]
	if !ok {
		set = make(memberSet)
		r.members[room] = set
	}
	_, member := set[id]
	set[id] = struct{}{}

	rooms, ok := r.joined[id]
	if !ok {
		rooms = make(map[domain.RoomID]struct{})
		r.joined[id] = rooms
	}
	rooms[room] = struct{}{}

	return lo.Keys(set), !member
}

func (r *RoomRegistry) Leave(room domain.RoomID, id domain.ConnectionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(room, id)
}

func (r *RoomRegistry) LeaveAll(id domain.ConnectionID) []domain.RoomID {
	r.mu.Lock()
	defer r.mu.Unlock()

	rooms := lo.Keys(r.joined[id])
	for _, room := range rooms {
		r.removeLocked(room, id)
	}
	return rooms
}

func (r *RoomRegistry) Members(room domain.RoomID) []domain.ConnectionID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.members[room]
	if !ok {
		return []domain.ConnectionID{}
	}
	return lo.Keys(set)
}

func (r *RoomRegistry) Rooms() []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.members)
}

func (r *RoomRegistry) removeLocked(room domain.RoomID, id domain.ConnectionID) bool {
	set, ok := r.members[room]
	if !ok {
		return false
	}
	if _, ok := set[id]; !ok {
		return false
	}

	delete(set, id)
	if len(set) == 0 {
		delete(r.members, room)
	}

	if rooms, ok := r.joined[id]; ok {
		delete(rooms, room)
		if len(rooms) == 0 {
			delete(r.joined, id)
		}
	}
	return true
}
