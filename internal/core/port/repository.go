package port

import "github.com/Wyydra/relay/internal/core/domain"

// ConnectionRegistry maps a live connection to its registered user.
type ConnectionRegistry interface {
	// Register inserts or replaces the record for the connection.
	Register(id domain.ConnectionID, displayName string) domain.User
	Get(id domain.ConnectionID) (domain.User, bool)
	// Remove is idempotent.
	Remove(id domain.ConnectionID)
	// ListAll returns a snapshot in unspecified order.
	ListAll() []domain.User
}

// RoomRegistry maps a room to the set of connections joined to it. A room
// exists only while it has at least one member.
type RoomRegistry interface {
	// Join adds the connection, creating the room when needed, and returns
	// the membership snapshot taken right after the join (the joiner
	// included). added is false when the connection was already a member;
	// joining twice does not change membership.
	Join(room domain.RoomID, id domain.ConnectionID) (members []domain.ConnectionID, added bool)
	// Leave removes the connection and deletes the room once empty. It
	// reports whether the connection was a member.
	Leave(room domain.RoomID, id domain.ConnectionID) bool
	// LeaveAll removes the connection from every room and returns the rooms
	// it was removed from.
	LeaveAll(id domain.ConnectionID) []domain.RoomID
	// Members returns a snapshot; an unknown room yields an empty set.
	Members(room domain.RoomID) []domain.ConnectionID
	Rooms() []domain.RoomID
}
