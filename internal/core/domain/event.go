package domain

// EventType names an event on the wire, in either direction.
type EventType string

// Inbound.
const (
	EventRegister  EventType = "register"
	EventJoinRoom  EventType = "join-room"
	EventLeaveRoom EventType = "leave-room"
	EventSignal    EventType = "signal"
)

// Outbound.
const (
	EventRegistered    EventType = "registered"
	EventUserList      EventType = "user-list"
	EventUserJoined    EventType = "user-joined"
	EventExistingUsers EventType = "existing-users"
	EventUserLeft      EventType = "user-left"
)

// Event is an outbound notification. Payload holds one of:
//
//	registered      User
//	user-list       []User
//	user-joined     Peer
//	existing-users  []Peer
//	signal          RelayedSignal
//	user-left       ConnectionID
type Event struct {
	Type    EventType
	Payload any
}

func Registered(u User) Event {
	return Event{Type: EventRegistered, Payload: u}
}

func UserList(users []User) Event {
	return Event{Type: EventUserList, Payload: users}
}

func UserJoined(p Peer) Event {
	return Event{Type: EventUserJoined, Payload: p}
}

func ExistingUsers(peers []Peer) Event {
	return Event{Type: EventExistingUsers, Payload: peers}
}

func SignalFrom(from ConnectionID, s Signal) Event {
	return Event{Type: EventSignal, Payload: RelayedSignal{From: from, Signal: s}}
}

func UserLeft(id ConnectionID) Event {
	return Event{Type: EventUserLeft, Payload: id}
}
