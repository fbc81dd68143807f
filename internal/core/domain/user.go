package domain

// User is the record created by a register event. There is at most one per
// connection; registering again overwrites it.
type User struct {
	ConnectionID ConnectionID
	DisplayName  string
}

func NewUser(id ConnectionID, displayName string) User {
	return User{
		ConnectionID: id,
		DisplayName:  displayName,
	}
}

// Peer is a room member as seen by other members. A connection may join a
// room without registering, in which case Registered is false and
// DisplayName is empty.
type Peer struct {
	ConnectionID ConnectionID
	DisplayName  string
	Registered   bool
}

func (u User) Peer() Peer {
	return Peer{
		ConnectionID: u.ConnectionID,
		DisplayName:  u.DisplayName,
		Registered:   true,
	}
}

func AnonymousPeer(id ConnectionID) Peer {
	return Peer{ConnectionID: id}
}
