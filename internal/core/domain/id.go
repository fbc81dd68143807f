package domain

import (
	"github.com/google/uuid"
)

// ConnectionID identifies one live transport session. It is assigned by the
// server and never reused once the session ends.
type ConnectionID string

// RoomID is a caller-supplied room name.
type RoomID string

func NewConnectionID() ConnectionID {
	return ConnectionID(uuid.New().String())
}

// ParseConnectionID accepts only ids this server could have issued.
func ParseConnectionID(s string) (ConnectionID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return ConnectionID(id.String()), nil
}

func (id ConnectionID) String() string {
	return string(id)
}

func (id RoomID) String() string {
	return string(id)
}
