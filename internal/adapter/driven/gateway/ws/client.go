package ws

import "github.com/Wyydra/relay/internal/core/domain"

// Client is one live transport session. Send must not block: it either
// queues the event or returns an error.
type Client interface {
	ID() domain.ConnectionID
	Send(evt domain.Event) error
	Close() error
}
