//go:generate go run go.uber.org/mock/mockgen -source=gateway.go -destination=../../mocks/mock_gateway.go -package=mocks
package port

import (
	"context"

	"github.com/Wyydra/relay/internal/core/domain"
)

// Gateway delivers outbound events to live transport sessions. Delivery is
// best effort: an unknown or closed target is not an error the router acts
// on, and implementations must never block on a slow session.
type Gateway interface {
	Send(ctx context.Context, to domain.ConnectionID, evt domain.Event) error
	Broadcast(ctx context.Context, evt domain.Event) error
	Connected(id domain.ConnectionID) bool
}
