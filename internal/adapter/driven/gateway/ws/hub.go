package ws

import (
	"context"
	"fmt"
	"sync"

	"github.com/Wyydra/relay/internal/core/domain"
	"github.com/rs/zerolog/log"
)

// Hub is the set of live sessions. It implements port.Gateway.
type Hub struct {
	mu      sync.RWMutex
	clients map[domain.ConnectionID]Client
	stopped bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[domain.ConnectionID]Client),
	}
}

func (h *Hub) Register(c Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return domain.ErrSessionClosed
	}
	h.clients[c.ID()] = c
	log.Debug().Str("conn_id", c.ID().String()).Int("count", len(h.clients)).Msg("Client registered")
	return nil
}

// Unregister drops c only if it is still the session stored under its id.
func (h *Hub) Unregister(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cur, ok := h.clients[c.ID()]; ok && cur == c {
		delete(h.clients, c.ID())
		log.Debug().Str("conn_id", c.ID().String()).Int("count", len(h.clients)).Msg("Client unregistered")
	}
}

func (h *Hub) Send(ctx context.Context, to domain.ConnectionID, evt domain.Event) error {
	h.mu.RLock()
	c, ok := h.clients[to]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionClosed, to)
	}
	return c.Send(evt)
}

// Broadcast queues evt for every live session. A session that cannot take
// it is skipped; its own teardown will follow.
func (h *Hub) Broadcast(ctx context.Context, evt domain.Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, c := range h.clients {
		if err := c.Send(evt); err != nil {
			log.Warn().Err(err).Str("conn_id", id.String()).Str("event", string(evt.Type)).Msg("Broadcast dropped")
		}
	}
	return nil
}

func (h *Hub) Connected(id domain.ConnectionID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[id]
	return ok
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop closes every session and refuses new ones.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopped = true
	for id, c := range h.clients {
		if err := c.Close(); err != nil {
			log.Error().Err(err).Str("conn_id", id.String()).Msg("Error closing client connection")
		}
	}
	log.Info().Int("count", len(h.clients)).Msg("Hub stopped")
}
