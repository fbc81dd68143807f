package ws

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Wyydra/relay/internal/core/domain"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	id     domain.ConnectionID
	mu     sync.Mutex
	got    []domain.Event
	full   bool
	closed bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{id: domain.NewConnectionID()}
}

func (c *fakeClient) ID() domain.ConnectionID { return c.id }

func (c *fakeClient) Send(evt domain.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return domain.ErrSendQueueFull
	}
	c.got = append(c.got, evt)
	return nil
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func TestHub_Send_To_Registered_Client(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	c := newFakeClient()
	req.NoError(hub.Register(c))

	err := hub.Send(context.Background(), c.id, domain.UserLeft("x"))

	req.NoError(err)
	req.Equal([]domain.Event{domain.UserLeft("x")}, c.got)
	req.True(hub.Connected(c.id))
}

func TestHub_Send_To_Unknown_Client(t *testing.T) {
	hub := NewHub()

	err := hub.Send(context.Background(), domain.NewConnectionID(), domain.UserLeft("x"))

	require.True(t, errors.Is(err, domain.ErrSessionClosed))
}

func TestHub_Broadcast_Skips_Full_Clients(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	ok1, ok2, full := newFakeClient(), newFakeClient(), newFakeClient()
	full.full = true
	for _, c := range []*fakeClient{ok1, ok2, full} {
		req.NoError(hub.Register(c))
	}

	err := hub.Broadcast(context.Background(), domain.UserList(nil))

	req.NoError(err)
	req.Len(ok1.got, 1)
	req.Len(ok2.got, 1)
	req.Empty(full.got)
}

func TestHub_Unregister_Ignores_Stale_Client(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	c := newFakeClient()
	stale := &fakeClient{id: c.id}
	req.NoError(hub.Register(c))

	// When a different session with the same id unregisters
	hub.Unregister(stale)

	// Then the live one stays
	req.True(hub.Connected(c.id))

	hub.Unregister(c)
	req.False(hub.Connected(c.id))
	req.Equal(0, hub.Count())
}

func TestHub_Stop_Closes_Everything(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	a, b := newFakeClient(), newFakeClient()
	req.NoError(hub.Register(a))
	req.NoError(hub.Register(b))

	hub.Stop()

	req.True(a.closed)
	req.True(b.closed)
	req.ErrorIs(hub.Register(newFakeClient()), domain.ErrSessionClosed)
}
