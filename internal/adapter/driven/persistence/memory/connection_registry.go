package memory

import (
	"sync"

	"github.com/Wyydra/relay/internal/core/domain"
	"github.com/samber/lo"
)

type ConnectionRegistry struct {
	mu    sync.RWMutex
	users map[domain.ConnectionID]domain.User
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		users: make(map[domain.ConnectionID]domain.User),
	}
}

func (r *ConnectionRegistry) Register(id domain.ConnectionID, displayName string) domain.User {
	u := domain.NewUser(id, displayName)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id] = u
	return u
}

func (r *ConnectionRegistry) Get(id domain.ConnectionID) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok
}

func (r *ConnectionRegistry) Remove(id domain.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

func (r *ConnectionRegistry) ListAll() []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.users)
}
