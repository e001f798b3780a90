package store

import (
	"context"
	"sync"

	"memberdesk/internal/admin/models"
	"memberdesk/pkg/platform/sentinel"
)

// InMemoryAdminStore serves tests and single-process development.
type InMemoryAdminStore struct {
	mu     sync.RWMutex
	admins map[string]*models.Admin
}

func NewInMemoryAdminStore() *InMemoryAdminStore {
	return &InMemoryAdminStore{admins: make(map[string]*models.Admin)}
}

func (s *InMemoryAdminStore) Create(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.admins[admin.Username]; exists {
		return sentinel.ErrConflict
	}
	stored := *admin
	s.admins[admin.Username] = &stored
	return nil
}

func (s *InMemoryAdminStore) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	admin, ok := s.admins[username]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *admin
	return &copied, nil
}

func (s *InMemoryAdminStore) Any(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.admins) > 0, nil
}
