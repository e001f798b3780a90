// Package revocation provides session token revocation lists. The Redis
// implementation shares state across instances; the in-memory one is for
// single-instance deployments and tests.
package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemoryList tracks revoked token IDs with expiry timestamps. Expired
// entries are dropped lazily on read and during Revoke sweeps.
type InMemoryList struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewInMemoryList() *InMemoryList {
	return &InMemoryList{revoked: make(map[string]time.Time)}
}

func (l *InMemoryList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, expiry := range l.revoked {
		if now.After(expiry) {
			delete(l.revoked, key)
		}
	}
	l.revoked[jti] = now.Add(ttl)
	return nil
}

func (l *InMemoryList) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}

	l.mu.RLock()
	expiry, ok := l.revoked[jti]
	l.mu.RUnlock()

	if !ok {
		return false, nil
	}
	return time.Now().Before(expiry), nil
}
