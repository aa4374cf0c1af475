package preferences

import (
	"context"
	"sync"
)

// memoryStore keeps preferences for the lifetime of the process only; a restart
// loses everything. The mutex makes concurrent Set calls for the same key
// last-writer-wins without corrupting the map.
type memoryStore struct {
	mu    sync.RWMutex
	users map[string]map[string]string
}

func NewMemoryStore() SitePreferenceStore {
	return &memoryStore{users: map[string]map[string]string{}}
}

func (s *memoryStore) Set(_ context.Context, userID, site, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sites, ok := s.users[userID]
	if !ok {
		sites = map[string]string{}
		s.users[userID] = sites
	}
	sites[site] = category
	return nil
}

func (s *memoryStore) Get(_ context.Context, userID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.users[userID]))
	for site, category := range s.users[userID] {
		out[site] = category
	}
	return out, nil
}
