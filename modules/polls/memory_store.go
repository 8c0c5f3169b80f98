package polls

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryStore struct {
	mu    sync.RWMutex
	polls map[string]*Poll
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{polls: make(map[string]*Poll)}
}

func (s *MemoryStore) Get(ctx context.Context, pollId string) (*Poll, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	poll, exists := s.polls[pollId]
	if !exists {
		return nil, ErrNotFound
	}
	return poll.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, poll *Poll) (*Poll, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls[poll.Id] = poll.Clone()
	return poll.Clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, pollId string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, storageError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.polls[pollId]; !exists {
		return false, nil
	}
	delete(s.polls, pollId)
	return true, nil
}

// ListExpiredOpen returns the expired open polls, oldest deadline first.
func (s *MemoryStore) ListExpiredOpen(ctx context.Context, now time.Time) ([]*Poll, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*Poll, 0)
	for _, p := range s.polls {
		if p.Expired(now) {
			list = append(list, p.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Deadline.Before(*list[j].Deadline)
	})
	return list, nil
}
