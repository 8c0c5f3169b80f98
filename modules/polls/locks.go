package polls

import (
	"context"
	"sync"
)

type pollLock struct {
	sem  chan struct{}
	refs int
}

// pollLocks serializes mutations per poll id. Entries only live while someone holds or waits for them.
type pollLocks struct {
	mu    sync.Mutex
	locks map[string]*pollLock
}

func newPollLocks() *pollLocks {
	return &pollLocks{locks: make(map[string]*pollLock)}
}

// Lock blocks until the poll's lock is acquired or ctx is done.
func (l *pollLocks) Lock(ctx context.Context, pollId string) (func(), error) {
	l.mu.Lock()
	lock, exists := l.locks[pollId]
	if !exists {
		lock = &pollLock{sem: make(chan struct{}, 1)}
		l.locks[pollId] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(pollId, lock)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.sem
			l.release(pollId, lock)
		})
	}, nil
}

func (l *pollLocks) release(pollId string, lock *pollLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, pollId)
	}
}

func (l *pollLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
