package polls

import (
	"context"
	"fmt"
	"time"

	"github.com/lordralex/ballot/api/logger"
)

const DefaultSweepInterval = time.Minute

// Sweeper closes polls whose deadline has passed. Announcing each close is left to the service's notifier.
type Sweeper struct {
	service  *Service
	interval time.Duration
}

func NewSweeper(service *Service, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{service: service, interval: interval}
}

// Run sweeps once straight away and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	s.runTick(ctx)

	timer := time.NewTicker(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.runTick(ctx)
		}
	}
}

func (s *Sweeper) runTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Err().Printf("Poll sweep panicked: %v\n", r)
		}
	}()

	closed, err := s.RunOnce(ctx)
	if err != nil {
		logger.Err().Printf("Error in expired polls check: %s\n", err.Error())
		return
	}
	if closed > 0 {
		logger.Debug().Printf("Poll sweep closed %d polls\n", closed)
	}
}

// RunOnce closes every poll that was expired when the sweep started and returns how many it closed.
// Only the listing can fail the sweep; problems with single polls are logged and skipped.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	expired, err := s.service.listExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing expired polls: %w", err)
	}

	closed := 0
	for _, poll := range expired {
		ok, err := s.service.CloseExpired(ctx, poll)
		if err != nil {
			logger.Err().Printf("Error closing expired poll %s: %s\n", poll.Id, err.Error())
			continue
		}
		if ok {
			closed++
		}
	}
	return closed, nil
}
