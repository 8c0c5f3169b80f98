package polls

import (
	"context"
	"time"
)

// Store persists whole poll aggregates. Implementations return copies, so callers may mutate what
// they get back and hand it to Save. Get reports a missing poll with ErrNotFound; any backend
// failure is reported as ErrStorageUnavailable.
type Store interface {
	Get(ctx context.Context, pollId string) (*Poll, error)
	Save(ctx context.Context, poll *Poll) (*Poll, error)
	Delete(ctx context.Context, pollId string) (bool, error)
	ListExpiredOpen(ctx context.Context, now time.Time) ([]*Poll, error)
}
