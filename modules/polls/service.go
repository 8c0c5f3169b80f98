package polls

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lordralex/ballot/api/logger"
)

const (
	defaultStoreTimeout  = 5 * time.Second
	defaultNotifyTimeout = 5 * time.Second
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// errUnchanged aborts a mutation without saving.
var errUnchanged = errors.New("poll unchanged")

// Service runs every operation that reads or changes a poll. Mutations of the same poll are
// serialized; mutations of different polls run independently.
type Service struct {
	store         Store
	notifier      Notifier
	analytics     Analytics
	locks         *pollLocks
	clock         Clock
	storeTimeout  time.Duration
	notifyTimeout time.Duration
}

type ServiceOption func(*Service)

func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithStoreTimeout bounds every individual store call.
func WithStoreTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		if timeout > 0 {
			s.storeTimeout = timeout
		}
	}
}

// WithNotifyTimeout bounds each notification. Notifications run while the poll is locked.
func WithNotifyTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		if timeout > 0 {
			s.notifyTimeout = timeout
		}
	}
}

func WithAnalytics(analytics Analytics) ServiceOption {
	return func(s *Service) {
		if analytics != nil {
			s.analytics = analytics
		}
	}
}

func NewService(store Store, notifier Notifier, opts ...ServiceOption) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}

	s := &Service{
		store:         store,
		notifier:      notifier,
		analytics:     NopAnalytics{},
		locks:         newPollLocks(),
		clock:         systemClock{},
		storeTimeout:  defaultStoreTimeout,
		notifyTimeout: defaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and stores a new open poll. Blank option texts are dropped and at least two
// must remain. Vote counts can only be hidden when the voters are hidden as well.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Poll, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: a question is required", ErrInvalidInput)
	}

	choices := make([]string, 0, len(req.OptionTexts))
	for _, v := range req.OptionTexts {
		v = strings.TrimSpace(v)
		if v != "" {
			choices = append(choices, v)
		}
	}
	if len(choices) < 2 {
		return nil, fmt.Errorf("%w: you need at least 2 choices", ErrInvalidInput)
	}

	poll := &Poll{
		Id:                 uuid.NewString(),
		Question:           question,
		CreatorId:          req.CreatorId,
		CreatedAt:          s.clock.Now(),
		AllowMultipleVotes: req.AllowMultipleVotes,
		HideVotes:          req.HideVotes,
		HideVoteCount:      req.HideVotes && req.HideVoteCount,
		ChannelId:          req.ChannelId,
	}
	if req.Deadline != nil {
		deadline := req.Deadline.UTC()
		poll.Deadline = &deadline
	}
	for k, v := range choices {
		poll.Options = append(poll.Options, Option{Id: uuid.NewString(), PollId: poll.Id, Position: k, Text: v})
	}

	saved, err := s.save(ctx, poll)
	if err != nil {
		return nil, err
	}

	logger.Out().Printf("Created poll %s with %d options in channel %s\n", saved.Id, len(saved.Options), saved.ChannelId)
	s.capture(saved.CreatorId, eventPollCreated, saved.Id)
	return saved, nil
}

// AttachMessage records where the poll's announcement was posted.
func (s *Service) AttachMessage(ctx context.Context, pollId, channelId, messageId string) (*Poll, error) {
	return s.mutate(ctx, pollId, func(poll *Poll) error {
		if channelId != "" {
			poll.ChannelId = channelId
		}
		poll.MessageId = messageId
		return nil
	}, nil)
}

func (s *Service) Vote(ctx context.Context, req VoteRequest) (Outcome, *Poll, error) {
	outcome := Rejected
	poll, err := s.mutate(ctx, req.PollId, func(poll *Poll) error {
		var err error
		outcome, err = SubmitVote(poll, Ballot{
			PollId:    req.PollId,
			OptionId:  req.OptionId,
			VoterId:   req.VoterId,
			VoterName: req.VoterName,
		}, s.clock.Now())
		return err
	}, s.notifier.PollChanged)
	if err != nil {
		return Rejected, nil, err
	}

	logger.Debug().Printf("Vote %s on poll %s by %s\n", outcome, poll.Id, req.VoterId)
	if outcome == Added || outcome == Replaced {
		s.capture(req.VoterId, eventVoteSubmitted, poll.Id)
	}
	return outcome, poll, nil
}

// Close is the creator's close. A poll that is already closed is reported, not closed again.
func (s *Service) Close(ctx context.Context, req CloseRequest) (*Poll, error) {
	poll, err := s.mutate(ctx, req.PollId, func(poll *Poll) error {
		if poll.Closed {
			return ErrAlreadyClosed
		}
		if poll.CreatorId != req.RequesterId {
			return ErrForbidden
		}
		poll.Closed = true
		return nil
	}, s.notifier.PollChanged)
	if err != nil {
		return nil, err
	}

	logger.Out().Printf("Poll %s closed by %s\n", poll.Id, req.RequesterId)
	return poll, nil
}

// CloseExpired closes a poll whose deadline has passed, without any authorization check, and
// announces the close. The stored state is re-checked under the poll's lock, so a poll that was
// closed or deleted since it was listed is left alone. On success poll is refreshed with the stored state.
func (s *Service) CloseExpired(ctx context.Context, poll *Poll) (bool, error) {
	saved, err := s.mutate(ctx, poll.Id, func(current *Poll) error {
		if !current.Expired(s.clock.Now()) {
			return errUnchanged
		}
		current.Closed = true
		return nil
	}, s.notifier.PollClosed)
	if errors.Is(err, errUnchanged) || errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	*poll = *saved
	logger.Out().Printf("Automatically closing poll %s due to deadline\n", poll.Id)
	return true, nil
}

// Results is available to the creator at any time and to everyone once the poll is closed.
func (s *Service) Results(ctx context.Context, req ResultsRequest) (*Results, error) {
	poll, err := s.get(ctx, req.PollId)
	if err != nil {
		return nil, err
	}
	if !poll.Closed && poll.CreatorId != req.RequesterId {
		return nil, ErrForbidden
	}
	return ComputeResults(poll), nil
}

func (s *Service) Get(ctx context.Context, pollId string) (*Poll, error) {
	return s.get(ctx, pollId)
}

// Delete removes a poll with its options and votes.
func (s *Service) Delete(ctx context.Context, pollId string) (bool, error) {
	unlock, err := s.locks.Lock(ctx, pollId)
	if err != nil {
		return false, err
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	deleted, err := s.store.Delete(ctx, pollId)
	if err != nil {
		return false, err
	}
	if deleted {
		logger.Out().Printf("Deleted poll %s\n", pollId)
	}
	return deleted, nil
}

func (s *Service) listExpired(ctx context.Context) ([]*Poll, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.store.ListExpiredOpen(ctx, s.clock.Now())
}

// mutate loads the poll under its lock, applies fn and saves the result. Nothing is saved when fn fails.
// notify, when given, sees the saved poll before the lock is released, so renders of one poll
// always arrive in the order its changes were made.
func (s *Service) mutate(ctx context.Context, pollId string, fn func(poll *Poll) error, notify func(ctx context.Context, poll *Poll) error) (*Poll, error) {
	unlock, err := s.locks.Lock(ctx, pollId)
	if err != nil {
		return nil, err
	}
	defer unlock()

	poll, err := s.get(ctx, pollId)
	if err != nil {
		return nil, err
	}
	if err = fn(poll); err != nil {
		return nil, err
	}
	saved, err := s.save(ctx, poll)
	if err != nil {
		return nil, err
	}

	if notify != nil {
		s.notify(ctx, saved, notify)
	}
	return saved, nil
}

func (s *Service) get(ctx context.Context, pollId string) (*Poll, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.store.Get(ctx, pollId)
}

func (s *Service) save(ctx context.Context, poll *Poll) (*Poll, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.store.Save(ctx, poll)
}

// notify refreshes the poll's rendering. The change is already stored, so a failure is only logged.
func (s *Service) notify(ctx context.Context, poll *Poll, fn func(ctx context.Context, poll *Poll) error) {
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	if err := fn(ctx, poll); err != nil {
		logger.Err().Printf("Error updating poll message for %s: %s\n", poll.Id, err.Error())
	}
}

func (s *Service) capture(userId, event, pollId string) {
	err := s.analytics.Capture(userId, event, map[string]any{"poll_id": pollId, "user_id": userId})
	if err != nil {
		logger.Err().Printf("Error recording %s for poll %s: %s\n", event, pollId, err.Error())
	}
}
