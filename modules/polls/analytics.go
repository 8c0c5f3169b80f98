package polls

import (
	"github.com/lordralex/ballot/api/logger"
	"github.com/posthog/posthog-go"
)

const (
	eventPollCreated   = "poll_created"
	eventVoteSubmitted = "poll_vote_submitted"
)

// Analytics records product events. Delivery is best effort and never affects the poll.
type Analytics interface {
	Capture(userId, event string, properties map[string]any) error
}

type NopAnalytics struct{}

func (NopAnalytics) Capture(string, string, map[string]any) error { return nil }

// PosthogAnalytics queues events for PostHog. Close flushes whatever is still queued.
type PosthogAnalytics struct {
	client posthog.Client
}

// NewPosthogAnalytics uses PostHog's default endpoint when endpoint is empty.
func NewPosthogAnalytics(apiKey, endpoint string) (*PosthogAnalytics, error) {
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{
		Endpoint: endpoint,
		Logger:   posthog.StdLogger(logger.Out()),
	})
	if err != nil {
		return nil, err
	}
	return &PosthogAnalytics{client: client}, nil
}

func (a *PosthogAnalytics) Capture(userId, event string, properties map[string]any) error {
	return a.client.Enqueue(posthog.Capture{
		DistinctId: userId,
		Event:      event,
		Properties: posthog.Properties(properties),
	})
}

func (a *PosthogAnalytics) Close() error {
	return a.client.Close()
}
