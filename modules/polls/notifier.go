package polls

import "context"

// Notifier tells the presentation layer that a poll's rendering is out of date.
// Calls happen while the poll is locked, so implementations must not call back into the Service.
type Notifier interface {
	PollChanged(ctx context.Context, poll *Poll) error
	// PollClosed is used when a poll closes on its own because its deadline passed.
	PollClosed(ctx context.Context, poll *Poll) error
}

type NopNotifier struct{}

func (NopNotifier) PollChanged(context.Context, *Poll) error { return nil }

func (NopNotifier) PollClosed(context.Context, *Poll) error { return nil }
