package polls

import "errors"

var (
	ErrNotFound           = errors.New("poll not found")
	ErrOptionNotFound     = errors.New("option not found")
	ErrPollClosed         = errors.New("poll is closed")
	ErrForbidden          = errors.New("only the poll creator can do that")
	ErrAlreadyClosed      = errors.New("poll is already closed")
	ErrInvalidInput       = errors.New("invalid poll")
	ErrStorageUnavailable = errors.New("poll storage unavailable")
)

// userMessage turns an operation failure into the text shown to the person who triggered it.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "That poll does not exist anymore"
	case errors.Is(err, ErrOptionNotFound):
		return "That option is not part of this poll"
	case errors.Is(err, ErrPollClosed):
		return "This poll is already closed"
	case errors.Is(err, ErrAlreadyClosed):
		return "Poll is already closed"
	case errors.Is(err, ErrForbidden):
		return "Only the poll creator can do that"
	case errors.Is(err, ErrInvalidInput):
		return err.Error()
	default:
		return "Something went wrong, try again in a moment"
	}
}
