package polls

import (
	"context"
	"fmt"
	"time"
)

// Trigger is one inbound request from the chat platform. The set of triggers is closed.
type Trigger interface {
	trigger()
}

type CreateRequest struct {
	Question           string
	OptionTexts        []string
	AllowMultipleVotes bool
	HideVotes          bool
	HideVoteCount      bool
	Deadline           *time.Time
	ChannelId          string
	CreatorId          string
}

type VoteRequest struct {
	PollId    string
	OptionId  string
	VoterId   string
	VoterName string
}

type CloseRequest struct {
	PollId      string
	RequesterId string
}

type ResultsRequest struct {
	PollId      string
	RequesterId string
}

func (CreateRequest) trigger()  {}
func (VoteRequest) trigger()    {}
func (CloseRequest) trigger()   {}
func (ResultsRequest) trigger() {}

// Reply carries whatever the handled trigger produced; fields not relevant to it stay zero.
type Reply struct {
	Poll    *Poll
	Outcome Outcome
	Results *Results
}

func (s *Service) Handle(ctx context.Context, t Trigger) (Reply, error) {
	switch t := t.(type) {
	case CreateRequest:
		poll, err := s.Create(ctx, t)
		return Reply{Poll: poll}, err
	case VoteRequest:
		outcome, poll, err := s.Vote(ctx, t)
		return Reply{Poll: poll, Outcome: outcome}, err
	case CloseRequest:
		poll, err := s.Close(ctx, t)
		return Reply{Poll: poll}, err
	case ResultsRequest:
		results, err := s.Results(ctx, t)
		return Reply{Results: results}, err
	default:
		return Reply{}, fmt.Errorf("%w: unsupported request %T", ErrInvalidInput, t)
	}
}
