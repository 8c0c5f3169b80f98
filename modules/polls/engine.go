package polls

import (
	"time"

	"github.com/google/uuid"
)

// Outcome classifies what a submitted ballot did to the voter's votes.
type Outcome int

const (
	Rejected Outcome = iota
	Added
	Removed
	Replaced
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Replaced:
		return "replaced"
	default:
		return "rejected"
	}
}

type Ballot struct {
	PollId    string
	OptionId  string
	VoterId   string
	VoterName string
}

// SubmitVote applies one button press to the poll's votes.
//
// Pressing an option the voter already holds removes that vote. In single choice polls a press on
// any other option replaces whatever the voter held; in multiple choice polls the other options
// are left alone. The caller must hold the poll's lock and persist the poll afterwards.
func SubmitVote(poll *Poll, b Ballot, now time.Time) (Outcome, error) {
	if poll.Closed {
		return Rejected, ErrPollClosed
	}
	if poll.Option(b.OptionId) == nil {
		return Rejected, ErrOptionNotFound
	}

	existing := poll.VotesBy(b.VoterId)

	for _, v := range existing {
		if v.OptionId == b.OptionId {
			removeVotes(poll, func(vote Vote) bool { return vote.Id == v.Id })
			return Removed, nil
		}
	}

	outcome := Added
	if !poll.AllowMultipleVotes && len(existing) > 0 {
		removeVotes(poll, func(vote Vote) bool { return vote.UserId == b.VoterId })
		outcome = Replaced
	}

	poll.Votes = append(poll.Votes, Vote{
		Id:        uuid.NewString(),
		PollId:    poll.Id,
		OptionId:  b.OptionId,
		UserId:    b.VoterId,
		UserName:  b.VoterName,
		CreatedAt: now,
	})
	return outcome, nil
}

func removeVotes(poll *Poll, match func(Vote) bool) {
	kept := poll.Votes[:0]
	for _, v := range poll.Votes {
		if !match(v) {
			kept = append(kept, v)
		}
	}
	poll.Votes = kept
}
