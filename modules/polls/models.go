package polls

import "time"

type Poll struct {
	Id                 string `gorm:"primaryKey;size:36"`
	Question           string `gorm:"size:512"`
	CreatorId          string `gorm:"size:64"`
	CreatedAt          time.Time
	AllowMultipleVotes bool
	HideVotes          bool
	HideVoteCount      bool
	Deadline           *time.Time `gorm:"index"`
	Closed             bool       `gorm:"index"`
	ChannelId          string     `gorm:"size:64"`
	MessageId          string     `gorm:"size:64;index"`
	Options            []Option   `gorm:"foreignKey:PollId;constraint:OnDelete:CASCADE"`
	Votes              []Vote     `gorm:"foreignKey:PollId;constraint:OnDelete:CASCADE"`
}

type Option struct {
	Id       string `gorm:"primaryKey;size:36"`
	PollId   string `gorm:"size:36;index"`
	Position int
	Text     string `gorm:"size:256"`
}

type Vote struct {
	Id        string `gorm:"primaryKey;size:36"`
	PollId    string `gorm:"size:36;index:vote_voter_idx"`
	OptionId  string `gorm:"size:36;index"`
	UserId    string `gorm:"size:64;index:vote_voter_idx"`
	UserName  string `gorm:"size:128"`
	CreatedAt time.Time
}

// Option returns the option with the given id, or nil if it is not part of this poll.
func (p *Poll) Option(id string) *Option {
	for k := range p.Options {
		if p.Options[k].Id == id {
			return &p.Options[k]
		}
	}
	return nil
}

func (p *Poll) VotesBy(userId string) []Vote {
	votes := make([]Vote, 0)
	for _, v := range p.Votes {
		if v.UserId == userId {
			votes = append(votes, v)
		}
	}
	return votes
}

// Expired reports whether the poll is still open with a deadline strictly before now.
func (p *Poll) Expired(now time.Time) bool {
	return !p.Closed && p.Deadline != nil && p.Deadline.Before(now)
}

// Clone returns a deep copy so stores never hand out their own aggregates.
func (p *Poll) Clone() *Poll {
	if p == nil {
		return nil
	}

	c := *p
	if p.Deadline != nil {
		deadline := *p.Deadline
		c.Deadline = &deadline
	}
	c.Options = append([]Option(nil), p.Options...)
	c.Votes = append([]Vote(nil), p.Votes...)
	return &c
}
