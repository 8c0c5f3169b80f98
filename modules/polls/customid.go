package polls

import (
	"fmt"
	"strings"
)

// action is the button kind encoded in a component's custom id.
type action int

const (
	actionUnknown action = iota
	actionVote
	actionClose
	actionResults
)

var actionNames = map[action]string{
	actionVote:    "vote",
	actionClose:   "close",
	actionResults: "results",
}

func parseAction(name string) action {
	for k, v := range actionNames {
		if v == name {
			return k
		}
	}
	return actionUnknown
}

// CustomId is what the poll buttons carry, e.g. "a:vote|p:<poll>|o:<option>".
// Discord caps custom ids at 100 characters, hence the single letter keys.
type CustomId struct {
	Action   action
	PollId   string
	OptionId string
}

func (c *CustomId) ToString() string {
	parts := make([]string, 0, 3)

	if name, exists := actionNames[c.Action]; exists {
		parts = append(parts, "a:"+name)
	}
	if c.PollId != "" {
		parts = append(parts, "p:"+c.PollId)
	}
	if c.OptionId != "" {
		parts = append(parts, "o:"+c.OptionId)
	}

	return strings.Join(parts, "|")
}

func (c *CustomId) FromString(source string) error {
	for _, v := range strings.Split(source, "|") {
		key, value, found := strings.Cut(v, ":")
		if !found {
			return fmt.Errorf("malformed custom id %q", source)
		}

		switch key {
		case "a":
			c.Action = parseAction(value)
		case "p":
			c.PollId = value
		case "o":
			c.OptionId = value
		}
	}

	if c.Action == actionUnknown || c.PollId == "" {
		return fmt.Errorf("not a poll custom id: %q", source)
	}
	if c.Action == actionVote && c.OptionId == "" {
		return fmt.Errorf("vote custom id without option: %q", source)
	}
	return nil
}

// Trigger turns a pressed button into the request it stands for.
func (c *CustomId) Trigger(userId, userName string) Trigger {
	switch c.Action {
	case actionVote:
		return VoteRequest{PollId: c.PollId, OptionId: c.OptionId, VoterId: userId, VoterName: userName}
	case actionClose:
		return CloseRequest{PollId: c.PollId, RequesterId: userId}
	case actionResults:
		return ResultsRequest{PollId: c.PollId, RequesterId: userId}
	default:
		return nil
	}
}
