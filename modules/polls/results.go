package polls

import "sort"

type Voter struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type OptionResult struct {
	OptionId string  `json:"option_id"`
	Text     string  `json:"text"`
	Count    *int    `json:"count,omitempty"`
	Voters   []Voter `json:"voters,omitempty"`

	votes int
}

type Results struct {
	PollId   string         `json:"poll_id"`
	Question string         `json:"question"`
	Closed   bool           `json:"closed"`
	Options  []OptionResult `json:"options"`
}

// Tally counts the votes per option in definition order, with the poll's visibility settings
// applied: voters are only listed when votes are not hidden, counts only when counts are not hidden.
func Tally(poll *Poll) []OptionResult {
	index := make(map[string]int, len(poll.Options))
	results := make([]OptionResult, len(poll.Options))
	for k, o := range poll.Options {
		index[o.Id] = k
		results[k] = OptionResult{OptionId: o.Id, Text: o.Text}
	}

	for _, v := range poll.Votes {
		k, exists := index[v.OptionId]
		if !exists {
			continue
		}
		results[k].votes++
		if !poll.HideVotes {
			results[k].Voters = append(results[k].Voters, Voter{Id: v.UserId, Name: v.UserName})
		}
	}

	if !poll.HideVoteCount {
		for k := range results {
			count := results[k].votes
			results[k].Count = &count
		}
	}

	return results
}

// ComputeResults is Tally ordered by descending vote count. Ties keep definition order.
func ComputeResults(poll *Poll) *Results {
	options := Tally(poll)
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].votes > options[j].votes
	})

	return &Results{
		PollId:   poll.Id,
		Question: poll.Question,
		Closed:   poll.Closed,
		Options:  options,
	}
}
