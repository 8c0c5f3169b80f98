package polls

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	maxChoices      = 15
	maxChoiceLength = 80
	buttonsPerRow   = 5
)

func renderMessage(poll *Poll) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:    "Poll: " + poll.Question,
		Embeds:     renderEmbeds(poll),
		Components: renderComponents(poll),
	}
}

func renderEmbeds(poll *Poll) []*discordgo.MessageEmbed {
	lines := make([]string, 0)
	if poll.Closed {
		lines = append(lines, "**This poll is closed**")
	} else if poll.Deadline != nil {
		lines = append(lines, fmt.Sprintf("Poll ends <t:%d:R>", poll.Deadline.Unix()))
	}
	if poll.AllowMultipleVotes {
		lines = append(lines, "You may vote for multiple options")
	}
	if poll.HideVotes {
		lines = append(lines, "Votes are anonymous")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📊 " + poll.Question,
		Description: strings.Join(lines, "\n"),
		Timestamp:   poll.CreatedAt.Format(time.RFC3339),
	}
	for _, v := range Tally(poll) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  v.Text,
			Value: describeOption(v),
		})
	}

	return []*discordgo.MessageEmbed{embed}
}

func renderResults(results *Results) []*discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📊 Results: " + results.Question,
	}
	if !results.Closed {
		embed.Description = "Poll is still open"
	}
	for _, v := range results.Options {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  v.Text,
			Value: describeOption(v),
		})
	}

	return []*discordgo.MessageEmbed{embed}
}

func describeOption(result OptionResult) string {
	parts := make([]string, 0, 2)
	if result.Count != nil {
		parts = append(parts, fmt.Sprintf("%d vote(s)", *result.Count))
	}
	if len(result.Voters) > 0 {
		names := make([]string, 0, len(result.Voters))
		for _, v := range result.Voters {
			names = append(names, v.Name)
		}
		parts = append(parts, "Votes: "+strings.Join(names, ", "))
	}
	if len(parts) == 0 {
		//embed field values cannot be empty
		return "\u200b"
	}
	return strings.Join(parts, " - ")
}

// renderComponents lays out one vote button per option, five to a row, followed by the control row.
// Show Results is always offered; who may see them is decided when it is pressed.
func renderComponents(poll *Poll) []discordgo.MessageComponent {
	components := make([]discordgo.MessageComponent, 0)
	row := discordgo.ActionsRow{}

	for _, v := range poll.Options {
		id := &CustomId{Action: actionVote, PollId: poll.Id, OptionId: v.Id}
		row.Components = append(row.Components, discordgo.Button{
			CustomID: id.ToString(),
			Style:    discordgo.PrimaryButton,
			Label:    v.Text,
			Disabled: poll.Closed,
		})

		if len(row.Components) == buttonsPerRow {
			components = append(components, row)
			row = discordgo.ActionsRow{}
		}
	}

	if len(row.Components) > 0 {
		components = append(components, row)
	}

	controls := discordgo.ActionsRow{}
	if !poll.Closed {
		closeId := &CustomId{Action: actionClose, PollId: poll.Id}
		controls.Components = append(controls.Components, discordgo.Button{
			CustomID: closeId.ToString(),
			Style:    discordgo.DangerButton,
			Label:    "Close Poll",
		})
	}
	resultsId := &CustomId{Action: actionResults, PollId: poll.Id}
	controls.Components = append(controls.Components, discordgo.Button{
		CustomID: resultsId.ToString(),
		Style:    discordgo.SecondaryButton,
		Label:    "Show Results",
	})

	return append(components, controls)
}
