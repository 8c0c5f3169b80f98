package polls

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/ballot/api/logger"
)

var createPollOperation = &discordgo.ApplicationCommand{
	Name:        "poll",
	Description: "Create a poll with a bunch of options",
	Type:        discordgo.ChatApplicationCommand,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        "question",
			Description: "What would you like to know?",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
		{
			Name:        "choices",
			Description: "Allowed choices, separated by ;",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
		{
			Name:        "multiple",
			Description: "Allow multiple votes per user",
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Required:    false,
		},
		{
			Name:        "hide-votes",
			Description: "Hide who voted for what",
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Required:    false,
		},
		{
			Name:        "hide-count",
			Description: "Hide vote counts too (only with hide-votes)",
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Required:    false,
		},
		{
			Name:        "timeout",
			Description: "How long the poll should be open for, like 2d or 90m (default is until closed)",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    false,
		},
	},
}

var closePollOperation = &discordgo.ApplicationCommand{
	Name:        "closepoll",
	Description: "Closes a poll",
	Type:        discordgo.ChatApplicationCommand,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        "id",
			Description: "ID for the poll",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
	},
}

var pollResultsOperation = &discordgo.ApplicationCommand{
	Name:        "pollresults",
	Description: "Shows the results of a poll",
	Type:        discordgo.ChatApplicationCommand,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        "id",
			Description: "ID for the poll",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
	},
}

func (m *Module) runCreateCommand(ds *discordgo.Session, i *discordgo.InteractionCreate) {
	deferEphemeral(ds, i)

	req := CreateRequest{ChannelId: i.ChannelID, CreatorId: interactionUser(i).ID}
	var timeout string

	for _, v := range i.ApplicationCommandData().Options {
		switch v.Name {
		case "question":
			req.Question = v.StringValue()
		case "choices":
			req.OptionTexts = strings.Split(v.StringValue(), ";")
		case "multiple":
			req.AllowMultipleVotes = v.BoolValue()
		case "hide-votes":
			req.HideVotes = v.BoolValue()
		case "hide-count":
			req.HideVoteCount = v.BoolValue()
		case "timeout":
			timeout = v.StringValue()
		}
	}

	if len(req.OptionTexts) > maxChoices {
		editResponse(ds, i, fmt.Sprintf("Limit of %d choices", maxChoices))
		return
	}
	for _, v := range req.OptionTexts {
		if len(strings.TrimSpace(v)) > maxChoiceLength {
			editResponse(ds, i, fmt.Sprintf("Choices can be at most %d characters", maxChoiceLength))
			return
		}
	}

	if timeout != "" {
		duration, err := parseTimeout(timeout)
		if err != nil {
			editResponse(ds, i, "Timeout is invalid")
			return
		}
		deadline := m.service.clock.Now().Add(duration)
		req.Deadline = &deadline
	}

	ctx, cancel := requestContext()
	defer cancel()

	reply, err := m.service.Handle(ctx, req)
	if err != nil {
		editResponse(ds, i, userMessage(err))
		return
	}
	poll := reply.Poll

	message, err := ds.ChannelMessageSendComplex(i.ChannelID, renderMessage(poll))
	if err != nil {
		logger.Err().Printf("Error sending poll %s: %s\n", poll.Id, err.Error())
		m.discard(poll.Id)
		editResponse(ds, i, "Error sending poll: "+err.Error())
		return
	}

	_, err = m.service.AttachMessage(ctx, poll.Id, message.ChannelID, message.ID)
	if err != nil {
		logger.Err().Printf("Error saving message for poll %s: %s\n", poll.Id, err.Error())
		_ = ds.ChannelMessageDelete(message.ChannelID, message.ID)
		m.discard(poll.Id)
		editResponse(ds, i, "Error saving poll: "+userMessage(err))
		return
	}

	editResponse(ds, i, "Poll created with id "+poll.Id)
}

func (m *Module) runCloseCommand(ds *discordgo.Session, i *discordgo.InteractionCreate) {
	deferEphemeral(ds, i)

	ctx, cancel := requestContext()
	defer cancel()

	pollId := strings.TrimSpace(i.ApplicationCommandData().Options[0].StringValue())
	_, err := m.service.Handle(ctx, CloseRequest{PollId: pollId, RequesterId: interactionUser(i).ID})
	if err != nil {
		editResponse(ds, i, userMessage(err))
		return
	}

	editResponse(ds, i, "Poll closed")
}

func (m *Module) runResultsCommand(ds *discordgo.Session, i *discordgo.InteractionCreate) {
	deferEphemeral(ds, i)

	ctx, cancel := requestContext()
	defer cancel()

	pollId := strings.TrimSpace(i.ApplicationCommandData().Options[0].StringValue())
	reply, err := m.service.Handle(ctx, ResultsRequest{PollId: pollId, RequesterId: interactionUser(i).ID})
	if err != nil {
		editResponse(ds, i, userMessage(err))
		return
	}

	embeds := renderResults(reply.Results)
	_, _ = ds.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Embeds: &embeds})
}

// discard removes a poll whose announcement could not be posted.
func (m *Module) discard(pollId string) {
	ctx, cancel := requestContext()
	defer cancel()

	if _, err := m.service.Delete(ctx, pollId); err != nil {
		logger.Err().Printf("Error removing unposted poll %s: %s\n", pollId, err.Error())
	}
}

// parseTimeout reads "3d" as days and anything else as a Go duration.
func parseTimeout(timeout string) (time.Duration, error) {
	timeout = strings.TrimSpace(timeout)

	var duration time.Duration
	if strings.HasSuffix(timeout, "d") {
		numDays, err := strconv.Atoi(strings.TrimSuffix(timeout, "d"))
		if err != nil {
			return 0, err
		}
		duration = time.Duration(numDays) * 24 * time.Hour
	} else {
		var err error
		duration, err = time.ParseDuration(timeout)
		if err != nil {
			return 0, err
		}
	}

	if duration <= 0 {
		return 0, errors.New("timeout must be positive")
	}
	return duration, nil
}
