package polls

import (
	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/ballot/api/logger"
)

func (m *Module) onComponent(ds *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	id := &CustomId{}
	if err := id.FromString(i.MessageComponentData().CustomID); err != nil {
		//another module's button
		return
	}

	deferEphemeral(ds, i)

	ctx, cancel := requestContext()
	defer cancel()

	user := interactionUser(i)
	reply, err := m.service.Handle(ctx, id.Trigger(user.ID, displayName(i)))
	if err != nil {
		logger.Debug().Printf("Poll button %s by %s rejected: %s\n", id.ToString(), user.ID, err.Error())
		editResponse(ds, i, userMessage(err))
		return
	}

	switch id.Action {
	case actionVote:
		switch reply.Outcome {
		case Added:
			editResponse(ds, i, "Vote added")
		case Removed:
			editResponse(ds, i, "Vote removed")
		case Replaced:
			editResponse(ds, i, "Vote changed")
		}
	case actionClose:
		editResponse(ds, i, "Poll closed")
	case actionResults:
		_, err = ds.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
			Embeds: renderResults(reply.Results),
		})
		if err != nil {
			logger.Err().Printf("Error posting results for poll %s: %s\n", id.PollId, err.Error())
			editResponse(ds, i, "Could not post results")
			return
		}
		editResponse(ds, i, "Results posted")
	}
}
