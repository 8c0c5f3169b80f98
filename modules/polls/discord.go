package polls

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

const interactionTimeout = 10 * time.Second

// discordNotifier keeps a poll's announcement message in line with the stored poll.
type discordNotifier struct {
	ds *discordgo.Session
}

func newDiscordNotifier(ds *discordgo.Session) *discordNotifier {
	return &discordNotifier{ds: ds}
}

func (n *discordNotifier) PollChanged(ctx context.Context, poll *Poll) error {
	if poll.ChannelId == "" || poll.MessageId == "" {
		return fmt.Errorf("poll %s has no message to update", poll.Id)
	}

	embeds := renderEmbeds(poll)
	components := renderComponents(poll)

	edit := discordgo.NewMessageEdit(poll.ChannelId, poll.MessageId)
	edit.Embeds = &embeds
	edit.Components = &components

	_, err := n.ds.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	return err
}

func (n *discordNotifier) PollClosed(ctx context.Context, poll *Poll) error {
	editErr := n.PollChanged(ctx, poll)
	if poll.ChannelId == "" {
		return editErr
	}

	msg := &discordgo.MessageSend{
		Content: fmt.Sprintf("Poll **%s** has closed", poll.Question),
	}
	if poll.MessageId != "" {
		msg.Reference = &discordgo.MessageReference{ChannelID: poll.ChannelId, MessageID: poll.MessageId}
	}
	_, sendErr := n.ds.ChannelMessageSendComplex(poll.ChannelId, msg, discordgo.WithContext(ctx))

	return errors.Join(editErr, sendErr)
}

// interactionUser is the member in guilds and the user in DMs.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	if i.User != nil {
		return i.User
	}
	return &discordgo.User{}
}

func displayName(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}
	user := interactionUser(i)
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

func deferEphemeral(ds *discordgo.Session, i *discordgo.InteractionCreate) {
	_ = ds.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func editResponse(ds *discordgo.Session, i *discordgo.InteractionCreate, msg string) {
	_, _ = ds.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &msg})
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), interactionTimeout)
}
