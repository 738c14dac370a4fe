package notifier

import (
	"fmt"
	"strings"

	"github.com/aarambh-bootcamp/registration-api/internal/forms"
	"github.com/aarambh-bootcamp/registration-api/internal/models"
	"github.com/bwmarrin/discordgo"
)

// DiscordNotifier posts new registrations to the organizers' channel.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) NotifyRegistration(reg models.Registration, schema forms.Schema) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	message := fmt.Sprintf("🎉 **New Registration** (#%d)\n%s",
		reg.ID, strings.Join(answerLines(reg, schema), "\n"))

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}
