// Package discord runs the dealer over Discord: slash commands and the hand
// selection menu for the human, plain messages in a private channel for the AI.
package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/heroiclabs/nakama-common/runtime"

	"promptresponse/internal/app"
	"promptresponse/internal/ports"
)

// API is the subset of *discordgo.Session the bot uses.
type API interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Options are the channel and guild settings for the bot.
type Options struct {
	GuildID       string
	GameChannelID string
	AIChannelID   string
	DefaultPack   string
}

// Bot routes Discord events to the dealer and renders dealer events back.
type Bot struct {
	api    API
	dealer *app.Dealer
	seats  ports.SeatPort
	opts   Options
	logger runtime.Logger
}

// New builds a Bot. It also implements app.Dispatcher for timer-driven events.
func New(api API, dealer *app.Dealer, seats ports.SeatPort, opts Options, logger runtime.Logger) *Bot {
	if opts.DefaultPack == "" {
		opts.DefaultPack = "official"
	}
	return &Bot{api: api, dealer: dealer, seats: seats, opts: opts, logger: logger}
}

// Intents are the gateway intents the bot needs.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent |
	discordgo.IntentsDirectMessages

// OnReady registers the slash commands once the gateway session is up.
func (b *Bot) OnReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("Prompt & Response dealer online as %s", r.User.String())
	if _, err := b.api.ApplicationCommandBulkOverwrite(r.User.ID, b.opts.GuildID, Commands()); err != nil {
		b.logger.Error("Failed to register commands: %v", err)
		return
	}
	b.logger.Info("Slash commands registered")
}

func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
