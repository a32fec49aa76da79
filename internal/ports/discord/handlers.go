package discord

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"promptresponse/internal/app"
	"promptresponse/internal/bot"
	"promptresponse/internal/domain"
	"promptresponse/internal/render"
)

// OnInteraction handles slash commands and the hand selection menu.
func (b *Bot) OnInteraction(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
	ctx := context.Background()
	switch ic.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(ctx, ic.Interaction)
	case discordgo.InteractionMessageComponent:
		if ic.MessageComponentData().CustomID == pickCardID {
			b.handlePick(ctx, ic.Interaction)
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, i *discordgo.Interaction) {
	data := i.ApplicationCommandData()
	switch data.Name {
	case cmdDeal:
		pack := b.opts.DefaultPack
		for _, opt := range data.Options {
			if opt.Name == optPack && strings.TrimSpace(opt.StringValue()) != "" {
				pack = opt.StringValue()
			}
		}
		events, err := b.dealer.StartGame(ctx, pack)
		switch {
		case errors.Is(err, domain.ErrNoPrompts):
			b.reply(i, "❌ No black cards available.", false)
			return
		case errors.Is(err, domain.ErrNoResponses):
			b.reply(i, "❌ Not enough white cards to deal hands.", false)
			return
		}
		b.replyPrompt(ctx, i, events, err)

	case cmdNext:
		events, err := b.dealer.NextPrompt(ctx)
		b.replyPrompt(ctx, i, events, err)

	case cmdStop:
		if err := b.dealer.StopAutoDeal(); err != nil {
			b.reply(i, "No game running.", false)
			return
		}
		b.reply(i, render.Stopped(render.SlashCommands), false)

	case cmdScore:
		history, err := b.dealer.History()
		if err != nil || len(history) == 0 {
			b.reply(i, render.History(nil), false)
			return
		}
		b.respond(i, &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Color:       0x1a1a2e,
				Title:       "📜 Game History",
				Description: render.History(history),
			}},
		})

	case cmdPacks:
		b.reply(i, render.Packs(b.dealer.Packs(), render.SlashCommands), false)

	case cmdHand:
		hand, err := b.dealer.Hand(domain.RoleHuman)
		if err != nil {
			b.reply(i, "No game running.", true)
			return
		}
		user := interactionUser(i)
		if role, ok := b.seats.RoleOf(userID(user)); !ok || role != domain.RoleHuman {
			b.reply(i, "Check the AI hand channel.", true)
			return
		}
		if len(hand.Cards) == 0 {
			b.reply(i, "Your hand is empty.", true)
			return
		}
		b.respond(i, &discordgo.InteractionResponseData{
			Content:    render.HumanHand(hand),
			Components: handMenu(hand.Cards),
			Flags:      discordgo.MessageFlagsEphemeral,
		})
	}
}

// replyPrompt answers deal/next with the prompt embed and delivers the rest.
func (b *Bot) replyPrompt(ctx context.Context, i *discordgo.Interaction, events []app.Event, err error) {
	if err != nil {
		b.reply(i, render.ErrorText(err, render.SlashCommands), false)
		return
	}
	var rest []app.Event
	for _, ev := range events {
		if p, ok := ev.Payload.(app.PromptRevealedPayload); ok {
			b.respond(i, &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{promptEmbed(p)}})
			continue
		}
		rest = append(rest, ev)
	}
	if err := b.Dispatch(ctx, rest); err != nil {
		b.logger.Error("Failed to send hand: %v", err)
	}
}

func (b *Bot) handlePick(ctx context.Context, i *discordgo.Interaction) {
	if role, ok := b.seats.RoleOf(userID(interactionUser(i))); !ok || role != domain.RoleHuman {
		b.reply(i, "Not your cards!", true)
		return
	}
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		b.reply(i, render.ErrorText(domain.ErrHandIndex, render.SlashCommands), true)
		return
	}
	index, err := strconv.Atoi(values[0])
	if err != nil {
		b.reply(i, render.ErrorText(domain.ErrHandIndex, render.SlashCommands), true)
		return
	}

	events, err := b.dealer.HumanSelect(ctx, index)
	if err != nil {
		b.reply(i, render.ErrorText(err, render.SlashCommands), true)
		return
	}

	var rest []app.Event
	for _, ev := range events {
		if p, ok := ev.Payload.(app.HumanLockedInPayload); ok {
			if err := b.api.InteractionRespond(i, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseUpdateMessage,
				Data: &discordgo.InteractionResponseData{
					Content:    render.Played(p),
					Components: []discordgo.MessageComponent{},
				},
			}); err != nil {
				b.logger.Warn("Could not update hand menu: %v", err)
			}
		}
		rest = append(rest, ev)
	}
	if err := b.Dispatch(ctx, rest); err != nil {
		b.logger.Error("Failed to hand the turn to the AI: %v", err)
	}
}

// OnMessage reads the AI's picks from its private channel.
func (b *Bot) OnMessage(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.ChannelID != b.opts.AIChannelID {
		return
	}
	if role, ok := b.seats.RoleOf(m.Author.ID); !ok || role != domain.RoleAI {
		return
	}
	st, err := b.dealer.Status()
	if err != nil || st.Phase != domain.PhaseAITurn {
		return
	}
	hand, err := b.dealer.Hand(domain.RoleAI)
	if err != nil {
		return
	}

	ctx := context.Background()
	index, err := bot.ParsePick(m.Content, len(hand.Cards))
	if err != nil {
		b.replyTo(m, "❌ Send a number 1-"+strconv.Itoa(len(hand.Cards)))
		return
	}
	events, err := b.dealer.AISelect(ctx, index)
	if err != nil {
		b.logger.Warn("AI pick %d rejected: %v", index+1, err)
		if err := b.Dispatch(ctx, events); err != nil {
			b.logger.Error("Failed to report rejected pick: %v", err)
		}
		return
	}
	b.replyTo(m, "✅ Locked in.")
	if err := b.Dispatch(ctx, events); err != nil {
		b.logger.Error("Failed to post reveal: %v", err)
	}
}

func (b *Bot) reply(i *discordgo.Interaction, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	b.respond(i, data)
}

func (b *Bot) respond(i *discordgo.Interaction, data *discordgo.InteractionResponseData) {
	err := b.api.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		b.logger.Warn("Interaction response failed: %v", err)
	}
}

func (b *Bot) replyTo(m *discordgo.MessageCreate, content string) {
	if _, err := b.api.ChannelMessageSendReply(m.ChannelID, content, m.Reference()); err != nil {
		b.logger.Warn("Reply in AI channel failed: %v", err)
	}
}

func userID(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
