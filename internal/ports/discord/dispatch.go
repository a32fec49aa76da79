package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"promptresponse/internal/app"
	"promptresponse/internal/domain"
	"promptresponse/internal/render"
)

// Dispatch renders events to the game channel, the human's DMs or the AI
// channel. Every event is attempted; failures are joined.
func (b *Bot) Dispatch(ctx context.Context, events []app.Event) error {
	var errs []error
	for _, ev := range events {
		if err := b.dispatchOne(ev); err != nil {
			errs = append(errs, fmt.Errorf("%s to %s: %w", ev.Kind, ev.Audience, err))
		}
	}
	return errors.Join(errs...)
}

func (b *Bot) dispatchOne(ev app.Event) error {
	switch p := ev.Payload.(type) {
	case app.PromptRevealedPayload:
		_, err := b.api.ChannelMessageSendComplex(b.opts.GameChannelID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{promptEmbed(p)},
		})
		return err
	case app.HandIssuedPayload:
		if p.Role == domain.RoleAI {
			return b.sendAI(render.AIHand(p))
		}
		return b.sendHumanHand(p)
	case app.HumanLockedInPayload:
		return b.sendTable(render.LockedIn())
	case app.RoundRevealedPayload:
		return b.sendTable(render.Reveal(p))
	case app.GameOverPayload:
		return b.sendTable(render.GameOver(p.Reason))
	case app.NoticePayload:
		return b.sendTable(render.Notice(p, render.SlashCommands))
	case app.InvalidActionPayload:
		text := render.ErrorText(p.Err, render.SlashCommands)
		switch ev.Audience {
		case app.AudienceAI:
			return b.sendAI(text)
		case app.AudienceHuman:
			return b.sendDM(&discordgo.MessageSend{Content: text})
		}
		return b.sendTable(text)
	}
	return fmt.Errorf("unhandled event %s", ev.Kind)
}

func (b *Bot) sendTable(content string) error {
	_, err := b.api.ChannelMessageSend(b.opts.GameChannelID, content)
	return err
}

func (b *Bot) sendAI(content string) error {
	if b.opts.AIChannelID == "" {
		return errors.New("no AI channel configured")
	}
	_, err := b.api.ChannelMessageSend(b.opts.AIChannelID, content)
	return err
}

func (b *Bot) sendHumanHand(p app.HandIssuedPayload) error {
	if len(p.Cards) == 0 {
		return nil
	}
	return b.sendDM(&discordgo.MessageSend{
		Content:    render.HumanHand(p),
		Components: handMenu(p.Cards),
	})
}

func (b *Bot) sendDM(msg *discordgo.MessageSend) error {
	dm, err := b.api.UserChannelCreate(b.seats.UserOf(domain.RoleHuman))
	if err != nil {
		return fmt.Errorf("open DM: %w", err)
	}
	_, err = b.api.ChannelMessageSendComplex(dm.ID, msg)
	return err
}

func handMenu(cards []domain.WhiteCard) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, len(cards))
	for i, c := range cards {
		options[i] = discordgo.SelectMenuOption{Label: render.Label(c), Value: strconv.Itoa(i)}
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    pickCardID,
					Placeholder: "Pick your response...",
					Options:     options,
				},
			},
		},
	}
}

func promptEmbed(p app.PromptRevealedPayload) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Color:  0x000000,
		Title:  fmt.Sprintf("Round %d", p.Round),
		Fields: []*discordgo.MessageEmbedField{{Name: "⬛ PROMPT", Value: render.FormatBlack(p.Black.Text)}},
		Footer: &discordgo.MessageEmbedFooter{Text: render.PromptFooter(p)},
	}
	if p.NewGame {
		embed.Title = "🎴 Prompt & Response"
		embed.Description = fmt.Sprintf("**Round %d**", p.Round)
	}
	return embed
}
