package nakama

import (
	"context"
	"errors"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"promptresponse/internal/app"
	"promptresponse/internal/domain"
	"promptresponse/internal/render"
)

// Dispatch posts table and AI events to their room channels and sends the
// human's hand as a notification.
func (m *Module) Dispatch(ctx context.Context, events []app.Event) error {
	var errs []error
	for _, ev := range events {
		if err := m.dispatchOne(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("%s to %s: %w", ev.Kind, ev.Audience, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Module) dispatchOne(ctx context.Context, ev app.Event) error {
	content := eventContent(ev)
	switch ev.Audience {
	case app.AudienceHuman:
		code := NotifyNotice
		if ev.Kind == app.EventHandIssued {
			code = NotifyHand
		}
		return m.out.NotificationSend(ctx, m.settings.HumanUserID, string(ev.Kind), content, code, "", false)
	case app.AudienceAI:
		return m.sendRoom(ctx, m.settings.AIRoom, content)
	default:
		return m.sendRoom(ctx, m.settings.TableRoom, content)
	}
}

func (m *Module) sendRoom(ctx context.Context, room string, content map[string]interface{}) error {
	channelID, err := m.out.ChannelIdBuild(ctx, "", room, runtime.Room)
	if err != nil {
		return fmt.Errorf("channel id for %s: %w", room, err)
	}
	_, err = m.out.ChannelMessageSend(ctx, channelID, content, "", senderName, true)
	return err
}

func eventContent(ev app.Event) map[string]interface{} {
	var content map[string]interface{}
	switch p := ev.Payload.(type) {
	case app.PromptRevealedPayload:
		content = promptContent(p)
	case app.HandIssuedPayload:
		content = handContent(p)
	case app.HumanLockedInPayload:
		content = map[string]interface{}{"round": p.Round, "text": render.LockedIn()}
	case app.RoundRevealedPayload:
		content = map[string]interface{}{
			"round":      p.Round,
			"prompt":     p.Black.Text,
			"human_card": string(p.HumanCard),
			"ai_card":    string(p.AICard),
			"text":       render.Reveal(p),
		}
	case app.GameOverPayload:
		content = map[string]interface{}{"rounds": p.Rounds, "text": render.GameOver(p.Reason)}
	case app.NoticePayload:
		content = map[string]interface{}{"code": string(p.Code), "round": p.Round, "text": render.Notice(p, rpcCommands)}
	case app.InvalidActionPayload:
		content = map[string]interface{}{"text": render.ErrorText(p.Err, rpcCommands)}
	default:
		content = map[string]interface{}{}
	}
	content["kind"] = string(ev.Kind)
	return content
}

func promptContent(p app.PromptRevealedPayload) map[string]interface{} {
	return map[string]interface{}{
		"round":          p.Round,
		"prompt":         p.Black.Text,
		"prompts_left":   p.PromptsLeft,
		"responses_left": p.ResponsesLeft,
		"new_game":       p.NewGame,
		"text":           render.Prompt(p),
	}
}

func handContent(p app.HandIssuedPayload) map[string]interface{} {
	cards := make([]interface{}, len(p.Cards))
	for i, c := range p.Cards {
		cards[i] = string(c)
	}
	text := render.HumanHand(p)
	if p.Role == domain.RoleAI {
		text = render.AIHand(p)
	}
	content := map[string]interface{}{
		"role":  string(p.Role),
		"cards": cards,
		"text":  text,
	}
	if p.Prompt != nil {
		content["prompt"] = p.Prompt.Text
	}
	return content
}
