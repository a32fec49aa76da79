// Package console plays the dealer locally in a terminal: the human picks
// from a menu, a stand-in bot plays the AI seat.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/pterm/pterm"

	"promptresponse/internal/app"
	"promptresponse/internal/bot"
	"promptresponse/internal/domain"
	"promptresponse/internal/render"
)

// ErrQuit is returned by a Chooser when the player asks to leave.
var ErrQuit = errors.New("player quit")

// Chooser asks the human to pick one of options, returning the chosen text.
type Chooser interface {
	Choose(title string, options []string) (string, error)
}

// Options configure a console game.
type Options struct {
	Pack string
	// MaxRounds ends the game after that many reveals; 0 plays until the
	// prompts run out.
	MaxRounds int
}

// Player drives one game between the terminal user and a bot.
type Player struct {
	dealer  *app.Dealer
	agent   *bot.Agent
	chooser Chooser
	out     io.Writer
	logger  runtime.Logger
	opts    Options

	events chan []app.Event
	rounds int
}

// NewPlayer builds a Player and installs it as the dealer's dispatcher.
func NewPlayer(dealer *app.Dealer, agent *bot.Agent, chooser Chooser, out io.Writer, logger runtime.Logger, opts Options) *Player {
	p := &Player{
		dealer:  dealer,
		agent:   agent,
		chooser: chooser,
		out:     out,
		logger:  logger,
		opts:    opts,
		events:  make(chan []app.Event, 4),
	}
	dealer.SetDispatcher(p)
	return p
}

// commands are the words the console accepts. The hand is shown on every
// turn, so it has no command of its own.
var commands = render.Commands{Deal: "dealer play", Next: "next", Hand: "next"}

// Dispatch queues timer-driven events for the game loop.
func (p *Player) Dispatch(ctx context.Context, events []app.Event) error {
	select {
	case p.events <- events:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run plays until the prompts run out, MaxRounds is reached, the player
// quits or ctx is cancelled.
func (p *Player) Run(ctx context.Context) error {
	events, err := p.dealer.StartGame(ctx, p.opts.Pack)
	if err != nil && !domain.IsExhausted(err) {
		return err
	}

	queue := events
	for {
		for len(queue) > 0 {
			ev := queue[0]
			queue = queue[1:]
			more, done, err := p.handle(ctx, ev)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			queue = append(queue, more...)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case queue = <-p.events:
		}
	}
}

func (p *Player) handle(ctx context.Context, ev app.Event) ([]app.Event, bool, error) {
	switch pl := ev.Payload.(type) {
	case app.PromptRevealedPayload:
		p.print(promptBox(pl))
	case app.HandIssuedPayload:
		if pl.Role == domain.RoleAI {
			return p.playAI(ctx, pl)
		}
		return p.playHuman(ctx, pl)
	case app.HumanLockedInPayload:
		p.print(pterm.Info.Sprintf("You played: %s", pl.Card))
	case app.RoundRevealedPayload:
		p.print(revealBox(pl))
		p.rounds++
		if p.opts.MaxRounds > 0 && p.rounds >= p.opts.MaxRounds {
			p.print(pterm.Success.Sprintf("Played %d rounds.", p.rounds))
			p.dealer.Close()
			return nil, true, nil
		}
		return p.afterReveal(ctx)
	case app.GameOverPayload:
		p.print(pterm.Success.Sprint(render.GameOver(pl.Reason)))
		return nil, true, nil
	case app.NoticePayload:
		p.print(pterm.Warning.Sprintf("%s (%v)", p.noticeText(pl), pl.Err))
	case app.InvalidActionPayload:
		p.print(pterm.Error.Sprint(render.ErrorText(pl.Err, commands)))
	}
	return nil, false, nil
}

func (p *Player) playHuman(ctx context.Context, hand app.HandIssuedPayload) ([]app.Event, bool, error) {
	if len(hand.Cards) == 0 {
		p.print(pterm.Success.Sprint(render.GameOver(domain.ErrNoResponses)))
		return nil, true, nil
	}
	options := make([]string, len(hand.Cards))
	for i, c := range hand.Cards {
		options[i] = fmt.Sprintf("%d. %s", i+1, render.Label(c))
	}
	for {
		choice, err := p.chooser.Choose("Pick your response ("+render.PromptText(hand.Prompt)+")", options)
		if errors.Is(err, ErrQuit) {
			p.dealer.Close()
			return nil, true, nil
		}
		if err != nil {
			return nil, false, err
		}
		if strings.EqualFold(strings.TrimSpace(choice), "stop") {
			if err := p.dealer.StopAutoDeal(); err != nil {
				p.logger.Warn("Stop failed: %v", err)
			}
			p.print(pterm.Info.Sprint("Auto-deal stopped."))
			continue
		}
		index, err := bot.ParsePick(choice, len(hand.Cards))
		if err != nil {
			p.print(pterm.Error.Sprintf("Send a number 1-%d", len(hand.Cards)))
			continue
		}
		events, err := p.dealer.HumanSelect(ctx, index)
		if err != nil {
			p.print(pterm.Error.Sprint(render.ErrorText(err, commands)))
			continue
		}
		return events, false, nil
	}
}

func (p *Player) playAI(ctx context.Context, hand app.HandIssuedPayload) ([]app.Event, bool, error) {
	move, err := p.agent.Play(hand)
	if err != nil {
		return nil, false, fmt.Errorf("%s could not pick: %w", p.agent.Name, err)
	}
	events, err := p.dealer.AISelect(ctx, move.Index)
	if err != nil {
		return nil, false, fmt.Errorf("%s pick %d: %w", p.agent.Name, move.Index+1, err)
	}
	return events, false, nil
}

// afterReveal asks for the next round when auto-deal is off; otherwise the
// timer delivers it.
func (p *Player) afterReveal(ctx context.Context) ([]app.Event, bool, error) {
	st, err := p.dealer.Status()
	if err != nil || st.AutoDeal {
		return nil, false, nil
	}
	choice, err := p.chooser.Choose("Auto-deal is off", []string{"next", "quit"})
	if errors.Is(err, ErrQuit) || strings.EqualFold(strings.TrimSpace(choice), "quit") {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	events, err := p.dealer.NextPrompt(ctx)
	if err != nil && !domain.IsExhausted(err) {
		return nil, false, err
	}
	return events, false, nil
}

func (p *Player) noticeText(n app.NoticePayload) string {
	if n.Code == app.NoticeAutoDealFailed {
		return fmt.Sprintf("Could not deal round %d", n.Round)
	}
	return string(n.Code)
}

func (p *Player) print(s string) {
	fmt.Fprintln(p.out, s)
}

func promptBox(pl app.PromptRevealedPayload) string {
	body := pterm.Sprintfln("%s\n\n%s", pterm.LightCyan(render.FormatBlack(pl.Black.Text)), render.PromptFooter(pl))
	return pterm.DefaultBox.
		WithTitle(fmt.Sprintf("|ROUND %d|", pl.Round)).
		WithTitleTopCenter().
		WithHorizontalPadding(2).
		Sprint(body)
}

func revealBox(pl app.RoundRevealedPayload) string {
	body := pterm.Sprintfln("%s\n\nHuman: %s\nAI:    %s",
		render.FormatBlack(pl.Black.Text), pterm.LightGreen(string(pl.HumanCard)), pterm.LightMagenta(string(pl.AICard)))
	return pterm.DefaultBox.
		WithTitle(pterm.LightYellow(fmt.Sprintf("|ROUND %d REVEAL|", pl.Round))).
		WithTitleTopCenter().
		WithHorizontalPadding(2).
		Sprint(body)
}
