// Package render turns dealer events into chat text. The output uses
// Discord-flavoured markdown; other transports reuse the plain helpers.
package render

import (
	"errors"
	"fmt"
	"strings"

	"promptresponse/internal/app"
	"promptresponse/internal/domain"
)

const blank = "______"

// Commands names the actions a transport offers, for hints in messages.
type Commands struct {
	Deal string
	Next string
	Hand string
}

// SlashCommands are the Discord slash command names.
var SlashCommands = Commands{Deal: "/deal", Next: "/next", Hand: "/hand"}

// FormatBlack widens each blank in a prompt so it reads as a fill-in line.
func FormatBlack(text string) string {
	return strings.ReplaceAll(text, "_", blank)
}

// PromptText formats an optional prompt, falling back when none is showing.
func PromptText(prompt *domain.BlackCard) string {
	if prompt == nil {
		return "No prompt"
	}
	return FormatBlack(prompt.Text)
}

// Label fits a card into a selection menu label.
func Label(card domain.WhiteCard) string {
	r := []rune(string(card))
	if len(r) <= domain.MaxCardLength {
		return string(card)
	}
	return string(r[:domain.MaxCardLength-3]) + "..."
}

// HandList numbers cards from 1.
func HandList(cards []domain.WhiteCard) string {
	lines := make([]string, len(cards))
	for i, c := range cards {
		lines[i] = fmt.Sprintf("%d. %s", i+1, c)
	}
	return strings.Join(lines, "\n")
}

// HumanHand is the message shown with the human's selection menu.
func HumanHand(p app.HandIssuedPayload) string {
	return fmt.Sprintf("⬛ **%s**\n\n🃏 **Your hand:**\n%s", PromptText(p.Prompt), HandList(p.Cards))
}

// AIHand is the plain-text turn message for the AI agent.
func AIHand(p app.HandIssuedPayload) string {
	return fmt.Sprintf("PROMPT: %s\n\nYOUR HAND:\n%s\n\nPick by sending a number 1-%d",
		PromptText(p.Prompt), HandList(p.Cards), len(p.Cards))
}

// PromptFooter lists what is left in the deck.
func PromptFooter(p app.PromptRevealedPayload) string {
	if p.NewGame {
		return fmt.Sprintf("%d prompts · %d responses remaining", p.PromptsLeft, p.ResponsesLeft)
	}
	return fmt.Sprintf("%d prompts remaining", p.PromptsLeft)
}

// Prompt is the table announcement of a new round.
func Prompt(p app.PromptRevealedPayload) string {
	return fmt.Sprintf("**Round %d**\n⬛ %s\n\n_%s_", p.Round, FormatBlack(p.Black.Text), PromptFooter(p))
}

// LockedIn is the table notice after the human plays.
func LockedIn() string {
	return "🔒 **Human** locked in. AI's turn..."
}

// Played confirms the human's own pick.
func Played(p app.HumanLockedInPayload) string {
	return fmt.Sprintf("✅ You played: **%s**\n\n⏳ Waiting for your AI...", p.Card)
}

// Reveal announces both plays.
func Reveal(p app.RoundRevealedPayload) string {
	return fmt.Sprintf("🎉 **Round %d Reveal!**\n\n⬛ %s\n\n🧑 Human played: **%s**\n🤖 AI played: **%s**",
		p.Round, FormatBlack(p.Black.Text), p.HumanCard, p.AICard)
}

// GameOver is the terminal table message for the exhaustion reason.
func GameOver(reason error) string {
	if errors.Is(reason, domain.ErrNoResponses) {
		return "🃏 No more response cards! Game over."
	}
	return "🃏 No more prompts! Game over."
}

// History renders the scoreboard.
func History(entries []domain.HistoryEntry) string {
	if len(entries) == 0 {
		return "No rounds played yet!"
	}
	blocks := make([]string, len(entries))
	for i, h := range entries {
		blocks[i] = fmt.Sprintf("**Round %d:** %s\n🧑 Human: %s\n🤖 AI: %s", h.Round, FormatBlack(h.Black), h.HumanCard, h.AICard)
	}
	return strings.Join(blocks, "\n\n")
}

// Packs explains the pack filters accepted by the deal command.
func Packs(sum app.PackSummary, c Commands) string {
	command := c.Deal
	return strings.Join([]string{
		"🃏 **Card Pack Options**",
		"",
		fmt.Sprintf("`%s` or `%s official` — %d official packs", command, command, sum.Official),
		fmt.Sprintf("`%s all` — ALL %d packs (%d white, %d black cards)", command, sum.Total, sum.White, sum.Black),
		fmt.Sprintf("`%s [name]` — Search packs by name", command),
	}, "\n")
}

// Stopped confirms that auto-deal is off.
func Stopped(c Commands) string {
	return fmt.Sprintf("🛑 Auto-deal stopped. Use `%s` to continue manually or `%s` for a new game.", c.Next, c.Deal)
}

// Notice renders a recoverable condition for the table.
func Notice(p app.NoticePayload, c Commands) string {
	switch p.Code {
	case app.NoticeAutoDealFailed:
		return fmt.Sprintf("⚠️ Dealer hiccup — use `%s` to see your cards, or `%s` once the round is done!", c.Hand, c.Next)
	case app.NoticeStopped:
		return Stopped(c)
	}
	return "⚠️ " + string(p.Code)
}

// ErrorText is the user-facing reason an intent was rejected.
func ErrorText(err error, c Commands) string {
	switch {
	case errors.Is(err, app.ErrNoSession):
		return fmt.Sprintf("No game running. Use `%s` to start.", c.Deal)
	case domain.IsExhausted(err):
		return GameOver(err)
	case errors.Is(err, domain.ErrRoundInProgress):
		return "⏳ Round still in progress!"
	case errors.Is(err, domain.ErrWrongPhase):
		return "Not your turn."
	case errors.Is(err, domain.ErrHandIndex):
		return "❌ Invalid."
	}
	return "❌ Something went wrong."
}
