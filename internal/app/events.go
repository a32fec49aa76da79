package app

import (
	"context"

	"promptresponse/internal/domain"
)

// EventKind identifies an outbound event for the transport to render.
type EventKind string

const (
	EventPromptRevealed EventKind = "prompt_revealed"
	EventHandIssued     EventKind = "hand_issued"
	EventHumanLockedIn  EventKind = "human_locked_in"
	EventRoundRevealed  EventKind = "round_revealed"
	EventGameOver       EventKind = "game_over"
	EventInvalidAction  EventKind = "invalid_action"
	EventNotice         EventKind = "notice"
)

// Audience is where an event should be delivered.
type Audience string

const (
	// AudienceTable is the shared game channel.
	AudienceTable Audience = "table"
	// AudienceHuman is the human's private channel (DM).
	AudienceHuman Audience = "human"
	// AudienceAI is the AI's private channel.
	AudienceAI Audience = "ai"
)

// Event is an outbound notification with its audience.
type Event struct {
	Kind     EventKind
	Audience Audience
	Payload  any
}

// Dispatcher delivers events produced outside a request, i.e. by the auto-deal timer.
type Dispatcher interface {
	Dispatch(ctx context.Context, events []Event) error
}

type PromptRevealedPayload struct {
	Round         int
	Black         domain.BlackCard
	PromptsLeft   int
	ResponsesLeft int
	// NewGame is set on the first prompt of a session.
	NewGame bool
}

type HandIssuedPayload struct {
	Role   domain.Role
	Prompt *domain.BlackCard
	Cards  []domain.WhiteCard
}

type HumanLockedInPayload struct {
	Round int
	Card  domain.WhiteCard
}

type RoundRevealedPayload struct {
	Round     int
	Black     domain.BlackCard
	HumanCard domain.WhiteCard
	AICard    domain.WhiteCard
}

type GameOverPayload struct {
	Rounds int
	// Reason is domain.ErrNoPrompts or domain.ErrNoResponses.
	Reason error
}

type InvalidActionPayload struct {
	Err error
}

// NoticeCode identifies a recoverable condition reported to the table.
type NoticeCode string

const (
	// NoticeAutoDealFailed means the automatic next round could not be delivered.
	NoticeAutoDealFailed NoticeCode = "auto_deal_failed"
	// NoticeStopped means auto-deal was switched off for the running game.
	NoticeStopped NoticeCode = "auto_deal_stopped"
)

type NoticePayload struct {
	Code  NoticeCode
	Round int
	Err   error
}

// InvalidAction wraps a rejected intent as an event addressed to audience.
func InvalidAction(audience Audience, err error) Event {
	return Event{Kind: EventInvalidAction, Audience: audience, Payload: InvalidActionPayload{Err: err}}
}
