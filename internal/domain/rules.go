package domain

import (
	"errors"
	"fmt"
)

// Phase is the session's position in the per-round state machine.
type Phase string

const (
	// PhaseIdle is a freshly dealt session that has not shown a prompt yet.
	PhaseIdle Phase = "idle"
	// PhasePrompt means a prompt is showing and the human has to respond.
	PhasePrompt Phase = "prompt"
	// PhaseAITurn means the human locked in and the AI has to respond.
	PhaseAITurn Phase = "ai_turn"
	// PhaseReveal means both plays are visible and recorded.
	PhaseReveal Phase = "reveal"
)

// Action is a session transition request.
type Action string

const (
	ActionDeal      Action = "deal"
	ActionHumanPlay Action = "human_play"
	ActionAIPlay    Action = "ai_play"
)

var (
	ErrWrongPhase      = errors.New("action not allowed in current phase")
	ErrRoundInProgress = errors.New("round still in progress")
	ErrHandIndex       = errors.New("hand index out of range")
	ErrNoPrompts       = errors.New("no prompts left")
	ErrNoResponses     = errors.New("no responses left to play")
	ErrUnknownPhase    = errors.New("unknown phase")
)

// Next returns the phase reached by applying a to p, or an error wrapping
// ErrWrongPhase / ErrRoundInProgress when the transition is not allowed.
func (p Phase) Next(a Action) (Phase, error) {
	switch p {
	case PhaseIdle, PhaseReveal:
		if a == ActionDeal {
			return PhasePrompt, nil
		}
	case PhasePrompt:
		switch a {
		case ActionHumanPlay:
			return PhaseAITurn, nil
		case ActionDeal:
			return p, ErrRoundInProgress
		}
	case PhaseAITurn:
		switch a {
		case ActionAIPlay:
			return PhaseReveal, nil
		case ActionDeal:
			return p, ErrRoundInProgress
		}
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownPhase, string(p))
	}
	return p, fmt.Errorf("%w: %s during %s", ErrWrongPhase, a, p)
}

// IsExhausted reports whether err means the deck can no longer start a round.
func IsExhausted(err error) bool {
	return errors.Is(err, ErrNoPrompts) || errors.Is(err, ErrNoResponses)
}

// InRound reports whether a prompt is showing and not yet revealed.
func (p Phase) InRound() bool {
	return p == PhasePrompt || p == PhaseAITurn
}
