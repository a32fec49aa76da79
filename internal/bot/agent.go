package bot

import (
	"promptresponse/internal/app"
	"promptresponse/internal/domain"
)

// domainBlank stands in when the hand arrives without a prompt.
var domainBlank = domain.BlackCard{Text: "_", Pick: domain.PickOne}

// Agent is a stand-in AI player for local games.
type Agent struct {
	Name     string
	Strategy Brain
}

// Play picks a card for the hand the dealer issued to the AI seat.
func (a *Agent) Play(hand app.HandIssuedPayload) (Move, error) {
	if hand.Prompt == nil {
		return a.Strategy.ChooseCard(domainBlank, hand.Cards)
	}
	return a.Strategy.ChooseCard(*hand.Prompt, hand.Cards)
}
