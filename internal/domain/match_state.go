package domain

import "fmt"

// Session is the authoritative state of one game between the human and the AI.
// All mutation goes through its methods; each either fully applies or leaves
// the session untouched.
type Session struct {
	ID           string
	Deck         Deck
	HumanHand    []WhiteCard
	AIHand       []WhiteCard
	CurrentBlack *BlackCard
	HumanPlay    *WhiteCard
	AIPlay       *WhiteCard
	Round        int
	Phase        Phase
	History      []HistoryEntry
	AutoDeal     bool
}

// NewSession deals a hand to each player from the front of the white pile.
// A short deck deals short hands.
func NewSession(id string, deck Deck) *Session {
	s := &Session{
		ID:       id,
		Deck:     deck,
		Phase:    PhaseIdle,
		History:  []HistoryEntry{},
		AutoDeal: true,
	}
	s.HumanHand = s.Deck.dealHand(HandSize)
	s.AIHand = s.Deck.dealHand(HandSize)
	return s
}

// DealBlack starts the next round with a new prompt. A round cannot start
// once either hand is empty.
func (s *Session) DealBlack() (BlackCard, error) {
	next, err := s.Phase.Next(ActionDeal)
	if err != nil {
		return BlackCard{}, err
	}
	if len(s.Deck.Blacks) == 0 {
		return BlackCard{}, ErrNoPrompts
	}
	if len(s.HumanHand) == 0 || len(s.AIHand) == 0 {
		return BlackCard{}, ErrNoResponses
	}
	black, _ := s.Deck.DrawBlack()
	s.CurrentBlack = &black
	s.HumanPlay = nil
	s.AIPlay = nil
	s.Round++
	s.Phase = next
	return black, nil
}

// PlayHuman plays the human's card at index and refills the hand when possible.
func (s *Session) PlayHuman(index int) (WhiteCard, error) {
	next, err := s.Phase.Next(ActionHumanPlay)
	if err != nil {
		return "", err
	}
	if !validIndex(s.HumanHand, index) {
		return "", fmt.Errorf("%w: %d not in [0,%d)", ErrHandIndex, index, len(s.HumanHand))
	}

	hand, card := removeAt(s.HumanHand, index)
	if drawn, ok := s.Deck.DrawWhite(); ok {
		hand = append(hand, drawn)
	}
	s.HumanHand = hand
	s.HumanPlay = &card
	s.Phase = next
	return card, nil
}

// PlayAI plays the AI's card at index, completes the round and records it.
func (s *Session) PlayAI(index int) (Reveal, error) {
	next, err := s.Phase.Next(ActionAIPlay)
	if err != nil {
		return Reveal{}, err
	}
	if !validIndex(s.AIHand, index) {
		return Reveal{}, fmt.Errorf("%w: %d not in [0,%d)", ErrHandIndex, index, len(s.AIHand))
	}
	if s.CurrentBlack == nil || s.HumanPlay == nil {
		return Reveal{}, fmt.Errorf("%w: round has no prompt or human play", ErrWrongPhase)
	}

	hand, card := removeAt(s.AIHand, index)
	if drawn, ok := s.Deck.DrawWhite(); ok {
		hand = append(hand, drawn)
	}
	s.AIHand = hand
	s.AIPlay = &card
	s.Phase = next
	s.History = append(s.History, HistoryEntry{
		Round:     s.Round,
		Black:     s.CurrentBlack.Text,
		HumanCard: *s.HumanPlay,
		AICard:    card,
	})

	return Reveal{
		Round:     s.Round,
		Black:     *s.CurrentBlack,
		HumanCard: *s.HumanPlay,
		AICard:    card,
	}, nil
}

// StopAutoDeal turns off automatic dealing after reveals.
func (s *Session) StopAutoDeal() {
	s.AutoDeal = false
}

// Hand returns a copy of the hand held by role.
func (s *Session) Hand(role Role) []WhiteCard {
	switch role {
	case RoleHuman:
		return append([]WhiteCard{}, s.HumanHand...)
	case RoleAI:
		return append([]WhiteCard{}, s.AIHand...)
	}
	return nil
}

// PromptsLeft returns the number of undealt black cards.
func (s *Session) PromptsLeft() int { return len(s.Deck.Blacks) }

// ResponsesLeft returns the number of undealt white cards.
func (s *Session) ResponsesLeft() int { return len(s.Deck.Whites) }

// Snapshot returns a deep copy of the session.
func (s *Session) Snapshot() *Session {
	c := *s
	c.Deck = Deck{
		Whites: append([]WhiteCard{}, s.Deck.Whites...),
		Blacks: append([]BlackCard{}, s.Deck.Blacks...),
	}
	c.HumanHand = append([]WhiteCard{}, s.HumanHand...)
	c.AIHand = append([]WhiteCard{}, s.AIHand...)
	c.History = append([]HistoryEntry{}, s.History...)
	if s.CurrentBlack != nil {
		b := *s.CurrentBlack
		c.CurrentBlack = &b
	}
	if s.HumanPlay != nil {
		h := *s.HumanPlay
		c.HumanPlay = &h
	}
	if s.AIPlay != nil {
		a := *s.AIPlay
		c.AIPlay = &a
	}
	return &c
}
