package bot

import (
	"promptresponse/internal/domain"
)

// Move is the AI's decision: a 0-based index into its hand.
type Move struct {
	Index int
}

// Brain is the interface all stand-in AI strategies implement.
type Brain interface {
	ChooseCard(prompt domain.BlackCard, hand []domain.WhiteCard) (Move, error)
}

// BotLevel selects a Brain.
type BotLevel int

const (
	BotLevelRandom BotLevel = iota
	BotLevelWordy
	BotLevelKeyword
)

// ParseLevel maps a level name to a BotLevel.
func ParseLevel(name string) (BotLevel, bool) {
	switch name {
	case "random", "":
		return BotLevelRandom, true
	case "wordy":
		return BotLevelWordy, true
	case "keyword":
		return BotLevelKeyword, true
	}
	return 0, false
}
