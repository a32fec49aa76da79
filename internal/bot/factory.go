package bot

import (
	"fmt"
	"math/rand"
	"time"
)

// NewBrain creates a stand-in AI brain for the given level.
// rng may be nil to use a time-seeded default.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	switch level {
	case BotLevelRandom:
		return &RandomBot{rng: rng}, nil
	case BotLevelWordy:
		return &WordyBot{}, nil
	case BotLevelKeyword:
		return &KeywordBot{fallback: &RandomBot{rng: rng}}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
