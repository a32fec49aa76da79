package bot

import (
	"errors"
	"math/rand"
	"strings"
	"unicode"

	"promptresponse/internal/domain"
)

var ErrEmptyHand = errors.New("no cards to play")

// RandomBot plays a uniformly random card.
type RandomBot struct {
	rng *rand.Rand
}

func (b *RandomBot) ChooseCard(prompt domain.BlackCard, hand []domain.WhiteCard) (Move, error) {
	if len(hand) == 0 {
		return Move{}, ErrEmptyHand
	}
	return Move{Index: b.rng.Intn(len(hand))}, nil
}

// WordyBot plays the longest card; ties go to the earliest.
type WordyBot struct{}

func (b *WordyBot) ChooseCard(prompt domain.BlackCard, hand []domain.WhiteCard) (Move, error) {
	if len(hand) == 0 {
		return Move{}, ErrEmptyHand
	}
	best := 0
	for i, c := range hand {
		if len(c) > len(hand[best]) {
			best = i
		}
	}
	return Move{Index: best}, nil
}

// KeywordBot plays the card sharing the most words with the prompt and
// falls back to another brain when nothing overlaps.
type KeywordBot struct {
	fallback Brain
}

func (b *KeywordBot) ChooseCard(prompt domain.BlackCard, hand []domain.WhiteCard) (Move, error) {
	if len(hand) == 0 {
		return Move{}, ErrEmptyHand
	}
	promptWords := wordSet(prompt.Text)

	best, bestScore := -1, 0
	for i, c := range hand {
		score := 0
		for w := range wordSet(string(c)) {
			if _, ok := promptWords[w]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		return Move{Index: best}, nil
	}
	return b.fallback.ChooseCard(prompt, hand)
}

// wordSet returns lowercased words of 4+ letters; shorter words are mostly glue.
func wordSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if len(w) >= 4 {
			out[w] = struct{}{}
		}
	}
	return out
}
