package domain

import (
	"math/rand"
	"sort"
	"unicode/utf8"
)

// Deck holds the undealt cards of a session. Both piles are drawn from the end.
type Deck struct {
	Whites []WhiteCard
	Blacks []BlackCard
}

// BuildStats describes what BuildDeck kept and dropped.
type BuildStats struct {
	Packs            int
	Whites           int
	Blacks           int
	SkippedLong      int
	SkippedMultiPick int
}

// BuildDeck unions the card indices referenced by packs, drops cards the dealer
// cannot use and shuffles both piles independently with rng.
func BuildDeck(source CardSource, packs []Pack, rng *rand.Rand) (Deck, BuildStats) {
	whiteIdx := make(map[int]struct{})
	blackIdx := make(map[int]struct{})
	for _, p := range packs {
		for _, i := range p.White {
			whiteIdx[i] = struct{}{}
		}
		for _, i := range p.Black {
			blackIdx[i] = struct{}{}
		}
	}

	stats := BuildStats{Packs: len(packs)}

	whites := make([]WhiteCard, 0, len(whiteIdx))
	for _, i := range sortedIndices(whiteIdx) {
		if i < 0 || i >= len(source.White) || source.White[i] == "" {
			continue
		}
		card := source.White[i]
		if !FitsLabel(card) {
			stats.SkippedLong++
			continue
		}
		whites = append(whites, card)
	}

	blacks := make([]BlackCard, 0, len(blackIdx))
	for _, i := range sortedIndices(blackIdx) {
		if i < 0 || i >= len(source.Black) || source.Black[i].Text == "" {
			continue
		}
		card := source.Black[i]
		if card.Pick != PickOne {
			stats.SkippedMultiPick++
			continue
		}
		blacks = append(blacks, card)
	}

	shuffle(rng, len(whites), func(i, j int) { whites[i], whites[j] = whites[j], whites[i] })
	shuffle(rng, len(blacks), func(i, j int) { blacks[i], blacks[j] = blacks[j], blacks[i] })

	stats.Whites = len(whites)
	stats.Blacks = len(blacks)
	return Deck{Whites: whites, Blacks: blacks}, stats
}

// FitsLabel reports whether a white card is short enough to be offered in a hand.
func FitsLabel(card WhiteCard) bool {
	return utf8.RuneCountInString(string(card)) <= MaxCardLength
}

// DrawWhite pops the last white card.
func (d *Deck) DrawWhite() (WhiteCard, bool) {
	n := len(d.Whites)
	if n == 0 {
		return "", false
	}
	card := d.Whites[n-1]
	d.Whites = d.Whites[:n-1]
	return card, true
}

// DrawBlack pops the last black card.
func (d *Deck) DrawBlack() (BlackCard, bool) {
	n := len(d.Blacks)
	if n == 0 {
		return BlackCard{}, false
	}
	card := d.Blacks[n-1]
	d.Blacks = d.Blacks[:n-1]
	return card, true
}

// dealHand takes up to n cards from the front of the white pile.
func (d *Deck) dealHand(n int) []WhiteCard {
	if n > len(d.Whites) {
		n = len(d.Whites)
	}
	hand := append([]WhiteCard{}, d.Whites[:n]...)
	d.Whites = d.Whites[n:]
	return hand
}

// shuffle is a Fisher-Yates permutation; rand.Rand.Shuffle walks from the last index down.
func shuffle(rng *rand.Rand, n int, swap func(i, j int)) {
	if n < 2 {
		return
	}
	rng.Shuffle(n, swap)
}

func sortedIndices(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for i := range set {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
