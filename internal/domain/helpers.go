package domain

// removeAt returns hand without the card at index i and the removed card.
// The caller validates i.
func removeAt(hand []WhiteCard, i int) ([]WhiteCard, WhiteCard) {
	card := hand[i]
	out := make([]WhiteCard, 0, len(hand))
	out = append(out, hand[:i]...)
	out = append(out, hand[i+1:]...)
	return out, card
}

func validIndex(hand []WhiteCard, i int) bool {
	return i >= 0 && i < len(hand)
}
