package domain

const (
	// HandSize is the number of white cards dealt to each player.
	HandSize = 7
	// MaxCardLength is the longest white card (in characters) that fits a selection menu label.
	MaxCardLength = 95
	// PickOne is the only black card pick count the dealer supports.
	PickOne = 1
)
