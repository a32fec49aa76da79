package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"promptresponse/internal/domain"
)

var ErrNoCards = errors.New("card data is empty")

// LoadCards reads the card catalogue ({white, black, packs}) from path.
// The dealer cannot run without it, so callers treat any error as fatal.
func LoadCards(path string) (domain.CardSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.CardSource{}, fmt.Errorf("failed to read cards: %w", err)
	}
	return ParseCards(data)
}

// ParseCards decodes a card catalogue.
func ParseCards(data []byte) (domain.CardSource, error) {
	var src domain.CardSource
	if err := json.Unmarshal(data, &src); err != nil {
		return domain.CardSource{}, fmt.Errorf("failed to unmarshal cards: %w", err)
	}
	if len(src.White) == 0 && len(src.Black) == 0 {
		return domain.CardSource{}, ErrNoCards
	}
	return src, nil
}
