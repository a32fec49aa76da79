package bot

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrBadPick = errors.New("pick must be a card number")

var pickPrefix = regexp.MustCompile(`(?i)^pick\s*`)

// ParsePick reads an AI pick message such as "3" or "pick 3" and returns the
// 0-based hand index. Numbers outside 1..handSize are rejected.
func ParsePick(content string, handSize int) (int, error) {
	text := pickPrefix.ReplaceAllString(strings.TrimSpace(content), "")
	digits := leadingDigits(text)
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrBadPick, content)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadPick, content)
	}
	if n < 1 || n > handSize {
		return 0, fmt.Errorf("%w: %d not in 1-%d", ErrBadPick, n, handSize)
	}
	return n - 1, nil
}

// leadingDigits keeps an optional sign and the digits that follow, so
// "2, definitely" reads as 2.
func leadingDigits(s string) string {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return ""
	}
	return s[:end]
}
