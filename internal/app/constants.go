package app

import "time"

// DefaultAutoDealDelay is the cooldown between a reveal and the automatic next prompt.
const DefaultAutoDealDelay = 7 * time.Second
