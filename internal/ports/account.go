package ports

import "promptresponse/internal/domain"

// SeatPort maps chat identities onto the two seats at the table.
type SeatPort interface {
	// RoleOf returns the seat held by userID, or false for anyone else.
	RoleOf(userID string) (domain.Role, bool)
	// UserOf returns the chat identity sitting in role.
	UserOf(role domain.Role) string
}
