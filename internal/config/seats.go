package config

import "promptresponse/internal/domain"

// Seats is a fixed seat directory: one human user and one AI user.
type Seats struct {
	Human string
	AI    string
}

func (s Seats) RoleOf(userID string) (domain.Role, bool) {
	switch {
	case userID == "":
		return "", false
	case userID == s.Human:
		return domain.RoleHuman, true
	case userID == s.AI:
		return domain.RoleAI, true
	}
	return "", false
}

func (s Seats) UserOf(role domain.Role) string {
	switch role {
	case domain.RoleHuman:
		return s.Human
	case domain.RoleAI:
		return s.AI
	}
	return ""
}
