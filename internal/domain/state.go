package domain

// WhiteCard is a response card.
type WhiteCard string

// BlackCard is a prompt card. Pick is the number of blanks to fill.
type BlackCard struct {
	Text string `json:"text"`
	Pick int    `json:"pick"`
}

// Pack is a named group of card indices into a CardSource.
type Pack struct {
	Name     string `json:"name"`
	Official bool   `json:"official"`
	White    []int  `json:"white"`
	Black    []int  `json:"black"`
}

// CardSource is the full card catalogue loaded at startup.
type CardSource struct {
	White []WhiteCard `json:"white"`
	Black []BlackCard `json:"black"`
	Packs []Pack      `json:"packs"`
}

// Role identifies one of the two seats at the table.
type Role string

const (
	// RoleHuman is the human player.
	RoleHuman Role = "human"
	// RoleAI is the AI agent.
	RoleAI Role = "ai"
)

// HistoryEntry is the permanent record of one completed round.
type HistoryEntry struct {
	Round     int       `json:"round"`
	Black     string    `json:"black"`
	HumanCard WhiteCard `json:"human_card"`
	AICard    WhiteCard `json:"ai_card"`
}

// Reveal is the result of a completed round.
type Reveal struct {
	Round     int
	Black     BlackCard
	HumanCard WhiteCard
	AICard    WhiteCard
}
