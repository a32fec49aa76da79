package discord

import "github.com/bwmarrin/discordgo"

const (
	cmdDeal  = "deal"
	cmdNext  = "next"
	cmdStop  = "stop"
	cmdScore = "score"
	cmdHand  = "hand"
	cmdPacks = "packs"

	optPack = "pack"

	// pickCardID is the custom id of the human's hand selection menu.
	pickCardID = "pick_card"
)

// Commands returns the slash command definitions.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        cmdDeal,
			Description: "Start a new game of Prompt & Response",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optPack,
					Description: "Card pack filter (default: official)",
					Required:    false,
				},
			},
		},
		{Name: cmdNext, Description: "Deal the next black card"},
		{Name: cmdStop, Description: "Stop the game after this round"},
		{Name: cmdScore, Description: "Show game history and stats"},
		{Name: cmdHand, Description: "View your current hand"},
		{Name: cmdPacks, Description: "List available card pack categories"},
	}
}
