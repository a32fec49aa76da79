package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"

	"promptresponse/internal/app"
	"promptresponse/internal/ports/discord"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dealer as a Discord bot",
	Long: `Connect to Discord, register the slash commands and deal games in the
configured game channel until interrupted.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := setup("info")
	if err != nil {
		return err
	}
	defer env.close()
	cfg := env.cfg

	if err := cfg.ValidateDiscord(); err != nil {
		return err
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return fmt.Errorf("creating discord session: %w", err)
	}
	session.Identify.Intents = discord.Intents

	dealer := app.NewDealer(app.Config{
		Cards:         env.cards,
		Logger:        env.logger,
		AutoDealDelay: cfg.AutoDealDelay(),
	})
	defer dealer.Close()

	b := discord.New(session, dealer, cfg.Seats(), discord.Options{
		GuildID:       cfg.GuildID,
		GameChannelID: cfg.GameChannelID,
		AIChannelID:   cfg.AIChannelID,
		DefaultPack:   cfg.DefaultPack,
	}, env.logger)
	dealer.SetDispatcher(b)

	session.AddHandler(b.OnReady)
	session.AddHandler(b.OnInteraction)
	session.AddHandler(b.OnMessage)

	if err := session.Open(); err != nil {
		return fmt.Errorf("opening discord gateway: %w", err)
	}
	defer session.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	env.logger.Info("Shutting down")
	return nil
}
