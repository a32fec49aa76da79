package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"promptresponse/internal/app"
	"promptresponse/internal/bot"
	"promptresponse/internal/ports/console"
)

var (
	playPack   string
	playRounds int
	playBot    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a local game against a stand-in AI",
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&playPack, "pack", "p", "", "Pack filter: official, all or a pack name")
	playCmd.Flags().IntVarP(&playRounds, "rounds", "n", 0, "Stop after this many rounds (0 plays every prompt)")
	playCmd.Flags().StringVar(&playBot, "bot", "keyword", "AI strategy: random, wordy or keyword")
}

func runPlay(cmd *cobra.Command, args []string) error {
	env, err := setup("warn")
	if err != nil {
		return err
	}
	defer env.close()

	level, ok := bot.ParseLevel(playBot)
	if !ok {
		return fmt.Errorf("unknown bot %q", playBot)
	}
	brain, err := bot.NewBrain(level, nil)
	if err != nil {
		return err
	}

	pack := playPack
	if pack == "" {
		pack = env.cfg.DefaultPack
	}

	dealer := app.NewDealer(app.Config{
		Cards:         env.cards,
		Logger:        env.logger,
		AutoDealDelay: env.cfg.AutoDealDelay(),
	})
	defer dealer.Close()

	interactive := console.IsInteractive()
	chooser := console.NewChooser(os.Stdin, os.Stdout, interactive)
	player := console.NewPlayer(dealer, &bot.Agent{Name: "AI", Strategy: brain}, chooser, os.Stdout, env.logger,
		console.Options{Pack: pack, MaxRounds: playRounds})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if err := player.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
