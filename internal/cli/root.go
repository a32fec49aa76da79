// Package cli defines the cobra command tree for the dealer binary.
package cli

import (
	"fmt"
	"os"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"promptresponse/internal/config"
	"promptresponse/internal/domain"
	"promptresponse/internal/logging"
)

var (
	configPath string
	cardsPath  string
	debug      bool
	version    = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "dealer",
	Short: "Prompt & Response card game dealer",
	Long: `dealer runs a two-player prompt/response card game between a human
and an AI agent. It can serve the game over Discord or play it locally.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&cardsPath, "cards", "", "Card data file (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(packsCmd)
}

// environment is what every subcommand loads before it starts.
type environment struct {
	cfg    *config.Config
	cards  domain.CardSource
	zap    *zap.Logger
	logger runtime.Logger
}

// setup loads config, logger and cards. fallbackLevel applies only when
// neither the config file nor the environment set a log level.
func setup(fallbackLevel string) (*environment, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cardsPath != "" {
		cfg.CardsPath = cardsPath
	}

	level, development := logSettings(cfg.Log, fallbackLevel, debug)
	z, err := logging.New(level, development)
	if err != nil {
		return nil, err
	}
	logger := logging.NewRuntimeLogger(z)

	cards, err := config.LoadCards(cfg.CardsPath)
	if err != nil {
		_ = z.Sync()
		return nil, err
	}
	logger.Info("Loaded %d white cards, %d black cards, %d packs from %s",
		len(cards.White), len(cards.Black), len(cards.Packs), cfg.CardsPath)

	return &environment{cfg: cfg, cards: cards, zap: z, logger: logger}, nil
}

func logSettings(c config.LogConfig, fallbackLevel string, debug bool) (string, bool) {
	if debug {
		return "debug", true
	}
	if c.Level == "" {
		return fallbackLevel, c.Development
	}
	return c.Level, c.Development
}

func (e *environment) close() {
	_ = e.zap.Sync()
}
