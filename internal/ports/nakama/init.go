// Package nakama serves the dealer from a Nakama server: RPCs for the
// human, a realtime hook that reads the AI's picks from its room, and
// channel messages and notifications for the dealer's events.
package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"promptresponse/internal/app"
	"promptresponse/internal/config"
)

// InitModule wires RPCs and realtime hooks for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	settings, err := SettingsFromContext(ctx)
	if err != nil {
		logger.Error("InitModule: invalid settings: %v", err)
		return err
	}

	cards, err := config.LoadCards(settings.CardsPath)
	if err != nil {
		logger.Error("InitModule: could not load cards from %s: %v", settings.CardsPath, err)
		return err
	}

	dealer := app.NewDealer(app.Config{
		Cards:         cards,
		Logger:        logger,
		AutoDealDelay: settings.AutoDealDelay,
	})
	m := NewModule(dealer, settings, nk, logger)
	dealer.SetDispatcher(m)

	if err := m.Register(initializer); err != nil {
		return err
	}

	logger.Info("Prompt & Response module loaded: %d packs, table room %q, AI room %q",
		len(cards.Packs), settings.TableRoom, settings.AIRoom)
	return nil
}
