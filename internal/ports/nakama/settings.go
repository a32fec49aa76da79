package nakama

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"promptresponse/internal/app"
	"promptresponse/internal/config"
)

// Settings is the module configuration taken from the runtime env map.
type Settings struct {
	CardsPath     string
	HumanUserID   string
	AIUserID      string
	TableRoom     string
	AIRoom        string
	DefaultPack   string
	AutoDealDelay time.Duration
}

// SettingsFromContext reads Settings from the RUNTIME_CTX_ENV map in ctx.
func SettingsFromContext(ctx context.Context) (Settings, error) {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	return ParseSettings(env)
}

// ParseSettings validates the env map and fills defaults.
func ParseSettings(env map[string]string) (Settings, error) {
	get := func(key string) string { return strings.TrimSpace(env[key]) }
	s := Settings{
		CardsPath:     get(EnvCardsPath),
		HumanUserID:   get(EnvHumanUserID),
		AIUserID:      get(EnvAIUserID),
		TableRoom:     get(EnvTableRoom),
		AIRoom:        get(EnvAIRoom),
		DefaultPack:   get(EnvDefaultPack),
		AutoDealDelay: app.DefaultAutoDealDelay,
	}
	if s.CardsPath == "" {
		s.CardsPath = config.DefaultCardsPath
	}
	if s.TableRoom == "" {
		s.TableRoom = "prompt-response"
	}
	if s.AIRoom == "" {
		s.AIRoom = s.TableRoom + "-ai"
	}
	if raw := get(EnvAutoDealDelay); raw != "" {
		sec, err := strconv.Atoi(raw)
		if err != nil || sec <= 0 {
			return Settings{}, fmt.Errorf("%s: invalid delay %q", EnvAutoDealDelay, raw)
		}
		s.AutoDealDelay = time.Duration(sec) * time.Second
	}
	if s.HumanUserID == "" || s.AIUserID == "" {
		return Settings{}, fmt.Errorf("%s and %s are required", EnvHumanUserID, EnvAIUserID)
	}
	return s, nil
}

func (s Settings) seats() config.Seats {
	return config.Seats{Human: s.HumanUserID, AI: s.AIUserID}
}
