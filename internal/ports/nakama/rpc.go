package nakama

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"promptresponse/internal/app"
	"promptresponse/internal/domain"
	"promptresponse/internal/render"
)

// rpcDeal starts a new game. Payload: {"pack": "<filter>"} (optional).
func (m *Module) rpcDeal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if _, err := m.callerRole(ctx); err != nil {
		return "", err
	}
	req, err := decodePayload(payload)
	if err != nil {
		return "", err
	}
	pack := m.settings.DefaultPack
	if p := strings.TrimSpace(req.GetFields()["pack"].GetStringValue()); p != "" {
		pack = p
	}

	events, err := m.dealer.StartGame(ctx, pack)
	return m.promptResponse(ctx, logger, events, err)
}

// rpcNext deals the next prompt manually.
func (m *Module) rpcNext(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if _, err := m.callerRole(ctx); err != nil {
		return "", err
	}
	events, err := m.dealer.NextPrompt(ctx)
	return m.promptResponse(ctx, logger, events, err)
}

func (m *Module) rpcStop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if _, err := m.callerRole(ctx); err != nil {
		return "", err
	}
	if err := m.dealer.StopAutoDeal(); err != nil {
		return "", rpcError(err)
	}
	if err := m.Dispatch(ctx, []app.Event{{
		Kind:     app.EventNotice,
		Audience: app.AudienceTable,
		Payload:  app.NoticePayload{Code: app.NoticeStopped},
	}}); err != nil {
		logger.Warn("RpcStop: could not announce stop: %v", err)
	}
	return encodeResponse(map[string]interface{}{"auto_deal": false, "text": render.Stopped(rpcCommands)})
}

func (m *Module) rpcScore(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	history, err := m.dealer.History()
	if err != nil && !errors.Is(err, app.ErrNoSession) {
		return "", rpcError(err)
	}
	rounds := make([]interface{}, len(history))
	for i, h := range history {
		rounds[i] = map[string]interface{}{
			"round":      h.Round,
			"prompt":     h.Black,
			"human_card": string(h.HumanCard),
			"ai_card":    string(h.AICard),
		}
	}
	return encodeResponse(map[string]interface{}{"rounds": rounds, "text": render.History(history)})
}

// rpcHand returns the caller's own hand.
func (m *Module) rpcHand(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	role, err := m.callerRole(ctx)
	if err != nil {
		return "", err
	}
	hand, err := m.dealer.Hand(role)
	if err != nil {
		return "", rpcError(err)
	}
	return encodeResponse(handContent(hand))
}

func (m *Module) rpcPacks(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	sum := m.dealer.Packs()
	return encodeResponse(map[string]interface{}{
		"total":      sum.Total,
		"official":   sum.Official,
		"unofficial": sum.Unofficial,
		"white":      sum.White,
		"black":      sum.Black,
		"text":       render.Packs(sum, rpcCommands),
	})
}

// rpcPick plays the human's card. Payload: {"index": <0-based hand index>}.
func (m *Module) rpcPick(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	role, err := m.callerRole(ctx)
	if err != nil {
		return "", err
	}
	if role != domain.RoleHuman {
		return "", runtime.NewError("not your cards", codePermissionDenied)
	}
	req, err := decodePayload(payload)
	if err != nil {
		return "", err
	}
	v, ok := req.GetFields()["index"]
	if !ok {
		return "", runtime.NewError("index required", codeInvalidArgument)
	}
	num, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return "", rpcError(domain.ErrHandIndex)
	}
	index := int(num.NumberValue)
	if float64(index) != num.NumberValue {
		return "", rpcError(domain.ErrHandIndex)
	}

	events, err := m.dealer.HumanSelect(ctx, index)
	if err != nil {
		return "", rpcError(err)
	}
	if err := m.Dispatch(ctx, events); err != nil {
		logger.Error("RpcPick: failed to hand the turn to the AI: %v", err)
	}

	played := ""
	for _, ev := range events {
		if p, ok := ev.Payload.(app.HumanLockedInPayload); ok {
			played = string(p.Card)
		}
	}
	return encodeResponse(map[string]interface{}{"played": played, "text": "✅ You played: " + played})
}

// promptResponse dispatches deal/next events and answers with the new prompt.
func (m *Module) promptResponse(ctx context.Context, logger runtime.Logger, events []app.Event, err error) (string, error) {
	if domain.IsExhausted(err) && len(events) > 0 {
		if derr := m.Dispatch(ctx, events); derr != nil {
			logger.Warn("Could not announce game over: %v", derr)
		}
	}
	if err != nil {
		return "", rpcError(err)
	}
	if err := m.Dispatch(ctx, events); err != nil {
		logger.Error("Failed to deliver round: %v", err)
	}
	for _, ev := range events {
		if p, ok := ev.Payload.(app.PromptRevealedPayload); ok {
			return encodeResponse(promptContent(p))
		}
	}
	return encodeResponse(map[string]interface{}{})
}

func decodePayload(payload string) (*structpb.Struct, error) {
	req := &structpb.Struct{}
	if strings.TrimSpace(payload) == "" {
		return req, nil
	}
	if err := protojson.Unmarshal([]byte(payload), req); err != nil {
		return nil, runtime.NewError("invalid payload", codeInvalidArgument)
	}
	return req, nil
}

func encodeResponse(fields map[string]interface{}) (string, error) {
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return "", runtime.NewError("internal error", codeInternal)
	}
	b, err := protojson.Marshal(st)
	if err != nil {
		return "", runtime.NewError("internal error", codeInternal)
	}
	return string(b), nil
}
