package nakama

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"promptresponse/internal/bot"
	"promptresponse/internal/domain"
)

// beforeChannelMessageSend reads the AI's pick from messages it posts in
// the AI room. The message itself is always let through.
func (m *Module) beforeChannelMessageSend(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, in *rtapi.Envelope) (*rtapi.Envelope, error) {
	msg := in.GetChannelMessageSend()
	if msg == nil {
		return in, nil
	}
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if role, ok := m.seats.RoleOf(userID); !ok || role != domain.RoleAI {
		return in, nil
	}
	aiChannel, err := m.out.ChannelIdBuild(ctx, "", m.settings.AIRoom, runtime.Room)
	if err != nil || msg.GetChannelId() != aiChannel {
		return in, nil
	}

	st, err := m.dealer.Status()
	if err != nil || st.Phase != domain.PhaseAITurn {
		return in, nil
	}
	hand, err := m.dealer.Hand(domain.RoleAI)
	if err != nil {
		return in, nil
	}

	index, err := bot.ParsePick(messageText(msg.GetContent()), len(hand.Cards))
	if err != nil {
		m.replyAI(ctx, logger, fmt.Sprintf("❌ Send a number 1-%d", len(hand.Cards)))
		return in, nil
	}
	events, err := m.dealer.AISelect(ctx, index)
	if err != nil {
		logger.Warn("BeforeChannelMessageSend [User:%s]: pick %d rejected: %v", userID, index+1, err)
		if err := m.Dispatch(ctx, events); err != nil {
			logger.Warn("BeforeChannelMessageSend: could not report rejected pick: %v", err)
		}
		return in, nil
	}
	m.replyAI(ctx, logger, "✅ Locked in.")
	if err := m.Dispatch(ctx, events); err != nil {
		logger.Error("BeforeChannelMessageSend: failed to post reveal: %v", err)
	}
	return in, nil
}

func (m *Module) replyAI(ctx context.Context, logger runtime.Logger, text string) {
	if err := m.sendRoom(ctx, m.settings.AIRoom, map[string]interface{}{"kind": "reply", "text": text}); err != nil {
		logger.Warn("Reply in AI room failed: %v", err)
	}
}

// messageText extracts the text of a chat message whose content is a JSON
// object with a "text" or "body" field. Anything else is used as is.
func messageText(content string) string {
	st := &structpb.Struct{}
	if err := protojson.Unmarshal([]byte(content), st); err != nil {
		return strings.TrimSpace(content)
	}
	for _, key := range []string{"text", "body", "message"} {
		if v, ok := st.GetFields()[key]; ok {
			return strings.TrimSpace(v.GetStringValue())
		}
	}
	return ""
}
