package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-common/runtime"

	"promptresponse/internal/app"
	"promptresponse/internal/domain"
	"promptresponse/internal/ports"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type channelMsg struct {
	channel string
	content map[string]interface{}
}

type notification struct {
	userID  string
	subject string
	content map[string]interface{}
	code    int
}

// mockMessenger records channel messages and notifications.
type mockMessenger struct {
	mu            sync.Mutex
	messages      []channelMsg
	notifications []notification
	notifyErr     error
}

func (mm *mockMessenger) ChannelIdBuild(ctx context.Context, sender string, target string, chanType runtime.ChannelType) (string, error) {
	return fmt.Sprintf("2...%s", target), nil
}

func (mm *mockMessenger) ChannelMessageSend(ctx context.Context, channelID string, content map[string]interface{}, senderId, senderUsername string, persist bool) (*rtapi.ChannelMessageAck, error) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.messages = append(mm.messages, channelMsg{channel: channelID, content: content})
	return &rtapi.ChannelMessageAck{ChannelId: channelID}, nil
}

func (mm *mockMessenger) NotificationSend(ctx context.Context, userID, subject string, content map[string]interface{}, code int, sender string, persistent bool) error {
	if mm.notifyErr != nil {
		return mm.notifyErr
	}
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.notifications = append(mm.notifications, notification{userID: userID, subject: subject, content: content, code: code})
	return nil
}

func (mm *mockMessenger) in(room string) []channelMsg {
	var out []channelMsg
	for _, m := range mm.messages {
		if m.channel == "2..."+room {
			out = append(out, m)
		}
	}
	return out
}

// mockRegistrar records registered ids.
type mockRegistrar struct {
	rpcs  map[string]rpcFunc
	hooks []string
}

func (mr *mockRegistrar) RegisterRpc(id string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)) error {
	if mr.rpcs == nil {
		mr.rpcs = make(map[string]rpcFunc)
	}
	mr.rpcs[id] = fn
	return nil
}

func (mr *mockRegistrar) RegisterBeforeRt(id string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, envelope *rtapi.Envelope) (*rtapi.Envelope, error)) error {
	mr.hooks = append(mr.hooks, id)
	return nil
}

type pendingTimer struct{}

func (pendingTimer) Stop() bool { return true }

type manualScheduler struct{ fns []func() }

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) ports.Timer {
	s.fns = append(s.fns, f)
	return pendingTimer{}
}

const (
	humanID = "human-user"
	aiID    = "ai-user"
)

func testSettings() Settings {
	return Settings{
		HumanUserID: humanID,
		AIUserID:    aiID,
		TableRoom:   "table",
		AIRoom:      "table-ai",
		DefaultPack: "official",
	}
}

func newTestModule(t *testing.T, blacks int) (*Module, *mockMessenger, *manualScheduler) {
	t.Helper()
	cards := domain.CardSource{}
	pack := domain.Pack{Name: "Base", Official: true}
	for i := 0; i < 30; i++ {
		cards.White = append(cards.White, domain.WhiteCard(fmt.Sprintf("Response %d", i)))
		pack.White = append(pack.White, i)
	}
	for i := 0; i < blacks; i++ {
		cards.Black = append(cards.Black, domain.BlackCard{Text: fmt.Sprintf("Prompt %d: _.", i), Pick: 1})
		pack.Black = append(pack.Black, i)
	}
	cards.Packs = []domain.Pack{pack}

	sched := &manualScheduler{}
	dealer := app.NewDealer(app.Config{
		Cards:     cards,
		Logger:    noopLogger{},
		Scheduler: sched,
		Rand:      rand.New(rand.NewSource(11)),
	})
	out := &mockMessenger{}
	m := NewModule(dealer, testSettings(), out, noopLogger{})
	dealer.SetDispatcher(m)
	return m, out, sched
}

func asUser(userID string) context.Context {
	return context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, userID)
}

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, raw)
	}
	return out
}

func aiEnvelope(channel, content string) *rtapi.Envelope {
	return &rtapi.Envelope{Message: &rtapi.Envelope_ChannelMessageSend{
		ChannelMessageSend: &rtapi.ChannelMessageSend{ChannelId: channel, Content: content},
	}}
}

func errCode(t *testing.T, err error) int {
	t.Helper()
	var rerr *runtime.Error
	if !errors.As(err, &rerr) {
		t.Fatalf("expected runtime.Error, got %v", err)
	}
	return rerr.Code
}

func TestRegisterInstallsAllRPCs(t *testing.T) {
	m, _, _ := newTestModule(t, 1)
	reg := &mockRegistrar{}
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	for _, id := range []string{RpcDeal, RpcNext, RpcStop, RpcScore, RpcHand, RpcPacks, RpcPick} {
		if reg.rpcs[id] == nil {
			t.Errorf("rpc %s not registered", id)
		}
	}
	if len(reg.hooks) != 1 || reg.hooks[0] != "ChannelMessageSend" {
		t.Errorf("unexpected hooks %v", reg.hooks)
	}
}

func TestParseSettings(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, s Settings)
	}{
		{
			name: "defaults",
			env:  map[string]string{EnvHumanUserID: "h", EnvAIUserID: "a"},
			check: func(t *testing.T, s Settings) {
				if s.CardsPath != "cards.json" || s.AIRoom != "prompt-response-ai" || s.AutoDealDelay != app.DefaultAutoDealDelay {
					t.Errorf("unexpected defaults %+v", s)
				}
			},
		},
		{
			name: "delay override",
			env:  map[string]string{EnvHumanUserID: "h", EnvAIUserID: "a", EnvAutoDealDelay: "3"},
			check: func(t *testing.T, s Settings) {
				if s.AutoDealDelay != 3*time.Second {
					t.Errorf("delay = %v", s.AutoDealDelay)
				}
			},
		},
		{name: "bad delay", env: map[string]string{EnvHumanUserID: "h", EnvAIUserID: "a", EnvAutoDealDelay: "soon"}, wantErr: true},
		{name: "missing seats", env: map[string]string{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSettings(tt.env)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, s)
			}
		})
	}
}

func TestDealAndFullRound(t *testing.T) {
	m, out, sched := newTestModule(t, 3)

	raw, err := m.rpcDeal(asUser(humanID), noopLogger{}, nil, nil, `{"pack":"base"}`)
	if err != nil {
		t.Fatalf("rpcDeal: %v", err)
	}
	resp := decode(t, raw)
	if resp["round"] != float64(1) || resp["new_game"] != true {
		t.Errorf("unexpected deal response %v", resp)
	}
	if len(out.in("table")) != 1 {
		t.Fatalf("expected prompt on table, got %d", len(out.in("table")))
	}
	if len(out.notifications) != 1 || out.notifications[0].code != NotifyHand || out.notifications[0].userID != humanID {
		t.Fatalf("expected hand notification, got %+v", out.notifications)
	}

	if _, err := m.rpcPick(asUser(humanID), noopLogger{}, nil, nil, `{"index":0}`); err != nil {
		t.Fatalf("rpcPick: %v", err)
	}
	aiMsgs := out.in("table-ai")
	if len(aiMsgs) != 1 || aiMsgs[0].content["role"] != "ai" {
		t.Fatalf("expected AI hand in AI room, got %+v", aiMsgs)
	}

	if _, err := m.beforeChannelMessageSend(asUser(aiID), noopLogger{}, nil, nil, aiEnvelope("2...table-ai", `{"text":"pick 2"}`)); err != nil {
		t.Fatalf("hook: %v", err)
	}
	table := out.in("table")
	if table[len(table)-1].content["kind"] != string(app.EventRoundRevealed) {
		t.Errorf("expected reveal, got %v", table[len(table)-1].content)
	}

	raw, err = m.rpcScore(asUser(humanID), noopLogger{}, nil, nil, "")
	if err != nil {
		t.Fatalf("rpcScore: %v", err)
	}
	if rounds := decode(t, raw)["rounds"].([]interface{}); len(rounds) != 1 {
		t.Errorf("expected one round of history, got %d", len(rounds))
	}

	if len(sched.fns) != 1 {
		t.Fatalf("expected auto-deal armed")
	}
	sched.fns[0]()
	table = out.in("table")
	last := table[len(table)-1].content
	if last["kind"] != string(app.EventPromptRevealed) || last["round"] != 2 {
		t.Errorf("expected round 2 prompt, got %v", last)
	}
}

func TestRPCPermissions(t *testing.T) {
	m, _, _ := newTestModule(t, 3)

	_, err := m.rpcDeal(asUser("stranger"), noopLogger{}, nil, nil, "")
	if code := errCode(t, err); code != codePermissionDenied {
		t.Errorf("stranger deal code = %d", code)
	}
	if _, err := m.rpcDeal(asUser(humanID), noopLogger{}, nil, nil, ""); err != nil {
		t.Fatalf("rpcDeal: %v", err)
	}
	_, err = m.rpcPick(asUser(aiID), noopLogger{}, nil, nil, `{"index":0}`)
	if code := errCode(t, err); code != codePermissionDenied {
		t.Errorf("AI pick code = %d", code)
	}
}

func TestRPCErrors(t *testing.T) {
	m, _, _ := newTestModule(t, 3)

	_, err := m.rpcNext(asUser(humanID), noopLogger{}, nil, nil, "")
	if code := errCode(t, err); code != codeNotFound {
		t.Errorf("next without session code = %d", code)
	}

	if _, err := m.rpcDeal(asUser(humanID), noopLogger{}, nil, nil, ""); err != nil {
		t.Fatalf("rpcDeal: %v", err)
	}
	_, err = m.rpcNext(asUser(humanID), noopLogger{}, nil, nil, "")
	if code := errCode(t, err); code != codeFailedPrecondition {
		t.Errorf("next mid-round code = %d", code)
	}

	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{"bad json", `{`, codeInvalidArgument},
		{"missing index", `{}`, codeInvalidArgument},
		{"fractional index", `{"index":1.5}`, codeInvalidArgument},
		{"out of range", `{"index":7}`, codeInvalidArgument},
		{"string index", `{"index":"abc"}`, codeInvalidArgument},
		{"null index", `{"index":null}`, codeInvalidArgument},
		{"bool index", `{"index":true}`, codeInvalidArgument},
		{"numeric string", `{"index":"0"}`, codeInvalidArgument},
	}
	before, _ := m.dealer.Hand(domain.RoleHuman)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.rpcPick(asUser(humanID), noopLogger{}, nil, nil, tt.payload)
			if code := errCode(t, err); code != tt.want {
				t.Errorf("code = %d, want %d", code, tt.want)
			}
		})
	}
	st, _ := m.dealer.Status()
	after, _ := m.dealer.Hand(domain.RoleHuman)
	if st.Phase != domain.PhasePrompt || fmt.Sprint(before.Cards) != fmt.Sprint(after.Cards) {
		t.Errorf("rejected picks changed the game: phase %s, hand %v -> %v", st.Phase, before.Cards, after.Cards)
	}
}

func TestDealWithoutPromptsAnnouncesGameOver(t *testing.T) {
	m, out, _ := newTestModule(t, 0)
	_, err := m.rpcDeal(asUser(humanID), noopLogger{}, nil, nil, "")
	if code := errCode(t, err); code != codeFailedPrecondition {
		t.Errorf("code = %d", code)
	}
	table := out.in("table")
	if len(table) != 1 || table[0].content["kind"] != string(app.EventGameOver) {
		t.Errorf("expected game over on table, got %+v", table)
	}
}

func TestHookIgnoresOtherTraffic(t *testing.T) {
	m, out, _ := newTestModule(t, 3)
	if _, err := m.rpcDeal(asUser(humanID), noopLogger{}, nil, nil, ""); err != nil {
		t.Fatalf("rpcDeal: %v", err)
	}
	before := len(out.messages)

	cases := []struct {
		name string
		user string
		env  *rtapi.Envelope
	}{
		{"human in AI room", humanID, aiEnvelope("2...table-ai", "1")},
		{"AI in table room", aiID, aiEnvelope("2...table", "1")},
		{"AI before its turn", aiID, aiEnvelope("2...table-ai", "1")},
		{"not a channel message", aiID, &rtapi.Envelope{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := m.beforeChannelMessageSend(asUser(c.user), noopLogger{}, nil, nil, c.env)
			if err != nil || got != c.env {
				t.Fatalf("envelope must pass through untouched: %v", err)
			}
		})
	}
	if len(out.messages) != before {
		t.Errorf("hook sent %d messages", len(out.messages)-before)
	}
}

func TestHookRepliesToBadPick(t *testing.T) {
	m, out, _ := newTestModule(t, 3)
	if _, err := m.rpcDeal(asUser(humanID), noopLogger{}, nil, nil, ""); err != nil {
		t.Fatalf("rpcDeal: %v", err)
	}
	if _, err := m.rpcPick(asUser(humanID), noopLogger{}, nil, nil, `{"index":3}`); err != nil {
		t.Fatalf("rpcPick: %v", err)
	}
	if _, err := m.beforeChannelMessageSend(asUser(aiID), noopLogger{}, nil, nil, aiEnvelope("2...table-ai", `{"text":"twelve"}`)); err != nil {
		t.Fatalf("hook: %v", err)
	}
	ai := out.in("table-ai")
	last := ai[len(ai)-1].content["text"].(string)
	if last != "❌ Send a number 1-7" {
		t.Errorf("unexpected reply %q", last)
	}
	st, _ := m.dealer.Status()
	if st.Phase != domain.PhaseAITurn {
		t.Errorf("phase = %s, want ai_turn", st.Phase)
	}
}

func TestDispatchJoinsErrors(t *testing.T) {
	m, out, _ := newTestModule(t, 3)
	out.notifyErr = errors.New("offline")
	err := m.Dispatch(context.Background(), []app.Event{
		{Kind: app.EventHandIssued, Audience: app.AudienceHuman, Payload: app.HandIssuedPayload{Role: domain.RoleHuman}},
		{Kind: app.EventGameOver, Audience: app.AudienceTable, Payload: app.GameOverPayload{Rounds: 2}},
	})
	if err == nil || !strings.Contains(err.Error(), "offline") {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(out.in("table")) != 1 {
		t.Errorf("table event should still be delivered")
	}
}

func TestMessageText(t *testing.T) {
	tests := map[string]string{
		`{"text":" 3 "}`:   "3",
		`{"body":"pick 2"}`: "pick 2",
		"4":                 "4",
		`{"other":1}`:       "",
	}
	for in, want := range tests {
		if got := messageText(in); got != want {
			t.Errorf("messageText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInvalidActionRouting(t *testing.T) {
	m, out, _ := newTestModule(t, 3)
	err := m.Dispatch(context.Background(), []app.Event{
		app.InvalidAction(app.AudienceAI, domain.ErrWrongPhase),
		app.InvalidAction(app.AudienceHuman, domain.ErrHandIndex),
		app.InvalidAction(app.AudienceTable, app.ErrNoSession),
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	ai := out.in("table-ai")
	if len(ai) != 1 || ai[0].content["kind"] != string(app.EventInvalidAction) || ai[0].content["text"] != "Not your turn." {
		t.Errorf("AI room got %+v", ai)
	}
	if len(out.notifications) != 1 || out.notifications[0].code != NotifyNotice || out.notifications[0].content["text"] != "❌ Invalid." {
		t.Errorf("human got %+v", out.notifications)
	}
	table := out.in("table")
	if len(table) != 1 || table[0].content["text"] != "No game running. Use `dealer_deal` to start." {
		t.Errorf("table got %+v", table)
	}
}

func TestStopNamesRPCs(t *testing.T) {
	m, out, _ := newTestModule(t, 3)
	if _, err := m.rpcDeal(asUser(humanID), noopLogger{}, nil, nil, ""); err != nil {
		t.Fatalf("rpcDeal: %v", err)
	}
	raw, err := m.rpcStop(asUser(humanID), noopLogger{}, nil, nil, "")
	if err != nil {
		t.Fatalf("rpcStop: %v", err)
	}
	text := decode(t, raw)["text"].(string)
	if !strings.Contains(text, RpcNext) || !strings.Contains(text, RpcDeal) || strings.Contains(text, "/next") {
		t.Errorf("stop text = %q", text)
	}
	table := out.in("table")
	if last := table[len(table)-1].content["text"]; last != text {
		t.Errorf("table notice = %v, want %q", last, text)
	}
}
