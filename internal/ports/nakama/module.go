package nakama

import (
	"context"
	"database/sql"
	"errors"

	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-common/runtime"

	"promptresponse/internal/app"
	"promptresponse/internal/config"
	"promptresponse/internal/domain"
)

// Messenger is the subset of runtime.NakamaModule used to deliver events.
type Messenger interface {
	ChannelIdBuild(ctx context.Context, sender string, target string, chanType runtime.ChannelType) (string, error)
	ChannelMessageSend(ctx context.Context, channelID string, content map[string]interface{}, senderId, senderUsername string, persist bool) (*rtapi.ChannelMessageAck, error)
	NotificationSend(ctx context.Context, userID, subject string, content map[string]interface{}, code int, sender string, persistent bool) error
}

// Registrar is the subset of runtime.Initializer used at load time.
type Registrar interface {
	RegisterRpc(id string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)) error
	RegisterBeforeRt(id string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, envelope *rtapi.Envelope) (*rtapi.Envelope, error)) error
}

type rpcFunc = func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)

// Module binds one dealer to the Nakama runtime.
type Module struct {
	dealer   *app.Dealer
	settings Settings
	seats    config.Seats
	out      Messenger
	logger   runtime.Logger
}

// NewModule builds a Module. It implements app.Dispatcher.
func NewModule(dealer *app.Dealer, settings Settings, out Messenger, logger runtime.Logger) *Module {
	return &Module{
		dealer:   dealer,
		settings: settings,
		seats:    settings.seats(),
		out:      out,
		logger:   logger,
	}
}

// Register installs the RPCs and the AI pick hook.
func (m *Module) Register(r Registrar) error {
	rpcs := []struct {
		id string
		fn rpcFunc
	}{
		{RpcDeal, m.rpcDeal},
		{RpcNext, m.rpcNext},
		{RpcStop, m.rpcStop},
		{RpcScore, m.rpcScore},
		{RpcHand, m.rpcHand},
		{RpcPacks, m.rpcPacks},
		{RpcPick, m.rpcPick},
	}
	for _, rpc := range rpcs {
		if err := r.RegisterRpc(rpc.id, rpc.fn); err != nil {
			return err
		}
	}
	return r.RegisterBeforeRt("ChannelMessageSend", m.beforeChannelMessageSend)
}

// callerRole resolves the seat of the user making the request.
func (m *Module) callerRole(ctx context.Context) (domain.Role, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	role, ok := m.seats.RoleOf(userID)
	if !ok {
		return "", runtime.NewError("not seated at this table", codePermissionDenied)
	}
	return role, nil
}

// rpcError maps dealer errors to gRPC-coded runtime errors.
func rpcError(err error) error {
	switch {
	case errors.Is(err, app.ErrNoSession):
		return runtime.NewError(err.Error(), codeNotFound)
	case errors.Is(err, domain.ErrHandIndex):
		return runtime.NewError(err.Error(), codeInvalidArgument)
	case errors.Is(err, domain.ErrWrongPhase),
		errors.Is(err, domain.ErrRoundInProgress),
		domain.IsExhausted(err):
		return runtime.NewError(err.Error(), codeFailedPrecondition)
	}
	return runtime.NewError("internal error", codeInternal)
}
