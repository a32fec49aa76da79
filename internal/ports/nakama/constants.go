package nakama

import "promptresponse/internal/render"

// RPC ids registered with Nakama.
const (
	RpcDeal  = "dealer_deal"
	RpcNext  = "dealer_next"
	RpcStop  = "dealer_stop"
	RpcScore = "dealer_score"
	RpcHand  = "dealer_hand"
	RpcPacks = "dealer_packs"
	RpcPick  = "dealer_pick"
)

// rpcCommands names the RPCs in user-facing hints.
var rpcCommands = render.Commands{Deal: RpcDeal, Next: RpcNext, Hand: RpcHand}

// Runtime env keys read at module init.
const (
	EnvCardsPath     = "dealer_cards_path"
	EnvHumanUserID   = "dealer_human_user_id"
	EnvAIUserID      = "dealer_ai_user_id"
	EnvTableRoom     = "dealer_table_room"
	EnvAIRoom        = "dealer_ai_room"
	EnvAutoDealDelay = "dealer_auto_deal_delay_sec"
	EnvDefaultPack   = "dealer_default_pack"
)

// Notification codes sent to the human. Nakama reserves codes <= 0.
const (
	NotifyHand   = 1
	NotifyNotice = 2
)

// gRPC status codes used with runtime.NewError.
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codePermissionDenied   = 7
	codeFailedPrecondition = 9
	codeInternal           = 13
)

const senderName = "Dealer"
