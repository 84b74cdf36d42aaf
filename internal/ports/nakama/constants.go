package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"
	// RpcVoiceToken issues a voice token for the caller's table.
	RpcVoiceToken = "tractor_voice_token"
	// RpcValidatePlay checks a proposed play against a hand and trick without a match.
	RpcValidatePlay = "tractor_validate_play"

	// MatchNameTractor is the authoritative match handler name registered with Nakama.
	MatchNameTractor = "tractor_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartRound          int64 = 1
	OpDeclare             int64 = 2
	OpFinalizeDeclaration int64 = 3
	OpPlayCards           int64 = 4

	// Server -> Client events
	OpMatchState     int64 = 100
	OpPlayerJoined   int64 = 101
	OpPlayerLeft     int64 = 102
	OpHandDealt      int64 = 103 // send privately
	OpRoundStarted   int64 = 104
	OpTrumpDeclared  int64 = 105
	OpTrumpFinalized int64 = 106
	OpCardPlayed     int64 = 107
	OpTrickCompleted int64 = 108
	OpRoundEnded     int64 = 109
	OpGameError      int64 = 199
)

// Error codes carried by OpGameError.
const (
	errCodeBadRequest = 400
	errCodeForbidden  = 403
	errCodeConflict   = 409
	errCodeInternal   = 500
)

// gRPC status codes returned by RPCs through runtime.NewError.
const (
	errCodeInvalidArgument = 3
	errCodeRpcInternal     = 13
	errCodeUnavailable     = 14
	errCodeUnauthenticated = 16
)
