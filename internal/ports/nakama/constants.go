package nakama

const (
	// MatchNameRamen is the authoritative match handler name registered with Nakama.
	MatchNameRamen = "ramen_room"

	RpcCreateRoom   = "create_room"
	RpcJoinRoom     = "join_room"
	RpcPreviewScore = "preview_score"
	RpcCatalog      = "catalog"
	RpcVoiceToken   = "voice_token"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame       int64 = 1
	OpSelectCharacter int64 = 2
	OpSelectSoup      int64 = 3
	OpSelectNoodle    int64 = 4
	OpDraftPick       int64 = 5
	OpSubmitPlacement int64 = 6
	OpRequestNewGame  int64 = 7

	// Server -> Client events
	OpRoster             int64 = 101
	OpHostChanged        int64 = 102
	OpPhaseStarted       int64 = 103
	OpCharacterSelected  int64 = 104
	OpSelectionsRevealed int64 = 105
	OpDraftRound         int64 = 106 // send privately
	OpDraftPicksRevealed int64 = 107
	OpPlacementSubmitted int64 = 108
	OpGameResult         int64 = 109
	OpRoomAborted        int64 = 110
	OpRoomError          int64 = 111
)

// Match params and label keys.
const (
	ParamRoomCode = "code"

	LabelKeyCode       = "code"
	LabelKeyOpenSeats  = "open"
	LabelKeyPhase      = "phase"
	LabelKeyPlayers    = "players"
	LabelKeyMaxPlayers = "max_players"
)

// gRPC status codes used for runtime errors.
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codeFailedPrecondition = 9
	codeInternal           = 13
	codeUnauthenticated    = 16
)
