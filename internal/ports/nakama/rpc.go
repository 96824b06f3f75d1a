package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/heroiclabs/nakama-common/runtime"

	"ramendo/internal/app"
	"ramendo/internal/catalog"
	"ramendo/internal/domain"
	"ramendo/internal/lobby"
)

type CreateRoomRequest struct {
	Name       string `json:"name"`
	MaxPlayers int    `json:"max_players"`
}

type JoinRoomRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// RoomResponse tells the client which match to join.
type RoomResponse struct {
	Code    string `json:"code"`
	MatchID string `json:"match_id"`
}

type PreviewScoreRequest struct {
	CharacterID string      `json:"character_id"`
	Soup        string      `json:"soup"`
	Noodle      string      `json:"noodle"`
	Grid        domain.Grid `json:"grid"`
	Customers   []string    `json:"customers"`
}

func userID(ctx context.Context) (string, error) {
	uid, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || uid == "" {
		return "", runtime.NewError("user id not found in context", codeUnauthenticated)
	}
	return uid, nil
}

func decodePayload(payload string, v any) error {
	if payload == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return runtime.NewError("invalid request payload", codeInvalidArgument)
	}
	return nil
}

func encodeResponse(v any) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", runtime.NewError("failed to encode response", codeInternal)
	}
	return string(out), nil
}

// roomError maps lobby failures onto gRPC status codes.
func roomError(err error) error {
	var capErr *lobby.CapacityError
	switch {
	case errors.As(err, &capErr):
		if capErr.Code == lobby.ReasonRoomNotFound {
			return runtime.NewError(capErr.Code, codeNotFound)
		}
		return runtime.NewError(capErr.Code, codeFailedPrecondition)
	case errors.Is(err, lobby.ErrInvalidSize):
		return runtime.NewError(err.Error(), codeInvalidArgument)
	case errors.Is(err, lobby.ErrAlreadyInRoom):
		return runtime.NewError(err.Error(), codeFailedPrecondition)
	default:
		return runtime.NewError(err.Error(), codeInternal)
	}
}

// RpcCreateRoom opens a room hosted by the caller and spawns its match.
//
// Payload: {"name": "...", "max_players": 3|4}
// Returns: {"code": "...", "match_id": "..."}
func (m *Module) RpcCreateRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	uid, err := userID(ctx)
	if err != nil {
		return "", err
	}
	req := CreateRoomRequest{}
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	if req.MaxPlayers == 0 {
		req.MaxPlayers = m.cfg.MaxPlayers
	}

	room, err := m.registry.Create(domain.Seat{PlayerID: uid, Name: req.Name}, req.MaxPlayers)
	if err != nil {
		logger.Warn("RpcCreateRoom [User:%s]: %v", uid, err)
		return "", roomError(err)
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameRamen, map[string]interface{}{ParamRoomCode: room.Code})
	if err != nil {
		logger.Error("RpcCreateRoom [User:%s]: Failed to create match: %v", uid, err)
		if _, lerr := m.registry.Leave(room.Code, uid); lerr != nil {
			logger.Warn("RpcCreateRoom [User:%s]: Rollback failed: %v", uid, lerr)
		}
		return "", runtime.NewError("failed to create match", codeInternal)
	}
	if err := m.registry.AttachMatch(room.Code, matchID); err != nil {
		return "", roomError(err)
	}

	logger.Info("RpcCreateRoom [User:%s]: Created room %s (match %s)", uid, room.Code, matchID)
	return encodeResponse(RoomResponse{Code: room.Code, MatchID: matchID})
}

// RpcJoinRoom seats the caller in a room by code.
//
// Payload: {"code": "ABC123", "name": "..."}
// Returns: {"code": "...", "match_id": "..."}
func (m *Module) RpcJoinRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	uid, err := userID(ctx)
	if err != nil {
		return "", err
	}
	req := JoinRoomRequest{}
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	if req.Code == "" {
		return "", runtime.NewError("room code is required", codeInvalidArgument)
	}

	room, err := m.registry.Join(req.Code, domain.Seat{PlayerID: uid, Name: req.Name})
	if err != nil {
		logger.Info("RpcJoinRoom [User:%s]: Rejected from %s: %v", uid, req.Code, err)
		return "", roomError(err)
	}
	logger.Info("RpcJoinRoom [User:%s]: Joined room %s", uid, room.Code)
	return encodeResponse(RoomResponse{Code: room.Code, MatchID: room.MatchID})
}

// RpcPreviewScore scores a bowl alone, without other players.
func (m *Module) RpcPreviewScore(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	req := PreviewScoreRequest{}
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	character, ok := m.catalog.Character(req.CharacterID)
	if !ok {
		return "", runtime.NewError("unknown character", codeInvalidArgument)
	}
	customers := make([]*catalog.Customer, 0, len(req.Customers))
	for _, id := range req.Customers {
		cu, ok := m.catalog.Customer(id)
		if !ok {
			return "", runtime.NewError("unknown customer "+id, codeInvalidArgument)
		}
		customers = append(customers, cu)
	}

	player := &domain.PlayerState{
		PlayerID:    "preview",
		CharacterID: req.CharacterID,
		Soup:        req.Soup,
		Noodle:      req.Noodle,
		Grid:        req.Grid,
	}
	res, err := m.engine.Calculate(player, character, customers, nil)
	if err != nil {
		return "", runtime.NewError(err.Error(), codeInvalidArgument)
	}
	return encodeResponse(res)
}

// RpcCatalog returns the data tables the server scores with.
func (m *Module) RpcCatalog(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return encodeResponse(m.catalog)
}

// RpcVoiceToken signs voice tokens for the caller's current room.
//
// Returns: {"login_token": "...", "join_token": "...", "channel": "ramen-<code>"}
func (m *Module) RpcVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	uid, err := userID(ctx)
	if err != nil {
		return "", err
	}
	room, ok := m.registry.FindByPlayer(uid)
	if !ok {
		return "", runtime.NewError(lobby.ErrNotInRoom.Error(), codeFailedPrecondition)
	}
	tokens, err := m.voice.RoomTokens(uid, room.Code)
	if err != nil {
		if errors.Is(err, app.ErrVoiceDisabled) {
			return "", runtime.NewError(err.Error(), codeFailedPrecondition)
		}
		logger.Error("RpcVoiceToken [User:%s]: %v", uid, err)
		return "", runtime.NewError("failed to sign voice token", codeInternal)
	}
	return encodeResponse(tokens)
}
