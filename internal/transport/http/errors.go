package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeNotFound               = "not_found"
	codeInvalidRequestBody     = "invalid_request_body"
	codeInvalidID              = "invalid_id"
	codeInvalidWindow          = "invalid_window"
	codeWindowOutOfBounds      = "window_out_of_bounds"
	codeInvalidPlayerCount     = "invalid_player_count"
	codeInvalidGameType        = "invalid_game_type"
	codeInvalidCapacity        = "invalid_capacity"
	codeInsufficientCapacity   = "insufficient_capacity"
	codeConcurrentModification = "concurrent_modification"
	codeEventNotFound          = "event_not_found"
	codeEventExpired           = "event_expired"
	codeGameNotFound           = "game_not_found"
	codeGameNotConfirmed       = "game_not_confirmed"
	codeGameFull               = "game_full"
	codeAlreadyJoined          = "already_joined"
	codeNotInGame              = "not_in_game"
	codeHostCannotLeave        = "host_cannot_leave"
	codeGamerNotFound          = "gamer_not_found"
	codePublicanNotFound       = "publican_not_found"
	codePubNameRequired        = "pub_name_required"
	codeGamerIDRequired        = "gamer_id_required"
	codeInternalError          = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}
