package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ishaanJ91/NiteOut/internal/app"
	"github.com/ishaanJ91/NiteOut/internal/domain"
	"github.com/julienschmidt/httprouter"
)

// GameService is the minimal interface needed for the game lifecycle
// endpoints.
type GameService interface {
	CreateGame(ctx context.Context, in app.CreateGameInput) (domain.Game, error)
	GetGame(ctx context.Context, gameID string) (domain.Game, error)
	ListUpcomingGames(ctx context.Context) ([]domain.Game, error)
	JoinGame(ctx context.Context, gameID, gamerID string) (domain.Game, error)
	LeaveGame(ctx context.Context, gameID, gamerID string) (domain.Game, error)
	CancelGame(ctx context.Context, gameID string) (domain.Game, error)
}

// HandleCreateGame returns a handler that hosts a new game, reserving
// capacity for its whole window.
func HandleCreateGame(svc GameService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req createGameRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.EventID == "" || req.Host == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "event_id and host are required")
			return
		}

		game, err := svc.CreateGame(r.Context(), app.CreateGameInput{
			EventID:    req.EventID,
			Host:       req.Host,
			Name:       req.Name,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
			MaxPlayers: req.MaxPlayers,
		})
		if err != nil {
			writeGameError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toGameResponse(game))
	}
}

// HandleListGames returns a handler listing upcoming confirmed games.
func HandleListGames(svc GameService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		games, err := svc.ListUpcomingGames(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := make([]gameResponse, 0, len(games))
		for _, game := range games {
			resp = append(resp, toGameResponse(game))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleGetGame returns a handler for one game.
func HandleGetGame(svc GameService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		game, err := svc.GetGame(r.Context(), ps.ByName("id"))
		if err != nil {
			writeGameError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toGameResponse(game))
	}
}

// HandleJoinGame returns a handler adding a gamer to a game.
func HandleJoinGame(svc GameService) httprouter.Handle {
	return membershipHandler(svc.JoinGame)
}

// HandleLeaveGame returns a handler removing a gamer from a game.
func HandleLeaveGame(svc GameService) httprouter.Handle {
	return membershipHandler(svc.LeaveGame)
}

// HandleCancelGame returns a handler cancelling a game and releasing its
// reserved capacity.
func HandleCancelGame(svc GameService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		game, err := svc.CancelGame(r.Context(), ps.ByName("id"))
		if err != nil {
			writeGameError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toGameResponse(game))
	}
}

func membershipHandler(op func(ctx context.Context, gameID, gamerID string) (domain.Game, error)) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		var req membershipRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.GamerID == "" {
			writeError(w, http.StatusBadRequest, codeGamerIDRequired, domain.ErrGamerIDRequired.Error())
			return
		}

		game, err := op(r.Context(), ps.ByName("id"), req.GamerID)
		if err != nil {
			writeGameError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toGameResponse(game))
	}
}

func writeGameError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrInvalidWindow:
		writeError(w, http.StatusBadRequest, codeInvalidWindow, err.Error())
	case domain.ErrWindowOutOfBounds:
		writeError(w, http.StatusBadRequest, codeWindowOutOfBounds, err.Error())
	case domain.ErrInvalidPlayerCount:
		writeError(w, http.StatusBadRequest, codeInvalidPlayerCount, err.Error())
	case domain.ErrEventNotFound:
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case domain.ErrGameNotFound:
		writeError(w, http.StatusNotFound, codeGameNotFound, err.Error())
	case domain.ErrGamerNotFound:
		writeError(w, http.StatusNotFound, codeGamerNotFound, err.Error())
	case domain.ErrEventExpired:
		writeError(w, http.StatusConflict, codeEventExpired, err.Error())
	case domain.ErrInsufficientCapacity:
		writeError(w, http.StatusConflict, codeInsufficientCapacity, err.Error())
	case domain.ErrGameNotConfirmed:
		writeError(w, http.StatusConflict, codeGameNotConfirmed, err.Error())
	case domain.ErrGameFull:
		writeError(w, http.StatusConflict, codeGameFull, err.Error())
	case domain.ErrAlreadyJoined:
		writeError(w, http.StatusConflict, codeAlreadyJoined, err.Error())
	case domain.ErrNotInGame:
		writeError(w, http.StatusConflict, codeNotInGame, err.Error())
	case domain.ErrHostCannotLeave:
		writeError(w, http.StatusConflict, codeHostCannotLeave, err.Error())
	case domain.ErrConcurrentModification:
		writeError(w, http.StatusConflict, codeConcurrentModification, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

type createGameRequest struct {
	EventID    string    `json:"event_id"`
	Host       string    `json:"host"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	MaxPlayers int       `json:"max_players"`
}

type membershipRequest struct {
	GamerID string `json:"gamer_id"`
}

type gameResponse struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	Host         string    `json:"host"`
	Name         string    `json:"name,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	MaxPlayers   int       `json:"max_players"`
	Participants []string  `json:"participants"`
	State        string    `json:"state"`
}

func toGameResponse(game domain.Game) gameResponse {
	participants := game.Participants
	if participants == nil {
		participants = []string{}
	}
	return gameResponse{
		ID:           game.ID,
		EventID:      game.EventID,
		Host:         game.Host,
		Name:         game.Name,
		StartTime:    game.StartTime,
		EndTime:      game.EndTime,
		MaxPlayers:   game.MaxPlayers,
		Participants: participants,
		State:        string(game.State),
	}
}
