package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ishaanJ91/NiteOut/internal/app"
	"github.com/ishaanJ91/NiteOut/internal/domain"
	"github.com/julienschmidt/httprouter"
)

// GamerService is the minimal interface needed for registration and
// profile endpoints.
type GamerService interface {
	RegisterGamer(ctx context.Context, in app.RegisterGamerInput) (domain.Gamer, error)
	GetProfile(ctx context.Context, gamerID string) (app.GamerProfile, error)
	RegisterPublican(ctx context.Context, in app.RegisterPublicanInput) (domain.Publican, error)
}

// HandleRegisterGamer returns a handler storing a gamer record.
func HandleRegisterGamer(svc GamerService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req registerGamerRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		gamer, err := svc.RegisterGamer(r.Context(), app.RegisterGamerInput{
			ID:    req.ID,
			Email: req.Email,
			Name:  req.Name,
		})
		if err != nil {
			switch err {
			case domain.ErrGamerIDRequired:
				writeError(w, http.StatusBadRequest, codeGamerIDRequired, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(gamerResponse{
			ID:    gamer.ID,
			Email: gamer.Email,
			Name:  gamer.Name,
		})
	}
}

// HandleGetGamer returns a handler for a gamer profile with hosted and
// joined game references.
func HandleGetGamer(svc GamerService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		profile, err := svc.GetProfile(r.Context(), ps.ByName("id"))
		if err != nil {
			switch err {
			case domain.ErrGamerNotFound:
				writeError(w, http.StatusNotFound, codeGamerNotFound, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		hosted := profile.HostedGames
		if hosted == nil {
			hosted = []string{}
		}
		joined := profile.JoinedGames
		if joined == nil {
			joined = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(profileResponse{
			ID:          profile.Gamer.ID,
			Email:       profile.Gamer.Email,
			Name:        profile.Gamer.Name,
			HostedGames: hosted,
			JoinedGames: joined,
		})
	}
}

// HandleRegisterPublican returns a handler registering a pub operator.
func HandleRegisterPublican(svc GamerService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req registerPublicanRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		publican, err := svc.RegisterPublican(r.Context(), app.RegisterPublicanInput{
			PubName: req.PubName,
		})
		if err != nil {
			switch err {
			case domain.ErrPubNameRequired:
				writeError(w, http.StatusBadRequest, codePubNameRequired, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(publicanResponse{
			ID:      publican.ID,
			PubName: publican.PubName,
		})
	}
}

type registerGamerRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type gamerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type profileResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	HostedGames []string `json:"hosted_games"`
	JoinedGames []string `json:"joined_games"`
}

type registerPublicanRequest struct {
	PubName string `json:"pub_name"`
}

type publicanResponse struct {
	ID      string `json:"id"`
	PubName string `json:"pub_name"`
}
