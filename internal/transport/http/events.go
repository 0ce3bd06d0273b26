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

// EventCreator is the minimal interface needed to publish an event.
type EventCreator interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
}

// EventReader is the minimal interface needed to read events.
type EventReader interface {
	GetEvent(ctx context.Context, eventID string) (app.EventAvailability, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

// HandleCreateEvent returns a handler for publishing an event.
func HandleCreateEvent(svc EventCreator) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req createEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
			PubID:         req.PubID,
			GameType:      domain.GameType(req.GameType),
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			Expires:       req.Expires,
			NumSeats:      req.NumSeats,
			NumTables:     req.NumTables,
			TableCapacity: req.TableCapacity,
		})
		if err != nil {
			switch err {
			case domain.ErrInvalidGameType:
				writeError(w, http.StatusBadRequest, codeInvalidGameType, err.Error())
			case domain.ErrInvalidCapacity:
				writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
			case domain.ErrInvalidWindow:
				writeError(w, http.StatusBadRequest, codeInvalidWindow, err.Error())
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrPublicanNotFound:
				writeError(w, http.StatusNotFound, codePublicanNotFound, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toEventResponse(event))
	}
}

// HandleListEvents returns a handler listing every published event.
func HandleListEvents(svc EventReader) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		events, err := svc.ListEvents(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := make([]eventResponse, 0, len(events))
		for _, event := range events {
			resp = append(resp, toEventResponse(event))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleGetEvent returns a handler for one event with per-slot availability.
func HandleGetEvent(svc EventReader) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		availability, err := svc.GetEvent(r.Context(), ps.ByName("id"))
		if err != nil {
			switch err {
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrEventNotFound:
				writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		resp := toEventResponse(availability.Event)
		resp.AvailableSlots = availability.AvailableSlots
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type createEventRequest struct {
	PubID         string    `json:"pub_id"`
	GameType      string    `json:"game_type"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Expires       time.Time `json:"expires"`
	NumSeats      int       `json:"num_seats"`
	NumTables     int       `json:"num_tables"`
	TableCapacity int       `json:"table_capacity"`
}

type eventResponse struct {
	ID             string         `json:"id"`
	PubID          string         `json:"pub_id"`
	GameType       string         `json:"game_type"`
	StartTime      time.Time      `json:"start_time"`
	EndTime        time.Time      `json:"end_time"`
	Expires        time.Time      `json:"expires"`
	NumSeats       int            `json:"num_seats,omitempty"`
	NumTables      int            `json:"num_tables,omitempty"`
	TableCapacity  int            `json:"table_capacity,omitempty"`
	AvailableSlots map[string]int `json:"available_slots,omitempty"`
}

func toEventResponse(event domain.Event) eventResponse {
	return eventResponse{
		ID:            event.ID,
		PubID:         event.PubID,
		GameType:      string(event.GameType),
		StartTime:     event.StartTime,
		EndTime:       event.EndTime,
		Expires:       event.Expires,
		NumSeats:      event.NumSeats,
		NumTables:     event.NumTables,
		TableCapacity: event.TableCapacity,
	}
}
