package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ishaanJ91/NiteOut/internal/app"
	"github.com/ishaanJ91/NiteOut/internal/domain"
	"github.com/julienschmidt/httprouter"
)

type stubGamerService struct {
	gamer    domain.Gamer
	profile  app.GamerProfile
	publican domain.Publican
	err      error
}

func (s *stubGamerService) RegisterGamer(context.Context, app.RegisterGamerInput) (domain.Gamer, error) {
	return s.gamer, s.err
}

func (s *stubGamerService) GetProfile(context.Context, string) (app.GamerProfile, error) {
	return s.profile, s.err
}

func (s *stubGamerService) RegisterPublican(context.Context, app.RegisterPublicanInput) (domain.Publican, error) {
	return s.publican, s.err
}

func TestHandleRegisterGamer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"id":"auth0|abc","email":"ada@example.com","name":"Ada"}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"id":"auth0|abc"`,
		},
		{
			name:           "invalid json",
			body:           `{"id":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing id",
			body:           `{"name":"Ada"}`,
			serviceErr:     domain.ErrGamerIDRequired,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"gamer_id_required"`,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			handler := HandleRegisterGamer(&stubGamerService{
				gamer: domain.Gamer{ID: "auth0|abc", Email: "ada@example.com", Name: "Ada"},
				err:   tc.serviceErr,
			})
			req := httptest.NewRequest(http.MethodPost, "/api/gamers", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			handler(rec, req, nil)

			if rec.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.expectedStatus, rec.Code, rec.Body.String())
			}
			if tc.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tc.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %s", tc.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleGetGamer(t *testing.T) {
	t.Parallel()

	t.Run("returns profile with game references", func(t *testing.T) {
		handler := HandleGetGamer(&stubGamerService{profile: app.GamerProfile{
			Gamer:       domain.Gamer{ID: "gamer-1", Name: "Ada"},
			HostedGames: []string{"game-1"},
			JoinedGames: []string{"game-2"},
		}})
		req := httptest.NewRequest(http.MethodGet, "/api/gamers/gamer-1", nil)
		rec := httptest.NewRecorder()

		handler(rec, req, httprouter.Params{{Key: "id", Value: "gamer-1"}})

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `"hosted_games":["game-1"]`) || !strings.Contains(body, `"joined_games":["game-2"]`) {
			t.Fatalf("expected game references, got %s", body)
		}
	})

	t.Run("empty references render as arrays", func(t *testing.T) {
		handler := HandleGetGamer(&stubGamerService{profile: app.GamerProfile{
			Gamer: domain.Gamer{ID: "gamer-1"},
		}})
		req := httptest.NewRequest(http.MethodGet, "/api/gamers/gamer-1", nil)
		rec := httptest.NewRecorder()

		handler(rec, req, httprouter.Params{{Key: "id", Value: "gamer-1"}})

		if !strings.Contains(rec.Body.String(), `"hosted_games":[]`) {
			t.Fatalf("expected empty array, got %s", rec.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		handler := HandleGetGamer(&stubGamerService{err: domain.ErrGamerNotFound})
		req := httptest.NewRequest(http.MethodGet, "/api/gamers/missing", nil)
		rec := httptest.NewRecorder()

		handler(rec, req, httprouter.Params{{Key: "id", Value: "missing"}})

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestHandleRegisterPublican(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"pub_name":"The Crown"}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"pub_name":"The Crown"`,
		},
		{
			name:           "missing pub name",
			body:           `{}`,
			serviceErr:     domain.ErrPubNameRequired,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"pub_name_required"`,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			handler := HandleRegisterPublican(&stubGamerService{
				publican: domain.Publican{ID: "pub-123", PubName: "The Crown"},
				err:      tc.serviceErr,
			})
			req := httptest.NewRequest(http.MethodPost, "/api/publicans", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			handler(rec, req, nil)

			if rec.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.expectedStatus, rec.Code, rec.Body.String())
			}
			if tc.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tc.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %s", tc.expectedSubstr, rec.Body.String())
			}
		})
	}
}
