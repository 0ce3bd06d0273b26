package http

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// EventService bundles the event endpoints' dependencies.
type EventService interface {
	EventCreator
	EventReader
}

// NewRouter wires every API route. Unknown paths get the JSON 404.
func NewRouter(events EventService, games GameService, gamers GamerService) *httprouter.Router {
	router := httprouter.New()
	router.NotFound = NotFoundHandler()

	router.HandlerFunc(http.MethodGet, "/health", HealthHandler)

	router.POST("/api/publicans", HandleRegisterPublican(gamers))
	router.POST("/api/gamers", HandleRegisterGamer(gamers))
	router.GET("/api/gamers/:id", HandleGetGamer(gamers))

	router.POST("/api/events", HandleCreateEvent(events))
	router.GET("/api/events", HandleListEvents(events))
	router.GET("/api/events/:id", HandleGetEvent(events))

	router.POST("/api/games", HandleCreateGame(games))
	router.GET("/api/games", HandleListGames(games))
	router.GET("/api/games/:id", HandleGetGame(games))
	router.POST("/api/games/:id/join", HandleJoinGame(games))
	router.POST("/api/games/:id/leave", HandleLeaveGame(games))
	router.POST("/api/games/:id/cancel", HandleCancelGame(games))

	return router
}
