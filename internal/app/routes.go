package app

import (
	"github.com/vancomm/minesweeper-gym/internal/handlers"
)

func (a *App) loadRoutes() {
	action := handlers.NewActionHandler(a.logger, a.dispatcher, a.ws)
	stats := handlers.NewStatsHandler(a.logger, a.stats)

	a.router.HandleFunc("GET "+a.basePath+"/healthz", handlers.Health)
	a.router.HandleFunc("GET "+a.basePath+"/v1/actions", action.List)
	a.router.HandleFunc("POST "+a.basePath+"/v1/actions/{name}", action.Call)
	a.router.HandleFunc("GET "+a.basePath+"/v1/board", action.Board)
	a.router.HandleFunc("GET "+a.basePath+"/v1/board.txt", action.BoardText)
	a.router.HandleFunc("GET "+a.basePath+"/v1/stats", stats.Get)
	a.router.HandleFunc("GET "+a.basePath+"/v1/connect", action.Connect)
}
