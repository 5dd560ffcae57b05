package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerTournamentRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/tournaments", handler.CreateTournament)
	mux.HandleFunc("GET /v1/tournaments/current", handler.GetCurrentTournament)
	mux.HandleFunc("POST /v1/tournaments/current/matches", handler.RecordMatch)
	mux.HandleFunc("GET /v1/tournaments/current/standings/teams", handler.ListTeamStandings)
	mux.HandleFunc("GET /v1/tournaments/current/standings/players", handler.ListPlayerStandings)
	mux.HandleFunc("POST /v1/tournaments/current/finish", handler.FinishTournament)
}

func registerArchiveRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/archive", handler.ListArchives)
	mux.HandleFunc("GET /v1/archive/{archiveID}", handler.GetArchive)
	mux.HandleFunc("GET /v1/archive/{archiveID}/export", handler.ExportArchive)
}
