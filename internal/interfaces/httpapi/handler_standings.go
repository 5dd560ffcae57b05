package httpapi

import "net/http"

func (h *Handler) ListTeamStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamStandings")
	defer span.End()

	rows, err := h.standingsService.TeamStandings(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamRowsToDTO(rows))
}

func (h *Handler) ListPlayerStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerStandings")
	defer span.End()

	rows, err := h.standingsService.PlayerStandings(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerRowsToDTO(rows))
}
