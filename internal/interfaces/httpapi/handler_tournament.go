package httpapi

import (
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/matchrota/pickup-tournament/internal/domain/match"
	"github.com/matchrota/pickup-tournament/internal/usecase"
)

func (h *Handler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTournament")
	defer span.End()

	var req createTournamentRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rosters, err := parseRosters(req.Rosters)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.CreateInput{
		TeamCount:  req.TeamCount,
		Rosters:    rosters,
		PlayerPool: req.PlayerPool,
	}
	if len(req.Opening) == 2 {
		input.Opening = [2]match.TeamID{match.TeamID(req.Opening[0]), match.TeamID(req.Opening[1])}
	}

	state, err := h.tournamentService.Create(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "create tournament failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, tournamentToDTO(ctx, state))
}

func (h *Handler) GetCurrentTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentTournament")
	defer span.End()

	state, err := h.tournamentService.Get(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentToDTO(ctx, state))
}

func (h *Handler) RecordMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordMatch")
	defer span.End()

	var req recordMatchRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.tournamentService.RecordMatch(ctx, usecase.RecordMatchInput{
		HomeTeam:      match.TeamID(req.HomeTeam),
		AwayTeam:      match.TeamID(req.AwayTeam),
		HomeScore:     req.HomeScore,
		AwayScore:     req.AwayScore,
		Scorers:       req.Scorers,
		Assists:       req.Assists,
		Substitutions: req.Substitutions,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record match failed", "home", req.HomeTeam, "away", req.AwayTeam, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentToDTO(ctx, state))
}

func (h *Handler) FinishTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinishTournament")
	defer span.End()

	archive, err := h.tournamentService.Finish(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "finish tournament failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, archiveSummaryDTO{
		ID:         archive.ID,
		FinishedAt: archive.FinishedAt,
		PlayedOn:   archive.State.CreatedAt.Format(dateLayout),
		TeamCount:  archive.State.TeamCount,
		MatchCount: len(archive.State.History),
	})
}
