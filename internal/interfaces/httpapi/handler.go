package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/matchrota/pickup-tournament/internal/domain/match"
	"github.com/matchrota/pickup-tournament/internal/domain/standings"
	"github.com/matchrota/pickup-tournament/internal/domain/tournament"
	"github.com/matchrota/pickup-tournament/internal/platform/logging"
	"github.com/matchrota/pickup-tournament/internal/usecase"
)

const dateLayout = "2006-01-02"

type Handler struct {
	tournamentService *usecase.TournamentService
	standingsService  *usecase.StandingsService
	archiveService    *usecase.ArchiveService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	tournamentService *usecase.TournamentService,
	standingsService *usecase.StandingsService,
	archiveService *usecase.ArchiveService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		tournamentService: tournamentService,
		standingsService:  standingsService,
		archiveService:    archiveService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type createTournamentRequest struct {
	TeamCount  int                 `json:"team_count" validate:"required,min=2,max=8"`
	Rosters    map[string][]string `json:"rosters" validate:"omitempty,dive,dive,required"`
	PlayerPool []string            `json:"player_pool" validate:"omitempty,dive,required"`
	Opening    []int               `json:"opening" validate:"omitempty,len=2,dive,min=1"`
}

type recordMatchRequest struct {
	HomeTeam      int               `json:"home_team" validate:"required,min=1"`
	AwayTeam      int               `json:"away_team" validate:"required,min=1"`
	HomeScore     int               `json:"home_score" validate:"min=0"`
	AwayScore     int               `json:"away_score" validate:"min=0"`
	Scorers       []string          `json:"scorers" validate:"omitempty,dive,required"`
	Assists       []string          `json:"assists" validate:"omitempty,dive,required"`
	Substitutions map[string]string `json:"substitutions" validate:"omitempty,dive,required"`
}

type tournamentDTO struct {
	Date           string              `json:"date"`
	TeamCount      int                 `json:"team_count"`
	Rosters        map[string][]string `json:"rosters"`
	CurrentMatch   [2]int              `json:"current_match"`
	RestingTeams   []int               `json:"resting_teams"`
	SubstitutePool []string            `json:"substitute_pool"`
	Streak         map[string]int      `json:"streak"`
	MatchCount     int                 `json:"match_count"`
}

type teamRowDTO struct {
	TeamID       int `json:"team_id"`
	Played       int `json:"played"`
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
	GoalDiff     int `json:"goal_diff"`
	Points       int `json:"points"`
}

type playerRowDTO struct {
	Name    string `json:"name"`
	Played  int    `json:"played"`
	Wins    int    `json:"wins"`
	Draws   int    `json:"draws"`
	Losses  int    `json:"losses"`
	Goals   int    `json:"goals"`
	Assists int    `json:"assists"`
	Rating  int    `json:"rating"`
}

type archiveSummaryDTO struct {
	ID         string    `json:"id"`
	FinishedAt time.Time `json:"finished_at"`
	PlayedOn   string    `json:"played_on"`
	TeamCount  int       `json:"team_count"`
	MatchCount int       `json:"match_count"`
	Champion   int       `json:"champion,omitempty"`
}

type archiveDetailDTO struct {
	ID         string         `json:"id"`
	FinishedAt time.Time      `json:"finished_at"`
	PlayedOn   string         `json:"played_on"`
	TeamCount  int            `json:"team_count"`
	MatchCount int            `json:"match_count"`
	Teams      []teamRowDTO   `json:"teams"`
	Players    []playerRowDTO `json:"players"`
}

func tournamentToDTO(ctx context.Context, state *tournament.State) tournamentDTO {
	_, span := startSpan(ctx, "httpapi.tournamentToDTO")
	defer span.End()

	dto := tournamentDTO{
		Date:         state.CreatedAt.Format(dateLayout),
		TeamCount:    state.TeamCount,
		Rosters:      make(map[string][]string, len(state.Rosters)),
		CurrentMatch: [2]int{int(state.CurrentMatch[0]), int(state.CurrentMatch[1])},
		Streak:       make(map[string]int, len(state.Streak)),
		MatchCount:   len(state.History),
	}
	for id, roster := range state.Rosters {
		dto.Rosters[strconv.Itoa(int(id))] = append([]string(nil), roster...)
	}
	for id, n := range state.Streak {
		dto.Streak[strconv.Itoa(int(id))] = n
	}
	dto.RestingTeams = make([]int, 0, state.TeamCount-2)
	for _, id := range state.RestingTeams() {
		dto.RestingTeams = append(dto.RestingTeams, int(id))
	}
	dto.SubstitutePool = state.SubstitutePool()
	return dto
}

func teamRowsToDTO(rows []standings.TeamRow) []teamRowDTO {
	out := make([]teamRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamRowDTO{
			TeamID:       int(row.TeamID),
			Played:       row.Played,
			Wins:         row.Wins,
			Draws:        row.Draws,
			Losses:       row.Losses,
			GoalsFor:     row.GoalsFor,
			GoalsAgainst: row.GoalsAgainst,
			GoalDiff:     row.GoalDiff,
			Points:       row.Points,
		})
	}
	return out
}

func playerRowsToDTO(rows []standings.PlayerRow) []playerRowDTO {
	out := make([]playerRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerRowDTO{
			Name:    row.Name,
			Played:  row.Played,
			Wins:    row.Wins,
			Draws:   row.Draws,
			Losses:  row.Losses,
			Goals:   row.Goals,
			Assists: row.Assists,
			Rating:  row.Rating,
		})
	}
	return out
}

func parseRosters(raw map[string][]string) (map[match.TeamID][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[match.TeamID][]string, len(raw))
	for key, names := range raw {
		id, err := strconv.Atoi(key)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("%w: invalid team id %q", usecase.ErrInvalidInput, key)
		}
		out[match.TeamID(id)] = names
	}
	return out, nil
}
