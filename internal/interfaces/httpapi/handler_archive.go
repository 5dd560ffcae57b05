package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/matchrota/pickup-tournament/internal/usecase"
)

func (h *Handler) ListArchives(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListArchives")
	defer span.End()

	summaries, err := h.archiveService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list archives failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]archiveSummaryDTO, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, archiveSummaryDTO{
			ID:         summary.ID,
			FinishedAt: summary.FinishedAt,
			PlayedOn:   summary.PlayedOn.Format(dateLayout),
			TeamCount:  summary.TeamCount,
			MatchCount: summary.MatchCount,
			Champion:   int(summary.Champion),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetArchive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetArchive")
	defer span.End()

	archiveID := strings.TrimSpace(r.PathValue("archiveID"))
	if archiveID == "" {
		writeError(ctx, w, fmt.Errorf("%w: archive id is required", usecase.ErrInvalidInput))
		return
	}

	detail, err := h.archiveService.Get(ctx, archiveID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, archiveDetailDTO{
		ID:         detail.Archive.ID,
		FinishedAt: detail.Archive.FinishedAt,
		PlayedOn:   detail.Archive.State.CreatedAt.Format(dateLayout),
		TeamCount:  detail.Archive.State.TeamCount,
		MatchCount: len(detail.Archive.State.History),
		Teams:      teamRowsToDTO(detail.Teams),
		Players:    playerRowsToDTO(detail.Players),
	})
}

func (h *Handler) ExportArchive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportArchive")
	defer span.End()

	archiveID := strings.TrimSpace(r.PathValue("archiveID"))
	if archiveID == "" {
		writeError(ctx, w, fmt.Errorf("%w: archive id is required", usecase.ErrInvalidInput))
		return
	}

	raw, err := h.archiveService.Export(ctx, archiveID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "tournament-"+archiveID+".json"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
