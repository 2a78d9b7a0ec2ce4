package stats

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielk69/AWIL/app/api"
	"github.com/danielk69/AWIL/models"
)

// Entry reports one node's distinct-name count. Share is a percentage with
// exactly two decimals, e.g. "33.33".
type Entry struct {
	ID        uint   `json:"id"`
	Label     string `json:"label"`
	NameCount int64  `json:"name_count"`
	Share     string `json:"share"`
}

type Response struct {
	Total   int64   `json:"total"`
	Entries []Entry `json:"entries"`
}

type StatsProvider interface {
	ThemeDistribution(ctx context.Context) ([]models.Distribution, error)
	SubthemeDistribution(ctx context.Context, themeID uint) ([]models.Distribution, error)
}

type StatsHandler struct {
	repo   StatsProvider
	logger *zap.Logger
}

func NewStatsHandler(r StatsProvider, logger *zap.Logger) *StatsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsHandler{repo: r, logger: logger}
}

func (h *StatsHandler) HandleThemes(w http.ResponseWriter, r *http.Request) {
	rows, err := h.repo.ThemeDistribution(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute theme distribution", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(rows))
}

func (h *StatsHandler) HandleTheme(w http.ResponseWriter, r *http.Request) {
	themeID, ok := api.PathID(r, "themeId")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "invalid theme id")
		return
	}

	rows, err := h.repo.SubthemeDistribution(r.Context(), themeID)
	if errors.Is(err, models.ErrNotFound) {
		api.WriteError(w, http.StatusNotFound, "Theme not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to compute subtheme distribution", zap.Uint("theme_id", themeID), zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(rows))
}

func toResponse(rows []models.Distribution) Response {
	resp := Response{Entries: make([]Entry, len(rows))}
	for i, row := range rows {
		resp.Total += row.NameCount
		resp.Entries[i] = Entry{
			ID:        row.ID,
			Label:     row.Label,
			NameCount: row.NameCount,
			Share:     row.Share.StringFixed(2),
		}
	}
	return resp
}
