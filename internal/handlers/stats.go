package handlers

import (
	"net/http"

	"flashdeck-backend/internal/middleware"
	"flashdeck-backend/internal/services"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) Totals(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	totals, err := h.statsService.Totals(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch totals", r))
		return
	}

	writeJSON(w, http.StatusOK, totals)
}

func (h *StatsHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	buckets, err := h.statsService.WeeklyTrend(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch weekly trend", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"weeks": buckets})
}

func (h *StatsHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	entries, err := h.statsService.Ranking(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch ranking", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ranking": entries})
}
