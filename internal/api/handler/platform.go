package handler

import (
	"net/http"

	"github.com/stakeplay/tictactoe-go/internal/api/response"
	"github.com/stakeplay/tictactoe-go/internal/services/platform"
)

// PlatformHandler serves platform-wide statistics
type PlatformHandler struct {
	platform *platform.Service
}

// NewPlatformHandler creates a new platform stats handler
func NewPlatformHandler(svc *platform.Service) *PlatformHandler {
	return &PlatformHandler{platform: svc}
}

// GetStats handles GET /api/v1/stats
func (h *PlatformHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.platform.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlatformStatsFromService(stats))
}

// GetDaily handles GET /api/v1/stats/daily
func (h *PlatformHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", platform.DefaultDays)

	buckets, err := h.platform.Daily(r.Context(), days)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DailyStatsFromService(buckets))
}

// GetWeekly handles GET /api/v1/stats/weekly
func (h *PlatformHandler) GetWeekly(w http.ResponseWriter, r *http.Request) {
	weeks := queryInt(r, "weeks", platform.DefaultWeeks)

	buckets, err := h.platform.Weekly(r.Context(), weeks)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.WeeklyStatsFromService(buckets))
}

// GetMonthly handles GET /api/v1/stats/monthly
func (h *PlatformHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	months := queryInt(r, "months", platform.DefaultMonths)

	buckets, err := h.platform.Monthly(r.Context(), months)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MonthlyStatsFromService(buckets))
}
