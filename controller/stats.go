package controller

import (
	"net/http"

	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/service"
)

type StatsController interface {
	GetUserStats(w http.ResponseWriter, r *http.Request)
}

func NewStatsController(statsService service.StatsService) StatsController {
	return &statsControllerImpl{statsService: statsService}
}

type statsControllerImpl struct {
	statsService service.StatsService
}

func (s statsControllerImpl) GetUserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsService.GetUserStats(secctx.MakeUserContext(r))
	if err != nil {
		respondWithError(w, "Failed to get user stats", err)
		return
	}
	respondWithJson(w, http.StatusOK, stats)
}
