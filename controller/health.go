package controller

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/service"
	"github.com/Netcracker/qubership-roadmap-service/view"
)

type HealthController interface {
	HandleLiveRequest(w http.ResponseWriter, r *http.Request)
	HandleReadyRequest(w http.ResponseWriter, r *http.Request)
	HandleHealthRequest(w http.ResponseWriter, r *http.Request)
}

// NewHealthController reports ready once a value is received from readyChan.
func NewHealthController(readyChan chan bool, systemInfoService service.SystemInfoService) HealthController {
	c := &healthControllerImpl{systemInfoService: systemInfoService, now: time.Now}
	go func() {
		for ready := range readyChan {
			c.ready.Store(ready)
		}
	}()
	return c
}

type healthControllerImpl struct {
	systemInfoService service.SystemInfoService
	ready             atomic.Bool
	now               func() time.Time
}

func (h *healthControllerImpl) HandleLiveRequest(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *healthControllerImpl) HandleReadyRequest(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Load() {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *healthControllerImpl) HandleHealthRequest(w http.ResponseWriter, r *http.Request) {
	env := "development"
	if h.systemInfoService.IsProductionMode() {
		env = "production"
	}
	respondWithJson(w, http.StatusOK, view.HealthStatus{
		Status:      "OK",
		Message:     "Server is running",
		Timestamp:   h.now(),
		Environment: env,
	})
}
