package controller

import (
	"net/http"
	"strings"

	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/Netcracker/qubership-roadmap-service/service"
	"github.com/Netcracker/qubership-roadmap-service/view"
)

type CatalogController interface {
	GetTitles(w http.ResponseWriter, r *http.Request)
	MatchTopic(w http.ResponseWriter, r *http.Request)
}

func NewCatalogController(catalogService service.CatalogService) CatalogController {
	return &catalogControllerImpl{catalogService: catalogService}
}

type catalogControllerImpl struct {
	catalogService service.CatalogService
}

func (c catalogControllerImpl) GetTitles(w http.ResponseWriter, r *http.Request) {
	respondWithJson(w, http.StatusOK, c.catalogService.GetTitles())
}

func (c catalogControllerImpl) MatchTopic(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	if topic == "" {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": "topic"},
		})
		return
	}
	respondWithJson(w, http.StatusOK, view.CatalogMatch{
		Topic:    topic,
		Roadmaps: c.catalogService.FindMatchingRoadmaps(topic),
	})
}
