package controller

import (
	"net/http"

	"github.com/Netcracker/qubership-roadmap-service/client"
	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/service"
	"github.com/Netcracker/qubership-roadmap-service/view"
	log "github.com/sirupsen/logrus"
)

type LLMTuningController interface {
	GetMetrics(w http.ResponseWriter, r *http.Request)
	UpdateModel(w http.ResponseWriter, r *http.Request)
}

func NewLLMTuningController(llmClient client.LLMClient, authorizationService service.AuthorizationService) LLMTuningController {
	return &llmTuningControllerImpl{llmClient: llmClient, authorizationService: authorizationService}
}

type llmTuningControllerImpl struct {
	llmClient            client.LLMClient
	authorizationService service.AuthorizationService
}

func (l llmTuningControllerImpl) GetMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := secctx.MakeUserContext(r)
	if !l.authorizationService.IsAdmin(ctx) {
		RespondWithCustomError(w, forbidden())
		return
	}
	respondWithJson(w, http.StatusOK, l.llmClient.GetMetrics())
}

func (l llmTuningControllerImpl) UpdateModel(w http.ResponseWriter, r *http.Request) {
	ctx := secctx.MakeUserContext(r)
	if !l.authorizationService.IsAdmin(ctx) {
		RespondWithCustomError(w, forbidden())
		return
	}

	var req view.UpdateModelReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}

	err := l.llmClient.UpdateModel(req.Model)
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidParameter,
			Message: exception.InvalidParameterMsg,
			Params:  map[string]interface{}{"param": "model", "reason": err.Error()},
		})
		return
	}
	log.Infof("LLM model changed to %s by user %s", req.Model, secctx.GetUserId(ctx))
	respondWithJson(w, http.StatusOK, view.UpdateModelReq{Model: l.llmClient.GetModel()})
}
