package controller

import (
	"net/http"

	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/service"
	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/google/uuid"
)

type GenerationController interface {
	ValidateTopic(w http.ResponseWriter, r *http.Request)
	GenerateQuestions(w http.ResponseWriter, r *http.Request)
	ValidateAndGenerateQuestions(w http.ResponseWriter, r *http.Request)
	GenerateRoadmap(w http.ResponseWriter, r *http.Request)
	CreateGenerationTask(w http.ResponseWriter, r *http.Request)
	GetGenerationTask(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
	PutSession(w http.ResponseWriter, r *http.Request)
	DeleteSession(w http.ResponseWriter, r *http.Request)
}

func NewGenerationController(generationService service.GenerationService, taskService service.GenerationTaskService,
	sessionStore service.SessionStore) GenerationController {
	return &generationControllerImpl{
		generationService: generationService,
		taskService:       taskService,
		sessionStore:      sessionStore,
	}
}

type generationControllerImpl struct {
	generationService service.GenerationService
	taskService       service.GenerationTaskService
	sessionStore      service.SessionStore
}

func (g generationControllerImpl) ValidateTopic(w http.ResponseWriter, r *http.Request) {
	var req view.TopicReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	res, err := g.generationService.ValidateTopic(secctx.MakeUserContext(r), req.Topic)
	if err != nil {
		respondWithError(w, "Failed to validate topic", err)
		return
	}
	respondWithJson(w, http.StatusOK, res)
}

func (g generationControllerImpl) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req view.TopicReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	res, err := g.generationService.GenerateQuestions(secctx.MakeUserContext(r), req.Topic)
	if err != nil {
		respondWithError(w, "Failed to generate questions", err)
		return
	}
	respondWithJson(w, http.StatusOK, res)
}

func (g generationControllerImpl) ValidateAndGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req view.TopicReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	res, err := g.generationService.ValidateAndGenerateQuestions(secctx.MakeUserContext(r), req.Topic)
	if err != nil {
		respondWithError(w, "Failed to validate topic and generate questions", err)
		return
	}
	respondWithJson(w, http.StatusOK, res)
}

func (g generationControllerImpl) GenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	var req view.GenerationReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	res, err := g.generationService.GenerateRoadmap(secctx.MakeUserContext(r), req)
	if err != nil {
		respondWithError(w, "Failed to generate roadmap", err)
		return
	}
	respondWithJson(w, http.StatusOK, res)
}

func (g generationControllerImpl) CreateGenerationTask(w http.ResponseWriter, r *http.Request) {
	var req view.GenerationReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	task, err := g.taskService.CreateTask(secctx.MakeUserContext(r), req)
	if err != nil {
		respondWithError(w, "Failed to create generation task", err)
		return
	}
	respondWithJson(w, http.StatusAccepted, task)
}

func (g generationControllerImpl) GetGenerationTask(w http.ResponseWriter, r *http.Request) {
	taskId := getStringParam(r, "taskId")
	if _, err := uuid.Parse(taskId); err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidParameterValue,
			Message: exception.InvalidParameterValueMsg,
			Params:  map[string]interface{}{"param": "taskId", "value": taskId},
		})
		return
	}
	task, err := g.taskService.GetTask(secctx.MakeUserContext(r), taskId)
	if err != nil {
		respondWithError(w, "Failed to get generation task", err)
		return
	}
	respondWithJson(w, http.StatusOK, task)
}

func (g generationControllerImpl) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := secctx.MakeUserContext(r)
	session, err := g.sessionStore.GetSession(ctx, secctx.GetUserId(ctx))
	if err != nil {
		respondWithError(w, "Failed to get generation session", err)
		return
	}
	respondWithJson(w, http.StatusOK, session)
}

func (g generationControllerImpl) PutSession(w http.ResponseWriter, r *http.Request) {
	var req view.GenerationSession
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	ctx := secctx.MakeUserContext(r)
	session, err := g.sessionStore.PutSession(ctx, secctx.GetUserId(ctx), req)
	if err != nil {
		respondWithError(w, "Failed to save generation session", err)
		return
	}
	respondWithJson(w, http.StatusOK, session)
}

func (g generationControllerImpl) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := secctx.MakeUserContext(r)
	if err := g.sessionStore.DeleteSession(ctx, secctx.GetUserId(ctx)); err != nil {
		respondWithError(w, "Failed to delete generation session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
