package controller

import (
	"fmt"
	"net/http"

	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/service"
	"github.com/Netcracker/qubership-roadmap-service/view"
)

type RoadmapController interface {
	ListRoadmaps(w http.ResponseWriter, r *http.Request)
	GetRoadmap(w http.ResponseWriter, r *http.Request)
	CreateRoadmap(w http.ResponseWriter, r *http.Request)
	UpdateRoadmap(w http.ResponseWriter, r *http.Request)
	DeleteRoadmap(w http.ResponseWriter, r *http.Request)
	AddTopic(w http.ResponseWriter, r *http.Request)
	UpdateTopicProgress(w http.ResponseWriter, r *http.Request)
	UpdateRoadmapProgress(w http.ResponseWriter, r *http.Request)
	GenerateTopicResources(w http.ResponseWriter, r *http.Request)
	ExportRoadmap(w http.ResponseWriter, r *http.Request)
}

func NewRoadmapController(roadmapService service.RoadmapService) RoadmapController {
	return &roadmapControllerImpl{roadmapService: roadmapService}
}

type roadmapControllerImpl struct {
	roadmapService service.RoadmapService
}

func (c roadmapControllerImpl) ListRoadmaps(w http.ResponseWriter, r *http.Request) {
	roadmaps, err := c.roadmapService.ListRoadmaps(secctx.MakeUserContext(r))
	if err != nil {
		respondWithError(w, "Failed to list roadmaps", err)
		return
	}
	respondWithJson(w, http.StatusOK, roadmaps)
}

func (c roadmapControllerImpl) GetRoadmap(w http.ResponseWriter, r *http.Request) {
	id, customErr := getUuidParam(r, "id")
	if customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	roadmap, err := c.roadmapService.GetRoadmap(secctx.MakeUserContext(r), id)
	if err != nil {
		respondWithError(w, "Failed to get roadmap", err)
		return
	}
	respondWithJson(w, http.StatusOK, roadmap)
}

func (c roadmapControllerImpl) CreateRoadmap(w http.ResponseWriter, r *http.Request) {
	var req view.RoadmapReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	roadmap, err := c.roadmapService.CreateRoadmap(secctx.MakeUserContext(r), req)
	if err != nil {
		respondWithError(w, "Failed to create roadmap", err)
		return
	}
	respondWithJson(w, http.StatusCreated, roadmap)
}

func (c roadmapControllerImpl) UpdateRoadmap(w http.ResponseWriter, r *http.Request) {
	id, customErr := getUuidParam(r, "id")
	if customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	var req view.RoadmapUpdateReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	roadmap, err := c.roadmapService.UpdateRoadmap(secctx.MakeUserContext(r), id, req)
	if err != nil {
		respondWithError(w, "Failed to update roadmap", err)
		return
	}
	respondWithJson(w, http.StatusOK, roadmap)
}

func (c roadmapControllerImpl) DeleteRoadmap(w http.ResponseWriter, r *http.Request) {
	id, customErr := getUuidParam(r, "id")
	if customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	if err := c.roadmapService.DeleteRoadmap(secctx.MakeUserContext(r), id); err != nil {
		respondWithError(w, "Failed to delete roadmap", err)
		return
	}
	respondWithJson(w, http.StatusOK, view.MessageResponse{Success: true, Message: "Roadmap deleted successfully"})
}

func (c roadmapControllerImpl) AddTopic(w http.ResponseWriter, r *http.Request) {
	id, customErr := getUuidParam(r, "id")
	if customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	var req view.AddTopicReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	roadmap, err := c.roadmapService.AddTopic(secctx.MakeUserContext(r), id, req)
	if err != nil {
		respondWithError(w, "Failed to add topic", err)
		return
	}
	respondWithJson(w, http.StatusCreated, roadmap)
}

func (c roadmapControllerImpl) UpdateTopicProgress(w http.ResponseWriter, r *http.Request) {
	id, customErr := getUuidParam(r, "id")
	if customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	var req view.TopicProgressReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	roadmap, err := c.roadmapService.UpdateTopicProgress(secctx.MakeUserContext(r), id, getStringParam(r, "topicId"), req)
	if err != nil {
		respondWithError(w, "Failed to update topic progress", err)
		return
	}
	respondWithJson(w, http.StatusOK, roadmap)
}

func (c roadmapControllerImpl) UpdateRoadmapProgress(w http.ResponseWriter, r *http.Request) {
	id, customErr := getUuidParam(r, "id")
	if customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	var req view.RoadmapProgressReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	roadmap, err := c.roadmapService.UpdateRoadmapProgress(secctx.MakeUserContext(r), id, req)
	if err != nil {
		respondWithError(w, "Failed to update roadmap progress", err)
		return
	}
	respondWithJson(w, http.StatusOK, roadmap)
}

func (c roadmapControllerImpl) GenerateTopicResources(w http.ResponseWriter, r *http.Request) {
	id, customErr := getUuidParam(r, "id")
	if customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	topic, err := c.roadmapService.GenerateTopicResources(secctx.MakeUserContext(r), id, getStringParam(r, "topicId"))
	if err != nil {
		respondWithError(w, "Failed to generate topic resources", err)
		return
	}
	respondWithJson(w, http.StatusOK, topic)
}

func (c roadmapControllerImpl) ExportRoadmap(w http.ResponseWriter, r *http.Request) {
	id, customErr := getUuidParam(r, "id")
	if customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	disposition := r.URL.Query().Get("disposition")
	if disposition == "" {
		disposition = "attachment"
	}
	if disposition != "attachment" && disposition != "inline" {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidParameterValue,
			Message: exception.InvalidParameterValueMsg,
			Params:  map[string]interface{}{"param": "disposition", "value": disposition},
		})
		return
	}

	exported, err := c.roadmapService.ExportRoadmap(secctx.MakeUserContext(r), id, r.URL.Query().Get("format"))
	if err != nil {
		respondWithError(w, "Failed to export roadmap", err)
		return
	}
	w.Header().Set("Content-Type", exported.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, exported.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(exported.Data)
}
