package controller

import (
	"net/http"

	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/service"
	"github.com/Netcracker/qubership-roadmap-service/view"
)

type CustomRoadmapController interface {
	ListCustomRoadmaps(w http.ResponseWriter, r *http.Request)
	GetCustomRoadmap(w http.ResponseWriter, r *http.Request)
	CreateCustomRoadmap(w http.ResponseWriter, r *http.Request)
	UpdateCustomRoadmap(w http.ResponseWriter, r *http.Request)
	DeleteCustomRoadmap(w http.ResponseWriter, r *http.Request)
}

func NewCustomRoadmapController(customRoadmapService service.CustomRoadmapService) CustomRoadmapController {
	return &customRoadmapControllerImpl{customRoadmapService: customRoadmapService}
}

type customRoadmapControllerImpl struct {
	customRoadmapService service.CustomRoadmapService
}

func (c customRoadmapControllerImpl) ListCustomRoadmaps(w http.ResponseWriter, r *http.Request) {
	roadmaps, err := c.customRoadmapService.ListCustomRoadmaps(secctx.MakeUserContext(r))
	if err != nil {
		respondWithError(w, "Failed to list custom roadmaps", err)
		return
	}
	respondWithJson(w, http.StatusOK, roadmaps)
}

func (c customRoadmapControllerImpl) GetCustomRoadmap(w http.ResponseWriter, r *http.Request) {
	roadmap, err := c.customRoadmapService.GetCustomRoadmap(secctx.MakeUserContext(r), getStringParam(r, "id"))
	if err != nil {
		respondWithError(w, "Failed to get custom roadmap", err)
		return
	}
	respondWithJson(w, http.StatusOK, roadmap)
}

func (c customRoadmapControllerImpl) CreateCustomRoadmap(w http.ResponseWriter, r *http.Request) {
	var req view.CustomRoadmapReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	roadmap, err := c.customRoadmapService.CreateCustomRoadmap(secctx.MakeUserContext(r), req)
	if err != nil {
		respondWithError(w, "Failed to create custom roadmap", err)
		return
	}
	respondWithJson(w, http.StatusCreated, roadmap)
}

func (c customRoadmapControllerImpl) UpdateCustomRoadmap(w http.ResponseWriter, r *http.Request) {
	var req view.CustomRoadmapUpdateReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	roadmap, err := c.customRoadmapService.UpdateCustomRoadmap(secctx.MakeUserContext(r), getStringParam(r, "id"), req)
	if err != nil {
		respondWithError(w, "Failed to update custom roadmap", err)
		return
	}
	respondWithJson(w, http.StatusOK, roadmap)
}

func (c customRoadmapControllerImpl) DeleteCustomRoadmap(w http.ResponseWriter, r *http.Request) {
	if err := c.customRoadmapService.DeleteCustomRoadmap(secctx.MakeUserContext(r), getStringParam(r, "id")); err != nil {
		respondWithError(w, "Failed to delete custom roadmap", err)
		return
	}
	respondWithJson(w, http.StatusOK, view.MessageResponse{Success: true, Message: "Custom roadmap deleted successfully"})
}
