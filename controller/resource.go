package controller

import (
	"net/http"
	"strings"

	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/service"
	"github.com/Netcracker/qubership-roadmap-service/view"
)

type ResourceController interface {
	FindForTechnology(w http.ResponseWriter, r *http.Request)
	Discover(w http.ResponseWriter, r *http.Request)
	Cache(w http.ResponseWriter, r *http.Request)
	Cleanup(w http.ResponseWriter, r *http.Request)
	UpdateShared(w http.ResponseWriter, r *http.Request)
}

func NewResourceController(resourceService service.ResourceService) ResourceController {
	return &resourceControllerImpl{resourceService: resourceService}
}

type resourceControllerImpl struct {
	resourceService service.ResourceService
}

func (c resourceControllerImpl) FindForTechnology(w http.ResponseWriter, r *http.Request) {
	technology := strings.TrimSpace(r.URL.Query().Get("technology"))
	limit, customErr := getIntQueryParam(r, "limit", 0)
	if customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	refresh, customErr := getBoolQueryParam(r, "refresh")
	if customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	res, err := c.resourceService.FindForTechnology(secctx.MakeUserContext(r), technology, limit, refresh)
	if err != nil {
		respondWithError(w, "Failed to find learning resources", err)
		return
	}
	respondWithJson(w, http.StatusOK, res)
}

func (c resourceControllerImpl) Discover(w http.ResponseWriter, r *http.Request) {
	var req view.DiscoverReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	res, err := c.resourceService.Discover(secctx.MakeUserContext(r), req)
	if err != nil {
		respondWithError(w, "Failed to discover learning resources", err)
		return
	}
	respondWithJson(w, http.StatusOK, res)
}

func (c resourceControllerImpl) Cache(w http.ResponseWriter, r *http.Request) {
	var req view.LearningResource
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	res, err := c.resourceService.Cache(secctx.MakeUserContext(r), req)
	if err != nil {
		respondWithError(w, "Failed to cache learning resource", err)
		return
	}
	respondWithJson(w, http.StatusOK, res)
}

func (c resourceControllerImpl) Cleanup(w http.ResponseWriter, r *http.Request) {
	res, err := c.resourceService.Cleanup(secctx.MakeUserContext(r))
	if err != nil {
		respondWithError(w, "Failed to clean up learning resources", err)
		return
	}
	respondWithJson(w, http.StatusOK, res)
}

func (c resourceControllerImpl) UpdateShared(w http.ResponseWriter, r *http.Request) {
	var req view.UpdateSharedReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	if err := c.resourceService.UpdateShared(secctx.MakeUserContext(r), req); err != nil {
		respondWithError(w, "Failed to update shared learning resource", err)
		return
	}
	respondWithJson(w, http.StatusOK, view.MessageResponse{Success: true, Message: "Resource updated successfully"})
}
