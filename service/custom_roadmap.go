package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/Netcracker/qubership-roadmap-service/repository"
	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/google/uuid"
)

type CustomRoadmapService interface {
	ListCustomRoadmaps(ctx context.Context) ([]view.CustomRoadmap, error)
	GetCustomRoadmap(ctx context.Context, id string) (*view.CustomRoadmap, error)
	CreateCustomRoadmap(ctx context.Context, req view.CustomRoadmapReq) (*view.CustomRoadmap, error)
	UpdateCustomRoadmap(ctx context.Context, id string, req view.CustomRoadmapUpdateReq) (*view.CustomRoadmap, error)
	DeleteCustomRoadmap(ctx context.Context, id string) error
}

func NewCustomRoadmapService(customRoadmapRepo repository.CustomRoadmapRepository) CustomRoadmapService {
	return &customRoadmapServiceImpl{customRoadmapRepo: customRoadmapRepo, now: time.Now}
}

type customRoadmapServiceImpl struct {
	customRoadmapRepo repository.CustomRoadmapRepository
	now               func() time.Time
}

func (c customRoadmapServiceImpl) ListCustomRoadmaps(ctx context.Context) ([]view.CustomRoadmap, error) {
	ents, err := c.customRoadmapRepo.ListCustomRoadmaps(ctx, secctx.GetUserId(ctx))
	if err != nil {
		return nil, err
	}
	result := make([]view.CustomRoadmap, 0, len(ents))
	for _, ent := range ents {
		result = append(result, entity.MakeCustomRoadmapView(ent))
	}
	return result, nil
}

func (c customRoadmapServiceImpl) GetCustomRoadmap(ctx context.Context, id string) (*view.CustomRoadmap, error) {
	ent, err := c.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	res := entity.MakeCustomRoadmapView(*ent)
	return &res, nil
}

func (c customRoadmapServiceImpl) CreateCustomRoadmap(ctx context.Context, req view.CustomRoadmapReq) (*view.CustomRoadmap, error) {
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.ClientId) == "" {
		missing = append(missing, "clientId")
	}
	if len(missing) > 0 {
		return nil, requiredParamsMissing(missing...)
	}
	isCustom := true
	if req.IsCustom != nil {
		isCustom = *req.IsCustom
	}

	now := c.now()
	ent := &entity.CustomRoadmap{
		Id:          uuid.New().String(),
		UserId:      secctx.GetUserId(ctx),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		IsCustom:    isCustom,
		Topics:      prepareCustomTopics(req.Topics),
		ClientId:    req.ClientId,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.customRoadmapRepo.CreateCustomRoadmap(ctx, ent); err != nil {
		return nil, fmt.Errorf("failed to create custom roadmap: %w", err)
	}
	res := entity.MakeCustomRoadmapView(*ent)
	return &res, nil
}

func (c customRoadmapServiceImpl) UpdateCustomRoadmap(ctx context.Context, id string, req view.CustomRoadmapUpdateReq) (*view.CustomRoadmap, error) {
	ent, err := c.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, invalidParam("name", "must not be empty")
		}
		ent.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		ent.Description = *req.Description
	}
	if req.Topics != nil {
		ent.Topics = prepareCustomTopics(*req.Topics)
	}
	ent.UpdatedAt = c.now()
	if err := c.customRoadmapRepo.UpdateCustomRoadmap(ctx, ent); err != nil {
		return nil, fmt.Errorf("failed to update custom roadmap %s: %w", id, err)
	}
	res := entity.MakeCustomRoadmapView(*ent)
	return &res, nil
}

func (c customRoadmapServiceImpl) DeleteCustomRoadmap(ctx context.Context, id string) error {
	deleted, err := c.customRoadmapRepo.DeleteCustomRoadmap(ctx, id, secctx.GetUserId(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete custom roadmap %s: %w", id, err)
	}
	if !deleted {
		return customRoadmapNotFound(id)
	}
	return nil
}

// getOwned hides other users' roadmaps behind a 404.
func (c customRoadmapServiceImpl) getOwned(ctx context.Context, id string) (*entity.CustomRoadmap, error) {
	ent, err := c.customRoadmapRepo.GetCustomRoadmap(ctx, id, secctx.GetUserId(ctx))
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, customRoadmapNotFound(id)
	}
	return ent, nil
}

func prepareCustomTopics(topics []view.CustomTopic) []view.CustomTopic {
	res := make([]view.CustomTopic, 0, len(topics))
	for _, t := range topics {
		if t.Id == "" {
			t.Id = uuid.New().String()
		}
		res = append(res, t)
	}
	return res
}

func customRoadmapNotFound(id string) error {
	return &exception.CustomError{
		Status:  http.StatusNotFound,
		Code:    exception.EntityNotFound,
		Message: exception.EntityNotFoundMsg,
		Params:  map[string]interface{}{"entity": "Custom roadmap", "id": id},
	}
}
