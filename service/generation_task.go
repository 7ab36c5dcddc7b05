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
	log "github.com/sirupsen/logrus"
)

type GenerationTaskService interface {
	CreateTask(ctx context.Context, req view.GenerationReq) (*view.GenerationTask, error)
	GetTask(ctx context.Context, taskId string) (*view.GenerationTask, error)
}

func NewGenerationTaskService(taskRepo repository.GenerationTaskRepository) GenerationTaskService {
	return &generationTaskServiceImpl{taskRepo: taskRepo, now: time.Now}
}

type generationTaskServiceImpl struct {
	taskRepo repository.GenerationTaskRepository
	now      func() time.Time
}

func (g generationTaskServiceImpl) CreateTask(ctx context.Context, req view.GenerationReq) (*view.GenerationTask, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return nil, requiredParamsMissing("topic")
	}
	ent := &entity.GenerationTask{
		Id:        uuid.New().String(),
		UserId:    secctx.GetUserId(ctx),
		Request:   req,
		Status:    view.TaskStatusNotStarted,
		CreatedAt: g.now(),
	}
	if err := g.taskRepo.CreateTask(ctx, ent); err != nil {
		return nil, fmt.Errorf("failed to create generation task: %w", err)
	}
	log.Infof("Generation task %s for '%s' created by user %s", ent.Id, req.Topic, ent.UserId)
	res := entity.MakeGenerationTaskView(*ent)
	return &res, nil
}

// GetTask answers 404 for tasks of other users.
func (g generationTaskServiceImpl) GetTask(ctx context.Context, taskId string) (*view.GenerationTask, error) {
	ent, err := g.taskRepo.GetTask(ctx, taskId)
	if err != nil {
		return nil, err
	}
	if ent == nil || ent.UserId != secctx.GetUserId(ctx) {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.EntityNotFound,
			Message: exception.EntityNotFoundMsg,
			Params:  map[string]interface{}{"entity": "Generation task", "id": taskId},
		}
	}
	res := entity.MakeGenerationTaskView(*ent)
	return &res, nil
}
