package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/Netcracker/qubership-roadmap-service/repository"
	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/utils"
	"github.com/Netcracker/qubership-roadmap-service/view"
	log "github.com/sirupsen/logrus"
)

const taskKeepaliveInterval = 5 * time.Second

type GenerationTaskProcessor interface {
	Start()
}

func NewGenerationTaskProcessor(taskRepo repository.GenerationTaskRepository, generationService GenerationService,
	roadmapService RoadmapService, eventListener GenerationEventListener, executorId string) GenerationTaskProcessor {
	return &generationTaskProcessorImpl{
		taskRepo:          taskRepo,
		generationService: generationService,
		roadmapService:    roadmapService,
		eventListener:     eventListener,
		executorId:        executorId,
		keepaliveInterval: taskKeepaliveInterval,
	}
}

type generationTaskProcessorImpl struct {
	taskRepo          repository.GenerationTaskRepository
	generationService GenerationService
	roadmapService    RoadmapService
	eventListener     GenerationEventListener

	executorId        string
	keepaliveInterval time.Duration
}

func (g generationTaskProcessorImpl) Start() {
	utils.SafeAsync(func() {
		ticker := time.NewTicker(time.Second * 5)

		running := atomic.Bool{}

		for range ticker.C {
			if running.Load() {
				log.Tracef("generationTaskProcessorImpl: ticker skipped, running")
				continue
			}

			running.Store(true)
			utils.SafeAsync(func() {
				defer running.Store(false)
				for g.processTask() {
					log.Tracef("generationTaskProcessorImpl: keep on running")
				}
			})
		}
	})
}

func (g generationTaskProcessorImpl) processTask() bool {
	task, err := g.taskRepo.FindFreeTask(context.Background(), g.executorId)
	if err != nil {
		log.Errorf("Error finding free generation task: %s", err)
		return false
	}
	if task == nil {
		return false
	}
	g.processGenerationTask(secctx.MakeSystemContext(context.Background(), task.UserId), *task)
	return true
}

func (g generationTaskProcessorImpl) handleError(ctx context.Context, taskId string, err error) {
	log.Infof("Generation task %s failed with error: %s", taskId, err)
	setErr := g.taskRepo.SetTaskStatus(ctx, taskId, view.TaskStatusError, err.Error(), g.executorId)
	if setErr != nil {
		log.Errorf("Error updating status of generation task %s: %s", taskId, setErr)
	}
}

// startKeepalive refreshes last_active so that other executors do not take the task over.
// The returned func stops the keepalive and waits for it.
func (g generationTaskProcessorImpl) startKeepalive(ctx context.Context, taskId string) func() {
	stopC := make(chan struct{})
	wg := sync.WaitGroup{}
	wg.Add(1)
	utils.SafeAsync(func() {
		defer wg.Done()
		t := time.NewTicker(g.keepaliveInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopC:
				return
			case <-t.C:
				if err := g.taskRepo.RefreshTaskActivity(ctx, taskId, g.executorId); err != nil {
					log.Errorf("Error refreshing generation task %s: %s", taskId, err)
				}
			}
		}
	})
	once := sync.Once{}
	return func() {
		once.Do(func() {
			close(stopC)
			wg.Wait()
		})
	}
}

func (g generationTaskProcessorImpl) processGenerationTask(ctx context.Context, task entity.GenerationTask) {
	stopKeepalive := g.startKeepalive(ctx, task.Id)
	defer stopKeepalive()

	start := time.Now()
	log.Infof("Processing generation task %s: topic '%s'", task.Id, task.Request.Topic)

	generated, err := g.generationService.GenerateRoadmap(ctx, task.Request)
	if err != nil {
		stopKeepalive()
		g.handleError(ctx, task.Id, err)
		return
	}

	roadmap, err := g.roadmapService.CreateGeneratedRoadmap(ctx, task.UserId, *generated, task.Request)
	stopKeepalive()
	if err != nil {
		g.handleError(ctx, task.Id, fmt.Errorf("failed to save generated roadmap: %w", err))
		return
	}

	if err := g.taskRepo.SetTaskSuccess(ctx, task.Id, roadmap.Id); err != nil {
		log.Errorf("Error updating status of generation task %s: %s", task.Id, err)
		return
	}
	log.Infof("Generation task id = %s, Processing time = %dms", task.Id, time.Since(start).Milliseconds())

	err = g.eventListener.PublishRoadmapGenerated(view.RoadmapGeneratedEvent{
		UserId:    task.UserId,
		TaskId:    task.Id,
		RoadmapId: roadmap.Id,
	})
	if err != nil {
		log.Warnf("Failed to publish %s event for task %s: %s", RoadmapGeneratedTopicName, task.Id, err)
	}
}
