package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/db"
	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/go-pg/pg/v10"
)

type GenerationTaskRepository interface {
	CreateTask(ctx context.Context, ent *entity.GenerationTask) error
	GetTask(ctx context.Context, id string) (*entity.GenerationTask, error)
	FindFreeTask(ctx context.Context, executorId string) (*entity.GenerationTask, error)
	SetTaskStatus(ctx context.Context, id string, status view.TaskStatus, details string, executorId string) error
	SetTaskSuccess(ctx context.Context, id string, roadmapId string) error
	RefreshTaskActivity(ctx context.Context, id string, executorId string) error
	DeleteFinishedBefore(ctx context.Context, before time.Time) (int, error)
}

func NewGenerationTaskRepository(cp db.ConnectionProvider) GenerationTaskRepository {
	return &generationTaskRepositoryImpl{cp: cp}
}

type generationTaskRepositoryImpl struct {
	cp db.ConnectionProvider
}

const taskKeepaliveTimeoutSec = 60

const maxTaskRestarts = 2

var queryTaskToProcess = fmt.Sprintf("select * from generation_task t where "+
	"(t.status='%s' or (t.status='%s' and t.last_active < (now() - interval '%d seconds'))) "+
	"order by t.created_at ASC limit 1 for no key update skip locked", view.TaskStatusNotStarted, view.TaskStatusProcessing, taskKeepaliveTimeoutSec)

func (g generationTaskRepositoryImpl) CreateTask(ctx context.Context, ent *entity.GenerationTask) error {
	_, err := g.cp.GetConnection().ModelContext(ctx, ent).Insert()
	return err
}

func (g generationTaskRepositoryImpl) GetTask(ctx context.Context, id string) (*entity.GenerationTask, error) {
	ent := new(entity.GenerationTask)
	err := g.cp.GetConnection().ModelContext(ctx, ent).Where("id = ?", id).Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return ent, nil
}

func (g generationTaskRepositoryImpl) FindFreeTask(ctx context.Context, executorId string) (*entity.GenerationTask, error) {
	var result *entity.GenerationTask
	var err error

	for {
		taskFailed := false
		result = nil
		err = g.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
			var ents []entity.GenerationTask

			_, err := tx.Query(&ents, queryTaskToProcess)
			if err != nil {
				if err == pg.ErrNoRows {
					return nil
				}
				return fmt.Errorf("failed to find free generation task: %w", err)
			}
			if len(ents) == 0 {
				return nil
			}
			result = &ents[0]

			if result.RestartCount >= maxTaskRestarts {
				_, err := tx.Model(result).
					Where("id = ?", result.Id).
					Set("status = ?", view.TaskStatusError).
					Set("details = ?", fmt.Sprintf("Restart count exceeded limit. Details: %v", result.Details)).
					Set("last_active = now()").
					Update()
				if err != nil {
					return err
				}
				taskFailed = true
				return nil
			}

			if result.Status != view.TaskStatusNotStarted {
				result.RestartCount += 1
			}
			result.Status = view.TaskStatusProcessing
			result.ExecutorId = executorId

			_, err = tx.Model(result).
				Set("status = ?status").
				Set("executor_id = ?executor_id").
				Set("restart_count = ?restart_count").
				Set("last_active = now()").
				Where("id = ?", result.Id).
				Update()
			if err != nil {
				return fmt.Errorf("unable to update generation task status during takeTask: %w", err)
			}
			return nil
		})
		if taskFailed {
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (g generationTaskRepositoryImpl) SetTaskStatus(ctx context.Context, id string, status view.TaskStatus, details string, executorId string) error {
	_, err := g.cp.GetConnection().ModelContext(ctx, (*entity.GenerationTask)(nil)).
		Set("status = ?", status).
		Set("details = ?", details).
		Set("last_active = now()").
		Where("id = ?", id).
		Where("executor_id = ?", executorId).
		Update()
	return err
}

func (g generationTaskRepositoryImpl) SetTaskSuccess(ctx context.Context, id string, roadmapId string) error {
	_, err := g.cp.GetConnection().ModelContext(ctx, (*entity.GenerationTask)(nil)).
		Set("status = ?", view.TaskStatusSuccess).
		Set("roadmap_id = ?", roadmapId).
		Set("details = ''").
		Set("last_active = now()").
		Where("id = ?", id).
		Update()
	return err
}

// RefreshTaskActivity only touches tasks still processed by executorId.
func (g generationTaskRepositoryImpl) RefreshTaskActivity(ctx context.Context, id string, executorId string) error {
	_, err := g.cp.GetConnection().ModelContext(ctx, (*entity.GenerationTask)(nil)).
		Set("last_active = now()").
		Where("id = ?", id).
		Where("status = ?", view.TaskStatusProcessing).
		Where("executor_id = ?", executorId).
		Update()
	return err
}

func (g generationTaskRepositoryImpl) DeleteFinishedBefore(ctx context.Context, before time.Time) (int, error) {
	res, err := g.cp.GetConnection().ModelContext(ctx, (*entity.GenerationTask)(nil)).
		Where("status IN (?)", pg.In([]view.TaskStatus{view.TaskStatusSuccess, view.TaskStatusError})).
		Where("created_at < ?", before).
		Delete()
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}
