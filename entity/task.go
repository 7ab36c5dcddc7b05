package entity

import (
	"time"

	"github.com/Netcracker/qubership-roadmap-service/view"
)

type GenerationTask struct {
	tableName struct{} `pg:"generation_task"`

	Id           string             `pg:"id,pk,type:varchar"`
	UserId       string             `pg:"user_id,type:varchar,notnull"`
	Request      view.GenerationReq `pg:"request,type:jsonb,notnull"`
	Status       view.TaskStatus    `pg:"status,type:varchar,notnull"`
	Details      string             `pg:"details,type:varchar,use_zero"`
	RoadmapId    string             `pg:"roadmap_id,type:varchar"`
	ExecutorId   string             `pg:"executor_id,type:varchar"`
	CreatedAt    time.Time          `pg:"created_at,type:timestamp without time zone,notnull"`
	LastActive   *time.Time         `pg:"last_active,type:timestamp without time zone"`
	RestartCount int                `pg:"restart_count,type:integer,notnull,use_zero"`
}

func MakeGenerationTaskView(ent GenerationTask) view.GenerationTask {
	return view.GenerationTask{
		Id:        ent.Id,
		Status:    ent.Status,
		Details:   ent.Details,
		RoadmapId: ent.RoadmapId,
		Request:   ent.Request,
		CreatedAt: ent.CreatedAt,
	}
}
