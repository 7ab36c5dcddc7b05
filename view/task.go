package view

import "time"

type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusSuccess    TaskStatus = "success"
	TaskStatusError      TaskStatus = "error"
)

func (s TaskStatus) IsFinal() bool {
	return s == TaskStatusSuccess || s == TaskStatusError
}

type GenerationTask struct {
	Id        string        `json:"id"`
	Status    TaskStatus    `json:"status"`
	Details   string        `json:"details,omitempty"`
	RoadmapId string        `json:"roadmapId,omitempty"`
	Request   GenerationReq `json:"request"`
	CreatedAt time.Time     `json:"createdAt"`
}
