package entity

import (
	"time"

	"github.com/Netcracker/qubership-roadmap-service/view"
)

type Roadmap struct {
	tableName struct{} `pg:"roadmap"`

	Id                   string               `pg:"id,pk,type:varchar"`
	UserId               string               `pg:"user_id,type:varchar,notnull"`
	Title                string               `pg:"title,type:varchar,notnull"`
	Description          string               `pg:"description,type:varchar,notnull"`
	Category             string               `pg:"category,type:varchar,notnull"`
	Difficulty           view.Difficulty      `pg:"difficulty,type:varchar,notnull"`
	IsPublic             bool                 `pg:"is_public,type:boolean,notnull,use_zero"`
	IsCustom             bool                 `pg:"is_custom,type:boolean,notnull,use_zero"`
	CompletionPercentage int                  `pg:"completion_percentage,type:integer,notnull,use_zero"`
	Topics               []view.Topic         `pg:"topics,type:jsonb,notnull"`
	AdvancedTopics       []view.AdvancedTopic `pg:"advanced_topics,type:jsonb,notnull"`
	Projects             []view.Project       `pg:"projects,type:jsonb,notnull"`
	CreatedAt            time.Time            `pg:"created_at,type:timestamp without time zone,notnull"`
	UpdatedAt            time.Time            `pg:"updated_at,type:timestamp without time zone,notnull"`
}

func MakeRoadmapView(ent Roadmap) view.Roadmap {
	r := view.Roadmap{
		Id:                   ent.Id,
		UserId:               ent.UserId,
		Title:                ent.Title,
		Description:          ent.Description,
		Category:             ent.Category,
		Difficulty:           ent.Difficulty,
		IsPublic:             ent.IsPublic,
		IsCustom:             ent.IsCustom,
		CompletionPercentage: ent.CompletionPercentage,
		Topics:               ent.Topics,
		AdvancedTopics:       ent.AdvancedTopics,
		Projects:             ent.Projects,
		CreatedAt:            ent.CreatedAt,
		UpdatedAt:            ent.UpdatedAt,
	}
	if r.Topics == nil {
		r.Topics = make([]view.Topic, 0)
	}
	for i := range r.Topics {
		if r.Topics[i].Resources == nil {
			r.Topics[i].Resources = make([]view.TopicResource, 0)
		}
		if r.Topics[i].CompletedResourceIds == nil {
			r.Topics[i].CompletedResourceIds = make([]string, 0)
		}
	}
	if r.AdvancedTopics == nil {
		r.AdvancedTopics = make([]view.AdvancedTopic, 0)
	}
	if r.Projects == nil {
		r.Projects = make([]view.Project, 0)
	}
	return r
}
