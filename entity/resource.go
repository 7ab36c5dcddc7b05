package entity

import (
	"time"

	"github.com/Netcracker/qubership-roadmap-service/view"
)

type LearningResource struct {
	tableName struct{} `pg:"learning_resource"`

	Id           string                    `pg:"id,pk,type:varchar"`
	Url          string                    `pg:"url,type:varchar,notnull"`
	Title        string                    `pg:"title,type:varchar,notnull"`
	Description  string                    `pg:"description,type:varchar,notnull,use_zero"`
	Type         view.LearningResourceType `pg:"type,type:varchar,notnull"`
	Technologies []string                  `pg:"technologies,type:varchar[],array,notnull"`
	Technology   string                    `pg:"technology,type:varchar,notnull,use_zero"`
	IsShared     bool                      `pg:"is_shared,type:boolean,notnull,use_zero"`
	Metadata     *view.ResourceMetadata    `pg:"metadata,type:jsonb"`
	Videos       []view.ResourceVideo      `pg:"videos,type:jsonb,notnull"`
	ExpiresAt    time.Time                 `pg:"expires_at,type:timestamp without time zone,notnull"`
	CreatedAt    time.Time                 `pg:"created_at,type:timestamp without time zone,notnull"`
	UpdatedAt    time.Time                 `pg:"updated_at,type:timestamp without time zone,notnull"`
}

func MakeLearningResourceView(ent LearningResource) view.LearningResource {
	return view.LearningResource{
		Id:           ent.Id,
		Url:          ent.Url,
		Title:        ent.Title,
		Description:  ent.Description,
		Type:         ent.Type,
		Technologies: ent.Technologies,
		Technology:   ent.Technology,
		IsShared:     ent.IsShared,
		Metadata:     ent.Metadata,
		Videos:       ent.Videos,
		ExpiresAt:    ent.ExpiresAt,
		CreatedAt:    ent.CreatedAt,
		UpdatedAt:    ent.UpdatedAt,
	}
}

func MakeLearningResourceViews(ents []LearningResource) []view.LearningResource {
	result := make([]view.LearningResource, 0, len(ents))
	for _, ent := range ents {
		result = append(result, MakeLearningResourceView(ent))
	}
	return result
}
