package entity

import (
	"time"

	"github.com/Netcracker/qubership-roadmap-service/view"
)

type CustomRoadmap struct {
	tableName struct{} `pg:"custom_roadmap"`

	Id          string             `pg:"id,pk,type:varchar"`
	UserId      string             `pg:"user_id,type:varchar,notnull"`
	Name        string             `pg:"name,type:varchar,notnull"`
	Description string             `pg:"description,type:varchar,notnull,use_zero"`
	IsCustom    bool               `pg:"is_custom,type:boolean,notnull,use_zero"`
	Topics      []view.CustomTopic `pg:"topics,type:jsonb,notnull"`
	ClientId    string             `pg:"client_id,type:varchar,notnull"`
	CreatedAt   time.Time          `pg:"created_at,type:timestamp without time zone,notnull"`
	UpdatedAt   time.Time          `pg:"updated_at,type:timestamp without time zone,notnull"`
}

func MakeCustomRoadmapView(ent CustomRoadmap) view.CustomRoadmap {
	topics := ent.Topics
	if topics == nil {
		topics = make([]view.CustomTopic, 0)
	}
	return view.CustomRoadmap{
		Id:          ent.Id,
		UserId:      ent.UserId,
		Name:        ent.Name,
		Description: ent.Description,
		IsCustom:    ent.IsCustom,
		Topics:      topics,
		ClientId:    ent.ClientId,
		CreatedAt:   ent.CreatedAt,
		UpdatedAt:   ent.UpdatedAt,
	}
}
