package entity

import (
	"time"

	"github.com/Netcracker/qubership-roadmap-service/view"
)

type Note struct {
	tableName struct{} `pg:"roadmap_note"`

	RoadmapId string    `pg:"roadmap_id,pk,type:varchar"`
	UserId    string    `pg:"user_id,pk,type:varchar"`
	VideoId   string    `pg:"video_id,pk,type:varchar"`
	Notes     string    `pg:"notes,type:text,notnull,use_zero"`
	Timestamp time.Time `pg:"timestamp,type:timestamp without time zone,notnull"`
}

func MakeNoteView(ent Note) view.Note {
	return view.Note{
		RoadmapId: ent.RoadmapId,
		VideoId:   ent.VideoId,
		Notes:     ent.Notes,
		Timestamp: ent.Timestamp,
	}
}
