package view

import "time"

type Notes struct {
	Notes      map[string]string    `json:"notes"`
	Timestamps map[string]time.Time `json:"timestamps"`
}

type SaveNoteReq struct {
	VideoId   string     `json:"videoId"`
	Notes     string     `json:"notes"`
	Timestamp *time.Time `json:"timestamp"`
}

type Note struct {
	RoadmapId string    `json:"roadmapId"`
	VideoId   string    `json:"videoId"`
	Notes     string    `json:"notes"`
	Timestamp time.Time `json:"timestamp"`
}
