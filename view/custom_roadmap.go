package view

import "time"

type CustomTopic struct {
	Id    string `json:"id"`
	Title string `json:"title"`
}

type CustomRoadmap struct {
	Id          string        `json:"id"`
	UserId      string        `json:"userId"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	IsCustom    bool          `json:"isCustom"`
	Topics      []CustomTopic `json:"topics"`
	ClientId    string        `json:"clientId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type CustomRoadmapReq struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	IsCustom    *bool         `json:"isCustom"`
	Topics      []CustomTopic `json:"topics"`
	ClientId    string        `json:"clientId"`
}

type CustomRoadmapUpdateReq struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Topics      *[]CustomTopic `json:"topics"`
}
